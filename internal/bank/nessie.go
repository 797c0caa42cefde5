// Package bank is a client for the Nessie mock banking API, which serves
// the customer transaction history that analysis runs on.
package bank

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/ecaldwell/cipher/internal/transaction"
)

// DefaultBaseURL is the public Nessie endpoint.
const DefaultBaseURL = "http://api.nessieisreal.com"

// Client calls the Nessie REST API. The API key is passed as a query
// parameter on every request, which is how Nessie authenticates.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Customer is a Nessie customer record.
type Customer struct {
	ID        string `json:"_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Account is a Nessie account record.
type Account struct {
	ID       string  `json:"_id"`
	Nickname string  `json:"nickname"`
	Balance  float64 `json:"balance"`
}

// Purchase is money out of an account.
type Purchase struct {
	Date        string  `json:"purchase_date"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// Deposit is money into an account.
type Deposit struct {
	Date        string  `json:"transaction_date"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// GetCustomer returns the customer record for an id.
func (c *Client) GetCustomer(ctx context.Context, customerID string) (*Customer, error) {
	var cust Customer
	if err := c.get(ctx, "/customers/"+url.PathEscape(customerID), &cust); err != nil {
		return nil, fmt.Errorf("GetCustomer: %w", err)
	}
	return &cust, nil
}

// ListAccounts returns all accounts for a customer.
func (c *Client) ListAccounts(ctx context.Context, customerID string) ([]Account, error) {
	var accounts []Account
	if err := c.get(ctx, "/customers/"+url.PathEscape(customerID)+"/accounts", &accounts); err != nil {
		return nil, fmt.Errorf("ListAccounts: %w", err)
	}
	return accounts, nil
}

// ListPurchases returns all purchases for an account.
func (c *Client) ListPurchases(ctx context.Context, accountID string) ([]Purchase, error) {
	var purchases []Purchase
	if err := c.get(ctx, "/accounts/"+url.PathEscape(accountID)+"/purchases", &purchases); err != nil {
		return nil, fmt.Errorf("ListPurchases: %w", err)
	}
	return purchases, nil
}

// ListDeposits returns all deposits for an account.
func (c *Client) ListDeposits(ctx context.Context, accountID string) ([]Deposit, error) {
	var deposits []Deposit
	if err := c.get(ctx, "/accounts/"+url.PathEscape(accountID)+"/deposits", &deposits); err != nil {
		return nil, fmt.Errorf("ListDeposits: %w", err)
	}
	return deposits, nil
}

// FetchTransactions merges purchases (negative) and deposits (positive)
// across all of a customer's accounts into a date-sorted history.
func (c *Client) FetchTransactions(ctx context.Context, customerID string) ([]transaction.Transaction, error) {
	accounts, err := c.ListAccounts(ctx, customerID)
	if err != nil {
		return nil, err
	}

	var txs []transaction.Transaction

	for _, acct := range accounts {
		purchases, err := c.ListPurchases(ctx, acct.ID)
		if err != nil {
			return nil, err
		}
		for _, p := range purchases {
			date, ok := parseNessieDate(p.Date)
			if !ok {
				continue
			}
			txs = append(txs, transaction.Transaction{
				Date:        date,
				Description: p.Description,
				Amount:      -p.Amount,
			})
		}

		deposits, err := c.ListDeposits(ctx, acct.ID)
		if err != nil {
			return nil, err
		}
		for _, d := range deposits {
			date, ok := parseNessieDate(d.Date)
			if !ok {
				continue
			}
			txs = append(txs, transaction.Transaction{
				Date:        date,
				Description: d.Description,
				Amount:      d.Amount,
			})
		}
	}

	sort.Slice(txs, func(i, j int) bool { return txs[i].Date.Before(txs[j].Date) })

	return txs, nil
}

func (c *Client) get(ctx context.Context, path string, v interface{}) error {
	u := fmt.Sprintf("%s%s?key=%s", c.baseURL, path, url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func parseNessieDate(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
