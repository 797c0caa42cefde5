package insight

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecaldwell/cipher/internal/transaction"
)

// mockModel records prompts and replies from a canned script.
type mockModel struct {
	GenerateTextFunc func(ctx context.Context, prompt string) (string, error)

	mu      sync.Mutex
	prompts []string
}

func (m *mockModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	return m.GenerateTextFunc(ctx, prompt)
}

func sampleTransactions() []transaction.Transaction {
	return []transaction.Transaction{
		{Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), Description: "Grocery Store", Amount: -45.32},
		{Date: time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC), Description: "Gas Station", Amount: -52.10},
	}
}

func TestGenerator_Analyze(t *testing.T) {
	model := &mockModel{
		GenerateTextFunc: func(ctx context.Context, prompt string) (string, error) {
			if strings.Contains(prompt, "financial abuse") {
				return "risk: low", nil
			}
			return "save quietly\nJSON_START:\n{\"categories\":[{\"name\":\"Cash\",\"location\":\"envelope\",\"goal_amount\":500}]}", nil
		},
	}

	g := NewGenerator(model, 0, false, zerolog.Nop())

	result, err := g.Analyze(context.Background(), Request{
		Transactions: sampleTransactions(),
		Location:     "Austin, TX",
		Dependents:   2,
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if result.RiskText != "risk: low" {
		t.Errorf("RiskText = %q", result.RiskText)
	}
	if result.AdviceText != "save quietly" {
		t.Errorf("AdviceText = %q", result.AdviceText)
	}
	if result.Plan == nil || len(result.Plan.Categories) != 1 {
		t.Fatalf("Plan = %+v, want one category", result.Plan)
	}
	if len(model.prompts) != 2 {
		t.Errorf("model called %d times, want 2", len(model.prompts))
	}
}

func TestGenerator_PromptsEmbedInputs(t *testing.T) {
	model := &mockModel{
		GenerateTextFunc: func(ctx context.Context, prompt string) (string, error) {
			return "ok\nJSON_START:\n{\"categories\":[]}", nil
		},
	}

	g := NewGenerator(model, 0, false, zerolog.Nop())

	_, err := g.Analyze(context.Background(), Request{
		Transactions: sampleTransactions(),
		Location:     "Austin, TX",
		Dependents:   2,
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if !strings.Contains(model.prompts[0], "Grocery Store") {
		t.Error("risk prompt does not embed transaction history")
	}
	if !strings.Contains(model.prompts[1], "Austin, TX") || !strings.Contains(model.prompts[1], "2 dependent") {
		t.Error("plan prompt does not embed location and dependents")
	}
	if !strings.Contains(model.prompts[1], PlanDelimiter) {
		t.Error("plan prompt does not name the delimiter")
	}
}

func TestGenerator_ModelFailureSurfaces(t *testing.T) {
	model := &mockModel{
		GenerateTextFunc: func(ctx context.Context, prompt string) (string, error) {
			return "", errors.New("quota exceeded")
		},
	}

	g := NewGenerator(model, 0, false, zerolog.Nop())

	if _, err := g.Analyze(context.Background(), Request{}); err == nil {
		t.Error("Analyze() with failing model returned nil error")
	}
}

func TestGenerator_MalformedPlanSwallowed(t *testing.T) {
	model := &mockModel{
		GenerateTextFunc: func(ctx context.Context, prompt string) (string, error) {
			if strings.Contains(prompt, "financial abuse") {
				return "risk text", nil
			}
			return "still useful advice\nJSON_START:\n{broken", nil
		},
	}

	g := NewGenerator(model, 0, false, zerolog.Nop())

	result, err := g.Analyze(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if result.Plan != nil {
		t.Error("Plan should be nil for malformed JSON")
	}
	if result.AdviceText != "still useful advice" {
		t.Errorf("AdviceText = %q, want advice intact", result.AdviceText)
	}
}

func TestGenerator_Concurrent(t *testing.T) {
	model := &mockModel{
		GenerateTextFunc: func(ctx context.Context, prompt string) (string, error) {
			return "ok\nJSON_START:\n{\"categories\":[]}", nil
		},
	}

	g := NewGenerator(model, 0, true, zerolog.Nop())

	result, err := g.Analyze(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if result.RiskText == "" {
		t.Error("RiskText empty in concurrent mode")
	}
}

func TestGenerator_DelayRespectsContext(t *testing.T) {
	model := &mockModel{
		GenerateTextFunc: func(ctx context.Context, prompt string) (string, error) {
			return "ok", nil
		},
	}

	g := NewGenerator(model, time.Minute, false, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	if _, err := g.Analyze(ctx, Request{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Analyze() error = %v, want context.Canceled", err)
	}
}
