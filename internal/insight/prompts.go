package insight

import (
	"fmt"
	"strings"

	"github.com/ecaldwell/cipher/internal/transaction"
)

// PlanDelimiter separates the human-readable plan from the machine-readable
// JSON block in the model's savings-plan response.
const PlanDelimiter = "JSON_START:"

// BuildRiskPrompt constructs the financial-abuse analysis prompt with the
// transaction history embedded as structured text.
func BuildRiskPrompt(txs []transaction.Transaction) string {
	var b strings.Builder

	b.WriteString("Analyze a transaction history for signs of financial abuse.\n")
	b.WriteString("Look for common red flags, such as unusual gaps in spending, signs of an allowance ")
	b.WriteString("and microtransactions, deliberate overdrafting, and any other suspicious activity.\n\n")
	b.WriteString("Transaction history (date, amount, description):\n")

	for _, tx := range txs {
		fmt.Fprintf(&b, "%s  %.2f  %s\n", tx.Date.Format("2006-01-02"), tx.Amount, tx.Description)
	}

	b.WriteString("\nList every red flag as a bullet point, give an explanation of why it may point to ")
	b.WriteString("financial abuse, and rate each as Low, Medium, or High in terms of how likely it is ")
	b.WriteString("that the activity is associated with financial abuse.\n")
	b.WriteString("If there are no red flags, say that as well. ")
	b.WriteString("Your response should be well-organized and easy to follow.\n")

	return b.String()
}

// BuildPlanPrompt constructs the savings/exit-plan prompt. The model is
// asked for a human-readable section followed by a JSON block after the
// fixed delimiter so the app can offer to materialize the plan.
func BuildPlanPrompt(location string, dependents int) string {
	var b strings.Builder

	b.WriteString("You are helping someone quietly build financial independence and prepare a safe exit plan.\n\n")
	fmt.Fprintf(&b, "Their situation: they live in %s and have %d dependent(s).\n\n", location, dependents)
	b.WriteString("First, write a practical, compassionate savings and exit plan in plain language: ")
	b.WriteString("where to keep money so it is hard to discover, how much to set aside, and concrete next steps.\n\n")
	b.WriteString("Then, on a new line, output exactly the delimiter line:\n")
	b.WriteString(PlanDelimiter + "\n")
	b.WriteString("followed by a JSON object of this shape and nothing else:\n")
	b.WriteString(`{"categories":[{"name":"...","location":"...","goal_amount":0}]}` + "\n\n")
	b.WriteString("Rules for the JSON block:\n")
	b.WriteString("- Return ONLY valid raw JSON after the delimiter.\n")
	b.WriteString("- Do NOT wrap the JSON in code fences.\n")
	b.WriteString("- goal_amount must be a number in dollars.\n")

	return b.String()
}
