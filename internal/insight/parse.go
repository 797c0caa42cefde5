package insight

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PlanDocument is the machine-readable tail of the savings-plan response.
type PlanDocument struct {
	Categories []PlanCategory `json:"categories"`
}

// PlanCategory is one suggested savings category from the model.
type PlanCategory struct {
	Name       string  `json:"name"`
	Location   string  `json:"location"`
	GoalAmount float64 `json:"goal_amount"`
}

// ParsePlanResponse splits a model response on the plan delimiter. The part
// before the delimiter is the advice text, shown verbatim. The trailing part
// has markdown code fences stripped and is parsed as JSON; when that fails
// the plan is nil and the error describes why, but the advice text is always
// returned intact.
func ParsePlanResponse(raw string) (string, *PlanDocument, error) {
	idx := strings.Index(raw, PlanDelimiter)
	if idx == -1 {
		return strings.TrimSpace(raw), nil, fmt.Errorf("parse plan: delimiter %q not found", PlanDelimiter)
	}

	advice := strings.TrimSpace(raw[:idx])
	tail := cleanModelJSON(raw[idx+len(PlanDelimiter):])

	var plan PlanDocument
	if err := json.Unmarshal([]byte(tail), &plan); err != nil {
		return advice, nil, fmt.Errorf("parse plan: unmarshal JSON: %w", err)
	}

	return advice, &plan, nil
}

// cleanModelJSON strips markdown fences and surrounding junk the model may
// emit despite instructions, keeping the outermost JSON object.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
