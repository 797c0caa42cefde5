package insight

import "testing"

func TestParsePlanResponse(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantAdvice string
		wantPlan   bool
		wantCats   int
		wantErr    bool
	}{
		{
			name:       "fenced empty categories",
			raw:        "summary text\nJSON_START:\n```json\n{\"categories\":[]}\n```",
			wantAdvice: "summary text",
			wantPlan:   true,
			wantCats:   0,
		},
		{
			name:       "raw json with categories",
			raw:        "keep cash separate\nJSON_START:\n{\"categories\":[{\"name\":\"Cash\",\"location\":\"envelope\",\"goal_amount\":500}]}",
			wantAdvice: "keep cash separate",
			wantPlan:   true,
			wantCats:   1,
		},
		{
			name:       "malformed json keeps advice",
			raw:        "advice stays\nJSON_START:\n{not json at all",
			wantAdvice: "advice stays",
			wantPlan:   false,
			wantErr:    true,
		},
		{
			name:       "missing delimiter",
			raw:        "only human text here",
			wantAdvice: "only human text here",
			wantPlan:   false,
			wantErr:    true,
		},
		{
			name:       "junk around fenced json",
			raw:        "plan\nJSON_START:\nHere you go:\n```\n{\"categories\":[]}\n```\nGood luck!",
			wantAdvice: "plan",
			wantPlan:   true,
			wantCats:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			advice, plan, err := ParsePlanResponse(tt.raw)

			if advice != tt.wantAdvice {
				t.Errorf("advice = %q, want %q", advice, tt.wantAdvice)
			}
			if (plan != nil) != tt.wantPlan {
				t.Errorf("plan = %v, want present=%v", plan, tt.wantPlan)
			}
			if plan != nil && len(plan.Categories) != tt.wantCats {
				t.Errorf("got %d categories, want %d", len(plan.Categories), tt.wantCats)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParsePlanResponse_CategoryFields(t *testing.T) {
	raw := "text\nJSON_START:\n{\"categories\":[{\"name\":\"Gift Cards\",\"location\":\"drawer\",\"goal_amount\":150.5}]}"

	_, plan, err := ParsePlanResponse(raw)
	if err != nil {
		t.Fatalf("ParsePlanResponse() error = %v", err)
	}
	if plan == nil || len(plan.Categories) != 1 {
		t.Fatalf("plan = %+v, want one category", plan)
	}

	cat := plan.Categories[0]
	if cat.Name != "Gift Cards" || cat.Location != "drawer" || cat.GoalAmount != 150.5 {
		t.Errorf("category = %+v", cat)
	}
}
