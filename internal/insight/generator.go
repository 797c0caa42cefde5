// Package insight produces the abuse-risk assessment and savings plan by
// prompting an external generative model and post-processing its output.
package insight

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecaldwell/cipher/internal/transaction"
)

// Request carries the inputs for one analysis run.
type Request struct {
	Transactions []transaction.Transaction
	Location     string
	Dependents   int
}

// Result is ephemeral: it is only persisted when the user explicitly
// materializes the plan into savings categories.
type Result struct {
	RiskText   string        `json:"risk_text"`
	AdviceText string        `json:"advice_text"`
	Plan       *PlanDocument `json:"plan,omitempty"`
}

// Generator runs the two model calls and parses the responses.
type Generator struct {
	model      Model
	delay      time.Duration
	concurrent bool
	log        zerolog.Logger
}

// NewGenerator builds a generator. delay is the pause between the two
// sequential calls, there to stay under free-tier rate limits; it is ignored
// when concurrent is set.
func NewGenerator(model Model, delay time.Duration, concurrent bool, log zerolog.Logger) *Generator {
	return &Generator{
		model:      model,
		delay:      delay,
		concurrent: concurrent,
		log:        log,
	}
}

// Analyze runs the risk call and the plan call. A failure on either call is
// returned for the caller to surface inline; a malformed JSON tail in the
// plan response is logged and swallowed, leaving Plan nil and the advice
// text intact.
func (g *Generator) Analyze(ctx context.Context, req Request) (*Result, error) {
	riskPrompt := BuildRiskPrompt(req.Transactions)
	planPrompt := BuildPlanPrompt(req.Location, req.Dependents)

	var riskText, planText string
	var err error

	if g.concurrent {
		riskText, planText, err = g.generateConcurrent(ctx, riskPrompt, planPrompt)
	} else {
		riskText, planText, err = g.generateSequential(ctx, riskPrompt, planPrompt)
	}
	if err != nil {
		return nil, err
	}

	result := &Result{RiskText: riskText}

	advice, plan, parseErr := ParsePlanResponse(planText)
	if parseErr != nil {
		g.log.Warn().Err(parseErr).Msg("Plan JSON block unusable, keeping advice text only")
	}
	result.AdviceText = advice
	result.Plan = plan

	return result, nil
}

// generateSequential issues the calls one after the other with a fixed
// inter-call delay.
func (g *Generator) generateSequential(ctx context.Context, riskPrompt, planPrompt string) (string, string, error) {
	riskText, err := g.model.GenerateText(ctx, riskPrompt)
	if err != nil {
		return "", "", fmt.Errorf("risk analysis call: %w", err)
	}

	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return "", "", ctx.Err()
		}
	}

	planText, err := g.model.GenerateText(ctx, planPrompt)
	if err != nil {
		return "", "", fmt.Errorf("savings plan call: %w", err)
	}

	return riskText, planText, nil
}

// generateConcurrent issues both calls at once; they have no ordering
// dependency on each other.
func (g *Generator) generateConcurrent(ctx context.Context, riskPrompt, planPrompt string) (string, string, error) {
	var wg sync.WaitGroup
	var riskText, planText string
	var riskErr, planErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		riskText, riskErr = g.model.GenerateText(ctx, riskPrompt)
	}()
	go func() {
		defer wg.Done()
		planText, planErr = g.model.GenerateText(ctx, planPrompt)
	}()
	wg.Wait()

	if riskErr != nil {
		return "", "", fmt.Errorf("risk analysis call: %w", riskErr)
	}
	if planErr != nil {
		return "", "", fmt.Errorf("savings plan call: %w", planErr)
	}

	return riskText, planText, nil
}
