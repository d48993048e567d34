// internal/engine/synthesis.go
package engine

import (
	"context"
	"fmt"
	"log"
)

// councilDecision is the final reduction in council mode. A failed
// synthesis call is the one place a total-pipeline failure becomes
// user-facing text instead of an error.
func (e *Engine) councilDecision(ctx context.Context, responses []Response, tally *VoteTally, question string) string {
	log.Printf("[engine] Prime Minister making final decision")

	decision, err := e.client.Complete(ctx, e.cfg.Model, e.decisionPrompt(responses, tally, question), e.cfg.Temperature, decisionTokens)
	if err != nil {
		log.Printf("[engine] decision failed: %v", err)
		return fmt.Sprintf("Error: The Prime Minister was unable to make a decision. (%v)", err)
	}
	return decision
}

// advisorSynthesis reduces all three advisor rounds into one decision.
func (e *Engine) advisorSynthesis(ctx context.Context, responses []Response, opinions []Opinion, rebuttals []Rebuttal, question string) string {
	log.Printf("[engine] Prime Minister synthesizing three-round advisory discussion")

	decision, err := e.client.Complete(ctx, e.cfg.Model, e.advisorSynthesisPrompt(responses, opinions, rebuttals, question), e.cfg.Temperature, advisorSynthTokens)
	if err != nil {
		log.Printf("[engine] advisor synthesis failed: %v", err)
		return fmt.Sprintf("Error: The Prime Minister was unable to synthesize the advisory discussion. (%v)", err)
	}
	return decision
}

// legacySynthesis reduces initial responses only. Used when round 1
// produced no usable opinions.
func (e *Engine) legacySynthesis(ctx context.Context, responses []Response, question string) string {
	log.Printf("[engine] Prime Minister synthesizing advisor responses (single round)")

	decision, err := e.client.Complete(ctx, e.cfg.Model, e.legacySynthesisPrompt(responses, question), e.cfg.Temperature, legacySynthTokens)
	if err != nil {
		log.Printf("[engine] advisor synthesis failed: %v", err)
		return fmt.Sprintf("Error: The Prime Minister was unable to synthesize the responses. (%v)", err)
	}
	return decision
}
