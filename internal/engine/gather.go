// internal/engine/gather.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Quorum policy errors. These are the only failures that abort a
// deliberation before reduction begins.
var (
	ErrNoResponders     = errors.New("no council members provided responses")
	ErrAllMembersFailed = errors.New("all council members failed to respond")
	ErrQuorumLost       = errors.New("too many council members failed")
)

const memberErrorText = "Error: Unable to get response from this council member."

// gatherResponses asks every non-silent member the question concurrently.
// A failed completion becomes an error-flagged response; it never aborts
// the rest of the fan-out. The graduated failure policy:
// zero responses -> ErrNoResponders, all errored -> ErrAllMembersFailed,
// more than half errored -> ErrQuorumLost, otherwise proceed (with a
// degraded-quorum warning when any errors occurred).
func (e *Engine) gatherResponses(ctx context.Context, question string) ([]Response, error) {
	active := e.registry.Active()
	if len(active) == 0 {
		return nil, ErrNoResponders
	}

	log.Printf("[engine] gathering responses from %d council members", len(active))

	// Each goroutine writes only its own slot; member objects stay untouched.
	responses := make([]Response, len(active))

	var wg sync.WaitGroup
	for i, member := range active {
		wg.Add(1)
		go func() {
			defer wg.Done()

			text, err := e.client.Complete(ctx, member.Model, e.memberPrompt(member, question), e.cfg.Temperature, responseTokens)
			resp := Response{
				ID:          uuid.NewString(),
				Personality: member.Personality,
				Model:       member.Model,
				Text:        text,
				IsVoter:     member.IsVoter,
				IsSilent:    member.IsSilent,
			}
			if err != nil {
				log.Printf("[engine] response from %s failed: %v", member.DisplayName(), err)
				resp.Text = fmt.Sprintf("%s (%v)", memberErrorText, err)
				resp.HasError = true
			}
			responses[i] = resp
		}()
	}
	wg.Wait()

	errorCount := 0
	for _, resp := range responses {
		if resp.HasError {
			errorCount++
		}
	}

	total := len(responses)
	switch {
	case errorCount == total:
		return nil, fmt.Errorf("%w: all %d failed, first error: %s", ErrAllMembersFailed, total, responses[0].Text)
	case errorCount*2 > total:
		return nil, fmt.Errorf("%w (%d/%d)", ErrQuorumLost, errorCount, total)
	case errorCount > 0:
		log.Printf("[engine] some council members failed (%d/%d), continuing with available responses", errorCount, total)
	}

	return responses, nil
}
