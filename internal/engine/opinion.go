// internal/engine/opinion.go
package engine

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"primeminister/internal/council"
)

// conductOpinionRounds runs the advisor-mode critique pipeline.
//
// Round 1: every non-silent member critiques every initial response they did
// not author; the full cross-product runs concurrently and failures become
// error-flagged opinions. Round 2: every response that attracted at least
// one successful opinion gets a rebuttal from its (non-silent) author,
// again concurrently. Responses with no usable opinions are skipped.
func (e *Engine) conductOpinionRounds(ctx context.Context, responses []Response, question string) ([]Opinion, []Rebuttal) {
	log.Printf("[engine] starting two-round opinion process")

	opinions := e.collectOpinions(ctx, responses, question)
	rebuttals := e.collectRebuttals(ctx, responses, opinions, question)

	log.Printf("[engine] opinion process completed: %d opinions, %d rebuttals", len(opinions), len(rebuttals))
	return opinions, rebuttals
}

type opinionPair struct {
	giver  council.Member
	target Response
}

func (e *Engine) collectOpinions(ctx context.Context, responses []Response, question string) []Opinion {
	// Fixed snapshot of the cross-product before dispatch.
	var pairs []opinionPair
	for _, member := range e.registry.Active() {
		for _, resp := range responses {
			if resp.Personality == member.Personality {
				continue // never opine on your own response
			}
			pairs = append(pairs, opinionPair{giver: member, target: resp})
		}
	}
	if len(pairs) == 0 {
		return nil
	}

	opinions := make([]Opinion, len(pairs))

	var wg sync.WaitGroup
	for i, pair := range pairs {
		wg.Add(1)
		go func() {
			defer wg.Done()

			op := Opinion{
				ID:               uuid.NewString(),
				Giver:            pair.giver.Personality,
				GiverModel:       pair.giver.Model,
				TargetResponseID: pair.target.ID,
				TargetMember:     pair.target.Personality,
			}

			text, err := e.client.Complete(ctx, pair.giver.Model, e.opinionPrompt(pair.giver, pair.target, question), e.cfg.Temperature, opinionTokens)
			if err != nil {
				log.Printf("[engine] opinion from %s failed: %v", pair.giver.DisplayName(), err)
				op.Text = fmt.Sprintf("Error: Unable to provide opinion. (%v)", err)
				op.HasError = true
			} else {
				op.Text = text
			}
			opinions[i] = op
		}()
	}
	wg.Wait()

	return opinions
}

type rebuttalTask struct {
	member   council.Member
	original Response
	opinions []Opinion
}

func (e *Engine) collectRebuttals(ctx context.Context, responses []Response, opinions []Opinion, question string) []Rebuttal {
	var tasks []rebuttalTask
	for _, resp := range responses {
		relevant := opinionsOn(opinions, resp.ID)
		if len(relevant) == 0 {
			continue // nothing to respond to
		}
		member, ok := e.registry.Find(resp.Personality)
		if !ok || member.IsSilent {
			continue
		}
		tasks = append(tasks, rebuttalTask{member: member, original: resp, opinions: relevant})
	}
	if len(tasks) == 0 {
		return nil
	}

	rebuttals := make([]Rebuttal, len(tasks))

	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func() {
			defer wg.Done()

			opinionIDs := make([]string, len(task.opinions))
			for j, op := range task.opinions {
				opinionIDs[j] = op.ID
			}

			reb := Rebuttal{
				ID:                 uuid.NewString(),
				Personality:        task.member.Personality,
				Model:              task.member.Model,
				OriginalResponseID: task.original.ID,
				OpinionIDs:         opinionIDs,
			}

			text, err := e.client.Complete(ctx, task.member.Model, e.rebuttalPrompt(task.member, task.original, task.opinions, question), e.cfg.Temperature, rebuttalTokens)
			if err != nil {
				log.Printf("[engine] rebuttal from %s failed: %v", task.member.DisplayName(), err)
				reb.Text = fmt.Sprintf("Error: Unable to respond to opinions. (%v)", err)
				reb.HasError = true
			} else {
				reb.Text = text
			}
			rebuttals[i] = reb
		}()
	}
	wg.Wait()

	return rebuttals
}
