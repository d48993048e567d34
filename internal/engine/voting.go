// internal/engine/voting.go
package engine

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ErrNoBallot means every gathered response was filtered out of the ballot.
// Unreachable after quorum gating in practice, kept as an explicit guard.
var ErrNoBallot = errors.New("no valid responses available for voting")

// conductVoting runs the blind ballot: every voting member independently
// evaluates the anonymized response set and picks one option. Votes are
// tallied by the chosen response's originating member. A voter whose own
// completion fails casts no vote; a malformed reply falls back to option 1.
func (e *Engine) conductVoting(ctx context.Context, responses []Response, question string) (*VoteTally, []Vote, error) {
	// Ballot snapshot: successful, non-silent responses in fixed index
	// order. "Option N" in prompts refers to this exact ordering.
	var ballot []Response
	for _, resp := range responses {
		if !resp.IsSilent && !resp.HasError {
			ballot = append(ballot, resp)
		}
	}
	if len(ballot) == 0 {
		return nil, nil, ErrNoBallot
	}

	voters := e.registry.Voters()
	log.Printf("[engine] conducting voting among %d council members", len(voters))

	results := make([]*Vote, len(voters))

	var wg sync.WaitGroup
	for i, voter := range voters {
		wg.Add(1)
		go func() {
			defer wg.Done()

			reply, err := e.client.Complete(ctx, voter.Model, e.votingPrompt(voter, ballot, question), e.cfg.Temperature, voteTokens)
			if err != nil {
				// A failed voter is dropped, not defaulted.
				log.Printf("[engine] vote from %s failed: %v", voter.DisplayName(), err)
				return
			}

			choice, reasoning := parseChoice(strings.TrimSpace(reply), len(ballot))
			chosen := ballot[choice-1]
			results[i] = &Vote{
				ID:         uuid.NewString(),
				Voter:      voter.DisplayName(),
				ResponseID: chosen.ID,
				Responder:  chosen.Personality,
				Reasoning:  reasoning,
			}
		}()
	}
	wg.Wait()

	tally := NewVoteTally()
	var voteLog []Vote
	for _, vote := range results {
		if vote == nil {
			continue
		}
		tally.Add(vote.Responder, vote.Voter)
		voteLog = append(voteLog, *vote)
	}

	counts := make(map[string]int, len(tally.Responders()))
	for _, responder := range tally.Responders() {
		counts[responder] = tally.Count(responder)
	}
	log.Printf("[engine] voting completed: %v", counts)

	return tally, voteLog, nil
}

// parseChoice splits a raw ballot reply on the first '-' and parses the
// left part as a 1-based option index. Malformed or out-of-range replies
// fall back deterministically to option 1 with the reason recorded in the
// returned reasoning; voting never hard-fails on a bad reply.
func parseChoice(reply string, optionCount int) (int, string) {
	parts := strings.SplitN(reply, "-", 2)

	reasoning := "No reasoning provided"
	if len(parts) > 1 {
		reasoning = strings.TrimSpace(parts[1])
	}

	choice, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		log.Printf("[engine] could not parse vote, defaulting to first option")
		return 1, "Fallback choice due to parse error: " + reply
	}
	if choice < 1 || choice > optionCount {
		log.Printf("[engine] invalid vote choice %d, defaulting to first option", choice)
		return 1, "Fallback choice due to invalid selection: " + reasoning
	}

	return choice, reasoning
}

// detectTie reports whether two or more responders share the maximum tally.
func detectTie(tally *VoteTally) bool {
	max := tally.Max()
	if max == 0 {
		return false
	}

	tied := 0
	for _, responder := range tally.Responders() {
		if tally.Count(responder) == max {
			tied++
		}
	}
	return tied > 1
}

// breakTie has the Prime Minister pick between the tied responses with a
// non-blind prompt. The deciding vote is appended to the winner's tally
// under a label that stays distinguishable from ordinary votes. Every
// failure path still resolves the tie: parse trouble and transport errors
// both fall back to the first tied response, each under its own label.
func (e *Engine) breakTie(ctx context.Context, responses []Response, tally *VoteTally, question string) TieBreak {
	log.Printf("[engine] tie detected - Prime Minister casting deciding vote")

	max := tally.Max()
	var tied []Response
	for _, resp := range responses {
		if tally.Count(resp.Personality) == max {
			tied = append(tied, resp)
		}
	}

	reply, err := e.client.Complete(ctx, e.cfg.Model, e.tieBreakPrompt(tied, tally, question), e.cfg.Temperature, tieBreakTokens)
	if err != nil {
		log.Printf("[engine] tie-breaker failed: %v", err)
		tb := TieBreak{
			Winner:    tied[0].Personality,
			Label:     TieBreakerErrorLabel,
			Reasoning: "Fallback choice due to tie-breaker error: " + err.Error(),
		}
		tally.Add(tb.Winner, tb.Label)
		return tb
	}

	choice, reasoning := parseChoice(strings.TrimSpace(reply), len(tied))
	tb := TieBreak{
		Winner:    tied[choice-1].Personality,
		Label:     TieBreakerLabel,
		Reasoning: reasoning,
	}
	if strings.HasPrefix(reasoning, "Fallback choice") {
		tb.Label = TieBreakerFallbackLabel
	}
	tally.Add(tb.Winner, tb.Label)
	return tb
}
