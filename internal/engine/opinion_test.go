// internal/engine/opinion_test.go
package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"primeminister/internal/config"
)

func TestConductOpinionRoundsFullCrossProduct(t *testing.T) {
	client := &mockClient{reply: func(model, prompt string) (string, error) {
		if strings.Contains(prompt, markRebuttal) {
			return "revised position", nil
		}
		return "peer feedback", nil
	}}
	eng := newTestEngine(t, threeMembers(), client)

	responses, err := eng.gatherResponses(context.Background(), "q")
	if err != nil {
		t.Fatalf("gatherResponses() failed: %v", err)
	}

	opinions, rebuttals := eng.conductOpinionRounds(context.Background(), responses, "q")

	if got := len(opinions); got != 6 {
		t.Fatalf("opinions = %d, want 6 (3 members x 2 peer responses)", got)
	}
	for _, op := range opinions {
		if op.Giver == op.TargetMember {
			t.Errorf("%s opined on their own response", op.Giver)
		}
		if op.HasError {
			t.Errorf("opinion from %s flagged as error", op.Giver)
		}
	}

	if got := len(rebuttals); got != 3 {
		t.Fatalf("rebuttals = %d, want one per responding member", got)
	}
	responseByID := make(map[string]Response, len(responses))
	for _, resp := range responses {
		responseByID[resp.ID] = resp
	}
	for _, reb := range rebuttals {
		original, ok := responseByID[reb.OriginalResponseID]
		if !ok {
			t.Errorf("rebuttal %s references unknown response %s", reb.ID, reb.OriginalResponseID)
			continue
		}
		if original.Personality != reb.Personality {
			t.Errorf("rebuttal author = %q, original author = %q", reb.Personality, original.Personality)
		}
		if len(reb.OpinionIDs) != 2 {
			t.Errorf("rebuttal from %s considered %d opinions, want 2", reb.Personality, len(reb.OpinionIDs))
		}
	}
}

func TestConductOpinionRoundsFailedOpinionsAreFlagged(t *testing.T) {
	// Beta cannot opine; its two opinions become error placeholders and the
	// rest of the round proceeds.
	client := &mockClient{reply: func(model, prompt string) (string, error) {
		if strings.Contains(prompt, markOpinion) && strings.Contains(prompt, "As Beta - the visionary") {
			return "", errors.New("model offline")
		}
		if strings.Contains(prompt, markRebuttal) {
			return "revised position", nil
		}
		return "peer feedback", nil
	}}
	eng := newTestEngine(t, threeMembers(), client)

	responses, err := eng.gatherResponses(context.Background(), "q")
	if err != nil {
		t.Fatalf("gatherResponses() failed: %v", err)
	}

	opinions, rebuttals := eng.conductOpinionRounds(context.Background(), responses, "q")

	failed := 0
	for _, op := range opinions {
		if op.HasError {
			failed++
			if op.Giver != "Beta - the visionary" {
				t.Errorf("unexpected failed opinion from %s", op.Giver)
			}
			if !strings.Contains(op.Text, "Unable to provide opinion") {
				t.Errorf("failed opinion text = %q", op.Text)
			}
		}
	}
	if failed != 2 {
		t.Errorf("failed opinions = %d, want 2", failed)
	}

	// Every response still attracted at least one successful opinion, so all
	// three rebuttals run, but only the successful opinions are forwarded:
	// Beta's response keeps both peer opinions, the others lose Beta's.
	if len(rebuttals) != 3 {
		t.Fatalf("rebuttals = %d, want 3", len(rebuttals))
	}
	for _, reb := range rebuttals {
		want := 1
		if reb.Personality == "Beta - the visionary" {
			want = 2
		}
		if len(reb.OpinionIDs) != want {
			t.Errorf("rebuttal from %s considered %d opinions, want %d", reb.Personality, len(reb.OpinionIDs), want)
		}
	}
}

func TestCollectRebuttalsSkipsResponsesWithoutOpinions(t *testing.T) {
	responses := []Response{
		{ID: "r1", Personality: "Alpha - the pragmatist", Text: "advice a"},
		{ID: "r2", Personality: "Beta - the visionary", Text: "advice b"},
	}
	opinions := []Opinion{
		{ID: "o1", Giver: "Beta - the visionary", TargetResponseID: "r1", Text: "fine"},
		{ID: "o2", Giver: "Alpha - the pragmatist", TargetResponseID: "r2", Text: "broken", HasError: true},
	}
	client := &mockClient{reply: func(model, prompt string) (string, error) {
		return "revised", nil
	}}
	eng := newTestEngine(t, threeMembers(), client)

	rebuttals := eng.collectRebuttals(context.Background(), responses, opinions, "q")

	if len(rebuttals) != 1 {
		t.Fatalf("rebuttals = %d, want 1 (r2 has only a failed opinion)", len(rebuttals))
	}
	if rebuttals[0].OriginalResponseID != "r1" {
		t.Errorf("rebuttal targets %s, want r1", rebuttals[0].OriginalResponseID)
	}
}

func TestCollectRebuttalsSkipsUnknownAndSilentAuthors(t *testing.T) {
	members := []config.MemberConfig{
		{Model: "m1", Personality: "Alpha - the pragmatist"},
		{Model: "m2", Personality: "Delta - the observer", Silent: true},
	}
	responses := []Response{
		{ID: "r1", Personality: "Delta - the observer", Text: "quiet advice", IsSilent: true},
		{ID: "r2", Personality: "Departed - no longer configured", Text: "stale advice"},
	}
	opinions := []Opinion{
		{ID: "o1", Giver: "Alpha - the pragmatist", TargetResponseID: "r1", Text: "fine"},
		{ID: "o2", Giver: "Alpha - the pragmatist", TargetResponseID: "r2", Text: "fine"},
	}
	client := &mockClient{reply: func(model, prompt string) (string, error) {
		t.Error("no rebuttal should be requested")
		return "", nil
	}}
	eng := newTestEngine(t, members, client)

	rebuttals := eng.collectRebuttals(context.Background(), responses, opinions, "q")
	if len(rebuttals) != 0 {
		t.Errorf("rebuttals = %d, want 0", len(rebuttals))
	}
}
