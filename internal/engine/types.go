// internal/engine/types.go
package engine

import (
	"fmt"
	"time"
)

// Mode selects the reduction strategy applied after response gathering.
type Mode string

const (
	// ModeCouncil reduces through blind voting and a final decision.
	ModeCouncil Mode = "council"
	// ModeAdvisor reduces through critique/rebuttal rounds and synthesis.
	ModeAdvisor Mode = "advisor"
)

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeCouncil, ModeAdvisor:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown mode %q (want council or advisor)", s)
	}
}

// Response is one member's answer to the question. Immutable once created;
// it lives for a single deliberation.
type Response struct {
	ID          string `json:"uuid"`
	Personality string `json:"personality"`
	Model       string `json:"model"`
	Text        string `json:"response"`
	IsVoter     bool   `json:"is_voter"`
	IsSilent    bool   `json:"is_silent"`
	HasError    bool   `json:"has_error"`
}

// Vote is one voter's blind choice of a response.
type Vote struct {
	ID         string `json:"vote_uuid"`
	Voter      string `json:"voter"`
	ResponseID string `json:"chosen_response_uuid"`
	Responder  string `json:"chosen_response_personality"`
	Reasoning  string `json:"reasoning"`
}

// TieBreak records the Prime Minister's deciding vote when the ordinary
// tally is ambiguous. The label distinguishes a genuine choice from the
// parse-fallback and transport-fallback paths.
type TieBreak struct {
	Winner    string `json:"winner"`
	Label     string `json:"label"`
	Reasoning string `json:"reasoning"`
}

// Tie-breaker voter labels, appended to the winner's voter list.
const (
	TieBreakerLabel         = "Prime Minister (tie-breaker)"
	TieBreakerFallbackLabel = "Prime Minister (tie-breaker - fallback)"
	TieBreakerErrorLabel    = "Prime Minister (tie-breaker - error fallback)"
)

// Opinion is one member's critique of another member's response.
type Opinion struct {
	ID               string `json:"uuid"`
	Giver            string `json:"opinion_giver"`
	GiverModel       string `json:"opinion_giver_model"`
	TargetResponseID string `json:"target_response_uuid"`
	TargetMember     string `json:"target_advisor"`
	Text             string `json:"opinion"`
	HasError         bool   `json:"has_error"`
}

// Rebuttal is a member's reply to the opinions on their own response.
type Rebuttal struct {
	ID                 string   `json:"uuid"`
	Personality        string   `json:"personality"`
	Model              string   `json:"model"`
	OriginalResponseID string   `json:"original_response_uuid"`
	Text               string   `json:"response_to_opinions"`
	OpinionIDs         []string `json:"opinions_considered"`
	HasError           bool     `json:"has_error"`
}

// VoteTally groups voter labels by the chosen response's originating member,
// preserving the order responders are first voted for.
type VoteTally struct {
	order []string
	votes map[string][]string
}

func NewVoteTally() *VoteTally {
	return &VoteTally{votes: make(map[string][]string)}
}

// Add records one voter label for a responder.
func (t *VoteTally) Add(responder, voter string) {
	if _, ok := t.votes[responder]; !ok {
		t.order = append(t.order, responder)
	}
	t.votes[responder] = append(t.votes[responder], voter)
}

// Responders returns responders in discovery order.
func (t *VoteTally) Responders() []string {
	result := make([]string, len(t.order))
	copy(result, t.order)
	return result
}

// Voters returns the voter labels recorded for a responder.
func (t *VoteTally) Voters(responder string) []string {
	voters := t.votes[responder]
	result := make([]string, len(voters))
	copy(result, voters)
	return result
}

// Count returns the number of votes a responder received.
func (t *VoteTally) Count(responder string) int {
	return len(t.votes[responder])
}

// Total returns the number of votes cast, tie-breaker included.
func (t *VoteTally) Total() int {
	total := 0
	for _, voters := range t.votes {
		total += len(voters)
	}
	return total
}

// Max returns the highest per-responder vote count, 0 when empty.
func (t *VoteTally) Max() int {
	max := 0
	for _, voters := range t.votes {
		if len(voters) > max {
			max = len(voters)
		}
	}
	return max
}

// Map returns the tally as responder -> voter labels.
func (t *VoteTally) Map() map[string][]string {
	result := make(map[string][]string, len(t.votes))
	for responder := range t.votes {
		result[responder] = t.Voters(responder)
	}
	return result
}

// Metadata carries the derived counters for a session.
type Metadata struct {
	TotalCouncilMembers int  `json:"total_council_members"`
	RespondingMembers   int  `json:"responding_members"`
	VotingMembers       int  `json:"voting_members"`
	TotalVotesCast      int  `json:"total_votes_cast"`
	TieBroken           bool `json:"tie_broken"`
	OpinionRounds       int  `json:"opinion_rounds_conducted,omitempty"`
	OpinionCount        int  `json:"first_round_opinions_count,omitempty"`
	RebuttalCount       int  `json:"second_round_responses_count,omitempty"`
}

// Session is the complete record of one deliberation. Assembled once after
// the decision and never mutated afterwards.
type Session struct {
	ID         string
	QuestionID string
	ResultID   string
	Question   string
	Mode       Mode
	Responses  []Response
	Votes      *VoteTally
	VoteLog    []Vote
	TieBreak   *TieBreak
	Opinions   []Opinion
	Rebuttals  []Rebuttal
	Decision   string
	CreatedAt  time.Time
	Metadata   Metadata
}
