// internal/sessionlog/record.go
package sessionlog

import (
	"time"

	"primeminister/internal/engine"
)

// MemberEntry is one member's view of a session: their response plus, in
// advisor mode, the opinions received about it and their rebuttal.
type MemberEntry struct {
	UUID                string           `json:"uuid"`
	Personality         string           `json:"personality"`
	Model               string           `json:"model"`
	Entry               string           `json:"entry"`
	IsVoter             bool             `json:"is_voter"`
	IsSilent            bool             `json:"is_silent"`
	HasError            bool             `json:"has_error"`
	OpinionsReceived    []engine.Opinion `json:"opinions_received,omitempty"`
	SecondRoundResponse *engine.Rebuttal `json:"second_round_response,omitempty"`
}

// RecordMetadata combines the session identifiers with the derived counters.
type RecordMetadata struct {
	SessionUUID  string `json:"session_uuid"`
	QuestionUUID string `json:"question_uuid"`
	ResultUUID   string `json:"result_uuid"`
	Mode         string `json:"mode"`
	engine.Metadata
}

// Record is the canonical session shape handed to logging and presentation:
// the same structure is persisted, printed with --json, and exported.
type Record struct {
	Timestamp      time.Time           `json:"timestamp"`
	Prompt         string              `json:"prompt"`
	CouncilMembers []MemberEntry       `json:"council_members"`
	Votes          map[string][]string `json:"votes"`
	DetailedVotes  []engine.Vote       `json:"detailed_votes,omitempty"`
	TieBreak       *engine.TieBreak    `json:"tie_break,omitempty"`
	FinalResult    string              `json:"final_result"`
	Metadata       RecordMetadata      `json:"metadata"`
}

// BuildRecord flattens a session into the canonical record shape, nesting
// per-member opinions and rebuttals onto the member entries.
func BuildRecord(session *engine.Session) Record {
	members := make([]MemberEntry, 0, len(session.Responses))
	for _, resp := range session.Responses {
		entry := MemberEntry{
			UUID:        resp.ID,
			Personality: resp.Personality,
			Model:       resp.Model,
			Entry:       resp.Text,
			IsVoter:     resp.IsVoter,
			IsSilent:    resp.IsSilent,
			HasError:    resp.HasError,
		}

		for _, op := range session.Opinions {
			if op.TargetResponseID == resp.ID {
				entry.OpinionsReceived = append(entry.OpinionsReceived, op)
			}
		}
		for i := range session.Rebuttals {
			if session.Rebuttals[i].OriginalResponseID == resp.ID {
				entry.SecondRoundResponse = &session.Rebuttals[i]
				break
			}
		}

		members = append(members, entry)
	}

	return Record{
		Timestamp:      session.CreatedAt,
		Prompt:         session.Question,
		CouncilMembers: members,
		Votes:          session.Votes.Map(),
		DetailedVotes:  session.VoteLog,
		TieBreak:       session.TieBreak,
		FinalResult:    session.Decision,
		Metadata: RecordMetadata{
			SessionUUID:  session.ID,
			QuestionUUID: session.QuestionID,
			ResultUUID:   session.ResultID,
			Mode:         string(session.Mode),
			Metadata:     session.Metadata,
		},
	}
}

// Winner returns the responder with the most votes and their vote count.
// Returns false when no votes were cast (advisor mode).
func (r Record) Winner() (string, int, bool) {
	winner := ""
	max := 0
	for responder, voters := range r.Votes {
		if len(voters) > max {
			winner = responder
			max = len(voters)
		}
	}
	return winner, max, max > 0
}
