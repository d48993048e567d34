// internal/council/council.go
package council

import (
	"fmt"
	"strings"

	"primeminister/internal/config"
)

// Member is one council seat: a fixed personality backed by a model.
// Immutable after construction. A silent member is never asked for a
// response; a non-voting member never receives a ballot.
type Member struct {
	Model       string
	Personality string
	IsVoter     bool
	IsSilent    bool
}

// DisplayName returns the short name used in votes and summaries: the part
// of the personality before the first " - ", else the first 20 runes.
func (m Member) DisplayName() string {
	return splitPersonality(m.Personality, 20)
}

// Registry holds the council roster in configuration order.
type Registry struct {
	members []Member
}

// NewRegistry builds a registry from config. Personalities must be unique
// since they identify members throughout a deliberation.
func NewRegistry(cfg *config.Config) (*Registry, error) {
	r := &Registry{}
	seen := make(map[string]bool)

	for _, mc := range cfg.Council {
		if mc.Personality == "" {
			return nil, fmt.Errorf("council member with empty personality")
		}
		if seen[mc.Personality] {
			return nil, fmt.Errorf("duplicate council personality: %s", mc.Personality)
		}
		seen[mc.Personality] = true

		r.members = append(r.members, Member{
			Model:       mc.Model,
			Personality: mc.Personality,
			IsVoter:     mc.IsVoter(),
			IsSilent:    mc.Silent,
		})
	}

	return r, nil
}

// Members returns all members in roster order.
func (r *Registry) Members() []Member {
	result := make([]Member, len(r.members))
	copy(result, r.members)
	return result
}

// Active returns the members that answer questions, in roster order.
func (r *Registry) Active() []Member {
	var result []Member
	for _, m := range r.members {
		if !m.IsSilent {
			result = append(result, m)
		}
	}
	return result
}

// Voters returns the members that cast votes, in roster order.
func (r *Registry) Voters() []Member {
	var result []Member
	for _, m := range r.members {
		if m.IsVoter {
			result = append(result, m)
		}
	}
	return result
}

// Find returns the member with the given personality.
func (r *Registry) Find(personality string) (Member, bool) {
	for _, m := range r.members {
		if m.Personality == personality {
			return m, true
		}
	}
	return Member{}, false
}

// Count returns the roster size.
func (r *Registry) Count() int {
	return len(r.members)
}

// MemberSummary is one row of the council summary.
type MemberSummary struct {
	Personality string `json:"personality"`
	Model       string `json:"model"`
	Voter       bool   `json:"voter"`
	Silent      bool   `json:"silent"`
}

// Summary describes the roster without any network calls.
type Summary struct {
	TotalMembers  int             `json:"total_members"`
	Voters        int             `json:"voters"`
	SilentMembers int             `json:"silent_members"`
	Members       []MemberSummary `json:"members"`
}

// Summary returns a snapshot of the roster configuration.
func (r *Registry) Summary() Summary {
	s := Summary{TotalMembers: len(r.members)}
	for _, m := range r.members {
		if m.IsVoter {
			s.Voters++
		}
		if m.IsSilent {
			s.SilentMembers++
		}
		s.Members = append(s.Members, MemberSummary{
			Personality: splitPersonality(m.Personality, 30),
			Model:       m.Model,
			Voter:       m.IsVoter,
			Silent:      m.IsSilent,
		})
	}
	return s
}

// splitPersonality shortens a personality to its title: everything before
// the first " - ", or the first max runes when there is no separator.
func splitPersonality(personality string, max int) string {
	if i := strings.Index(personality, " - "); i >= 0 {
		return personality[:i]
	}
	runes := []rune(personality)
	if len(runes) > max {
		return string(runes[:max])
	}
	return personality
}
