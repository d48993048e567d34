// internal/engine/engine.go
// Package engine coordinates a council of independently-prompted language
// models over a single question and reduces their answers to one decision,
// either by blind voting (council mode) or by a two-round critique and
// synthesis pipeline (advisor mode).
package engine

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"primeminister/internal/config"
	"primeminister/internal/council"
)

// Completer is the completion call contract. Both transport and model
// failures mean the same thing here: this one request failed.
type Completer interface {
	Complete(ctx context.Context, model, prompt string, temperature float64, maxTokens int) (string, error)
}

// Per-call output token budgets.
const (
	responseTokens     = 1000
	voteTokens         = 500
	tieBreakTokens     = 500
	decisionTokens     = 1500
	opinionTokens      = 800
	rebuttalTokens     = 1000
	advisorSynthTokens = 2500
	legacySynthTokens  = 2000
)

// Engine runs deliberations. Safe to reuse across sessions; each Run is a
// stateless, single-question deliberation.
type Engine struct {
	registry *council.Registry
	client   Completer
	cfg      *config.Config
}

func New(registry *council.Registry, client Completer, cfg *config.Config) *Engine {
	return &Engine{
		registry: registry,
		client:   client,
		cfg:      cfg,
	}
}

// Summary describes the roster. Pure: no side effects, no network calls.
func (e *Engine) Summary() council.Summary {
	return e.registry.Summary()
}

// Run deliberates over one question and returns the decision with the full
// session record. Only quorum failures (and an empty ballot) return an
// error; synthesis failures degrade into the decision text instead.
func (e *Engine) Run(ctx context.Context, question string, mode Mode) (string, *Session, error) {
	session := &Session{
		ID:         uuid.NewString(),
		QuestionID: uuid.NewString(),
		Question:   question,
		Mode:       mode,
		Votes:      NewVoteTally(),
		CreatedAt:  time.Now(),
	}

	log.Printf("[engine] processing request (session: %s, mode: %s)", session.ID, mode)

	responses, err := e.gatherResponses(ctx, question)
	if err != nil {
		return "", nil, err
	}
	session.Responses = responses

	var decision string
	switch mode {
	case ModeAdvisor:
		decision, err = e.reduceAdvisor(ctx, question, session)
	default:
		decision, err = e.reduceCouncil(ctx, question, session)
	}
	if err != nil {
		return "", nil, err
	}

	session.Decision = decision
	session.ResultID = uuid.NewString()
	session.Metadata = e.buildMetadata(session)

	log.Printf("[engine] request completed (session: %s)", session.ID)
	return decision, session, nil
}

// reduceCouncil is the voting reduction: blind ballot, tally, tie-break,
// final decision.
func (e *Engine) reduceCouncil(ctx context.Context, question string, session *Session) (string, error) {
	tally, voteLog, err := e.conductVoting(ctx, session.Responses, question)
	if err != nil {
		return "", err
	}
	session.Votes = tally
	session.VoteLog = voteLog

	if detectTie(tally) {
		tb := e.breakTie(ctx, session.Responses, tally, question)
		session.TieBreak = &tb
		log.Printf("[engine] tie broken in favor of: %s", tb.Winner)
	}

	return e.councilDecision(ctx, session.Responses, tally, question), nil
}

// reduceAdvisor is the critique reduction: two opinion rounds, then
// synthesis. Falls back to single-round synthesis when round 1 produced no
// usable opinions.
func (e *Engine) reduceAdvisor(ctx context.Context, question string, session *Session) (string, error) {
	opinions, rebuttals := e.conductOpinionRounds(ctx, session.Responses, question)
	session.Opinions = opinions
	session.Rebuttals = rebuttals

	successful := 0
	for _, op := range opinions {
		if !op.HasError {
			successful++
		}
	}
	if successful == 0 {
		log.Printf("[engine] no usable opinions; falling back to single-round synthesis")
		return e.legacySynthesis(ctx, session.Responses, question), nil
	}

	return e.advisorSynthesis(ctx, session.Responses, opinions, rebuttals, question), nil
}

func (e *Engine) buildMetadata(session *Session) Metadata {
	md := Metadata{
		TotalCouncilMembers: e.registry.Count(),
		RespondingMembers:   len(session.Responses),
		TotalVotesCast:      session.Votes.Total(),
		TieBroken:           session.TieBreak != nil,
	}
	if session.Mode == ModeCouncil {
		md.VotingMembers = len(e.registry.Voters())
	}
	if session.Mode == ModeAdvisor {
		md.OpinionRounds = 2
		md.OpinionCount = len(session.Opinions)
		md.RebuttalCount = len(session.Rebuttals)
	}
	return md
}
