// internal/engine/prompts.go
package engine

import (
	"fmt"
	"strings"

	"primeminister/internal/council"
)

// memberPrompt asks one member for their initial answer.
func (e *Engine) memberPrompt(member council.Member, question string) string {
	var sb strings.Builder

	sb.WriteString(e.cfg.CouncilPrompt)
	sb.WriteString("\n\nYour specific role and personality:\n")
	sb.WriteString(member.Personality)
	sb.WriteString("\n\nUser context:\n")
	sb.WriteString(e.cfg.UserContext())
	sb.WriteString("\n\nUser's question/problem:\n")
	sb.WriteString(question)
	sb.WriteString("\n\nProvide your advice based on your unique perspective and expertise.")

	return sb.String()
}

// votingPrompt presents the ballot blind: option numbers only, no authorship.
// The option order is the ballot snapshot's fixed index order.
func (e *Engine) votingPrompt(voter council.Member, ballot []Response, question string) string {
	var sb strings.Builder

	sb.WriteString(e.cfg.CouncilPrompt)
	sb.WriteString("\n\nYour specific role and personality:\n")
	sb.WriteString(voter.Personality)
	sb.WriteString("\n\nUser context:\n")
	sb.WriteString(e.cfg.UserContext())
	sb.WriteString("\n\nYou are now voting on the best response to the user's question. You must evaluate all the responses below and choose the ONE that you think best addresses the user's question from your unique perspective.\n")
	sb.WriteString("\nIMPORTANT: The responses are presented anonymously to ensure unbiased evaluation. Focus only on the content quality and relevance to the user's needs.\n")
	sb.WriteString("\nOriginal user question:\n")
	sb.WriteString(question)
	sb.WriteString("\n\nHere are the responses to evaluate:\n")

	for i, resp := range ballot {
		fmt.Fprintf(&sb, "\nOption %d:\n%s\n\n---\n", i+1, resp.Text)
	}

	fmt.Fprintf(&sb, "\nBased on your evaluation criteria as %s, which response do you think is best?\n", voter.DisplayName())
	fmt.Fprintf(&sb, "\nRespond with ONLY the number of your choice (1-%d) followed by your detailed reasoning.\n", len(ballot))
	sb.WriteString(`Example: "3 - I choose this response because it demonstrates superior logical structure, provides concrete actionable steps, and directly addresses the user's specific situation with clear evidence-based reasoning."` + "\n")
	sb.WriteString("\nYour reasoning will be logged for transparency and audit purposes.")

	return sb.String()
}

// tieBreakPrompt is NOT blind: the tied responses carry their authors and
// current voter lists so the deciding vote is fully informed.
func (e *Engine) tieBreakPrompt(tied []Response, tally *VoteTally, question string) string {
	var sb strings.Builder

	sb.WriteString("You are the Prime Minister and there is a TIE in the council voting. You must cast the deciding vote.\n")
	sb.WriteString("\nOriginal user question:\n")
	sb.WriteString(question)
	fmt.Fprintf(&sb, "\n\nThe following responses are tied with %d vote(s) each:\n", tally.Max())

	for i, resp := range tied {
		voters := strings.Join(tally.Voters(resp.Personality), ", ")
		fmt.Fprintf(&sb, "\nOption %d - %s:\n%s\nVoted for by: %s\n\n---\n", i+1, resp.Personality, resp.Text, voters)
	}

	sb.WriteString("\nAs Prime Minister, you must choose which response best addresses the user's question.\n")
	fmt.Fprintf(&sb, "\nRespond with ONLY the number of your choice (1-%d) followed by a brief explanation of your reasoning.\n", len(tied))
	sb.WriteString(`Example: "2 - I choose this response because..."`)

	return sb.String()
}

// decisionPrompt combines every response with its vote count and voter list.
func (e *Engine) decisionPrompt(responses []Response, tally *VoteTally, question string) string {
	var sb strings.Builder

	sb.WriteString(e.cfg.PrimeMinisterPrompt)
	sb.WriteString("\n\nOriginal user question:\n")
	sb.WriteString(question)
	sb.WriteString("\n\nCouncil responses and voting results:\n")

	for _, resp := range responses {
		voters := strings.Join(tally.Voters(resp.Personality), ", ")
		fmt.Fprintf(&sb, "\nResponse from %s:\n%s\nVotes received: %d (%s)\n\n---\n",
			resp.Personality, resp.Text, tally.Count(resp.Personality), voters)
	}

	sb.WriteString("\nBased on the council's advice and the voting results, provide your final decision and reasoning.")

	return sb.String()
}

// opinionPrompt asks one member to critique another member's response.
func (e *Engine) opinionPrompt(giver council.Member, target Response, question string) string {
	var sb strings.Builder

	sb.WriteString(e.cfg.CouncilPrompt)
	sb.WriteString("\n\nOriginal user question:\n")
	sb.WriteString(question)
	fmt.Fprintf(&sb, "\n\nResponse from %s:\n%s\n", target.Personality, target.Text)
	fmt.Fprintf(&sb, "\nAs %s, provide your professional opinion on this response. Consider:\n", giver.Personality)
	sb.WriteString("- Strengths and weaknesses of the approach\n")
	sb.WriteString("- Missing considerations or perspectives\n")
	sb.WriteString("- How it could be improved or extended\n")
	sb.WriteString("- Whether you agree or disagree and why\n")
	sb.WriteString("\nBe constructive and specific in your feedback.")

	return sb.String()
}

// rebuttalPrompt asks the original responder to answer the opinions
// addressed to their response.
func (e *Engine) rebuttalPrompt(member council.Member, original Response, opinions []Opinion, question string) string {
	var sb strings.Builder

	sb.WriteString(e.cfg.CouncilPrompt)
	sb.WriteString("\n\nOriginal user question:\n")
	sb.WriteString(question)
	sb.WriteString("\n\nYour original response:\n")
	sb.WriteString(original.Text)
	sb.WriteString("\n\nColleagues' opinions on your response:\n")

	for _, op := range opinions {
		fmt.Fprintf(&sb, "\nOpinion from %s:\n%s\n\n---\n", op.Giver, op.Text)
	}

	fmt.Fprintf(&sb, "\nAs %s, please provide a thoughtful response to these opinions. You may:\n", member.Personality)
	sb.WriteString("- Acknowledge valid points and incorporate them\n")
	sb.WriteString("- Clarify or defend aspects of your original response\n")
	sb.WriteString("- Expand on areas that colleagues highlighted\n")
	sb.WriteString("- Adjust your recommendations based on the feedback\n")
	sb.WriteString("\nProvide a refined perspective that takes the opinions into account.")

	return sb.String()
}

// advisorSynthesisPrompt lays out all three rounds in fixed order.
func (e *Engine) advisorSynthesisPrompt(responses []Response, opinions []Opinion, rebuttals []Rebuttal, question string) string {
	var sb strings.Builder

	sb.WriteString(e.cfg.AdvisorSynthesisPrompt)
	sb.WriteString("\n\nOriginal user question:\n")
	sb.WriteString(question)
	sb.WriteString("\n\nROUND 1 - Initial Council Responses:\n")

	for _, resp := range responses {
		if resp.HasError {
			continue
		}
		fmt.Fprintf(&sb, "\n%s:\n%s\n\n---\n", resp.Personality, resp.Text)
	}

	sb.WriteString("\nROUND 2 - Peer Opinions on Initial Responses:\n")

	for _, resp := range responses {
		if resp.HasError {
			continue
		}
		relevant := opinionsOn(opinions, resp.ID)
		if len(relevant) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\nOpinions on %s's response:\n", resp.Personality)
		for _, op := range relevant {
			fmt.Fprintf(&sb, "\n  Opinion from %s:\n  %s\n\n", op.Giver, op.Text)
		}
	}

	sb.WriteString("\nROUND 3 - Original Advisors' Responses to Opinions:\n")

	for _, reb := range rebuttals {
		if reb.HasError {
			continue
		}
		fmt.Fprintf(&sb, "\n%s's response to colleague opinions:\n%s\n\n---\n", reb.Personality, reb.Text)
	}

	sb.WriteString("\nBased on this comprehensive three-round advisory process, synthesize the collective wisdom into the most helpful and well-reasoned response for the user. Consider:\n")
	sb.WriteString("- The initial diverse perspectives and their individual strengths\n")
	sb.WriteString("- The constructive peer feedback and critical analysis\n")
	sb.WriteString("- How the original advisors refined their thinking based on colleague input\n")
	sb.WriteString("- Areas of consensus and productive disagreement\n")
	sb.WriteString("- The evolution of ideas through the discussion process\n")
	sb.WriteString("\nProvide a final recommendation that represents the best of the collective advisory process.")

	return sb.String()
}

// legacySynthesisPrompt is the degraded single-round form used when no
// opinions survived round 1.
func (e *Engine) legacySynthesisPrompt(responses []Response, question string) string {
	var sb strings.Builder

	sb.WriteString(e.cfg.AdvisorSynthesisPrompt)
	sb.WriteString("\n\nOriginal user question:\n")
	sb.WriteString(question)
	sb.WriteString("\n\nCouncil advisor responses:\n")

	for _, resp := range responses {
		if resp.HasError {
			continue
		}
		fmt.Fprintf(&sb, "\n%s:\n%s\n\n---\n", resp.Personality, resp.Text)
	}

	sb.WriteString("\nBased on the diverse perspectives and expertise of your advisory council, synthesize their insights into the most comprehensive and helpful response for the user. Draw from the strengths of each advisor's perspective while creating a cohesive, well-reasoned final recommendation.")

	return sb.String()
}

// opinionsOn returns the successful opinions targeting a response, in round order.
func opinionsOn(opinions []Opinion, responseID string) []Opinion {
	var result []Opinion
	for _, op := range opinions {
		if op.TargetResponseID == responseID && !op.HasError {
			result = append(result, op)
		}
	}
	return result
}
