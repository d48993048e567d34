// internal/ui/app.go
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"primeminister/internal/commands"
	"primeminister/internal/engine"
	"primeminister/internal/export"
	"primeminister/internal/sessionlog"
)

// deliberationMsg carries the outcome of one engine run back into the UI.
type deliberationMsg struct {
	decision string
	session  *engine.Session
	err      error
}

// App is the interactive REPL: type a question, watch the council
// deliberate, read the decision.
type App struct {
	engine *engine.Engine
	store  *sessionlog.Store // nil when history is unavailable
	mode   engine.Mode

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	content    strings.Builder
	lastRecord *sessionlog.Record

	busy          bool
	ready         bool
	width, height int
}

func New(eng *engine.Engine, store *sessionlog.Store, mode engine.Mode) *App {
	ti := textinput.New()
	ti.Placeholder = "Ask the council..."
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	a := &App{
		engine:  eng,
		store:   store,
		mode:    mode,
		input:   ti,
		spinner: sp,
	}
	a.writeLine(TitleStyle.Render("PRIME MINISTER") + DimStyle.Render("  AI council decision system"))
	a.writeLine(DimStyle.Render("Type a question, or /help for commands."))
	a.writeLine("")
	return a
}

func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if !a.ready {
			a.viewport = viewport.New(msg.Width, msg.Height-4)
			a.viewport.MouseWheelEnabled = true
			a.ready = true
		} else {
			a.viewport.Width = msg.Width
			a.viewport.Height = msg.Height - 4
		}
		a.refresh()
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "enter":
			if a.busy {
				return a, nil
			}
			return a.submit(strings.TrimSpace(a.input.Value()))
		}

	case spinner.TickMsg:
		if a.busy {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case deliberationMsg:
		a.busy = false
		a.showResult(msg)
		a.refresh()
		return a, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	cmds = append(cmds, cmd)
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func (a *App) submit(value string) (tea.Model, tea.Cmd) {
	if value == "" {
		return a, nil
	}
	a.input.Reset()

	if cmd := commands.Parse(value); cmd != nil {
		a.runCommand(cmd)
		a.refresh()
		if _, ok := cmd.(commands.Quit); ok {
			return a, tea.Quit
		}
		return a, nil
	}

	a.busy = true
	a.writeLine(QuestionStyle.Render("You: ") + value)
	a.writeLine(DimStyle.Render("Consulting the council..."))
	a.refresh()

	question := value
	mode := a.mode
	return a, tea.Batch(a.spinner.Tick, func() tea.Msg {
		decision, session, err := a.engine.Run(context.Background(), question, mode)
		return deliberationMsg{decision: decision, session: session, err: err}
	})
}

func (a *App) runCommand(cmd commands.Command) {
	switch cmd := cmd.(type) {
	case commands.Help:
		a.writeLine(commands.HelpText())

	case commands.ShowSummary:
		summary := a.engine.Summary()
		a.writeLine(TitleStyle.Render("Council Summary"))
		a.writeLine(fmt.Sprintf("  Total members: %d, voters: %d, silent: %d",
			summary.TotalMembers, summary.Voters, summary.SilentMembers))
		for i, m := range summary.Members {
			flags := ""
			if m.Voter {
				flags += " [voter]"
			}
			if m.Silent {
				flags += " [silent]"
			}
			a.writeLine(fmt.Sprintf("  %d. %s (%s)%s", i+1, MemberStyle.Render(m.Personality), m.Model, flags))
		}

	case commands.SetMode:
		a.mode = engine.Mode(cmd.Mode)
		a.writeLine(DimStyle.Render("Mode set to " + cmd.Mode))

	case commands.ShowHistory:
		if a.store == nil {
			a.writeLine(ErrorStyle.Render("History is unavailable."))
			return
		}
		sessions, err := a.store.ListSessions(cmd.Limit)
		if err != nil {
			a.writeLine(ErrorStyle.Render("Error reading history: " + err.Error()))
			return
		}
		if len(sessions) == 0 {
			a.writeLine(DimStyle.Render("No sessions found."))
			return
		}
		a.writeLine(TitleStyle.Render("Recent Sessions"))
		for i, info := range sessions {
			line := fmt.Sprintf("  %d. [%s] %s", i+1, info.CreatedAt.Format("2006-01-02 15:04"), firstLine(info.Question, 80))
			if info.Winner != "" {
				line += VoteStyle.Render(fmt.Sprintf("  winner: %s (%d)", info.Winner, info.WinnerVotes))
			}
			a.writeLine(line)
		}

	case commands.Export:
		if a.lastRecord == nil {
			a.writeLine(ErrorStyle.Render("Nothing to export yet."))
			return
		}
		path, err := export.WriteSession(a.lastRecord, ".")
		if err != nil {
			a.writeLine(ErrorStyle.Render("Export failed: " + err.Error()))
			return
		}
		a.writeLine(DimStyle.Render("Exported to " + path))

	case commands.Quit:
		// handled by the caller

	case commands.ParseError:
		a.writeLine(ErrorStyle.Render(cmd.Message))
	}
}

func (a *App) showResult(msg deliberationMsg) {
	if msg.err != nil {
		a.writeLine(ErrorStyle.Render("Error: " + msg.err.Error()))
		a.writeLine("")
		return
	}

	record := sessionlog.BuildRecord(msg.session)
	a.lastRecord = &record

	if a.store != nil {
		if err := a.store.SaveSession(msg.session); err != nil {
			a.writeLine(DimStyle.Render("(failed to save session: " + err.Error() + ")"))
		}
	}

	header := "PRIME MINISTER'S DECISION"
	if msg.session.Mode == engine.ModeAdvisor {
		header = "PRIME MINISTER'S SYNTHESIS"
	}
	a.writeLine(DecisionStyle.Render(header))
	a.writeLine(renderMarkdown(msg.decision, a.width))

	if msg.session.Mode == engine.ModeCouncil {
		a.writeLine(VoteStyle.Render("Voting results:"))
		for _, responder := range msg.session.Votes.Responders() {
			voters := msg.session.Votes.Voters(responder)
			a.writeLine(fmt.Sprintf("  %s: %d vote(s) (%s)", responder, len(voters), strings.Join(voters, ", ")))
		}
		if msg.session.TieBreak != nil {
			a.writeLine(VoteStyle.Render("  Tie was broken by the Prime Minister's deciding vote."))
		}
	}
	a.writeLine("")
}

func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	status := DimStyle.Render(fmt.Sprintf("mode: %s", a.mode))
	if a.busy {
		status = a.spinner.View() + " deliberating..."
	}

	return a.viewport.View() + "\n" + status + "\n" + InputBox.Width(a.width-2).Render(a.input.View())
}

func (a *App) writeLine(line string) {
	a.content.WriteString(line)
	a.content.WriteString("\n")
}

func (a *App) refresh() {
	if !a.ready {
		return
	}
	a.viewport.SetContent(a.content.String())
	a.viewport.GotoBottom()
}

// renderMarkdown pretty-prints the decision; falls back to plain text when
// rendering fails.
func renderMarkdown(text string, width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width-2))
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

func firstLine(s string, max int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max]) + "..."
	}
	return s
}
