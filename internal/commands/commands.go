// Package commands handles slash command parsing for the primeminister TUI.
package commands

import (
	"strconv"
	"strings"
)

// Command interface for all command types
type Command interface {
	Type() string
}

// Help returns help text
type Help struct{}

func (Help) Type() string { return "help" }

// ShowSummary shows the council roster summary
type ShowSummary struct{}

func (ShowSummary) Type() string { return "summary" }

// SetMode switches between council and advisor deliberation
type SetMode struct {
	Mode string
}

func (SetMode) Type() string { return "mode" }

// ShowHistory shows recent sessions
type ShowHistory struct {
	Limit int
}

func (ShowHistory) Type() string { return "history" }

// Export exports the last session to markdown
type Export struct{}

func (Export) Type() string { return "export" }

// Quit exits the program
type Quit struct{}

func (Quit) Type() string { return "quit" }

// ParseError represents a command parsing error
type ParseError struct {
	Message string
}

func (ParseError) Type() string { return "error" }

// Parse parses user input and returns the appropriate Command.
// Returns nil if the input is not a slash command.
func Parse(input string) Command {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return nil
	}

	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "/help":
		return Help{}

	case "/summary":
		return ShowSummary{}

	case "/mode":
		if len(args) == 0 {
			return ParseError{Message: "/mode requires an argument: council or advisor"}
		}
		mode := strings.ToLower(args[0])
		if mode != "council" && mode != "advisor" {
			return ParseError{Message: "unknown mode: " + args[0]}
		}
		return SetMode{Mode: mode}

	case "/history":
		limit := 10
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return ParseError{Message: "/history takes a positive number"}
			}
			limit = n
		}
		return ShowHistory{Limit: limit}

	case "/export":
		return Export{}

	case "/quit", "/exit":
		return Quit{}

	default:
		return ParseError{Message: "unknown command: " + cmd}
	}
}

// HelpText returns the help text for all available commands.
func HelpText() string {
	return `Available commands:
  /help          - Show this help
  /summary       - Show the council roster
  /mode <m>      - Switch mode: council (voting) or advisor (synthesis)
  /history [n]   - Show the last n sessions (default 10)
  /export        - Export the last session to markdown
  /quit          - Exit

Anything else is sent to the council as a question.`
}
