// internal/commands/commands_test.go
package commands

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Command
	}{
		{"help", "/help", Help{}},
		{"summary", "/summary", ShowSummary{}},
		{"mode council", "/mode council", SetMode{Mode: "council"}},
		{"mode advisor uppercase", "/MODE Advisor", SetMode{Mode: "advisor"}},
		{"mode missing arg", "/mode", ParseError{Message: "/mode requires an argument: council or advisor"}},
		{"mode unknown", "/mode senate", ParseError{Message: "unknown mode: senate"}},
		{"history default", "/history", ShowHistory{Limit: 10}},
		{"history with limit", "/history 5", ShowHistory{Limit: 5}},
		{"history bad limit", "/history zero", ParseError{Message: "/history takes a positive number"}},
		{"history negative", "/history -2", ParseError{Message: "/history takes a positive number"}},
		{"export", "/export", Export{}},
		{"quit", "/quit", Quit{}},
		{"exit alias", "/exit", Quit{}},
		{"unknown command", "/frobnicate", ParseError{Message: "unknown command: /frobnicate"}},
		{"leading whitespace", "  /help  ", Help{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if got != tt.want {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseNonCommands(t *testing.T) {
	for _, input := range []string{"what should I do?", "", "  ", "help", "mode council"} {
		if got := Parse(input); got != nil {
			t.Errorf("Parse(%q) = %#v, want nil (plain question)", input, got)
		}
	}
}

func TestHelpTextMentionsEveryCommand(t *testing.T) {
	text := HelpText()
	for _, cmd := range []string{"/help", "/summary", "/mode", "/history", "/export", "/quit"} {
		if !strings.Contains(text, cmd) {
			t.Errorf("help text missing %s", cmd)
		}
	}
}
