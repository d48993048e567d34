package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"primeminister/internal/config"
	"primeminister/internal/council"
	"primeminister/internal/engine"
	"primeminister/internal/llm"
	"primeminister/internal/sessionlog"
	"primeminister/internal/ui"
)

var (
	flagMode    string
	flagJSON    bool
	flagConfig  bool
	flagHistory int
)

func main() {
	root := &cobra.Command{
		Use:   "primeminister [question]",
		Short: "Ask a council of AI advisors and get one decision",
		Long: `PrimeMinister coordinates a council of independently-prompted AI advisors.
In council mode the members vote blind on each other's answers; in advisor
mode they critique and refine each other's answers. Either way the Prime
Minister reduces the deliberation to a single decision.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	root.Flags().StringVar(&flagMode, "mode", "", "deliberation mode: council (voting) or advisor (synthesis)")
	root.Flags().BoolVar(&flagJSON, "json", false, "print the full session record as JSON")
	root.Flags().BoolVar(&flagConfig, "config", false, "show the resolved configuration and exit")
	root.Flags().IntVar(&flagHistory, "history", 0, "show the last N sessions and exit")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flagMode != "" {
		cfg.Mode = flagMode
	}

	mode, err := engine.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}

	if flagConfig {
		printConfig(cfg)
		return nil
	}

	if flagHistory > 0 {
		return printHistory(flagHistory)
	}

	registry, err := council.NewRegistry(cfg)
	if err != nil {
		return err
	}

	client := llm.New(cfg.APIURL, cfg.APIKey)
	eng := engine.New(registry, client, cfg)

	store, err := sessionlog.Open()
	if err != nil {
		log.Printf("[cli] session history unavailable: %v", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	if len(args) == 1 {
		return singleQuestion(eng, store, args[0], mode)
	}

	// Interactive mode: the engine's logging would corrupt the TUI.
	log.SetOutput(io.Discard)
	p := tea.NewProgram(ui.New(eng, store, mode), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

func singleQuestion(eng *engine.Engine, store *sessionlog.Store, question string, mode engine.Mode) error {
	if !flagJSON {
		fmt.Println("Consulting the council...")
	}

	decision, session, err := eng.Run(context.Background(), question, mode)
	if err != nil {
		return err
	}

	if store != nil {
		if err := store.SaveSession(session); err != nil {
			log.Printf("[cli] failed to save session: %v", err)
		}
	}

	record := sessionlog.BuildRecord(session)

	if flagJSON {
		out, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))
	if mode == engine.ModeAdvisor {
		fmt.Println("PRIME MINISTER'S SYNTHESIS")
	} else {
		fmt.Println("PRIME MINISTER'S DECISION")
	}
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("\n%s\n\n", decision)

	if mode == engine.ModeCouncil {
		fmt.Println("Voting results:")
		for _, responder := range session.Votes.Responders() {
			voters := session.Votes.Voters(responder)
			fmt.Printf("  - %s: %d vote(s) (%s)\n", responder, len(voters), strings.Join(voters, ", "))
		}
		if session.Metadata.TieBroken {
			fmt.Println("  Tie was broken by the Prime Minister's deciding vote.")
		}
	}

	return nil
}

func printConfig(cfg *config.Config) {
	fmt.Printf("Configuration file: %s\n", config.ConfigPath())
	fmt.Printf("API URL: %s\n", cfg.APIURL)
	fmt.Printf("API key configured: %v\n", cfg.APIKey != "")
	fmt.Printf("Model: %s\n", cfg.Model)
	fmt.Printf("Temperature: %.2f\n", cfg.Temperature)
	fmt.Printf("Mode: %s\n", cfg.Mode)

	fmt.Printf("\nCouncil members: %d\n", len(cfg.Council))
	for i, member := range cfg.Council {
		fmt.Printf("  %d. %s\n", i+1, member.Personality)
		fmt.Printf("     Model: %s, Voter: %v, Silent: %v\n", member.Model, member.IsVoter(), member.Silent)
	}

	fmt.Printf("\nUser profile:\n")
	fmt.Printf("  Attributes: %s\n", strings.Join(cfg.User.Attributes, ", "))
	fmt.Printf("  Goal: %s\n", cfg.User.Goal)
}

func printHistory(limit int) error {
	store, err := sessionlog.Open()
	if err != nil {
		return err
	}
	defer store.Close()

	sessions, err := store.ListSessions(limit)
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}

	fmt.Printf("Recent sessions (last %d):\n\n", len(sessions))
	for i, info := range sessions {
		fmt.Printf("%d. %s [%s]\n", i+1, info.CreatedAt.Format("2006-01-02 15:04:05"), info.Mode)
		question := info.Question
		if len(question) > 100 {
			question = question[:100] + "..."
		}
		fmt.Printf("   Question: %s\n", question)
		if info.Winner != "" {
			fmt.Printf("   Winner: %s (%d votes)\n", info.Winner, info.WinnerVotes)
		}
		fmt.Println()
	}

	return nil
}
