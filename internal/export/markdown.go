// internal/export/markdown.go
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"primeminister/internal/sessionlog"
)

// ExportSession generates a formatted markdown string from a session record.
func ExportSession(record *sessionlog.Record) string {
	var sb strings.Builder

	// Title header
	sb.WriteString("# ")
	sb.WriteString(record.Prompt)
	sb.WriteString("\n\n")

	// Metadata section
	sb.WriteString("---\n\n")
	sb.WriteString(fmt.Sprintf("**Session ID:** `%s`\n\n", record.Metadata.SessionUUID))
	sb.WriteString(fmt.Sprintf("**Mode:** %s\n\n", record.Metadata.Mode))
	sb.WriteString(fmt.Sprintf("**Date:** %s\n\n", record.Timestamp.Format("2006-01-02 15:04:05")))
	sb.WriteString("---\n\n")

	// Decision first: it is what the reader came for
	sb.WriteString("## Decision\n\n")
	sb.WriteString(strings.TrimSpace(record.FinalResult))
	sb.WriteString("\n\n")

	// Voting results (council mode only)
	if len(record.Votes) > 0 {
		sb.WriteString("## Voting Results\n\n")
		for responder, voters := range record.Votes {
			sb.WriteString(fmt.Sprintf("- **%s**: %d vote(s) (%s)\n", responder, len(voters), strings.Join(voters, ", ")))
		}
		if record.Metadata.TieBroken {
			sb.WriteString("\n*Tie was broken by the Prime Minister's deciding vote.*\n")
		}
		sb.WriteString("\n")
	}

	// Council responses
	sb.WriteString("## Council Responses\n\n")
	for i, member := range record.CouncilMembers {
		sb.WriteString(fmt.Sprintf("### %s\n\n", member.Personality))
		writeQuoted(&sb, member.Entry)
		sb.WriteString("\n")

		if len(member.OpinionsReceived) > 0 {
			sb.WriteString("#### Opinions received\n\n")
			for _, op := range member.OpinionsReceived {
				if op.HasError {
					continue
				}
				sb.WriteString(fmt.Sprintf("**From %s:**\n\n", op.Giver))
				writeQuoted(&sb, op.Text)
				sb.WriteString("\n")
			}
		}

		if member.SecondRoundResponse != nil && !member.SecondRoundResponse.HasError {
			sb.WriteString("#### Response to opinions\n\n")
			writeQuoted(&sb, member.SecondRoundResponse.Text)
			sb.WriteString("\n")
		}

		if i < len(record.CouncilMembers)-1 {
			sb.WriteString("---\n\n")
		}
	}

	// Footer
	sb.WriteString("\n---\n\n")
	sb.WriteString(fmt.Sprintf("*Exported from PrimeMinister on %s*\n", time.Now().Format("2006-01-02 15:04:05")))

	return sb.String()
}

// WriteSession exports a session record to a markdown file in baseDir.
func WriteSession(record *sessionlog.Record, baseDir string) (string, error) {
	datePart := record.Timestamp.Format("2006-01-02")
	namePart := sanitizeFilename(record.Prompt)
	filename := fmt.Sprintf("%s-%s.md", datePart, namePart)

	exportDir := filepath.Join(baseDir, "sessions")
	if err := os.MkdirAll(exportDir, 0755); err != nil {
		return "", fmt.Errorf("create sessions directory: %w", err)
	}

	path := filepath.Join(exportDir, filename)

	content := ExportSession(record)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return path, nil
}

// writeQuoted wraps content in a blockquote unless it already carries
// markdown code blocks.
func writeQuoted(sb *strings.Builder, content string) {
	content = strings.TrimSpace(content)
	if strings.Contains(content, "```") {
		sb.WriteString(content)
		sb.WriteString("\n")
		return
	}
	for _, line := range strings.Split(content, "\n") {
		sb.WriteString("> ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
}

// sanitizeFilename removes/replaces characters unsuitable for filenames.
func sanitizeFilename(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "-")

	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
			sb.WriteRune(r)
		case r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == '-' || r == '_':
			sb.WriteRune(r)
		}
	}

	result := sb.String()

	for strings.Contains(result, "--") {
		result = strings.ReplaceAll(result, "--", "-")
	}
	result = strings.Trim(result, "-")

	if result == "" {
		result = "session"
	}
	if len(result) > 50 {
		result = result[:50]
	}

	return result
}
