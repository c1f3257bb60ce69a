package vcs

import (
	"strings"

	"github.com/felixgeelhaar/toolwire/internal/envelope"
)

// DefaultLogSeparator matches `git log --format='%H|%an|%ad|%s'`.
const DefaultLogSeparator = "|"

const logFields = 4

// NormalizeLog parses one commit per line: hash, author, date and message
// joined by sep. The message keeps any separators it contains. An empty sep
// selects DefaultLogSeparator.
func NormalizeLog(raw []byte, sep string) LogResult {
	if sep == "" {
		sep = DefaultLogSeparator
	}
	text := string(raw)
	result := LogResult{Commits: []Commit{}}

	for _, line := range splitLines(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.SplitN(line, sep, logFields)
		if len(fields) < logFields {
			continue
		}
		result.Commits = append(result.Commits, Commit{
			Hash:    strings.TrimSpace(fields[0]),
			Author:  strings.TrimSpace(fields[1]),
			Date:    strings.TrimSpace(fields[2]),
			Message: strings.TrimSpace(fields[3]),
		})
	}

	result.CommitCount = len(result.Commits)
	if result.CommitCount == 0 && strings.TrimSpace(text) != "" {
		result.Status = envelope.Drift(true,
			"log output is not empty but no line had 4 fields separated by %q", sep)
		return result
	}
	result.Status = envelope.Clean()
	return result
}
