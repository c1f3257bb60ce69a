package vcs

import (
	"strings"

	"github.com/felixgeelhaar/toolwire/internal/envelope"
)

// NormalizeStatus parses `git status --porcelain` (v1) output.
//
// Each record is two status columns, a space and the path. The index column
// wins when set; otherwise the worktree column describes an unstaged change.
func NormalizeStatus(raw []byte) StatusResult {
	text := string(raw)
	result := StatusResult{Files: []StatusEntry{}}
	recognized := false
	first := true
	rejected := 0

	for _, line := range splitLines(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "##") || strings.HasPrefix(line, "!! ") {
			recognized = true
			first = false
			continue
		}
		entry, ok := parseStatusLine(line)
		if !ok && first {
			// Trimming the whole output strips the first record's
			// empty index column.
			entry, ok = parseStatusLine(" " + line)
		}
		first = false
		if !ok {
			rejected++
			continue
		}
		recognized = true
		result.Files = append(result.Files, entry)
	}

	result.count()
	if !recognized && strings.TrimSpace(text) != "" {
		result.Status = envelope.Drift(true,
			"status output is not empty but no line matched the porcelain 'XY path' format")
		return result
	}
	if rejected > 0 {
		result.Status = envelope.Drift(true,
			"%d status line(s) did not match the porcelain 'XY path' format and were skipped", rejected)
		return result
	}
	result.Status = envelope.Clean()
	return result
}

func parseStatusLine(line string) (StatusEntry, bool) {
	if len(line) < 4 || line[2] != ' ' {
		return StatusEntry{}, false
	}
	x, y := line[0], line[1]
	path := unquotePath(line[3:])

	if x == '?' && y == '?' {
		return StatusEntry{File: path, Status: StateUntracked}, true
	}

	if x == 'R' || y == 'R' {
		if _, to, found := strings.Cut(path, " -> "); found {
			path = unquotePath(to)
		}
		return StatusEntry{File: path, Status: StateRenamed, Staged: x == 'R'}, true
	}

	if x != ' ' {
		state, ok := statusLetter(x)
		if !ok {
			return StatusEntry{}, false
		}
		return StatusEntry{File: path, Status: state, Staged: true}, true
	}

	state, ok := statusLetter(y)
	if !ok {
		return StatusEntry{}, false
	}
	return StatusEntry{File: path, Status: state}, true
}

func statusLetter(c byte) (string, bool) {
	switch c {
	case 'M', 'T', 'U':
		return StateModified, true
	case 'A', 'C':
		return StateAdded, true
	case 'D':
		return StateDeleted, true
	case 'R':
		return StateRenamed, true
	}
	return "", false
}

// unquotePath strips the quotes git adds around paths with special characters.
func unquotePath(p string) string {
	p = strings.TrimSpace(p)
	if len(p) >= 2 && p[0] == '"' && p[len(p)-1] == '"' {
		return p[1 : len(p)-1]
	}
	return p
}

// splitLines splits on LF and drops a trailing CR from each line.
func splitLines(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
