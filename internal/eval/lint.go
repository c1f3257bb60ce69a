package eval

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/toolwire/internal/envelope"
)

var (
	// lintLineRe is the finding grammar: path:line:col: CODE [*] message.
	// The [*] marker follows the code when the linter can fix it.
	lintLineRe = regexp.MustCompile(`^(.+?):(\d+):(\d+):\s+([A-Z]+[0-9]+)\s+(\[\*\]\s+)?(.*)$`)

	// lintPositionRe detects output that carries file positions at all.
	lintPositionRe = regexp.MustCompile(`(?m)^\S+:\d+`)
)

// NormalizeLint normalizes lint checker output, one finding per line.
// Summary and footer lines are ignored.
func NormalizeLint(raw []byte) LintResult {
	text := string(raw)
	result := LintResult{Violations: []LintFinding{}}

	for _, line := range splitLines(text) {
		m := lintLineRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		lineNo, _ := strconv.Atoi(m[2])
		col, _ := strconv.Atoi(m[3])
		result.Violations = append(result.Violations, LintFinding{
			File:    m[1],
			Line:    lineNo,
			Column:  col,
			Code:    m[4],
			Message: strings.TrimSpace(m[6]),
			Fixable: m[5] != "",
		})
	}

	result.ViolationCount = len(result.Violations)
	for _, v := range result.Violations {
		if v.Fixable {
			result.FixableCount++
		}
	}

	ok := result.ViolationCount == 0
	if ok && lintPositionRe.MatchString(text) {
		result.Status = envelope.Drift(ok,
			"lint output contains file positions but no line matched 'path:line:col: CODE message'; the linter output format may have changed")
		return result
	}
	result.Status = envelope.Succeeded(ok)
	return result
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
