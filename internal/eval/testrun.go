package eval

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/toolwire/internal/envelope"
)

var (
	// testLineRe is one per-test record: qualified.name OUTCOME, optionally
	// followed by a parenthesized duration or reason and a progress marker.
	// Parametrized names may contain spaces.
	testLineRe = regexp.MustCompile(`^(.+?)\s+(PASSED|FAILED|SKIPPED|ERROR|XFAIL|XPASS)(?:\s+\(([^)]*)\))?(?:\s+\[\s*\d+%\])?$`)

	testDurationRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)s$`)

	// testShortSummaryRe is a short summary record: OUTCOME name - message.
	testShortSummaryRe = regexp.MustCompile(`^(FAILED|ERROR)\s+(.+?)(?:\s+-\s+(.*))?$`)

	// testSummaryRe is the trailing summary: "=== 1 failed, 1 passed in 0.10s ===".
	testSummaryRe = regexp.MustCompile(`(?i)^=*\s*(.*?)\s+in\s+(\d+(?:\.\d+)?)s\b(?:\s*\([^)]*\))?\s*=*$`)

	testSummaryWordRe = regexp.MustCompile(`(?i)\b(passed|failed|errors?|skipped|xfailed|xpassed|deselected|warnings?|no tests ran)\b`)
	testCountRe       = regexp.MustCompile(`(?i)(\d+)\s+(passed|failed|errors?|skipped|xfailed|xpassed)\b`)
	testOutcomeWordRe = regexp.MustCompile(`\b(PASSED|FAILED|SKIPPED|ERROR)\b`)
)

// outcomes maps the wire outcome word to the normalized outcome.
var outcomes = map[string]string{
	"PASSED":  OutcomePassed,
	"FAILED":  OutcomeFailed,
	"SKIPPED": OutcomeSkipped,
	"ERROR":   OutcomeError,
	"XFAIL":   OutcomeSkipped,
	"XPASS":   OutcomePassed,
}

type testSummary struct {
	found    bool
	duration float64
	reported int
}

// NormalizeTestRun normalizes test runner output. Entries come from the
// per-test lines, the suite duration from the trailing summary line.
// Failure messages are attached from short summary lines.
func NormalizeTestRun(raw []byte) TestRunResult {
	text := string(raw)
	result := TestRunResult{Tests: []TestCase{}}
	index := map[string]int{}
	var summary testSummary
	verbose := false

	for _, line := range splitLines(text) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := testLineRe.FindStringSubmatch(line); m != nil {
			verbose = true
			tc := TestCase{Name: m[1], Outcome: outcomes[m[2]]}
			if d := testDurationRe.FindStringSubmatch(m[3]); d != nil {
				tc.Duration, _ = strconv.ParseFloat(d[1], 64)
			} else if m[3] != "" {
				tc.Message = m[3]
			}
			if i, seen := index[tc.Name]; seen {
				result.Tests[i].Outcome = tc.Outcome
				continue
			}
			index[tc.Name] = len(result.Tests)
			result.Tests = append(result.Tests, tc)
			continue
		}

		if m := testShortSummaryRe.FindStringSubmatch(line); m != nil {
			outcome := outcomes[m[1]]
			if i, seen := index[m[2]]; seen {
				if m[3] != "" {
					result.Tests[i].Message = m[3]
				}
				continue
			}
			index[m[2]] = len(result.Tests)
			result.Tests = append(result.Tests, TestCase{Name: m[2], Outcome: outcome, Message: m[3]})
			continue
		}

		if s, ok := parseTestSummary(line); ok {
			summary = s
		}
	}

	for _, tc := range result.Tests {
		switch tc.Outcome {
		case OutcomePassed:
			result.Passed++
		case OutcomeFailed:
			result.Failed++
		case OutcomeSkipped:
			result.Skipped++
		case OutcomeError:
			result.Errors++
		}
	}
	result.Total = len(result.Tests)
	result.Duration = summary.duration

	ok := result.Failed == 0 && result.Errors == 0
	if result.Total == 0 && looksLikeTestOutput(text, summary) {
		result.Status = envelope.Drift(ok,
			"test output looks like a test run but no line matched 'qualified.name OUTCOME'; the runner output format may have changed")
		return result
	}
	// Quiet output lists only failures, so the counts are compared only when
	// every test had its own line.
	if verbose && summary.reported > 0 && summary.reported != result.Total {
		result.Status = envelope.Drift(ok,
			"summary reports %d test(s) but %d per-test line(s) were parsed; some lines may not match 'qualified.name OUTCOME'",
			summary.reported, result.Total)
		return result
	}
	result.Status = envelope.Succeeded(ok)
	return result
}

func parseTestSummary(line string) (testSummary, bool) {
	m := testSummaryRe.FindStringSubmatch(line)
	if m == nil || !testSummaryWordRe.MatchString(m[1]) {
		return testSummary{}, false
	}
	s := testSummary{found: true}
	s.duration, _ = strconv.ParseFloat(m[2], 64)
	for _, c := range testCountRe.FindAllStringSubmatch(m[1], -1) {
		n, _ := strconv.Atoi(c[1])
		s.reported += n
	}
	return s, true
}

// looksLikeTestOutput is the format drift heuristic: node ids, outcome
// words, or a summary that reports tests.
func looksLikeTestOutput(text string, summary testSummary) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	if summary.found && summary.reported > 0 {
		return true
	}
	return strings.Contains(text, "::") || testOutcomeWordRe.MatchString(text)
}
