package eval

import (
	"fmt"

	"github.com/felixgeelhaar/toolwire/internal/envelope"
)

// Severity of a type-check finding.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityNote    = "note"
)

// Test outcomes.
const (
	OutcomePassed  = "passed"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
	OutcomeError   = "error"
)

// TypeCheckFinding is one type checker diagnostic.
type TypeCheckFinding struct {
	File     string `json:"file" yaml:"file"`
	Line     int    `json:"line" yaml:"line"`
	Column   int    `json:"column" yaml:"column"`
	Severity string `json:"severity" yaml:"severity"`
	Code     string `json:"code" yaml:"code"`
	Message  string `json:"message" yaml:"message"`
}

// TypeCheckResult holds every finding; counts partition them by severity.
type TypeCheckResult struct {
	envelope.Status `yaml:",inline"`
	Findings        []TypeCheckFinding `json:"findings" yaml:"findings"`
	ErrorCount      int                `json:"error_count" yaml:"error_count"`
	WarningCount    int                `json:"warning_count" yaml:"warning_count"`
	NoteCount       int                `json:"note_count" yaml:"note_count"`
}

// Summary implements envelope.Result.
func (r TypeCheckResult) Summary() string {
	return fmt.Sprintf("%d error(s), %d warning(s), %d note(s)", r.ErrorCount, r.WarningCount, r.NoteCount)
}

// LintFinding is one lint violation.
type LintFinding struct {
	File    string `json:"file" yaml:"file"`
	Line    int    `json:"line" yaml:"line"`
	Column  int    `json:"column" yaml:"column"`
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
	Fixable bool   `json:"fixable" yaml:"fixable"`
}

// LintResult is successful only when there are no violations.
type LintResult struct {
	envelope.Status `yaml:",inline"`
	Violations      []LintFinding `json:"violations" yaml:"violations"`
	ViolationCount  int           `json:"violation_count" yaml:"violation_count"`
	FixableCount    int           `json:"fixable_count" yaml:"fixable_count"`
}

// Summary implements envelope.Result.
func (r LintResult) Summary() string {
	return fmt.Sprintf("%d violation(s), %d fixable", r.ViolationCount, r.FixableCount)
}

// TestCase is one test from a run.
type TestCase struct {
	Name     string  `json:"name" yaml:"name"`
	Outcome  string  `json:"outcome" yaml:"outcome"`
	Duration float64 `json:"duration" yaml:"duration"`
	Message  string  `json:"message,omitempty" yaml:"message,omitempty"`
}

// TestRunResult is successful when nothing failed or errored.
type TestRunResult struct {
	envelope.Status `yaml:",inline"`
	Tests           []TestCase `json:"tests" yaml:"tests"`
	Passed          int        `json:"passed" yaml:"passed"`
	Failed          int        `json:"failed" yaml:"failed"`
	Skipped         int        `json:"skipped" yaml:"skipped"`
	Errors          int        `json:"errors" yaml:"errors"`
	Total           int        `json:"total" yaml:"total"`
	// Duration is the suite wall time in seconds, from the summary line.
	Duration float64 `json:"duration" yaml:"duration"`
}

// Summary implements envelope.Result.
func (r TestRunResult) Summary() string {
	return fmt.Sprintf("%d passed, %d failed, %d skipped, %d error(s) in %.2fs",
		r.Passed, r.Failed, r.Skipped, r.Errors, r.Duration)
}
