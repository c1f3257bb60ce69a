package eval

import "fmt"

// CheckResult is the verdict of one quality check.
type CheckResult struct {
	Name       string `json:"name" yaml:"name"`
	Passed     bool   `json:"passed" yaml:"passed"`
	Skipped    bool   `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Message    string `json:"message" yaml:"message"`
	Diagnostic string `json:"diagnostic,omitempty" yaml:"diagnostic,omitempty"`
}

// GateReport combines the quality checks of one turn into a single verdict.
type GateReport struct {
	Checks       []CheckResult `json:"checks" yaml:"checks"`
	TotalPassed  int           `json:"total_passed" yaml:"total_passed"`
	TotalFailed  int           `json:"total_failed" yaml:"total_failed"`
	TotalSkipped int           `json:"total_skipped" yaml:"total_skipped"`
	AllPassed    bool          `json:"all_passed" yaml:"all_passed"`
}

// GateInputs are the normalized results to gate on. A nil result is a check
// that was not run.
type GateInputs struct {
	TypeCheck *TypeCheckResult
	Lint      *LintResult
	Tests     *TestRunResult
}

// RunGate evaluates already-normalized results. Checks that were not run are
// skipped and do not fail the gate.
func RunGate(in GateInputs) GateReport {
	var checks []CheckResult

	if in.TypeCheck != nil {
		checks = append(checks, CheckResult{
			Name:       "typecheck",
			Passed:     in.TypeCheck.Success,
			Message:    in.TypeCheck.Summary(),
			Diagnostic: in.TypeCheck.Diagnostic,
		})
	} else {
		checks = append(checks, skipped("typecheck"))
	}

	if in.Lint != nil {
		checks = append(checks, CheckResult{
			Name:       "lint",
			Passed:     in.Lint.Success,
			Message:    in.Lint.Summary(),
			Diagnostic: in.Lint.Diagnostic,
		})
	} else {
		checks = append(checks, skipped("lint"))
	}

	if in.Tests != nil {
		checks = append(checks, CheckResult{
			Name:       "tests",
			Passed:     in.Tests.Success,
			Message:    in.Tests.Summary(),
			Diagnostic: in.Tests.Diagnostic,
		})
	} else {
		checks = append(checks, skipped("tests"))
	}

	report := GateReport{Checks: checks}
	for _, check := range checks {
		switch {
		case check.Skipped:
			report.TotalSkipped++
		case check.Passed:
			report.TotalPassed++
		default:
			report.TotalFailed++
		}
	}
	report.AllPassed = report.TotalFailed == 0
	return report
}

// Summary describes the gate in one line.
func (r GateReport) Summary() string {
	return fmt.Sprintf("%d passed, %d failed, %d skipped", r.TotalPassed, r.TotalFailed, r.TotalSkipped)
}

func skipped(name string) CheckResult {
	return CheckResult{Name: name, Skipped: true, Message: "not run"}
}
