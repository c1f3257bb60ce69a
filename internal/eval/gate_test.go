package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunGate(t *testing.T) {
	tc := NormalizeTypeCheck([]byte(`[{"file":"a.py","line":1,"severity":"warning","message":"w"}]`))
	lint := NormalizeLint([]byte("a.py:1:1: F401 [*] unused import\n"))
	tests := NormalizeTestRun([]byte("t.py::test_a PASSED\n1 passed in 0.01s\n"))

	report := RunGate(GateInputs{TypeCheck: &tc, Lint: &lint, Tests: &tests})

	require.Len(t, report.Checks, 3)
	assert.Equal(t, "typecheck", report.Checks[0].Name)
	assert.True(t, report.Checks[0].Passed)
	assert.False(t, report.Checks[1].Passed)
	assert.Equal(t, "1 violation(s), 1 fixable", report.Checks[1].Message)
	assert.True(t, report.Checks[2].Passed)
	assert.Equal(t, 2, report.TotalPassed)
	assert.Equal(t, 1, report.TotalFailed)
	assert.False(t, report.AllPassed)
}

func TestRunGateSkipsMissingChecks(t *testing.T) {
	lint := NormalizeLint(nil)

	report := RunGate(GateInputs{Lint: &lint})

	assert.Equal(t, 1, report.TotalPassed)
	assert.Equal(t, 2, report.TotalSkipped)
	assert.True(t, report.AllPassed)
	assert.True(t, report.Checks[0].Skipped)
	assert.Equal(t, "1 passed, 0 failed, 2 skipped", report.Summary())
}

func TestRunGateCarriesDiagnostics(t *testing.T) {
	tests := NormalizeTestRun([]byte("a.py::t ... ok\n"))

	report := RunGate(GateInputs{Tests: &tests})

	assert.NotEmpty(t, report.Checks[2].Diagnostic)
	assert.True(t, report.AllPassed)
}
