package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTypeCheck(t *testing.T) {
	raw := `[
  {"file": "a.py", "line": 3, "column": 5, "severity": "error", "code": "arg-type", "message": "Argument 1 has incompatible type"},
  {"file": "a.py", "line": 9, "column": 1, "severity": "warning", "code": "unused-ignore", "message": "Unused type: ignore"}
]`

	got := NormalizeTypeCheck([]byte(raw))

	assert.False(t, got.Success)
	assert.Empty(t, got.Diagnostic)
	assert.Equal(t, 1, got.ErrorCount)
	assert.Equal(t, 1, got.WarningCount)
	assert.Equal(t, 0, got.NoteCount)
	require.Len(t, got.Findings, 2)
	assert.Equal(t, TypeCheckFinding{
		File: "a.py", Line: 3, Column: 5, Severity: SeverityError,
		Code: "arg-type", Message: "Argument 1 has incompatible type",
	}, got.Findings[0])
	assert.Equal(t, "1 error(s), 1 warning(s), 0 note(s)", got.Summary())
}

func TestNormalizeTypeCheckEmptyAndUnparsable(t *testing.T) {
	for _, raw := range []string{"", "   \n", "[]", "Success: no issues found in 3 source files", "{not json"} {
		t.Run(raw, func(t *testing.T) {
			got := NormalizeTypeCheck([]byte(raw))
			assert.True(t, got.Success)
			assert.Empty(t, got.Diagnostic)
			assert.Empty(t, got.Findings)
			assert.Zero(t, got.ErrorCount+got.WarningCount+got.NoteCount)
		})
	}
}

func TestNormalizeTypeCheckShapes(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantErrors int
		wantFirst  TypeCheckFinding
	}{
		{
			name: "json lines",
			raw: `{"file": "b.py", "line": 1, "column": 0, "severity": "error", "code": "name-defined", "message": "Name \"x\" is not defined"}
{"file": "b.py", "line": 2, "column": 4, "severity": "note", "code": null, "message": "See docs"}`,
			wantErrors: 1,
			wantFirst: TypeCheckFinding{File: "b.py", Line: 1, Column: 0, Severity: SeverityError,
				Code: "name-defined", Message: `Name "x" is not defined`},
		},
		{
			name: "wrapped with range",
			raw: `{"version": "1.1", "generalDiagnostics": [
  {"file": "/src/c.py", "severity": "error", "rule": "reportMissingImports",
   "message": "Import \"foo\" could not be resolved",
   "range": {"start": {"line": 0, "character": 7}, "end": {"line": 0, "character": 10}}}
]}`,
			wantErrors: 1,
			wantFirst: TypeCheckFinding{File: "/src/c.py", Line: 1, Column: 8, Severity: SeverityError,
				Code: "reportMissingImports", Message: `Import "foo" could not be resolved`},
		},
		{
			name:       "findings key with path and numeric code",
			raw:        `{"findings": [{"path": "d.py", "line": 4, "column": 2, "severity": "information", "code": 2304, "message": "m"}]}`,
			wantErrors: 0,
			wantFirst:  TypeCheckFinding{File: "d.py", Line: 4, Column: 2, Severity: SeverityNote, Code: "2304", Message: "m"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTypeCheck([]byte(tt.raw))
			require.NotEmpty(t, got.Findings)
			assert.Equal(t, tt.wantFirst, got.Findings[0])
			assert.Equal(t, tt.wantErrors, got.ErrorCount)
			assert.Equal(t, tt.wantErrors == 0, got.Success)
		})
	}
}

func TestNormalizeSeverity(t *testing.T) {
	tests := map[string]string{
		"":            SeverityError,
		"ERROR":       SeverityError,
		"fatal":       SeverityError,
		"Warning":     SeverityWarning,
		"warn":        SeverityWarning,
		"note":        SeverityNote,
		"information": SeverityNote,
		"hint":        SeverityNote,
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizeSeverity(in), "severity %q", in)
	}
}

func TestTypeCheckCountsPartitionFindings(t *testing.T) {
	raw := `[{"file":"a","line":1,"severity":"error","message":"x"},
{"file":"a","line":2,"severity":"warning","message":"y"},
{"file":"a","line":3,"severity":"note","message":"z"},
{"file":"a","line":4,"severity":"error","message":"w"}]`
	got := NormalizeTypeCheck([]byte(raw))

	assert.Equal(t, len(got.Findings), got.ErrorCount+got.WarningCount+got.NoteCount)
	assert.Equal(t, 2, got.ErrorCount)
}
