package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/toolwire/internal/envelope"
)

const typeCheckFixture = `[
  {"file": "a.py", "line": 3, "column": 5, "severity": "error", "code": "arg-type", "message": "Argument 1 has incompatible type"},
  {"file": "b.py", "line": 9, "column": 1, "severity": "warning", "code": "unused-ignore", "message": "Unused type: ignore"},
  {"file": "b.py", "line": 12, "severity": "note", "message": "See the docs"}
]`

func TestTypeCheckRenormalizesOwnOutput(t *testing.T) {
	first := NormalizeTypeCheck([]byte(typeCheckFixture))

	data, err := envelope.Marshal(envelope.FormatJSON, first)
	require.NoError(t, err)
	second := NormalizeTypeCheck(data)

	assert.Equal(t, first.Findings, second.Findings)
	assert.Equal(t, first.ErrorCount, second.ErrorCount)
	assert.Equal(t, first.WarningCount, second.WarningCount)
	assert.Equal(t, first.NoteCount, second.NoteCount)
	assert.Equal(t, first.Status, second.Status)
}

func TestTypeCheckCodecRoundTrip(t *testing.T) {
	in := NormalizeTypeCheck([]byte(typeCheckFixture))

	for _, f := range envelope.Formats() {
		t.Run(string(f), func(t *testing.T) {
			data, err := envelope.Marshal(f, in)
			require.NoError(t, err)

			var out TypeCheckResult
			require.NoError(t, envelope.Unmarshal(f, data, &out))
			assert.Equal(t, in.Status, out.Status)
			assert.Equal(t, in.Findings, out.Findings)

			var errs, warns, notes int
			for _, finding := range out.Findings {
				switch finding.Severity {
				case SeverityError:
					errs++
				case SeverityWarning:
					warns++
				default:
					notes++
				}
			}
			assert.Equal(t, out.ErrorCount, errs)
			assert.Equal(t, out.WarningCount, warns)
			assert.Equal(t, out.NoteCount, notes)
		})
	}
}
