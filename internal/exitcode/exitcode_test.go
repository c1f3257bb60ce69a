package exitcode

import (
	"fmt"
	"testing"

	"github.com/felixgeelhaar/toolwire/internal/errors"
)

func TestDetermineExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error returns success", nil, Success},
		{"unknown kind", errors.NewUnknownKindError("foo", []string{"lint"}), UsageError},
		{"unknown format", errors.NewUnknownFormatError("xml", []string{"json"}), UsageError},
		{"file not found", errors.NewFileNotFoundError("a.txt"), InputError},
		{"wrapped read failure", fmt.Errorf("extract: %w", errors.NewFileReadError("a", fmt.Errorf("denied"))), InputError},
		{"config invalid", errors.NewConfigInvalidError("log.level"), ConfigError},
		{"catalog load", errors.NewCatalogLoadError("c.yaml", fmt.Errorf("bad")), ConfigError},
		{"result failed", errors.NewCheckFailedError(errors.ErrCodeResultFailed, "1 violation(s)"), CheckFailed},
		{"gate failed", errors.NewCheckFailedError(errors.ErrCodeGateFailed, "1 failed"), CheckFailed},
		{"cobra unknown command", fmt.Errorf(`unknown command "foo" for "toolwire"`), UsageError},
		{"cobra unknown flag", fmt.Errorf("unknown flag: --nope"), UsageError},
		{"cobra arg count", fmt.Errorf("accepts at most 1 arg(s), received 2"), UsageError},
		{"cobra min args", fmt.Errorf("requires at least 1 arg(s), only received 0"), UsageError},
		{"generic error", fmt.Errorf("something went wrong"), GeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineExitCode(tt.err); got != tt.expected {
				t.Errorf("DetermineExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestGetExitCodeDescription(t *testing.T) {
	for _, code := range []int{Success, GeneralError, UsageError, InputError, ConfigError, CheckFailed, Interrupted} {
		if got := GetExitCodeDescription(code); got == "" || got == "Unknown error" {
			t.Errorf("GetExitCodeDescription(%d) = %q", code, got)
		}
	}
	if got := GetExitCodeDescription(99); got != "Unknown error" {
		t.Errorf("GetExitCodeDescription(99) = %q, want Unknown error", got)
	}
}
