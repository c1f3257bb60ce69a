package exitcode

import (
	"os"
	"strings"

	"github.com/felixgeelhaar/toolwire/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, unknown kind or format)
	UsageError = 2

	// InputError indicates an input file could not be read
	InputError = 3

	// ConfigError indicates an invalid configuration file or tool catalog
	ConfigError = 4

	// CheckFailed indicates a normalized result or quality gate reported failure
	CheckFailed = 5

	// Interrupted indicates the run was cancelled by SIGINT or SIGTERM
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	Exit(DetermineExitCode(err))
}

// DetermineExitCode maps an error to an exit code. Coded errors map by
// category; other errors fall back to message matching for cobra's usage
// errors.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	if te, ok := errors.As(err); ok {
		switch te.Category() {
		case "NORM", "OUTPUT":
			return UsageError
		case "IO":
			return InputError
		case "CONFIG", "CALL":
			return ConfigError
		case "CHECK":
			return CheckFailed
		}
		return GeneralError
	}

	errMsg := strings.ToLower(err.Error())
	for _, usage := range []string{
		"unknown command",
		"unknown flag",
		"unknown shorthand flag",
		"invalid argument",
		"required flag",
		"accepts ",
		"requires at least",
	} {
		if strings.Contains(errMsg, usage) {
			return UsageError
		}
	}

	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags, kind or format)"
	case InputError:
		return "Input could not be read"
	case ConfigError:
		return "Invalid configuration or tool catalog"
	case CheckFailed:
		return "Check failed"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
