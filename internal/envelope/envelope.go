// Package envelope defines the result contract shared by every normalizer.
//
// A normalizer returns a domain-specific result type that embeds Status and
// carries an ordered slice of entries plus counts derived from those entries.
// Three outcomes stay distinguishable:
//
//   - legitimate absence: empty input or "nothing found"; no diagnostic
//   - format drift: input resembles the grammar but yields no entries;
//     diagnostic set, success computed normally from the (zero) count
//   - unrecognized shape: success false, no entries, diagnostic set
package envelope

import "fmt"

// Status is the header every result embeds.
type Status struct {
	Success    bool   `json:"success" yaml:"success"`
	Diagnostic string `json:"diagnostic,omitempty" yaml:"diagnostic,omitempty"`
}

// Header returns the status itself so any embedding type satisfies Result.
func (s Status) Header() Status {
	return s
}

// HasDiagnostic reports whether a diagnostic note is attached.
func (s Status) HasDiagnostic() bool {
	return s.Diagnostic != ""
}

// Result is implemented by every normalizer output.
type Result interface {
	Header() Status
	// Summary is a one-line human description of the counts.
	Summary() string
}

// Clean is the status for empty input or a zero-finding run.
func Clean() Status {
	return Status{Success: true}
}

// Succeeded is the status for a run whose success was computed from counts.
func Succeeded(ok bool) Status {
	return Status{Success: ok}
}

// NotFound is the status for a legitimate "nothing found" response.
func NotFound() Status {
	return Status{Success: false}
}

// Drift attaches a soft diagnostic without changing the computed success.
func Drift(success bool, format string, args ...any) Status {
	return Status{Success: success, Diagnostic: fmt.Sprintf(format, args...)}
}

// Unrecognized is the status for input that matches no known shape.
func Unrecognized(format string, args ...any) Status {
	return Status{Success: false, Diagnostic: fmt.Sprintf(format, args...)}
}
