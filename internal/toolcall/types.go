// Package toolcall extracts tool invocations embedded in assistant text.
//
// Two encodings are recognized inside a wrapper block
// (<tool_call> ... </tool_call> by default):
//
//	{"name": "run_lint", "arguments": {"path": "src"}}
//
//	<function=run_lint>
//	<parameter=path>
//	src
//	</parameter>
//	</function>
//
// A tag record followed by the closing marker but missing its opening marker
// is accepted as a degraded call when it does not overlap a well-formed block.
package toolcall

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Encoding records how a call was recovered from the text.
type Encoding string

const (
	// EncodingJSON is a wrapped structured-data record.
	EncodingJSON Encoding = "json"
	// EncodingTags is a wrapped tag record.
	EncodingTags Encoding = "tags"
	// EncodingDegraded is a tag record whose opening marker is missing.
	EncodingDegraded Encoding = "degraded"
	// EncodingSalvaged is a wrapped block that matched neither grammar.
	EncodingSalvaged Encoding = "salvaged"
)

// Markers are the wrapper delimiters around a call record.
type Markers struct {
	Open  string `json:"open" yaml:"open"`
	Close string `json:"close" yaml:"close"`
}

// DefaultMarkers returns the <tool_call> wrapper.
func DefaultMarkers() Markers {
	return Markers{Open: "<tool_call>", Close: "</tool_call>"}
}

// Call is one extracted tool invocation.
type Call struct {
	ID        string         `json:"id,omitempty" yaml:"id,omitempty"`
	Name      string         `json:"name" yaml:"name"`
	Arguments map[string]any `json:"arguments" yaml:"arguments"`
	Encoding  Encoding       `json:"encoding" yaml:"encoding"`

	// Malformed is set for salvaged blocks; Raw then holds the block body.
	Malformed bool   `json:"malformed,omitempty" yaml:"malformed,omitempty"`
	Raw       string `json:"raw,omitempty" yaml:"raw,omitempty"`

	// Warnings are catalog checks that failed. They never drop the call.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// Offset is the byte offset of the call in the original text.
	Offset int `json:"offset" yaml:"offset"`
}

// Extraction is the residual text plus the calls in source order.
type Extraction struct {
	Text  string `json:"text" yaml:"text"`
	Calls []Call `json:"calls" yaml:"calls"`
}

// Summary describes the extraction in one line.
func (e Extraction) Summary() string {
	if len(e.Calls) == 0 {
		return "no tool calls"
	}

	var degraded, malformed int
	names := make([]string, 0, len(e.Calls))
	for _, c := range e.Calls {
		switch {
		case c.Malformed:
			malformed++
		case c.Encoding == EncodingDegraded:
			degraded++
		}
		names = append(names, c.Name)
	}

	s := fmt.Sprintf("%d tool call(s): %s", len(e.Calls), strings.Join(names, ", "))
	if degraded > 0 {
		s += fmt.Sprintf(" (%d degraded)", degraded)
	}
	if malformed > 0 {
		s += fmt.Sprintf(" (%d malformed)", malformed)
	}
	return s
}

// NewID returns a fresh call identifier.
func NewID() string {
	return "call_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}
