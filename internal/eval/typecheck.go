package eval

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/felixgeelhaar/toolwire/internal/envelope"
	"github.com/felixgeelhaar/toolwire/internal/position"
)

// wrapperKeys are the object members a type checker may nest findings under.
var wrapperKeys = []string{"findings", "diagnostics", "generalDiagnostics"}

// wireFinding accepts the field spellings of the common type checkers.
// Checkers that report a 0-based LSP-style range instead of line/column get
// converted through the position package.
type wireFinding struct {
	File     string              `json:"file"`
	Path     string              `json:"path"`
	Line     *int                `json:"line"`
	Column   *int                `json:"column"`
	Severity string              `json:"severity"`
	Code     json.RawMessage     `json:"code"`
	Rule     string              `json:"rule"`
	Message  string              `json:"message"`
	Range    *position.WireRange `json:"range"`
}

// NormalizeTypeCheck normalizes type checker output: a JSON array of
// findings, one JSON finding per line, or an object carrying the array under
// findings, diagnostics or generalDiagnostics.
//
// Empty or unparsable input is a clean run.
func NormalizeTypeCheck(raw []byte) TypeCheckResult {
	findings := decodeFindings(raw)

	result := TypeCheckResult{Findings: findings}
	for _, f := range findings {
		switch f.Severity {
		case SeverityError:
			result.ErrorCount++
		case SeverityWarning:
			result.WarningCount++
		default:
			result.NoteCount++
		}
	}
	result.Status = envelope.Succeeded(result.ErrorCount == 0)
	return result
}

func decodeFindings(raw []byte) []TypeCheckFinding {
	findings := []TypeCheckFinding{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	for {
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return findings
		}
		findings = append(findings, findingsFromValue(value)...)
	}
}

func findingsFromValue(value json.RawMessage) []TypeCheckFinding {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil
		}
		var out []TypeCheckFinding
		for _, item := range items {
			if f, ok := decodeFinding(item); ok {
				out = append(out, f)
			}
		}
		return out
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return nil
		}
		for _, key := range wrapperKeys {
			if nested, ok := obj[key]; ok {
				return findingsFromValue(nested)
			}
		}
		if f, ok := decodeFinding(trimmed); ok {
			return []TypeCheckFinding{f}
		}
	}
	return nil
}

func decodeFinding(item json.RawMessage) (TypeCheckFinding, bool) {
	var w wireFinding
	if err := json.Unmarshal(item, &w); err != nil {
		return TypeCheckFinding{}, false
	}
	if w.Message == "" && w.File == "" && w.Path == "" {
		return TypeCheckFinding{}, false
	}

	f := TypeCheckFinding{
		File:     w.File,
		Severity: normalizeSeverity(w.Severity),
		Code:     codeString(w.Code),
		Message:  w.Message,
	}
	if f.File == "" {
		f.File = w.Path
	}
	if f.Code == "" {
		f.Code = w.Rule
	}

	switch {
	case w.Line != nil:
		f.Line = *w.Line
		if w.Column != nil {
			f.Column = *w.Column
		}
	case w.Range != nil:
		start := position.FromWire(w.Range.Start)
		f.Line, f.Column = start.Line, start.Column
	}
	return f, true
}

// codeString accepts a string or numeric code; null yields "".
func codeString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

// normalizeSeverity folds checker-specific severities into error, warning
// and note. A missing severity is an error.
func normalizeSeverity(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "error", "fatal":
		return SeverityError
	case "warning", "warn":
		return SeverityWarning
	default:
		return SeverityNote
	}
}
