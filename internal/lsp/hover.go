package lsp

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/felixgeelhaar/toolwire/internal/envelope"
	"github.com/felixgeelhaar/toolwire/internal/position"
)

// DefaultHoverLanguage is reported when no hover part names a language.
const DefaultHoverLanguage = "plaintext"

type hoverPart struct {
	language string
	value    string
}

// NormalizeHover normalizes a textDocument/hover response. The hovered
// symbol is not part of the response, so the caller passes it in.
//
// Contents may be MarkupContent, a MarkedString or a list of MarkedStrings;
// the parts are joined in order with a blank line.
func NormalizeHover(raw []byte, symbol string) HoverResult {
	result := HoverResult{Symbol: symbol, Language: DefaultHoverLanguage}

	p := parse(raw)
	if status, done := p.settle("hover", shapeObject); done {
		result.Status = status
		return result
	}

	contents := p.value.Get("contents")
	if !contents.Exists() {
		result.Status = envelope.Unrecognized("hover response object has no contents")
		return result
	}
	parts, ok := hoverParts(contents)
	if !ok {
		result.Status = envelope.Unrecognized("hover contents are a %s, not MarkupContent or MarkedString", classify(contents))
		return result
	}

	var values []string
	languageSet := false
	for _, part := range parts {
		if !languageSet && part.language != "" {
			result.Language = part.language
			languageSet = true
		}
		if v := strings.TrimSpace(part.value); v != "" {
			values = append(values, v)
		}
	}
	result.Content = strings.Join(values, "\n\n")

	if r := p.value.Get("range"); r.IsObject() {
		var wr position.WireRange
		if err := decode(r, &wr); err == nil {
			span := position.FromWireRange(wr)
			result.Range = &Range{
				Line:      span.Start.Line,
				Column:    span.Start.Column,
				EndLine:   span.End.Line,
				EndColumn: span.End.Column,
			}
		}
	}

	result.Status = envelope.Succeeded(result.Content != "")
	return result
}

func hoverParts(contents gjson.Result) ([]hoverPart, bool) {
	switch {
	case contents.Type == gjson.String:
		return []hoverPart{{value: contents.String()}}, true
	case contents.IsObject():
		part, ok := markedString(contents)
		return []hoverPart{part}, ok
	case contents.IsArray():
		var parts []hoverPart
		for _, item := range contents.Array() {
			if item.Type == gjson.String {
				parts = append(parts, hoverPart{value: item.String()})
				continue
			}
			part, ok := markedString(item)
			if !ok {
				return nil, false
			}
			parts = append(parts, part)
		}
		return parts, true
	}
	return nil, false
}

// markedString reads {language, value} or MarkupContent {kind, value}. The
// markup kind is a rendering hint, not a language.
func markedString(v gjson.Result) (hoverPart, bool) {
	value := v.Get("value")
	if !v.IsObject() || value.Type != gjson.String {
		return hoverPart{}, false
	}
	return hoverPart{language: v.Get("language").String(), value: value.String()}, true
}
