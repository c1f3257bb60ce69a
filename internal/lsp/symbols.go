package lsp

import (
	"github.com/tidwall/gjson"

	"github.com/felixgeelhaar/toolwire/internal/envelope"
	"github.com/felixgeelhaar/toolwire/internal/position"
)

// documentSymbol reads one DocumentSymbol node. Children are read one by
// one so a malformed child drops only itself; dropped counts the losses.
func documentSymbol(v gjson.Result, dropped *int) (DocumentSymbol, bool) {
	name := v.Get("name")
	if !v.IsObject() || name.Type != gjson.String {
		*dropped++
		return DocumentSymbol{}, false
	}

	s := DocumentSymbol{Name: name.String(), Kind: symbolKindName(int(v.Get("kind").Int()))}
	var r position.WireRange
	if err := decode(v.Get("range"), &r); err == nil {
		s.Line = position.Line(r.Start.Line)
		s.EndLine = position.Line(r.End.Line)
	}
	for _, child := range v.Get("children").Array() {
		if c, ok := documentSymbol(child, dropped); ok {
			s.Children = append(s.Children, c)
		}
	}
	return s, true
}

type wireSymbolLocation struct {
	URI   string              `json:"uri"`
	Range *position.WireRange `json:"range"`
}

type wireSymbolInformation struct {
	Name          string             `json:"name"`
	Kind          int                `json:"kind"`
	Location      wireSymbolLocation `json:"location"`
	ContainerName string             `json:"containerName"`
}

// NormalizeDocumentSymbols normalizes a textDocument/documentSymbol response,
// either a DocumentSymbol tree or flat SymbolInformation records. The first
// element decides: a location member means flat.
func NormalizeDocumentSymbols(raw []byte) DocumentSymbolsResult {
	result := DocumentSymbolsResult{Symbols: []DocumentSymbol{}}

	p := parse(raw)
	if status, done := p.settle("documentSymbol", shapeObject, shapeObjectList); done {
		result.Status = status
		return result
	}

	items := p.objects()
	flat := items[0].Get("location").Exists()
	dropped := 0
	for _, item := range items {
		if !flat {
			if sym, ok := documentSymbol(item, &dropped); ok {
				result.Symbols = append(result.Symbols, sym)
			}
			continue
		}
		var w wireSymbolInformation
		if err := decode(item, &w); err != nil {
			dropped++
			continue
		}
		s := DocumentSymbol{Name: w.Name, Kind: symbolKindName(w.Kind)}
		if r := w.Location.Range; r != nil {
			s.Line = position.Line(r.Start.Line)
			s.EndLine = position.Line(r.End.Line)
		}
		result.Symbols = append(result.Symbols, s)
	}

	result.SymbolCount = CountSymbols(result.Symbols)
	if result.SymbolCount == 0 {
		result.Status = envelope.Unrecognized("documentSymbol response objects are neither DocumentSymbol nor SymbolInformation")
		return result
	}
	if dropped > 0 {
		result.Status = envelope.Drift(true, "%d documentSymbol node(s) could not be decoded and were dropped", dropped)
		return result
	}
	result.Status = envelope.Clean()
	return result
}

// NormalizeWorkspaceSymbols normalizes a workspace/symbol response. The
// location range is optional for WorkspaceSymbol records.
func NormalizeWorkspaceSymbols(raw []byte) WorkspaceSymbolsResult {
	result := WorkspaceSymbolsResult{Symbols: []WorkspaceSymbol{}}

	p := parse(raw)
	if status, done := p.settle("workspace/symbol", shapeObject, shapeObjectList); done {
		result.Status = status
		return result
	}

	for _, item := range p.objects() {
		var w wireSymbolInformation
		if err := decode(item, &w); err != nil || w.Name == "" {
			continue
		}
		s := WorkspaceSymbol{
			Name:          w.Name,
			Kind:          symbolKindName(w.Kind),
			File:          uriToPath(w.Location.URI),
			ContainerName: w.ContainerName,
		}
		if r := w.Location.Range; r != nil {
			s.Line = position.Line(r.Start.Line)
		}
		result.Symbols = append(result.Symbols, s)
	}

	result.SymbolCount = len(result.Symbols)
	if result.SymbolCount == 0 {
		result.Status = envelope.Unrecognized("workspace/symbol response objects are not symbol records")
		return result
	}
	result.Status = envelope.Clean()
	return result
}
