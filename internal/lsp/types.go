package lsp

import (
	"fmt"

	"github.com/felixgeelhaar/toolwire/internal/envelope"
	"github.com/felixgeelhaar/toolwire/internal/position"
)

// Location is a 1-based source range in a file.
type Location struct {
	File      string `json:"file" yaml:"file"`
	Line      int    `json:"line" yaml:"line"`
	Column    int    `json:"column" yaml:"column"`
	EndLine   int    `json:"end_line" yaml:"end_line"`
	EndColumn int    `json:"end_column" yaml:"end_column"`
}

func newLocation(uri string, r position.WireRange) Location {
	span := position.FromWireRange(r)
	return Location{
		File:      uriToPath(uri),
		Line:      span.Start.Line,
		Column:    span.Start.Column,
		EndLine:   span.End.Line,
		EndColumn: span.End.Column,
	}
}

// DefinitionResult lists where a symbol is defined.
type DefinitionResult struct {
	envelope.Status `yaml:",inline"`
	Locations       []Location `json:"locations" yaml:"locations"`
	LocationCount   int        `json:"location_count" yaml:"location_count"`
}

// Summary implements envelope.Result.
func (r DefinitionResult) Summary() string {
	return fmt.Sprintf("%d definition(s)", r.LocationCount)
}

// ReferencesResult lists every use of a symbol.
type ReferencesResult struct {
	envelope.Status `yaml:",inline"`
	References      []Location `json:"references" yaml:"references"`
	ReferenceCount  int        `json:"reference_count" yaml:"reference_count"`
}

// Summary implements envelope.Result.
func (r ReferencesResult) Summary() string {
	return fmt.Sprintf("%d reference(s)", r.ReferenceCount)
}

// Range is a 1-based range within the hovered document.
type Range struct {
	Line      int `json:"line" yaml:"line"`
	Column    int `json:"column" yaml:"column"`
	EndLine   int `json:"end_line" yaml:"end_line"`
	EndColumn int `json:"end_column" yaml:"end_column"`
}

// HoverResult is the documentation shown for a symbol.
type HoverResult struct {
	envelope.Status `yaml:",inline"`
	Symbol          string `json:"symbol" yaml:"symbol"`
	Content         string `json:"content" yaml:"content"`
	Language        string `json:"language" yaml:"language"`
	Range           *Range `json:"range,omitempty" yaml:"range,omitempty"`
}

// Summary implements envelope.Result.
func (r HoverResult) Summary() string {
	if r.Content == "" {
		return "no hover information"
	}
	return fmt.Sprintf("hover for %q (%s, %d bytes)", r.Symbol, r.Language, len(r.Content))
}

// DocumentSymbol is one node of a document outline.
type DocumentSymbol struct {
	Name     string           `json:"name" yaml:"name"`
	Kind     string           `json:"kind" yaml:"kind"`
	Line     int              `json:"line" yaml:"line"`
	EndLine  int              `json:"end_line" yaml:"end_line"`
	Children []DocumentSymbol `json:"children,omitempty" yaml:"children,omitempty"`
}

// DocumentSymbolsResult is a document outline. SymbolCount counts every node
// of the tree, not just the roots.
type DocumentSymbolsResult struct {
	envelope.Status `yaml:",inline"`
	Symbols         []DocumentSymbol `json:"symbols" yaml:"symbols"`
	SymbolCount     int              `json:"symbol_count" yaml:"symbol_count"`
}

// Summary implements envelope.Result.
func (r DocumentSymbolsResult) Summary() string {
	return fmt.Sprintf("%d symbol(s)", r.SymbolCount)
}

// CountSymbols returns the number of nodes in the given trees.
func CountSymbols(symbols []DocumentSymbol) int {
	n := 0
	for _, s := range symbols {
		n += 1 + CountSymbols(s.Children)
	}
	return n
}

// WorkspaceSymbol is one search hit. Line is 0 when the server omitted the
// range.
type WorkspaceSymbol struct {
	Name          string `json:"name" yaml:"name"`
	Kind          string `json:"kind" yaml:"kind"`
	File          string `json:"file" yaml:"file"`
	Line          int    `json:"line" yaml:"line"`
	ContainerName string `json:"container_name,omitempty" yaml:"container_name,omitempty"`
}

// WorkspaceSymbolsResult lists workspace symbol search hits.
type WorkspaceSymbolsResult struct {
	envelope.Status `yaml:",inline"`
	Symbols         []WorkspaceSymbol `json:"symbols" yaml:"symbols"`
	SymbolCount     int               `json:"symbol_count" yaml:"symbol_count"`
}

// Summary implements envelope.Result.
func (r WorkspaceSymbolsResult) Summary() string {
	return fmt.Sprintf("%d symbol(s)", r.SymbolCount)
}
