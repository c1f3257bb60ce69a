package lsp

import (
	"github.com/tidwall/gjson"

	"github.com/felixgeelhaar/toolwire/internal/envelope"
	"github.com/felixgeelhaar/toolwire/internal/position"
)

// wireLocation decodes both Location and LocationLink.
type wireLocation struct {
	URI                  string              `json:"uri"`
	Range                position.WireRange  `json:"range"`
	TargetURI            string              `json:"targetUri"`
	TargetRange          *position.WireRange `json:"targetRange"`
	TargetSelectionRange *position.WireRange `json:"targetSelectionRange"`
}

func (w wireLocation) location() (Location, bool) {
	if w.URI != "" {
		return newLocation(w.URI, w.Range), true
	}
	if w.TargetURI == "" {
		return Location{}, false
	}
	switch {
	case w.TargetSelectionRange != nil:
		return newLocation(w.TargetURI, *w.TargetSelectionRange), true
	case w.TargetRange != nil:
		return newLocation(w.TargetURI, *w.TargetRange), true
	}
	return newLocation(w.TargetURI, position.WireRange{}), true
}

// NormalizeDefinition normalizes a textDocument/definition response.
func NormalizeDefinition(raw []byte) DefinitionResult {
	result := DefinitionResult{Locations: []Location{}}

	p := parse(raw)
	if status, done := p.settle("definition", shapeObject, shapeObjectList); done {
		result.Status = status
		return result
	}

	locs, ok := decodeLocations(p.objects())
	if !ok {
		result.Status = envelope.Unrecognized("definition response objects are neither Location nor LocationLink")
		return result
	}
	result.Locations = locs
	result.LocationCount = len(locs)
	result.Status = envelope.Succeeded(result.LocationCount > 0)
	return result
}

// NormalizeReferences normalizes a textDocument/references response.
func NormalizeReferences(raw []byte) ReferencesResult {
	result := ReferencesResult{References: []Location{}}

	p := parse(raw)
	if status, done := p.settle("references", shapeObject, shapeObjectList); done {
		result.Status = status
		return result
	}

	locs, ok := decodeLocations(p.objects())
	if !ok {
		result.Status = envelope.Unrecognized("references response objects are neither Location nor LocationLink")
		return result
	}
	result.References = locs
	result.ReferenceCount = len(locs)
	result.Status = envelope.Succeeded(result.ReferenceCount > 0)
	return result
}

// decodeLocations reports false when no object decodes as a location.
// Individual objects without a URI are dropped.
func decodeLocations(items []gjson.Result) ([]Location, bool) {
	locs := []Location{}
	for _, item := range items {
		var w wireLocation
		if err := decode(item, &w); err != nil {
			continue
		}
		if loc, ok := w.location(); ok {
			locs = append(locs, loc)
		}
	}
	return locs, len(locs) > 0
}
