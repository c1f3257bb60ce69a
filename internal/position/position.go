// Package position converts language-server wire coordinates to the
// 1-based line/column convention used in every normalized result.
//
// Wire positions are 0-based. Conversion happens once, when a wire range is
// decoded into a result entry, and never again downstream.
package position

// Wire is a 0-based position as it appears in a language-server response.
type Wire struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// WireRange is a 0-based start/end pair as it appears on the wire.
type WireRange struct {
	Start Wire `json:"start"`
	End   Wire `json:"end"`
}

// Point is a 1-based position.
type Point struct {
	Line   int
	Column int
}

// Span is a 1-based start/end pair.
type Span struct {
	Start Point
	End   Point
}

// FromWire converts a single wire position.
func FromWire(w Wire) Point {
	return Point{Line: w.Line + 1, Column: w.Character + 1}
}

// FromWireRange converts both ends of a wire range.
func FromWireRange(r WireRange) Span {
	return Span{Start: FromWire(r.Start), End: FromWire(r.End)}
}

// Line converts a lone wire line number.
func Line(wireLine int) int {
	return wireLine + 1
}
