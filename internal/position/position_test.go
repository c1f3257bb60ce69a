package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromWire(t *testing.T) {
	tests := []struct {
		name string
		in   Wire
		want Point
	}{
		{name: "origin", in: Wire{Line: 0, Character: 0}, want: Point{Line: 1, Column: 1}},
		{name: "middle", in: Wire{Line: 9, Character: 4}, want: Point{Line: 10, Column: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromWire(tt.in))
		})
	}
}

func TestFromWireRange(t *testing.T) {
	got := FromWireRange(WireRange{
		Start: Wire{Line: 2, Character: 3},
		End:   Wire{Line: 2, Character: 11},
	})

	assert.Equal(t, Point{Line: 3, Column: 4}, got.Start)
	assert.Equal(t, Point{Line: 3, Column: 12}, got.End)
}

func TestLine(t *testing.T) {
	assert.Equal(t, 1, Line(0))
	assert.Equal(t, 42, Line(41))
}
