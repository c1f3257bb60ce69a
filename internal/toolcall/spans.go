package toolcall

import "sort"

// span is a half-open byte interval [start, end) of the source text.
type span struct {
	start, end int
}

func (s span) overlaps(o span) bool {
	return s.start < o.end && o.start < s.end
}

// consumed is the set of spans already claimed by an earlier pass.
type consumed []span

func (c consumed) overlaps(s span) bool {
	for _, taken := range c {
		if taken.overlaps(s) {
			return true
		}
	}
	return false
}

// strip removes every span from text. Spans must not overlap. Removal runs in
// descending start order so earlier offsets stay valid.
func strip(text string, spans []span) string {
	ordered := make([]span, len(spans))
	copy(ordered, spans)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].start > ordered[j].start })

	out := text
	for _, s := range ordered {
		out = out[:s.start] + out[s.end:]
	}
	return out
}
