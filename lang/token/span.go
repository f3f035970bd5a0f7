package token

import (
	gotoken "go/token"
	"sort"
)

// Position is a file/line/column location used when rendering diagnostics.
// Line and Column are 1-based, Offset is the byte offset in the source.
type Position = gotoken.Position

// SourceID is the opaque numeric identity of a loaded source. Ids are
// assigned monotonically at load time; two sources with the same name but
// distinct ids are distinct.
type SourceID uint64

// A Span is a half-open [Start, End) byte-offset range within the source
// identified by Source.
type Span struct {
	Start  int
	End    int
	Source SourceID
}

// IsValid returns true if the span covers at least an empty range of a
// known source.
func (s Span) IsValid() bool { return s.Source != 0 && s.Start >= 0 && s.End >= s.Start }

// Extend returns the span covering both s and other. Both spans must belong
// to the same source.
func (s Span) Extend(other Span) Span {
	if !s.IsValid() {
		return other
	}
	if !other.IsValid() {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// A Source is the handle of a registered source text: its id, its name and
// the byte offsets of its line starts.
type Source struct {
	ID   SourceID
	Name string

	size  int
	lines []int // byte offset of each line start, lines[0] == 0
}

// Size returns the length in bytes of the source text.
func (s *Source) Size() int { return s.size }

// Position converts a byte offset into a Position within the source.
func (s *Source) Position(off int) Position {
	if off < 0 {
		off = 0
	}
	if off > s.size {
		off = s.size
	}
	i := sort.Search(len(s.lines), func(i int) bool { return s.lines[i] > off }) - 1
	return Position{
		Filename: s.Name,
		Offset:   off,
		Line:     i + 1,
		Column:   off - s.lines[i] + 1,
	}
}

// SpanPosition converts the start offset of the span into a Position.
func (s *Source) SpanPosition(sp Span) Position { return s.Position(sp.Start) }

// A SourceSet registers source texts and assigns their ids. The core makes
// no assumption about how the text is obtained; the loader feeds
// (name, text) pairs and receives the Source handle to use for spans.
type SourceSet struct {
	sources map[SourceID]*Source
}

// NewSourceSet creates an empty source set.
func NewSourceSet() *SourceSet {
	return &SourceSet{sources: make(map[SourceID]*Source)}
}

// Add registers the source text under name and returns its handle. Each
// call assigns a fresh id, even for an identical name.
func (ss *SourceSet) Add(name string, src []byte) *Source {
	s := &Source{
		ID:    SourceID(NextUID()),
		Name:  name,
		size:  len(src),
		lines: []int{0},
	}
	for i, b := range src {
		if b == '\n' {
			s.lines = append(s.lines, i+1)
		}
	}
	ss.sources[s.ID] = s
	return s
}

// Source returns the handle registered under id, or nil.
func (ss *SourceSet) Source(id SourceID) *Source { return ss.sources[id] }

// Position resolves a span against the set, returning a zero Position for
// unknown sources.
func (ss *SourceSet) Position(sp Span) Position {
	if s := ss.sources[sp.Source]; s != nil {
		return s.SpanPosition(sp)
	}
	return Position{Offset: sp.Start}
}
