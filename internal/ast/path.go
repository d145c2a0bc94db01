package ast

import "rxc/internal/source"

type SegmentKind uint8

const (
	SegIdent     SegmentKind = iota
	SegSelfValue             // self
	SegSelfType              // Self
)

type PathSegment struct {
	Kind SegmentKind
	Name source.StringID // NoStringID for self/Self
	Span source.Span
}

// Path is a `::`-separated name. Global is set for a leading `::`.
type Path struct {
	Segments []PathSegment
	Global   bool
	Span     source.Span
}

// IsSelfValue reports whether the path is exactly `self`.
func (p Path) IsSelfValue() bool {
	return !p.Global && len(p.Segments) == 1 && p.Segments[0].Kind == SegSelfValue
}

// Single returns the only segment of a one-segment identifier path.
func (p Path) Single() (PathSegment, bool) {
	if p.Global || len(p.Segments) != 1 || p.Segments[0].Kind != SegIdent {
		return PathSegment{}, false
	}
	return p.Segments[0], true
}

// Last returns the final segment.
func (p Path) Last() PathSegment {
	return p.Segments[len(p.Segments)-1]
}

// String renders the path with interned names.
func (p Path) String(strs *source.Interner) string {
	out := ""
	if p.Global {
		out = "::"
	}
	for i, seg := range p.Segments {
		if i > 0 {
			out += "::"
		}
		switch seg.Kind {
		case SegSelfValue:
			out += "self"
		case SegSelfType:
			out += "Self"
		default:
			out += strs.MustLookup(seg.Name)
		}
	}
	return out
}
