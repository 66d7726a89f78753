package source

import "fmt"

// Span is a half-open byte range within one file, the location every
// ast node and every irb op carries (spec.md §9's EmitPositions flag
// toggles whether a lowered op keeps one). This repository never parses
// source text (spec.md §1's Non-goals), so a Span here is always either
// the zero value (no location known) or a location synthesized by
// whatever produced the ast.Module being lowered.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

// Valid reports whether s is a real span rather than the zero value
// used by callers with no source location to attach (e.g. a status
// raised while resolving a synthesized dimension expression).
func (s Span) Valid() bool {
	return s != Span{}
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}
