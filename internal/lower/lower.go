package lower

import (
	"hdlower/internal/diagx"
	"hdlower/internal/source"
)

var noSpan source.Span

// payload unwraps a (*T, bool) accessor pair from internal/ast's per-kind
// arenas, turning "node exists but wrong kind/payload missing" into an
// Internal status rather than a nil-pointer panic downstream.
func payload[T any](v *T, ok bool) (*T, error) {
	if !ok {
		return nil, diagx.Internalf(noSpan, "expected arena payload was not found for node")
	}
	return v, nil
}
