package irb

import (
	"hdlower/internal/diagx"
	"hdlower/internal/source"
)

var zeroSpan source.Span

func errBuilderReused(name string) error {
	return diagx.Internalf(zeroSpan, "function builder %q reused after Build", name)
}

func errFunctionExists(name string) error {
	return diagx.InvalidArgumentf(zeroSpan, "function %q already registered in package", name)
}
