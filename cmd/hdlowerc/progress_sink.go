package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"hdlower/internal/lowpipeline"
)

// plainSink prints one colorized line per terminal event, for --quiet
// runs and non-interactive output where the bubbletea model would be
// wasted work.
type plainSink struct {
	out      io.Writer
	useColor bool
}

func newPlainSink(out io.Writer, useColor bool) *plainSink {
	return &plainSink{out: out, useColor: useColor}
}

func (s *plainSink) OnEvent(ev lowpipeline.Event) {
	switch ev.Status {
	case lowpipeline.StatusDone:
		s.printf(color.FgGreen, "ok   %s (wave %d, %s)\n", ev.Func, ev.Wave, ev.Elapsed)
	case lowpipeline.StatusError:
		s.printf(color.FgRed, "fail %s (wave %d): %v\n", ev.Func, ev.Wave, ev.Err)
	}
}

func (s *plainSink) printf(attr color.Attribute, format string, args ...any) {
	if !s.useColor {
		fmt.Fprintf(s.out, format, args...)
		return
	}
	c := color.New(attr)
	c.Fprintf(s.out, format, args...)
}
