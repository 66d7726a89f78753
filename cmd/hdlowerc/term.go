package main

import (
	"os"

	"golang.org/x/term"
)

func isTerminalFd(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// resolveColor applies the --color flag (auto|always|never) against f,
// mirroring the teacher's isTerminal/colorFlag pairing in cmd/surge.
func resolveColor(colorFlag string, f *os.File) bool {
	switch colorFlag {
	case "always":
		return true
	case "never":
		return false
	default:
		return isTerminalFd(f)
	}
}
