// Package output renders projector's user-facing progress: step headers,
// skip notices, success and failure lines, and a spinner around long buildout
// runs. Operational logging (command traces, debug) goes through
// charmbracelet/log instead.
package output

import (
	"os"

	"golang.org/x/term"
)

// TerminalCapabilities describes what the attached terminal supports.
type TerminalCapabilities struct {
	IsTTY           bool
	SupportsColor   bool
	SupportsUnicode bool
	Width           int
}

// Symbols is the glyph set selected for the terminal.
type Symbols struct {
	Checkmark  string
	Failure    string
	Arrow      string
	SpinnerSet int
}

// DetectTerminalCapabilities checks stdout isatty, NO_COLOR, and
// PROJECTOR_ASCII to decide what the output may use.
func DetectTerminalCapabilities() TerminalCapabilities {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	noColor := os.Getenv("NO_COLOR") != ""
	forceASCII := os.Getenv("PROJECTOR_ASCII") == "1"

	width := 0
	if isTTY {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
		}
	}

	return TerminalCapabilities{
		IsTTY:           isTTY,
		SupportsColor:   isTTY && !noColor,
		SupportsUnicode: isTTY && !forceASCII,
		Width:           width,
	}
}

// SelectSymbols returns the glyph set for the given capabilities.
// Unicode: ✓/✗/→ with braille spinner (set 14). ASCII: [OK]/[FAIL]/-> with
// |/-\ spinner (set 9).
func SelectSymbols(caps TerminalCapabilities) Symbols {
	if caps.SupportsUnicode {
		return Symbols{
			Checkmark:  "✓",
			Failure:    "✗",
			Arrow:      "→",
			SpinnerSet: 14,
		}
	}
	return Symbols{
		Checkmark:  "[OK]",
		Failure:    "[FAIL]",
		Arrow:      "->",
		SpinnerSet: 9,
	}
}
