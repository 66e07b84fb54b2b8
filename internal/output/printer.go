package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// Printer writes user-facing progress for one pipeline run.
type Printer struct {
	out          io.Writer
	caps         TerminalCapabilities
	symbols      Symbols
	verbose      bool
	showProgress bool
	spin         *spinner.Spinner
}

// Option configures a Printer.
type Option func(*Printer)

// WithWriter redirects output (tests).
func WithWriter(w io.Writer) Option {
	return func(p *Printer) {
		p.out = w
	}
}

// WithCapabilities overrides terminal detection (tests).
func WithCapabilities(caps TerminalCapabilities) Option {
	return func(p *Printer) {
		p.caps = caps
		p.symbols = SelectSymbols(caps)
	}
}

// NewPrinter creates a Printer. verbose enables skip notices; showProgress
// enables the spinner when stdout is a TTY.
func NewPrinter(verbose, showProgress bool, opts ...Option) *Printer {
	caps := DetectTerminalCapabilities()
	p := &Printer{
		out:          os.Stdout,
		caps:         caps,
		symbols:      SelectSymbols(caps),
		verbose:      verbose,
		showProgress: showProgress,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// StepHeader prints a step header, e.g. "[Step 3/7] Bootstrap".
func (p *Printer) StepHeader(num, total int, name string) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	white := color.New(color.FgWhite, color.Bold).SprintFunc()
	fmt.Fprintf(p.out, "%s %s\n", cyan(fmt.Sprintf("[Step %d/%d]", num, total)), white(name))
}

// Skip prints a skip notice. Skips are detail output, shown at verbose only.
func (p *Printer) Skip(name, reason string) {
	if !p.verbose {
		return
	}
	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(p.out, "%s\n", dim(fmt.Sprintf("%s %s skipped (%s)", p.symbols.Arrow, name, reason)))
}

// Success prints a green checkmark line.
func (p *Printer) Success(message string) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	fmt.Fprintf(p.out, "%s %s\n", green(p.symbols.Checkmark), message)
}

// Failure prints a red failure line.
func (p *Printer) Failure(message string) {
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	fmt.Fprintf(p.out, "%s %s\n", red(p.symbols.Failure), message)
}

// Info prints a plain line.
func (p *Printer) Info(message string) {
	fmt.Fprintf(p.out, "%s\n", message)
}

// Detail prints a dim line at verbose level.
func (p *Printer) Detail(message string) {
	if !p.verbose {
		return
	}
	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(p.out, "%s\n", dim(message))
}

// StartSpinner shows a spinner with the given message. No-op when stdout is
// not a TTY or progress display is off.
func (p *Printer) StartSpinner(message string) {
	if !p.showProgress || !p.caps.IsTTY || p.spin != nil {
		return
	}
	p.spin = spinner.New(spinner.CharSets[p.symbols.SpinnerSet], 100*time.Millisecond)
	p.spin.Suffix = " " + message
	p.spin.Start()
}

// StopSpinner stops the spinner if one is running.
func (p *Printer) StopSpinner() {
	if p.spin == nil {
		return
	}
	p.spin.Stop()
	p.spin = nil
}
