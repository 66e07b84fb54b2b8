package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func plainCaps() TerminalCapabilities {
	return TerminalCapabilities{IsTTY: false, SupportsColor: false, SupportsUnicode: false}
}

func TestStepHeader(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(false, false, WithWriter(&buf), WithCapabilities(plainCaps()))

	p.StepHeader(3, 7, "Bootstrap")

	assert.Contains(t, buf.String(), "[Step 3/7]")
	assert.Contains(t, buf.String(), "Bootstrap")
}

func TestSkipOnlyAtVerbose(t *testing.T) {
	var quiet, verbose bytes.Buffer

	NewPrinter(false, false, WithWriter(&quiet), WithCapabilities(plainCaps())).
		Skip("Submodule update", "--no-submodules")
	NewPrinter(true, false, WithWriter(&verbose), WithCapabilities(plainCaps())).
		Skip("Submodule update", "--no-submodules")

	assert.Empty(t, quiet.String())
	assert.Contains(t, verbose.String(), "Submodule update skipped (--no-submodules)")
}

func TestSymbolsFallBackToASCII(t *testing.T) {
	symbols := SelectSymbols(plainCaps())
	assert.Equal(t, "[OK]", symbols.Checkmark)
	assert.Equal(t, "[FAIL]", symbols.Failure)

	unicode := SelectSymbols(TerminalCapabilities{SupportsUnicode: true})
	assert.Equal(t, "✓", unicode.Checkmark)
}

func TestSpinnerNoopWithoutTTY(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(false, true, WithWriter(&buf), WithCapabilities(plainCaps()))

	p.StartSpinner("running buildout")
	p.StopSpinner()

	assert.Nil(t, p.spin)
}
