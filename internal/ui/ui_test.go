package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func init() {
	// Pin the color profile so rendered output is stable regardless of
	// the terminal the tests run in.
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestStatusHelpers(t *testing.T) {
	assert.Equal(t, "✓ key generated", Pass("key generated"))
	assert.Equal(t, "✗ probe failed", Fail("probe failed"))
	assert.Equal(t, "○ agent skipped", Warn("agent skipped"))
	assert.Equal(t, "detail", Muted("detail"))
}

func TestSpinner_Lifecycle(t *testing.T) {
	var out strings.Builder
	s := NewSpinner("Generating SSH key")
	s.SetOutput(func(str string) { out.WriteString(str) })

	assert.Equal(t, SpinnerPending, s.State())

	s.Start()
	assert.Equal(t, SpinnerInProgress, s.State())

	time.Sleep(150 * time.Millisecond)
	s.Success()
	assert.Equal(t, SpinnerSuccess, s.State())

	rendered := out.String()
	assert.Contains(t, rendered, "Generating SSH key")
	assert.Contains(t, rendered, SymbolComplete)
}

func TestSpinner_Fail(t *testing.T) {
	var out strings.Builder
	s := NewSpinner("Testing SSH connection")
	s.SetOutput(func(str string) { out.WriteString(str) })

	s.Start()
	s.Fail()

	assert.Equal(t, SpinnerFailed, s.State())
	assert.Contains(t, out.String(), SymbolFail)
}

func TestSpinner_DoubleStartIsSafe(t *testing.T) {
	s := NewSpinner("x")
	s.SetOutput(func(string) {})

	s.Start()
	s.Start()
	s.Stop()
	s.Stop()
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0.05s", formatDuration(50*time.Millisecond))
	assert.Equal(t, "1.2s", formatDuration(1200*time.Millisecond))
}
