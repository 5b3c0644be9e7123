// Package color provides small helpers for coloring terminal output using
// ANSI escape sequences, including the conventional color for each risk
// tier. Functions return formatted strings; callers decide whether color
// is enabled at all.
//
//nolint:revive // package name conflicts with standard library
package color

import "github.com/tcpguard/tcpguard/internal/risktypes"

// ANSI color codes
const (
	resetCode  = "\033[0m"
	grayCode   = "\033[90m" // Bright black/gray
	greenCode  = "\033[32m"
	yellowCode = "\033[33m"
	redCode    = "\033[31m"
	boldRed    = "\033[1;31m"
	cyanCode   = "\033[36m"
)

// Color represents a color function that wraps text with ANSI escape
// sequences.
type Color func(text string) string

// NewColor creates a color function with the specified ANSI code.
func NewColor(ansiCode string) Color {
	return func(text string) string {
		return ansiCode + text + resetCode
	}
}

// Predefined color functions
var (
	// Gray colors text in gray (bright black)
	Gray = NewColor(grayCode)

	// Green colors text in green
	Green = NewColor(greenCode)

	// Yellow colors text in yellow
	Yellow = NewColor(yellowCode)

	// Red colors text in red
	Red = NewColor(redCode)

	// BoldRed colors text in bold red
	BoldRed = NewColor(boldRed)

	// Cyan colors text in cyan
	Cyan = NewColor(cyanCode)

	// None returns text unchanged, for non-color output paths
	None = Color(func(text string) string { return text })
)

// ForTier returns the conventional color for a risk tier.
func ForTier(tier risktypes.RiskTier) Color {
	switch tier {
	case risktypes.RiskTierSafe:
		return Green
	case risktypes.RiskTierLow:
		return Cyan
	case risktypes.RiskTierMedium:
		return Yellow
	case risktypes.RiskTierHigh:
		return Red
	case risktypes.RiskTierCritical:
		return BoldRed
	default:
		return Gray
	}
}
