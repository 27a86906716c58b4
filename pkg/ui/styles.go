package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ══════════════════════════════════════════════════════════════════════════════
// DESIGN TOKENS - Consistent spacing and visual language for the viewfinder
// ══════════════════════════════════════════════════════════════════════════════

// Spacing constants for consistent layout (in characters)
const (
	SpaceXS = 1
	SpaceSM = 2
	SpaceMD = 3
)

// Theme carries the renderer and the semantic palette every view draws
// from. Sharp/soft colors track whether an element sits inside the
// acceptably sharp band.
type Theme struct {
	Renderer *lipgloss.Renderer

	Text      lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor

	Sharp   lipgloss.AdaptiveColor // inside the DOF band
	Soft    lipgloss.AdaptiveColor // defocused
	Warning lipgloss.AdaptiveColor // diffraction, clamped blur
	Danger  lipgloss.AdaptiveColor
}

// DefaultTheme returns the Dracula-leaning palette used by the viewfinder.
func DefaultTheme(renderer *lipgloss.Renderer) Theme {
	return Theme{
		Renderer:  renderer,
		Text:      lipgloss.AdaptiveColor{Light: "#282A36", Dark: "#F8F8F2"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#6272A4", Dark: "#BFBFBF"},
		Primary:   lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#6272A4", Dark: "#6272A4"},
		Border:    lipgloss.AdaptiveColor{Light: "#D0D0DA", Dark: "#44475A"},
		Sharp:     lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#50FA7B"},
		Soft:      lipgloss.AdaptiveColor{Light: "#0E7490", Dark: "#8BE9FD"},
		Warning:   lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FFB86C"},
		Danger:    lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#FF5555"},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// BADGES AND BARS
// ══════════════════════════════════════════════════════════════════════════════

// RenderFocusBadge returns a badge describing how sharp a layer is:
// IN FOCUS inside the epsilon window, SHARP inside the DOF band, SOFT
// outside it.
func RenderFocusBadge(t Theme, inFocus, inBand bool) string {
	style := t.Renderer.NewStyle().Bold(true)
	switch {
	case inFocus:
		return style.Foreground(t.Sharp).Render("● IN FOCUS")
	case inBand:
		return style.Foreground(t.Sharp).Render("○ SHARP")
	default:
		return style.Foreground(t.Soft).Render("◌ SOFT")
	}
}

// RenderBlurBar renders a horizontal bar for a blur value against maxBlur.
func RenderBlurBar(t Theme, blurPx, maxBlurPx float64, width int) string {
	if width <= 0 {
		return ""
	}
	ratio := 0.0
	if maxBlurPx > 0 {
		ratio = blurPx / maxBlurPx
	}
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}

	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}

	var barColor lipgloss.AdaptiveColor
	switch {
	case ratio >= 0.99:
		barColor = t.Danger // clamp reached
	case ratio >= 0.5:
		barColor = t.Warning
	case ratio > 0:
		barColor = t.Soft
	default:
		barColor = t.Sharp
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return t.Renderer.NewStyle().Foreground(barColor).Render(bar)
}

// RenderDivider renders a horizontal divider line.
func RenderDivider(t Theme, width int) string {
	if width <= 0 {
		return ""
	}
	return t.Renderer.NewStyle().Foreground(t.Border).Render(strings.Repeat("─", width))
}
