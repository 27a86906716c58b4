package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// guideMarkdown is the built-in optics field guide shown with `g`.
const guideMarkdown = `# Optics Field Guide

## Circle of confusion
The largest blur spot still perceived as a point. Each sensor format
carries its own acceptable-sharpness constant; the viewfinder's defaults
follow the common d/1500 criterion and can be overridden in config.

## Hyperfocal distance
Focus here and everything from half this distance to infinity is
acceptably sharp. The readout marks it, and the far limit shows **∞**
whenever focus sits at or beyond it.

## Depth of field
The distance band around the focus plane considered acceptably sharp.
Stopping down (larger f-number) widens it; longer lenses and closer
focus shrink it.

## Diffraction
Past roughly f/11 on full frame (earlier on smaller sensors) the
aperture itself starts to soften the image. The readout flags this —
a wide DOF bought at f/22 is not free.

## Blur bars
Layer bars show the preview blur in pixels, clamped at the display
maximum. The clamp is a presentation bound, not physics: a red bar
means "past the scale", not "maximally blurred lens".

## Perspective scale
Layer scale uses the flat heuristic *50mm / focal length*. It conveys
the feel of compression, it is not a ray-traced projection.
`

// GuideModel renders the optics guide in a scrollable viewport.
type GuideModel struct {
	visible  bool
	viewport viewport.Model
	rendered bool
	theme    Theme
}

// NewGuideModel creates the guide overlay.
func NewGuideModel(theme Theme) GuideModel {
	return GuideModel{
		viewport: viewport.New(72, 20),
		theme:    theme,
	}
}

// Toggle shows or hides the guide, rendering the markdown on first use.
func (m *GuideModel) Toggle() error {
	if !m.visible && !m.rendered {
		out, err := glamour.Render(guideMarkdown, "dark")
		if err != nil {
			return fmt.Errorf("render guide: %w", err)
		}
		m.viewport.SetContent(out)
		m.rendered = true
	}
	m.visible = !m.visible
	return nil
}

// IsVisible returns true if the guide is showing.
func (m *GuideModel) IsVisible() bool {
	return m.visible
}

// SetSize sets dimensions.
func (m *GuideModel) SetSize(width, height int) {
	w := width - 6
	if w > 80 {
		w = 80
	}
	if w < 30 {
		w = 30
	}
	h := height - 6
	if h < 8 {
		h = 8
	}
	m.viewport.Width = w
	m.viewport.Height = h
}

// Update handles scrolling and close keys; returns true when consumed.
func (m *GuideModel) Update(key string) bool {
	if !m.visible {
		return false
	}
	switch key {
	case "q", "esc", "g":
		m.visible = false
	case "j", "down":
		m.viewport.LineDown(1)
	case "k", "up":
		m.viewport.LineUp(1)
	case "pgdown", " ":
		m.viewport.ViewDown()
	case "pgup":
		m.viewport.ViewUp()
	}
	return true
}

// View renders the guide.
func (m *GuideModel) View() string {
	if !m.visible {
		return ""
	}
	t := m.theme
	footer := t.Renderer.NewStyle().Faint(true).Italic(true).
		Render("j/k: scroll • g/esc: close")
	boxStyle := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
	return boxStyle.Render(m.viewport.View() + "\n" + footer)
}
