package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/finderworks/viewfinder/pkg/model"
)

// PresetSelectorModel is the fuzzy-searchable preset overlay.
type PresetSelectorModel struct {
	allPresets      []model.Preset
	filteredPresets []model.Preset

	searchInput   textinput.Model
	selectedIndex int

	width  int
	height int
	theme  Theme

	confirmed bool
	selected  *model.Preset
}

// NewPresetSelectorModel creates a preset selector over the given presets.
func NewPresetSelectorModel(presets []model.Preset, theme Theme) PresetSelectorModel {
	ti := textinput.New()
	ti.Placeholder = "Search presets..."
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 36

	return PresetSelectorModel{
		allPresets:      presets,
		filteredPresets: presets,
		searchInput:     ti,
		theme:           theme,
		width:           60,
		height:          20,
	}
}

// SetPresets replaces the preset list, e.g. after a live reload.
func (m *PresetSelectorModel) SetPresets(presets []model.Preset) {
	m.allPresets = presets
	m.filterPresets()
}

// SetSize updates the selector dimensions.
func (m *PresetSelectorModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles a key press and reports whether it was consumed.
func (m *PresetSelectorModel) Update(key string) bool {
	switch key {
	case "up", "ctrl+k":
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
		return true
	case "down", "ctrl+j":
		if m.selectedIndex < len(m.filteredPresets)-1 {
			m.selectedIndex++
		}
		return true
	case "enter":
		if len(m.filteredPresets) > 0 && m.selectedIndex < len(m.filteredPresets) {
			p := m.filteredPresets[m.selectedIndex].Clone()
			m.selected = &p
			m.confirmed = true
		}
		return true
	case "esc":
		m.confirmed = false
		m.selected = nil
		return true
	case "backspace":
		if v := m.searchInput.Value(); len(v) > 0 {
			m.searchInput.SetValue(v[:len(v)-1])
			m.filterPresets()
		}
		return true
	default:
		// Plain characters feed the search box.
		if len(key) == 1 {
			m.searchInput.SetValue(m.searchInput.Value() + key)
			m.filterPresets()
			return true
		}
	}
	return false
}

func (m *PresetSelectorModel) filterPresets() {
	query := strings.TrimSpace(m.searchInput.Value())
	if query == "" {
		m.filteredPresets = m.allPresets
		m.selectedIndex = 0
		return
	}

	searchStrings := make([]string, len(m.allPresets))
	for i, p := range m.allPresets {
		searchStrings[i] = p.Name + " " + p.Description
	}

	matches := fuzzy.Find(query, searchStrings)
	m.filteredPresets = make([]model.Preset, 0, len(matches))
	for _, match := range matches {
		m.filteredPresets = append(m.filteredPresets, m.allPresets[match.Index])
	}
	m.selectedIndex = 0
}

// IsConfirmed returns true if the user confirmed a selection.
func (m *PresetSelectorModel) IsConfirmed() bool {
	return m.confirmed
}

// Selected returns the chosen preset, or nil.
func (m *PresetSelectorModel) Selected() *model.Preset {
	return m.selected
}

// Reset clears selection state for reuse.
func (m *PresetSelectorModel) Reset() {
	m.confirmed = false
	m.selected = nil
	m.searchInput.SetValue("")
	m.filteredPresets = m.allPresets
	m.selectedIndex = 0
}

// View renders the selector overlay centered in the viewport.
func (m *PresetSelectorModel) View() string {
	t := m.theme

	boxWidth := 56
	if m.width < 66 {
		boxWidth = m.width - 10
	}
	if boxWidth < 36 {
		boxWidth = 36
	}
	contentWidth := boxWidth - 4

	var lines []string

	titleStyle := t.Renderer.NewStyle().Foreground(t.Primary).Bold(true)
	lines = append(lines, titleStyle.Render("Select Preset"))
	lines = append(lines, "")

	inputStyle := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Secondary).
		Padding(0, 1).
		Width(contentWidth - 2)
	searchValue := m.searchInput.Value()
	if searchValue == "" {
		searchValue = t.Renderer.NewStyle().Foreground(t.Subtext).Render(m.searchInput.Placeholder)
	}
	lines = append(lines, inputStyle.Render(searchValue))
	lines = append(lines, "")

	maxVisible := m.height - 12
	if maxVisible < 4 {
		maxVisible = 4
	}
	if maxVisible > 12 {
		maxVisible = 12
	}

	if len(m.filteredPresets) == 0 {
		emptyStyle := t.Renderer.NewStyle().Foreground(t.Subtext).Italic(true)
		lines = append(lines, emptyStyle.Render("  No matching presets"))
	} else {
		for i, p := range m.filteredPresets {
			if i >= maxVisible {
				moreStyle := t.Renderer.NewStyle().Foreground(t.Subtext).Italic(true)
				lines = append(lines, moreStyle.Render(
					fmt.Sprintf("  ... and %d more", len(m.filteredPresets)-maxVisible)))
				break
			}
			lines = append(lines, m.renderPreset(p, i == m.selectedIndex, contentWidth))
		}
	}

	lines = append(lines, "")
	footerStyle := t.Renderer.NewStyle().Foreground(t.Subtext).Italic(true)
	lines = append(lines, footerStyle.Render("↑/↓: navigate • enter: select • esc: cancel"))

	boxStyle := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Width(boxWidth)
	box := boxStyle.Render(strings.Join(lines, "\n"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *PresetSelectorModel) renderPreset(p model.Preset, isSelected bool, maxWidth int) string {
	t := m.theme

	prefix := "  "
	nameStyle := t.Renderer.NewStyle().Foreground(t.Text)
	if isSelected {
		prefix = "▸ "
		nameStyle = nameStyle.Foreground(t.Primary).Bold(true)
	}

	summary := fmt.Sprintf("%.0fmm f/%.1f", p.Camera.FocalLengthMm, p.Camera.Aperture)
	summaryStyle := t.Renderer.NewStyle().Foreground(t.Subtext)

	name := p.Name
	maxNameLen := maxWidth - len(summary) - 5
	if maxNameLen > 0 && len(name) > maxNameLen {
		name = name[:maxNameLen-1] + "…"
	}

	padding := maxWidth - len(prefix) - len(name) - len(summary) - 1
	if padding < 1 {
		padding = 1
	}

	return nameStyle.Render(prefix+name) + strings.Repeat(" ", padding) + summaryStyle.Render(summary)
}
