package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/finderworks/viewfinder/pkg/export"
	"github.com/finderworks/viewfinder/pkg/loader"
	"github.com/finderworks/viewfinder/pkg/model"
	"github.com/finderworks/viewfinder/pkg/optics"
	"github.com/finderworks/viewfinder/pkg/store"
)

// Parameter rows of the camera panel, in display order.
const (
	paramFocal = iota
	paramAperture
	paramFocus
	paramSensor
	paramCount
)

// thirdStops is the 1/3-stop aperture series the viewfinder steps through.
var thirdStops = []float64{
	1.0, 1.1, 1.2, 1.4, 1.6, 1.8, 2.0, 2.2, 2.5, 2.8, 3.2, 3.5,
	4.0, 4.5, 5.0, 5.6, 6.3, 7.1, 8.0, 9.0, 10, 11, 13, 14, 16,
	18, 20, 22, 25, 29, 32,
}

// sensorCycle is the order the sensor key steps through.
var sensorCycle = []optics.SensorType{
	optics.SensorFullFrame,
	optics.SensorAPSC,
	optics.SensorMicroFourThirds,
}

// previewImageWidthPx is the reference width layer blur is scaled against.
const previewImageWidthPx = 1920.0

// PresetsChangedMsg asks the viewfinder to reload presets from disk. The
// file watcher posts it via Program.Send.
type PresetsChangedMsg struct{}

// presetsLoadedMsg carries the reload result back onto the update loop.
type presetsLoadedMsg struct {
	presets []model.Preset
	err     error
}

// statusExpiredMsg clears a transient status line.
type statusExpiredMsg struct{ seq int }

// Model is the top-level viewfinder TUI model.
type Model struct {
	calc    *optics.Calculator
	presets []model.Preset
	current model.Preset // working copy being adjusted

	root    string // project root for presets, shots, exports
	shotLog *store.DB

	selectedParam int
	selectedLayer int

	width  int
	height int
	theme  Theme

	selector *PresetSelectorModel
	help     HelpOverlayModel
	guide    GuideModel

	status    string
	statusSeq int
}

// NewModel creates the viewfinder over the given presets. shotLog may be
// nil; the save-shot key then reports that the log is unavailable.
func NewModel(calc *optics.Calculator, presets []model.Preset, root string, shotLog *store.DB) Model {
	renderer := lipgloss.DefaultRenderer()
	theme := DefaultTheme(renderer)

	current := model.Preset{Name: "Untitled"}
	if len(presets) > 0 {
		current = presets[0].Clone()
	}

	return Model{
		calc:    calc,
		presets: presets,
		current: current,
		root:    root,
		shotLog: shotLog,
		theme:   theme,
		help:    NewHelpOverlayModel(theme),
		guide:   NewGuideModel(theme),
	}
}

// SelectPreset switches the working copy to the given preset.
func (m *Model) SelectPreset(p model.Preset) {
	m.current = p.Clone()
	m.selectedLayer = 0
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.SetSize(msg.Width, msg.Height)
		m.guide.SetSize(msg.Width, msg.Height)
		if m.selector != nil {
			m.selector.SetSize(msg.Width, msg.Height)
		}
		return m, nil

	case PresetsChangedMsg:
		return m, m.reloadPresetsCmd()

	case presetsLoadedMsg:
		if msg.err != nil {
			return m.withStatus(fmt.Sprintf("reload failed: %v", msg.err))
		}
		m.presets = msg.presets
		if m.selector != nil {
			m.selector.SetPresets(msg.presets)
		}
		// Follow the edited preset when it still exists.
		if p, err := loader.FindPreset(msg.presets, m.current.Name); err == nil {
			m.current = p
			m.clampLayerSelection()
		}
		return m.withStatus("presets reloaded")

	case statusExpiredMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.help.IsVisible() {
		var cmd tea.Cmd
		m.help, cmd = m.help.Update(msg)
		return m, cmd
	}
	if m.guide.IsVisible() {
		m.guide.Update(key)
		return m, nil
	}
	if m.selector != nil {
		if m.selector.Update(key) {
			if m.selector.IsConfirmed() {
				if p := m.selector.Selected(); p != nil {
					m.current = *p
					m.selectedLayer = 0
				}
				m.selector = nil
				return m.withStatus("preset loaded")
			}
			if key == "esc" {
				m.selector = nil
			}
		}
		return m, nil
	}

	switch key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit

	case "?":
		m.help.Toggle()
		return m, nil

	case "g":
		if err := m.guide.Toggle(); err != nil {
			return m.withStatus(err.Error())
		}
		return m, nil

	case "p":
		sel := NewPresetSelectorModel(m.presets, m.theme)
		sel.SetSize(m.width, m.height)
		m.selector = &sel
		return m, nil

	case "r":
		return m, m.reloadPresetsCmd()

	case "up", "k":
		if m.selectedParam > 0 {
			m.selectedParam--
		}
		return m, nil
	case "down", "j":
		if m.selectedParam < paramCount-1 {
			m.selectedParam++
		}
		return m, nil

	case "left", "h":
		m.adjustParam(-1, false)
		return m, nil
	case "right", "l":
		m.adjustParam(1, false)
		return m, nil
	case "H", "shift+left":
		m.adjustParam(-1, true)
		return m, nil
	case "L", "shift+right":
		m.adjustParam(1, true)
		return m, nil

	case "[":
		if m.selectedLayer > 0 {
			m.selectedLayer--
		}
		return m, nil
	case "]":
		if m.selectedLayer < len(m.current.Layers)-1 {
			m.selectedLayer++
		}
		return m, nil

	case "s":
		return m.saveShot()

	case "c":
		return m.copySummary()

	case "e":
		return m.exportBundle()
	}

	return m, nil
}

// adjustParam steps the selected camera parameter. Invalid combinations are
// prevented at the edges rather than clamped after the fact, so the readout
// never shows an error for a slider-driven state.
func (m *Model) adjustParam(dir int, big bool) {
	cam := &m.current.Camera
	switch m.selectedParam {
	case paramFocal:
		step := 1.0
		if big {
			step = 10.0
		}
		next := cam.FocalLengthMm + float64(dir)*step
		if next < 8 {
			next = 8
		}
		if next > 1200 {
			next = 1200
		}
		cam.FocalLengthMm = next
		// Keep focus physically possible for the new focal length.
		minFocus := cam.FocalLengthMm/1000 + 0.01
		if cam.FocusDistanceM < minFocus {
			cam.FocusDistanceM = minFocus
		}

	case paramAperture:
		steps := 1
		if big {
			steps = 3 // full stop
		}
		idx := nearestStopIndex(cam.Aperture)
		idx += dir * steps
		if idx < 0 {
			idx = 0
		}
		if idx >= len(thirdStops) {
			idx = len(thirdStops) - 1
		}
		cam.Aperture = thirdStops[idx]

	case paramFocus:
		step := 0.1
		if big {
			step = 1.0
		}
		next := cam.FocusDistanceM + float64(dir)*step
		minFocus := cam.FocalLengthMm/1000 + 0.01
		if next < minFocus {
			next = minFocus
		}
		if next > 10000 {
			next = 10000
		}
		cam.FocusDistanceM = next

	case paramSensor:
		idx := 0
		for i, s := range sensorCycle {
			if s == cam.SensorType {
				idx = i
				break
			}
		}
		idx = (idx + dir + len(sensorCycle)) % len(sensorCycle)
		cam.SensorType = sensorCycle[idx]
	}
}

func nearestStopIndex(aperture float64) int {
	best := 0
	bestDiff := math.Inf(1)
	for i, s := range thirdStops {
		if d := math.Abs(s - aperture); d < bestDiff {
			best, bestDiff = i, d
		}
	}
	return best
}

func (m *Model) clampLayerSelection() {
	if m.selectedLayer >= len(m.current.Layers) {
		m.selectedLayer = len(m.current.Layers) - 1
	}
	if m.selectedLayer < 0 {
		m.selectedLayer = 0
	}
}

func (m Model) reloadPresetsCmd() tea.Cmd {
	root := m.root
	return func() tea.Msg {
		presets, err := loader.LoadPresets(root)
		return presetsLoadedMsg{presets: presets, err: err}
	}
}

func (m Model) saveShot() (tea.Model, tea.Cmd) {
	if m.shotLog == nil {
		return m.withStatus("shot log unavailable")
	}
	dof, err := m.calc.DOF(m.current.Camera)
	if err != nil {
		return m.withStatus(err.Error())
	}
	shot := model.Shot{
		Label:  m.current.Name,
		Camera: m.current.Camera,
		DOF:    dof,
	}
	if err := m.shotLog.SaveShot(&shot); err != nil {
		return m.withStatus(fmt.Sprintf("save failed: %v", err))
	}
	return m.withStatus(fmt.Sprintf("shot #%d saved", shot.ID))
}

func (m Model) copySummary() (tea.Model, tea.Cmd) {
	summary, err := Summary(m.calc, m.current.Camera)
	if err != nil {
		return m.withStatus(err.Error())
	}
	if err := clipboard.WriteAll(summary); err != nil {
		return m.withStatus(fmt.Sprintf("clipboard: %v", err))
	}
	return m.withStatus("summary copied")
}

func (m Model) exportBundle() (tea.Model, tea.Cmd) {
	dir := m.root
	if dir == "" {
		dir = "."
	}
	dir = dir + "/" + loader.PresetsDir + "/export"
	if err := export.ExportBundle(dir, m.calc, m.current, nil); err != nil {
		return m.withStatus(fmt.Sprintf("export failed: %v", err))
	}
	return m.withStatus("exported to " + dir)
}

// withStatus sets a transient status line that clears after a few seconds.
func (m Model) withStatus(status string) (tea.Model, tea.Cmd) {
	m.status = status
	m.statusSeq++
	seq := m.statusSeq
	return m, tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return statusExpiredMsg{seq: seq}
	})
}

// Summary formats the one-line DOF summary used by the clipboard key and
// the -table flag.
func Summary(calc *optics.Calculator, settings optics.CameraSettings) (string, error) {
	dof, err := calc.DOF(settings)
	if err != nil {
		return "", err
	}
	far := "∞"
	if !dof.FarIsInfinite() {
		far = fmt.Sprintf("%.2fm", dof.FarLimitM)
	}
	return fmt.Sprintf("%.0fmm f/%.1f @ %.2gm (%s): near %.2fm, far %s, hyperfocal %.2fm, eq %.0fmm",
		settings.FocalLengthMm, settings.Aperture, settings.FocusDistanceM,
		settings.SensorType, dof.NearLimitM, far,
		dof.HyperfocalDistanceM, dof.EquivalentFocalLengthMm), nil
}

// ══════════════════════════════════════════════════════════════════════════════
// VIEW
// ══════════════════════════════════════════════════════════════════════════════

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}
	if m.help.IsVisible() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.help.View())
	}
	if m.guide.IsVisible() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.guide.View())
	}
	if m.selector != nil {
		return m.selector.View()
	}

	t := m.theme
	var b strings.Builder

	titleStyle := t.Renderer.NewStyle().Bold(true).Foreground(t.Primary)
	nameStyle := t.Renderer.NewStyle().Foreground(t.Subtext)
	b.WriteString(titleStyle.Render("VIEWFINDER"))
	b.WriteString("  ")
	b.WriteString(nameStyle.Render(m.current.Name))
	b.WriteString("\n\n")

	b.WriteString(m.renderCameraPanel())
	b.WriteString("\n")
	b.WriteString(m.renderReadout())
	b.WriteString("\n")
	b.WriteString(m.renderLayerStrip())
	b.WriteString("\n")

	footStyle := t.Renderer.NewStyle().Foreground(t.Subtext).Italic(true)
	if m.status != "" {
		b.WriteString(t.Renderer.NewStyle().Foreground(t.Warning).Render(m.status))
	} else {
		b.WriteString(footStyle.Render("j/k: param • h/l: adjust • [/]: layer • p: presets • ?: help"))
	}

	return b.String()
}

func (m Model) renderCameraPanel() string {
	t := m.theme
	cam := m.current.Camera

	rows := []struct {
		label string
		value string
	}{
		{"Focal length", fmt.Sprintf("%.0fmm", cam.FocalLengthMm)},
		{"Aperture", fmt.Sprintf("f/%.1f", cam.Aperture)},
		{"Focus distance", fmt.Sprintf("%.2fm", cam.FocusDistanceM)},
		{"Sensor", string(cam.SensorType)},
	}

	labelStyle := t.Renderer.NewStyle().Foreground(t.Subtext).Width(16)
	valueStyle := t.Renderer.NewStyle().Foreground(t.Text).Bold(true)
	selectedStyle := t.Renderer.NewStyle().Foreground(t.Primary).Bold(true)

	var lines []string
	for i, row := range rows {
		prefix := "  "
		vs := valueStyle
		if i == m.selectedParam {
			prefix = "▸ "
			vs = selectedStyle
		}
		lines = append(lines, prefix+labelStyle.Render(row.label)+vs.Render("◂ "+row.value+" ▸"))
	}

	panel := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
	return panel.Render(strings.Join(lines, "\n"))
}

func (m Model) renderReadout() string {
	t := m.theme
	cam := m.current.Camera

	dof, err := m.calc.DOF(cam)
	if err != nil {
		return t.Renderer.NewStyle().Foreground(t.Danger).Render("  " + err.Error())
	}
	fov, err := m.calc.FOV(cam.FocalLengthMm, cam.SensorType)
	if err != nil {
		return t.Renderer.NewStyle().Foreground(t.Danger).Render("  " + err.Error())
	}

	labelStyle := t.Renderer.NewStyle().Foreground(t.Subtext)
	valueStyle := t.Renderer.NewStyle().Foreground(t.Sharp)

	far := "∞"
	total := "∞"
	if !dof.FarIsInfinite() {
		far = fmt.Sprintf("%.2fm", dof.FarLimitM)
		total = fmt.Sprintf("%.2fm", dof.TotalDOFM)
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("%s %s  %s %s  %s %s",
		labelStyle.Render("near"), valueStyle.Render(fmt.Sprintf("%.2fm", dof.NearLimitM)),
		labelStyle.Render("far"), valueStyle.Render(far),
		labelStyle.Render("total"), valueStyle.Render(total)))
	lines = append(lines, fmt.Sprintf("%s %s  %s %s  %s %.0f%%/%.0f%%",
		labelStyle.Render("hyperfocal"), valueStyle.Render(fmt.Sprintf("%.2fm", dof.HyperfocalDistanceM)),
		labelStyle.Render("35mm eq"), valueStyle.Render(fmt.Sprintf("%.0fmm", dof.EquivalentFocalLengthMm)),
		labelStyle.Render("front/back"), dof.FrontPercent, dof.BackPercent))
	lines = append(lines, fmt.Sprintf("%s %.1f° × %.1f°",
		labelStyle.Render("field of view"), fov.HorizontalDeg, fov.VerticalDeg))

	if dof.IsDiffractionLimited {
		warn := t.Renderer.NewStyle().Foreground(t.Warning).Bold(true)
		lines = append(lines, warn.Render("⚠ diffraction limited"))
	}

	return "  " + strings.Join(lines, "\n  ")
}

func (m Model) renderLayerStrip() string {
	t := m.theme

	if len(m.current.Layers) == 0 {
		return t.Renderer.NewStyle().Foreground(t.Subtext).Italic(true).
			Render("  no layers in this preset")
	}

	dof, dofErr := m.calc.DOF(m.current.Camera)
	cfg := m.calc.Config()

	barWidth := 24
	nameWidth := 14

	var lines []string
	header := t.Renderer.NewStyle().Foreground(t.Secondary).Bold(true).Render("LAYERS")
	lines = append(lines, header)

	for i, layer := range m.current.Layers {
		blur, err := m.calc.BlurRadius(m.current.Camera, layer.DistanceM, previewImageWidthPx)
		if err != nil {
			lines = append(lines, t.Renderer.NewStyle().Foreground(t.Danger).Render("  "+err.Error()))
			continue
		}

		prefix := "  "
		if i == m.selectedLayer {
			prefix = "▸ "
		}

		name := runewidth.Truncate(layer.Name, nameWidth, "…")
		name = name + strings.Repeat(" ", nameWidth-runewidth.StringWidth(name))

		inFocus := blur == 0
		inBand := false
		if dofErr == nil {
			inBand = layer.DistanceM >= dof.NearLimitM &&
				(dof.FarIsInfinite() || layer.DistanceM <= dof.FarLimitM)
		}

		line := fmt.Sprintf("%s%s %5.1fm %s %5.1fpx %s",
			prefix, name, layer.DistanceM,
			RenderBlurBar(t, blur, cfg.MaxBlurPx, barWidth),
			blur, RenderFocusBadge(t, inFocus, inBand))
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}
