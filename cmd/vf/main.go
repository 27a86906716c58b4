package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/finderworks/viewfinder/pkg/export"
	"github.com/finderworks/viewfinder/pkg/loader"
	"github.com/finderworks/viewfinder/pkg/model"
	"github.com/finderworks/viewfinder/pkg/optics"
	"github.com/finderworks/viewfinder/pkg/rack"
	"github.com/finderworks/viewfinder/pkg/store"
	"github.com/finderworks/viewfinder/pkg/ui"
	"github.com/finderworks/viewfinder/pkg/updater"
	"github.com/finderworks/viewfinder/pkg/watcher"
)

const version = "0.1.0"

func main() {
	help := flag.Bool("help", false, "Show help")
	showVersion := flag.Bool("version", false, "Show version")
	presetName := flag.String("preset", "", "Start from the named preset")
	table := flag.Bool("table", false, "Print the DOF summary and exit")
	chartPath := flag.String("chart", "", "Write a PNG blur chart to the given path and exit")
	svgPath := flag.String("svg", "", "Write an SVG depth diagram to the given path and exit")
	csvPath := flag.String("csv", "", "Write an aperture-sweep CSV to the given path and exit")
	exportDir := flag.String("export", "", "Write the full export bundle into the given directory and exit")
	serve := flag.Bool("serve", false, "Serve the export directory in a browser")
	pull := flag.String("pull", "", "Plan a rack focus from keyframes like 0:2,24:3.5,72:6 and print CSV")
	shots := flag.Int("shots", -1, "List the most recent N logged shots (0 for all) and exit")
	newPreset := flag.Bool("new", false, "Create a preset interactively")
	flag.Parse()

	if *help {
		fmt.Println("Usage: vf [options]")
		fmt.Println("\nA director's viewfinder for the terminal: depth of field,")
		fmt.Println("defocus blur, and field of view from camera parameters.")
		flag.PrintDefaults()
		os.Exit(0)
	}
	if *showVersion {
		fmt.Printf("vf version %s\n", version)
		if tag, url, err := updater.CheckForUpdates(version); err == nil && tag != "" {
			fmt.Printf("Update available: %s (%s)\n", tag, url)
		}
		os.Exit(0)
	}

	calc := optics.Default()

	presets, err := loader.LoadPresets("")
	if err != nil {
		fatalf("Error loading presets: %v", err)
	}

	current := presets[0].Clone()
	if *presetName != "" {
		current, err = loader.FindPreset(presets, *presetName)
		if err != nil {
			fatalf("%v\nAvailable presets: %s", err, presetNames(presets))
		}
	}

	switch {
	case *newPreset:
		runNewPreset(presets)
	case *table:
		runTable(calc, current)
	case *chartPath != "":
		if err := export.RenderBlurChart(calc, current, export.DefaultChartConfig(), *chartPath); err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("Wrote %s\n", *chartPath)
	case *svgPath != "":
		if err := writeSVG(calc, current, *svgPath); err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("Wrote %s\n", *svgPath)
	case *csvPath != "":
		if err := writeCSV(calc, current, *csvPath); err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("Wrote %s\n", *csvPath)
	case *exportDir != "":
		if err := export.ExportBundle(*exportDir, calc, current, nil); err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("Exported bundle to %s\n", *exportDir)
	case *serve:
		dir := filepath.Join(loader.PresetsDir, "export")
		if err := export.StartPreview(dir); err != nil {
			fatalf("%v", err)
		}
	case *pull != "":
		runPull(calc, current, *pull)
	case *shots >= 0:
		runShots(*shots)
	default:
		runTUI(calc, presets, current)
	}
}

func runTUI(calc *optics.Calculator, presets []model.Preset, current model.Preset) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fatalf("stdout is not a terminal; use -table, -chart, -svg, or -csv for scripted output")
	}

	shotLog, err := store.Open(filepath.Join(loader.PresetsDir, store.DBFile))
	if err != nil {
		// The viewfinder works without a shot log; the save key will say so.
		fmt.Fprintf(os.Stderr, "Warning: shot log unavailable: %v\n", err)
		shotLog = nil
	}
	if shotLog != nil {
		defer shotLog.Close()
	}

	m := ui.NewModel(calc, presets, "", shotLog)
	m.SelectPreset(current)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Live-reload presets while the viewfinder is open.
	presetsPath, err := loader.PresetsPath("")
	if err == nil {
		if w, err := watcher.WatchPresets(presetsPath, 0, func() {
			p.Send(ui.PresetsChangedMsg{})
		}); err == nil {
			defer w.Stop()
		}
	}

	if _, err := p.Run(); err != nil {
		fatalf("Error running viewfinder: %v", err)
	}
}

func runTable(calc *optics.Calculator, preset model.Preset) {
	summary, err := ui.Summary(calc, preset.Camera)
	if err != nil {
		fatalf("%v", err)
	}
	fmt.Println(summary)
	fmt.Println()
	if err := export.WriteSweepCSV(os.Stdout, calc, preset.Camera); err != nil {
		fatalf("%v", err)
	}
}

func runPull(calc *optics.Calculator, preset model.Preset, arg string) {
	keys, err := parseKeyframes(arg)
	if err != nil {
		fatalf("invalid -pull keyframes: %v", err)
	}
	plan, err := rack.PlanPull(calc, preset.Camera, keys, rack.Options{})
	if err != nil {
		fatalf("%v", err)
	}
	if err := export.WritePullCSV(os.Stdout, plan); err != nil {
		fatalf("%v", err)
	}
}

// parseKeyframes parses "frame:distance" pairs separated by commas.
func parseKeyframes(arg string) ([]rack.Keyframe, error) {
	parts := strings.Split(arg, ",")
	keys := make([]rack.Keyframe, 0, len(parts))
	for _, part := range parts {
		fd := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(fd) != 2 {
			return nil, fmt.Errorf("keyframe %q is not frame:distance", part)
		}
		frame, err := strconv.Atoi(fd[0])
		if err != nil {
			return nil, fmt.Errorf("keyframe %q: bad frame number", part)
		}
		dist, err := strconv.ParseFloat(fd[1], 64)
		if err != nil {
			return nil, fmt.Errorf("keyframe %q: bad distance", part)
		}
		keys = append(keys, rack.Keyframe{Frame: frame, FocusDistanceM: dist})
	}
	return keys, nil
}

func runShots(limit int) {
	shotLog, err := store.Open(filepath.Join(loader.PresetsDir, store.DBFile))
	if err != nil {
		fatalf("open shot log: %v", err)
	}
	defer shotLog.Close()

	shots, err := shotLog.ListShots(limit)
	if err != nil {
		fatalf("list shots: %v", err)
	}
	if len(shots) == 0 {
		fmt.Println("No shots logged yet. Press 's' in the viewfinder to save one.")
		return
	}
	for _, s := range shots {
		far := "inf"
		if !s.DOF.FarIsInfinite() {
			far = fmt.Sprintf("%.2fm", s.DOF.FarLimitM)
		}
		fmt.Printf("#%-4d %-20s %.0fmm f/%-4.1f @ %-6.2fm  near %.2fm  far %-8s  %s\n",
			s.ID, s.Label, s.Camera.FocalLengthMm, s.Camera.Aperture,
			s.Camera.FocusDistanceM, s.DOF.NearLimitM, far,
			s.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func runNewPreset(presets []model.Preset) {
	var (
		name        string
		description string
		sensorType  string
		focalStr    = "50"
		apertureStr = "2.8"
		focusStr    = "2"
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Preset name").Value(&name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().Title("Description").Value(&description),
			huh.NewSelect[string]().Title("Sensor").
				Options(
					huh.NewOption("Full Frame", string(optics.SensorFullFrame)),
					huh.NewOption("APS-C", string(optics.SensorAPSC)),
					huh.NewOption("Micro Four Thirds", string(optics.SensorMicroFourThirds)),
				).
				Value(&sensorType),
			huh.NewInput().Title("Focal length (mm)").Value(&focalStr).Validate(positiveNumber),
			huh.NewInput().Title("Aperture (f-number)").Value(&apertureStr).Validate(positiveNumber),
			huh.NewInput().Title("Focus distance (m)").Value(&focusStr).Validate(positiveNumber),
		),
	)

	if err := form.Run(); err != nil {
		fatalf("%v", err)
	}

	focal, _ := strconv.ParseFloat(focalStr, 64)
	aperture, _ := strconv.ParseFloat(apertureStr, 64)
	focus, _ := strconv.ParseFloat(focusStr, 64)

	preset := model.Preset{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Camera: optics.CameraSettings{
			FocalLengthMm:  focal,
			Aperture:       aperture,
			FocusDistanceM: focus,
			SensorType:     optics.SensorType(sensorType),
		},
	}
	if err := preset.Validate(); err != nil {
		fatalf("%v", err)
	}

	if err := loader.SavePresets("", append(presets, preset)); err != nil {
		fatalf("save presets: %v", err)
	}
	fmt.Printf("Saved preset %q\n", preset.Name)
}

func positiveNumber(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("not a number")
	}
	if v <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}

func writeSVG(calc *optics.Calculator, preset model.Preset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteDepthDiagram(f, calc, preset); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeCSV(calc *optics.Calculator, preset model.Preset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteSweepCSV(f, calc, preset.Camera); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func presetNames(presets []model.Preset) string {
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
