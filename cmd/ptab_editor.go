package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/rivo/tview"
	"github.com/spf13/pflag"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lowaak/smart-trainer/powertable-app/internal/chart"
	"github.com/lowaak/smart-trainer/powertable-app/internal/config"
	"github.com/lowaak/smart-trainer/powertable-app/internal/editor"
)

// exit codes
const (
	exitOK         = 0
	exitError      = 1
	exitViolations = 2
)

var errViolations = errors.New("table violates its invariants")

type cliFlags struct {
	batch string
	out   string
	chart string
	check bool
}

func main() {
	fs := pflag.NewFlagSet("ptab-editor", pflag.ExitOnError)
	config.RegisterFlags(fs)
	var flags cliFlags
	fs.StringVarP(&flags.batch, "batch", "b", "", "Run commands without the UI, e.g. fill,resolve,smooth.")
	fs.StringVarP(&flags.out, "out", "o", "", "Where --batch writes the table (default: overwrite the input).")
	fs.StringVar(&flags.chart, "chart", "", "Export a chart (.png, .svg, .pdf, .html) without the UI.")
	fs.BoolVar(&flags.check, "check", false, "Report invariant violations and exit non-zero if there are any.")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ptab-editor [flags] [file.ptab]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(exitError)
	}

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(exitError)
	}

	noUI := flags.batch != "" || flags.chart != "" || flags.check
	uiLogChan := make(chan string, 256)
	logger, closeLog := setupLogger(cfg, noUI, uiLogChan)

	if cfg.ConfigFile != "" {
		logger.Printf("Main: using config file %s", cfg.ConfigFile)
	}

	var code int
	if noUI {
		code = runHeadless(cfg, flags, fs.Args(), logger)
	} else {
		code = runUI(cfg, fs.Args(), logger, uiLogChan)
	}
	closeLog()
	os.Exit(code)
}

// setupLogger logs to the rotating log file, or stderr for "-". The UI gets
// a copy of every line; stderr is never used while the UI owns the terminal.
func setupLogger(cfg *config.Config, noUI bool, uiLogChan chan<- string) (*log.Logger, func()) {
	var out io.Writer
	closeFn := func() {}

	if path := cfg.LogPath(); path == "-" {
		if noUI {
			out = os.Stderr
		} else {
			out = io.Discard
		}
	} else {
		rotating := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAgeDays,
		}
		out = rotating
		closeFn = func() { _ = rotating.Close() }
	}

	if !noUI {
		out = io.MultiWriter(out, editor.NewUILogWriter(uiLogChan))
	}
	return log.New(out, "", log.LstdFlags), closeFn
}

func editorOptions(cfg *config.Config) editor.Options {
	return editor.Options{
		Config:          cfg.TableDefaults(),
		HistoryCapacity: cfg.History.Capacity,
		PitchWatts:      cfg.Fill.PitchWatts,
	}
}

func chartOptions(cfg *config.Config, title string) chart.Options {
	return chart.Options{
		WidthInches:  cfg.Export.WidthInches,
		HeightInches: cfg.Export.HeightInches,
		Title:        title,
	}
}

func runUI(cfg *config.Config, args []string, logger *log.Logger, uiLogChan chan string) int {
	if len(args) > 1 {
		fmt.Fprintln(os.Stderr, "ptab-editor: at most one file may be given")
		return exitError
	}
	logger.Println("Main: starting editor")

	ed := editor.New(editorOptions(cfg), logger)
	model := editor.NewEditorModel(ed, logger, uiLogChan, "")
	controller := editor.NewEditorController(model, chartOptions(cfg, ""), logger)

	app := tview.NewApplication()
	view := editor.NewBaseEditorView(editor.NewBaseEditorViewArg{
		ViewImpl:   editor.NewCursesEditorView(logger, app, model),
		Model:      model,
		Controller: controller,
		Logger:     logger,
	})

	switch {
	case len(args) == 1:
		_ = controller.OpenFile(args[0])
	case len(model.GetRecentFiles()) > 0:
		model.RequestOpen(model.GetRecentFiles()[0])
	default:
		model.SetStatus(editor.StatusInfo, "New table: press a to add a point, O to open a file")
	}

	err := view.Run()
	view.Shutdown()
	controller.Shutdown()
	model.Shutdown()
	if err != nil {
		logger.Printf("Main: UI stopped with error: %v", err)
		fmt.Fprintf(os.Stderr, "ptab-editor: %v\n", err)
		return exitError
	}
	logger.Println("Main: goodbye")
	return exitOK
}

func runHeadless(cfg *config.Config, flags cliFlags, args []string, logger *log.Logger) int {
	if err := headless(cfg, flags, args, logger, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "ptab-editor: %v\n", err)
		if errors.Is(err, errViolations) {
			return exitViolations
		}
		return exitError
	}
	return exitOK
}

// headless loads the input, runs the batch steps, writes the table and chart,
// and checks invariants, in that order. Progress goes to stdout.
func headless(cfg *config.Config, flags cliFlags, args []string, logger *log.Logger, stdout io.Writer) error {
	if len(args) != 1 {
		return errors.New("exactly one input file is required without the UI")
	}
	input := args[0]

	steps, err := editor.ParseBatch(flags.batch)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", input, err)
	}
	ed := editor.New(editorOptions(cfg), logger)
	loaded, err := ed.Load(filepath.Base(input), string(raw))
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, loaded.Message)

	results, err := ed.RunBatch(steps)
	for i, res := range results {
		fmt.Fprintf(stdout, "%s: %s\n", steps[i], res)
	}
	if err != nil {
		return err
	}

	if len(steps) > 0 {
		out := flags.out
		if out == "" {
			out = input
		}
		if err := os.WriteFile(out, []byte(ed.Serialize()), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		ed.MarkSaved(filepath.Base(out))
		fmt.Fprintf(stdout, "Wrote %s\n", out)
	}

	if flags.chart != "" {
		original := ed.State().Original.Table()
		if len(steps) == 0 {
			original = nil
		}
		title := strings.TrimSuffix(ed.Name(), filepath.Ext(ed.Name()))
		if err := chart.ExportFile(flags.chart, ed.Table(), original, chartOptions(cfg, title)); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Chart written to %s\n", flags.chart)
	}

	if flags.check {
		violations := ed.Validate()
		for _, v := range violations {
			fmt.Fprintf(stdout, "%s: %s\n", v.Kind, v)
		}
		if len(violations) > 0 {
			return fmt.Errorf("%w: %d violations", errViolations, len(violations))
		}
		fmt.Fprintln(stdout, "Table is consistent")
	}
	return nil
}
