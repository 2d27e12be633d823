package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/charmbracelet/x/term"

	"github.com/chatter/chordpick/internal/app"
	"github.com/chatter/chordpick/internal/chord"
	"github.com/chatter/chordpick/internal/config"
	"github.com/chatter/chordpick/internal/logger"
	"github.com/chatter/chordpick/internal/picker"
	"github.com/chatter/chordpick/internal/selection"
	"github.com/chatter/chordpick/internal/target"
	"github.com/chatter/chordpick/internal/tmux"
)

// version is set from build info or falls back to "dev"
var version = "dev"

func init() {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
}

// Source names accepted by -source.
const (
	sourceAuto = "auto"
	sourceTmux = "tmux"
	sourceJSON = "json"
)

type options struct {
	configPath  string
	source      string
	input       string
	allWindows  bool
	preview     bool
	width       int
	height      int
	writeConfig bool
	logLevel    string
	showVersion bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	if opts.showVersion {
		fmt.Printf("chordpick %s\n", version)
		return 0
	}

	if opts.writeConfig {
		path := opts.configPath
		if path == "" {
			path = config.Paths()[0]
		}
		if err := config.WriteDefault(path); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		fmt.Println(path)
		return 0
	}

	paths, required := config.Paths(), false
	if opts.configPath != "" {
		paths, required = []string{opts.configPath}, true
	}

	cfg, err := config.Load(paths, required)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer log.Close()

	for _, w := range cfg.Warnings() {
		log.Warn("config", "warning", w)
	}

	src, err := openSource(opts, log)
	if err != nil {
		log.Error("opening target source", "err", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	targets, err := src.Targets()
	if err != nil {
		log.Error("listing targets", "source", src.Name(), "err", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	filter := target.NewFilter(cfg.Exclude)
	targets = filter.Apply(targets)
	log.Info("targets listed", "source", src.Name(), "count", len(targets), "exclude_patterns", filter.Len())

	pickerOpts := picker.Options{
		KeyGroups:      cfg.KeyGroups,
		Keys:           cfg.SelectionKeys(),
		MaxChordLength: cfg.MaxChordLength,
	}

	if opts.preview {
		return preview(cfg, pickerOpts, targets, opts)
	}

	tty := openTTY(log)
	if tty != nil {
		defer tty.Close()
	} else if !term.IsTerminal(os.Stdin.Fd()) {
		log.Error("no terminal for key input")
		fmt.Fprintln(os.Stderr, "error: no terminal for key input (/dev/tty unavailable and stdin is not a terminal)")
		return 1
	}

	termOpts := app.Options{
		Config:      cfg,
		Version:     version,
		ConfigPaths: paths,
		WatchPath:   watchPath(paths),
	}
	if tty != nil {
		termOpts.Input, termOpts.Output = tty, tty
	}

	res, err := picker.Run(targets, pickerOpts, app.NewTerminal(termOpts, log), log)
	if err != nil {
		log.Error("picker failed", "err", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if !res.Selected {
		return 1
	}

	if err := src.Focus(res.Target); err != nil {
		log.Error("focusing target", "id", res.Target.ID, "err", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	return 0
}

func parseFlags() options {
	var opts options

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.source, "source", sourceAuto, "Target source: auto, tmux or json")
	flag.StringVar(&opts.input, "input", "-", "JSON target list for -source json (- for stdin)")
	flag.BoolVar(&opts.allWindows, "all-windows", false, "tmux: offer panes from every window of the session")
	flag.BoolVar(&opts.preview, "preview", false, "Print the first frame instead of starting a session")
	flag.IntVar(&opts.width, "width", 80, "Preview width in cells")
	flag.IntVar(&opts.height, "height", 24, "Preview height in cells")
	flag.BoolVar(&opts.writeConfig, "write-config", false, "Write the default configuration and exit")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config")
	flag.BoolVar(&opts.showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "chordpick - pick a pane or window by typing its chord\n\n")
		fmt.Fprintf(os.Stderr, "Usage: chordpick [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  chordpick                          Pick a pane in the current tmux window\n")
		fmt.Fprintf(os.Stderr, "  chordpick -all-windows             Pick a pane anywhere in the session\n")
		fmt.Fprintf(os.Stderr, "  chordpick -source json -input panes.json\n")
		fmt.Fprintf(os.Stderr, "  chordpick -write-config            Write %s\n", config.Paths()[0])
	}

	flag.Parse()

	return opts
}

func openSource(opts options, log *logger.Logger) (target.Source, error) {
	kind := opts.source
	if kind == sourceAuto {
		kind = sourceJSON
		if os.Getenv("TMUX") != "" {
			kind = sourceTmux
		}
	}

	switch kind {
	case sourceTmux:
		runner := tmux.NewRunner("tmux", log)
		return tmux.NewSource(runner, opts.allWindows, os.Getenv("TMUX_PANE"), log), nil

	case sourceJSON:
		in, err := openInput(opts.input)
		if err != nil {
			return nil, err
		}
		return target.NewJSONSource(in, os.Stdout), nil
	}

	return nil, fmt.Errorf("unknown source %q (use %s, %s or %s)", opts.source, sourceAuto, sourceTmux, sourceJSON)
}

func openInput(path string) (io.Reader, error) {
	if path == "-" || path == "" {
		return os.Stdin, nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("reading target list: %w", err)
	}
	return bytes.NewReader(data), nil
}

// watchPath returns the highest priority config file that exists, or "".
func watchPath(paths []string) string {
	for i := len(paths) - 1; i >= 0; i-- {
		if _, err := os.Stat(paths[i]); err == nil {
			return paths[i]
		}
	}
	return ""
}

// openTTY returns the controlling terminal so the picker still gets the
// keyboard when stdin carries a target list and stdout the result.
func openTTY(log *logger.Logger) *os.File {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		log.Debug("no controlling terminal, using stdio", "err", err)
		return nil
	}
	return tty
}

func preview(cfg *config.Config, opts picker.Options, targets []target.Target, flags options) int {
	pairs := chord.Assign(picker.Partition(opts.KeyGroups, targets), opts.MaxChordLength)
	overlays := selection.New(pairs, opts.Keys).Overlays()

	p := app.Preview{
		Config:  cfg,
		Version: version,
		Width:   flags.width,
		Height:  flags.height,
		Environ: os.Environ(),
	}
	if err := p.Write(os.Stdout, overlays); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	return 0
}
