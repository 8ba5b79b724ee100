// Command raycast renders a scene file to a PPM or PNG image.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ryanlewis/raycast"
	"github.com/ryanlewis/raycast/internal/common"
	"github.com/ryanlewis/raycast/internal/config"
	"github.com/ryanlewis/raycast/internal/debug"
	"github.com/spf13/pflag"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// settings is the merged result of defaults, config file and flags
type settings struct {
	configPath  string
	workers     int
	format      string
	background  string
	maxObjects  int
	debugMode   bool
	debugFile   string
	debugPretty bool
	quiet       bool
	showVersion bool
	showHelp    bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var s settings
	flags := pflag.NewFlagSet("raycast", pflag.ContinueOnError)
	flags.SetOutput(stderr)

	flags.StringVarP(&s.configPath, "config", "c", "", "YAML config file")
	flags.IntVarP(&s.workers, "workers", "j", 0, "Number of render workers (0 = one per CPU)")
	flags.StringVarP(&s.format, "format", "f", "", "Output format: p3, p6 or png (default from output extension)")
	flags.StringVar(&s.background, "background", "", "Background color as r,g,b in [0,1] (default 0,0,0)")
	flags.IntVar(&s.maxObjects, "max-objects", common.DefaultMaxObjects, "Maximum objects per scene (0 = unlimited)")
	flags.BoolVar(&s.debugMode, "debug", false, "Enable debug mode (outputs to stderr)")
	flags.StringVar(&s.debugFile, "debug-file", "", "Write debug output to file instead of stderr")
	flags.BoolVar(&s.debugPretty, "debug-pretty", false, "Use pretty format for debug output (default: JSON)")
	flags.BoolVarP(&s.quiet, "quiet", "q", false, "Suppress parser warnings")
	flags.BoolVarP(&s.showVersion, "version", "v", false, "Show version information")
	flags.BoolVarP(&s.showHelp, "help", "h", false, "Show help message")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error parsing flags: %v\n", err)
		return 1
	}

	if s.showHelp {
		printHelp(stdout, flags)
		return 0
	}

	if s.showVersion {
		fmt.Fprintf(stdout, "raycast version %s (commit: %s, built: %s)\n", version, commit, date)
		return 0
	}

	if s.configPath != "" {
		cfg, err := config.Load(s.configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error loading config: %v\n", err)
			return 1
		}
		applyConfig(&s, cfg, flags)
	}

	pos := flags.Args()
	if len(pos) != 4 {
		fmt.Fprintf(stderr, "Error: expected 4 arguments, got %d\n", len(pos))
		printUsage(stderr)
		return 1
	}

	width, err := parseDimension("width", pos[0])
	if err != nil {
		fmt.Fprintf(stderr, "Error parsing dimensions: %v\n", err)
		return 1
	}
	height, err := parseDimension("height", pos[1])
	if err != nil {
		fmt.Fprintf(stderr, "Error parsing dimensions: %v\n", err)
		return 1
	}
	inputPath, outputPath := pos[2], pos[3]

	format := raycast.FormatFromPath(outputPath)
	if s.format != "" {
		if format, err = raycast.ParseFormat(s.format); err != nil {
			fmt.Fprintf(stderr, "Error parsing format: %v\n", err)
			return 1
		}
	}

	if s.workers < 0 {
		fmt.Fprintf(stderr, "Error: workers must be >= 0, got %d\n", s.workers)
		return 1
	}

	opts := []raycast.Option{
		raycast.WithWorkers(s.workers),
		raycast.WithMaxObjects(s.maxObjects),
	}

	if s.background != "" {
		bg, err := parseBackground(s.background)
		if err != nil {
			fmt.Fprintf(stderr, "Error parsing background: %v\n", err)
			return 1
		}
		opts = append(opts, raycast.WithBackground(bg[0], bg[1], bg[2]))
	}

	// Setup debug if enabled
	debug.InitFromEnv()
	if s.debugMode || s.debugFile != "" || debug.Enabled() {
		debug.SetEnabled(true)

		var output io.Writer = stderr
		if s.debugFile != "" {
			file, err := os.Create(s.debugFile)
			if err != nil {
				fmt.Fprintf(stderr, "Error creating debug file: %v\n", err)
				return 1
			}
			defer file.Close()
			output = file
		}

		var sink debug.Sink
		if s.debugPretty || os.Getenv("RAYCAST_DEBUG_PRETTY") == "1" {
			sink = debug.NewPrettySink(output)
		} else {
			sink = debug.NewJSONSink(output)
		}

		if session := debug.NewSession(sink); session != nil {
			defer session.Close()
			opts = append(opts, raycast.WithDebug(session))
		}
	}

	scene, err := raycast.LoadScene(inputPath, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading scene: %v\n", err)
		return 1
	}
	if !s.quiet {
		for _, w := range scene.Warnings {
			fmt.Fprintf(stderr, "Warning: %s\n", w)
		}
	}

	frame, err := raycast.Render(scene, width, height, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "Error rendering scene: %v\n", err)
		return 1
	}

	// The output file is only created once the frame is complete
	if err := raycast.WriteFile(outputPath, frame, format, opts...); err != nil {
		fmt.Fprintf(stderr, "Error writing image: %v\n", err)
		return 1
	}
	return 0
}

// applyConfig copies config values into s for every flag the user did not
// set explicitly on the command line.
func applyConfig(s *settings, cfg *config.Config, flags *pflag.FlagSet) {
	if cfg.Workers != nil && !flags.Changed("workers") {
		s.workers = *cfg.Workers
	}
	if cfg.Format != "" && !flags.Changed("format") {
		s.format = cfg.Format
	}
	if cfg.Background != nil && !flags.Changed("background") {
		parts := make([]string, len(*cfg.Background))
		for i, v := range *cfg.Background {
			parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		s.background = strings.Join(parts, ",")
	}
	if cfg.MaxObjects != nil && !flags.Changed("max-objects") {
		s.maxObjects = *cfg.MaxObjects
	}
	if !flags.Changed("debug") {
		s.debugMode = s.debugMode || cfg.Debug
	}
	if cfg.DebugFile != "" && !flags.Changed("debug-file") {
		s.debugFile = cfg.DebugFile
	}
	if !flags.Changed("debug-pretty") {
		s.debugPretty = s.debugPretty || cfg.DebugPretty
	}
	if !flags.Changed("quiet") {
		s.quiet = s.quiet || cfg.Quiet
	}
}

// parseDimension parses a positive pixel count
func parseDimension(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not a number", name, s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive, got %d", common.ErrInvalidDimensions, name, n)
	}
	return n, nil
}

// parseBackground parses "r,g,b" with each component in [0,1]
func parseBackground(s string) ([3]float64, error) {
	fields := strings.Split(s, ",")
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return [3]float64{}, fmt.Errorf("invalid component %q", f)
		}
		vals[i] = v
	}
	return config.BackgroundColor(vals)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  raycast [flags] <width> <height> <input-scene> <output-image>")
}

func printHelp(w io.Writer, flags *pflag.FlagSet) {
	fmt.Fprintln(w, "raycast - render spheres and planes to an image")
	fmt.Fprintln(w)
	printUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	flags.SetOutput(w)
	flags.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  RAYCAST_DEBUG=1         enable debug tracing")
	fmt.Fprintln(w, "  RAYCAST_DEBUG_PRETTY=1  use the pretty debug format")
}
