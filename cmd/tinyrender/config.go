package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/taigrr/tinyrender/pkg/render"
	"gopkg.in/yaml.v3"
)

// maxConfigSize bounds the YAML config file.
const maxConfigSize = 1 << 20

var plotNames = []string{"sin", "noise", "perlin"}

// Config holds every setting of a run. It can be loaded from YAML; command
// line flags override file values.
type Config struct {
	Input      string             `yaml:"input"`
	Output     string             `yaml:"output"`
	PNG        string             `yaml:"png"`
	Width      int                `yaml:"width"`
	Height     int                `yaml:"height"`
	Color      string             `yaml:"color"`      // R,G,B[,A]
	Background string             `yaml:"background"` // empty leaves the buffer zeroed
	Fit        bool               `yaml:"fit"`
	Range      render.RangePolicy `yaml:"range"`
	Plot       string             `yaml:"plot"`
	Progress   bool               `yaml:"progress"`
	View       bool               `yaml:"view"`
	FPS        int                `yaml:"fps"`
	LogLevel   slog.Level         `yaml:"log_level"`
}

// DefaultConfig returns the settings used when neither a file nor a flag
// provides a value.
func DefaultConfig() Config {
	return Config{
		Output:   "output.tga",
		Width:    1024,
		Height:   1024,
		Color:    "255,0,0",
		Range:    render.RangeReject,
		FPS:      30,
		LogLevel: slog.LevelInfo,
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxConfigSize+1))
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if len(data) > maxConfigSize {
		return cfg, fmt.Errorf("config %s exceeds %d bytes", path, maxConfigSize)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings that flags and YAML cannot type-check.
func (c Config) Validate() error {
	var errs []error
	if c.Width < 1 || c.Height < 1 {
		errs = append(errs, fmt.Errorf("invalid size %dx%d", c.Width, c.Height))
	}
	if _, err := ParseColor(c.Color); err != nil {
		errs = append(errs, fmt.Errorf("color: %w", err))
	}
	if c.Background != "" {
		if _, err := ParseColor(c.Background); err != nil {
			errs = append(errs, fmt.Errorf("background: %w", err))
		}
	}
	if c.Plot != "" && !isPlot(c.Plot) {
		errs = append(errs, fmt.Errorf("unknown plot %q (want %s)", c.Plot, strings.Join(plotNames, ", ")))
	}
	if c.Plot == "" && c.Input == "" {
		errs = append(errs, errors.New("no model given"))
	}
	if c.View && c.FPS < 1 {
		errs = append(errs, fmt.Errorf("invalid fps %d", c.FPS))
	}
	return errors.Join(errs...)
}

func isPlot(name string) bool {
	for _, p := range plotNames {
		if p == name {
			return true
		}
	}
	return false
}

// ParseColor parses "R,G,B" or "R,G,B,A" with components in 0-255.
// Alpha defaults to 255.
func ParseColor(s string) (render.Color, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return render.Color{}, fmt.Errorf("color %q: want R,G,B or R,G,B,A", s)
	}
	c := [4]uint8{3: 255}
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return render.Color{}, fmt.Errorf("color %q: %w", s, err)
		}
		c[i] = uint8(v)
	}
	return render.RGBA(c[0], c[1], c[2], c[3]), nil
}

// parseArgs builds the run configuration: defaults, then the -config file,
// then any flags set explicitly.
func parseArgs(args []string, stderr io.Writer) (Config, error) {
	def := DefaultConfig()
	var (
		fc         = def
		configPath string
		verbose    bool
	)

	fs := flag.NewFlagSet("tinyrender", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(fs) }

	fs.StringVar(&configPath, "config", "", "Path to a YAML config file")
	fs.StringVar(&fc.Output, "o", def.Output, "Output TGA path")
	fs.StringVar(&fc.PNG, "png", "", "Also write a PNG to this path")
	fs.IntVar(&fc.Width, "width", def.Width, "Image width in pixels")
	fs.IntVar(&fc.Height, "height", def.Height, "Image height in pixels")
	fs.StringVar(&fc.Color, "color", def.Color, "Line color (R,G,B[,A])")
	fs.StringVar(&fc.Background, "bg", "", "Background color (R,G,B[,A]); default transparent black")
	fs.BoolVar(&fc.Fit, "fit", false, "Center and scale the model into [-1, 1]")
	fs.TextVar(&fc.Range, "range", def.Range, "Out-of-range vertices: reject, clamp or clip")
	fs.StringVar(&fc.Plot, "plot", "", "Plot a curve instead of a model: "+strings.Join(plotNames, ", "))
	fs.BoolVar(&fc.Progress, "progress", false, "Show a progress bar while rendering")
	fs.BoolVar(&fc.View, "view", false, "Spin the model in the terminal instead of writing files")
	fs.IntVar(&fc.FPS, "fps", def.FPS, "Target FPS for -view")
	fs.BoolVar(&verbose, "v", false, "Verbose logging")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := def
	if configPath != "" {
		var err error
		if cfg, err = LoadConfig(configPath); err != nil {
			return Config{}, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "o":
			cfg.Output = fc.Output
		case "png":
			cfg.PNG = fc.PNG
		case "width":
			cfg.Width = fc.Width
		case "height":
			cfg.Height = fc.Height
		case "color":
			cfg.Color = fc.Color
		case "bg":
			cfg.Background = fc.Background
		case "fit":
			cfg.Fit = fc.Fit
		case "range":
			cfg.Range = fc.Range
		case "plot":
			cfg.Plot = fc.Plot
		case "progress":
			cfg.Progress = fc.Progress
		case "view":
			cfg.View = fc.View
		case "fps":
			cfg.FPS = fc.FPS
		case "v":
			if verbose {
				cfg.LogLevel = slog.LevelDebug
			}
		}
	})
	if fs.NArg() > 0 {
		cfg.Input = fs.Arg(0)
	}

	if err := cfg.Validate(); err != nil {
		fs.Usage()
		return Config{}, err
	}
	return cfg, nil
}

func usage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintf(w, "tinyrender - wireframe software renderer\n\n")
	fmt.Fprintf(w, "Usage: tinyrender [options] <model.obj|model.glb>\n")
	fmt.Fprintf(w, "       tinyrender [options] -plot sin|noise|perlin\n\n")
	fmt.Fprintf(w, "Options:\n")
	fs.PrintDefaults()
	fmt.Fprintf(w, "\nControls (-view):\n")
	fmt.Fprintf(w, "  Mouse drag  - Rotate model\n")
	fmt.Fprintf(w, "  W/S/A/D     - Pitch and yaw\n")
	fmt.Fprintf(w, "  Q/E         - Roll left/right\n")
	fmt.Fprintf(w, "  Space       - Random spin\n")
	fmt.Fprintf(w, "  +/-         - Zoom\n")
	fmt.Fprintf(w, "  R           - Reset view\n")
	fmt.Fprintf(w, "  ?           - Toggle HUD\n")
	fmt.Fprintf(w, "  Esc         - Quit\n")
}
