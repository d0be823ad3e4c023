// tinyrender - wireframe software renderer
// Draws the edges of an OBJ or glTF mesh into a TGA image, plots noise
// curves, or spins the mesh in the terminal.
//
// Usage:
//
//	tinyrender [options] <model.obj|model.glb>
//	tinyrender [options] -plot sin|noise|perlin
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/taigrr/tinyrender/pkg/models"
	"github.com/taigrr/tinyrender/pkg/noise"
	"github.com/taigrr/tinyrender/pkg/render"
	"github.com/taigrr/tinyrender/pkg/tga"
)

func main() {
	cfg, err := parseArgs(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config) error {
	if cfg.Plot != "" {
		return plot(cfg)
	}

	start := time.Now()
	mesh, err := models.Load(cfg.Input)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	slog.Info("loaded model",
		"path", cfg.Input,
		"vertices", mesh.VertexCount(),
		"triangles", mesh.TriangleCount(),
		"elapsed", time.Since(start))

	if cfg.Fit || cfg.View {
		mesh = mesh.Fit()
		lo, hi := mesh.Bounds()
		slog.Debug("fitted model", "min", lo, "max", hi)
	}

	if cfg.View {
		return view(ctx, mesh, cfg)
	}

	fb, err := renderMesh(mesh, cfg)
	if err != nil {
		return err
	}
	return save(fb, cfg)
}

// newFramebuffer creates the output framebuffer, cleared to the configured
// background if one is set.
func newFramebuffer(cfg Config) (*render.Framebuffer, error) {
	fb, err := render.NewFramebuffer(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	if cfg.Background != "" {
		bg, err := ParseColor(cfg.Background)
		if err != nil {
			return nil, err
		}
		fb.Clear(bg)
	}
	return fb, nil
}

func renderMesh(mesh *models.Mesh, cfg Config) (*render.Framebuffer, error) {
	color, err := ParseColor(cfg.Color)
	if err != nil {
		return nil, err
	}
	fb, err := newFramebuffer(cfg)
	if err != nil {
		return nil, err
	}

	w := render.NewWireframe(fb)
	w.Policy = cfg.Range

	if cfg.Progress {
		bar := progressbar.NewOptions(mesh.TriangleCount(),
			progressbar.OptionSetDescription("rendering"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Close()
		w.Progress = func(done, _ int) {
			_ = bar.Set(done)
		}
	}

	start := time.Now()
	if err := w.DrawMesh(mesh, color); err != nil {
		if errors.Is(err, render.ErrVertexOutOfRange) {
			return nil, fmt.Errorf("render %s: %w (try -fit or -range clamp|clip)", mesh.Name, err)
		}
		return nil, fmt.Errorf("render %s: %w", mesh.Name, err)
	}
	slog.Debug("rendered wireframe", "triangles", mesh.TriangleCount(), "elapsed", time.Since(start))
	return fb, nil
}

// plotFunc returns the curve named by -plot, sampled per pixel column of a
// width-pixel image.
func plotFunc(name string, width int) func(x int) float32 {
	switch name {
	case "noise":
		return func(x int) float32 {
			return noise.IntegerNoise1D(int32(x / 32))
		}
	case "perlin":
		return func(x int) float32 {
			return noise.FBM(float32(x)*0.001, 5)
		}
	default:
		step := 2 * math.Pi / float64(width)
		return func(x int) float32 {
			return float32(math.Sin(float64(x) * step))
		}
	}
}

func plot(cfg Config) error {
	color, err := ParseColor(cfg.Color)
	if err != nil {
		return err
	}
	fb, err := newFramebuffer(cfg)
	if err != nil {
		return err
	}
	fb.PlotFunc(plotFunc(cfg.Plot, cfg.Width), color)
	slog.Debug("plotted curve", "plot", cfg.Plot)
	return save(fb, cfg)
}

func save(fb *render.Framebuffer, cfg Config) error {
	if err := tga.Save(cfg.Output, fb); err != nil {
		return fmt.Errorf("save tga: %w", err)
	}
	slog.Info("wrote image", "path", cfg.Output, "width", fb.Width, "height", fb.Height)

	if cfg.PNG != "" {
		if err := fb.SavePNG(cfg.PNG); err != nil {
			return fmt.Errorf("save png: %w", err)
		}
		slog.Info("wrote image", "path", cfg.PNG, "format", "png")
	}
	return nil
}
