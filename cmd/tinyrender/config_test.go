package main

import (
	"errors"
	"flag"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/tinyrender/pkg/render"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    render.Color
		wantErr bool
	}{
		{"255,0,0", render.ColorRed, false},
		{"1, 2, 3, 4", render.RGBA(1, 2, 3, 4), false},
		{"0,0,0,0", render.Color{}, false},
		{"256,0,0", render.Color{}, true},
		{"1,2", render.Color{}, true},
		{"1,2,3,4,5", render.Color{}, true},
		{"red", render.Color{}, true},
		{"", render.Color{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseColor(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Errorf("ParseColor(%q) = %v, want error", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseColor(%q): %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "tinyrender.yaml", `
input: head.obj
output: head.tga
width: 800
range: clip
log_level: debug
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	want := DefaultConfig()
	want.Input = "head.obj"
	want.Output = "head.tga"
	want.Width = 800
	want.Range = render.RangeClip
	want.LogLevel = slog.LevelDebug
	if cfg != want {
		t.Errorf("LoadConfig = %+v, want %+v", cfg, want)
	}

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file error = %v, want fs.ErrNotExist", err)
	}

	if _, err := LoadConfig(writeFile(t, "bad.yaml", "range: sideways\n")); err == nil {
		t.Error("unknown range policy accepted")
	}

	_, err = LoadConfig(writeFile(t, "big.yaml", "# "+strings.Repeat("x", maxConfigSize)))
	if err == nil || !strings.Contains(err.Error(), "exceeds") {
		t.Errorf("oversized config error = %v, want size error", err)
	}
}

func TestParseArgs(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := parseArgs([]string{"model.obj"}, io.Discard)
		if err != nil {
			t.Fatalf("parseArgs: %v", err)
		}
		want := DefaultConfig()
		want.Input = "model.obj"
		if cfg != want {
			t.Errorf("parseArgs = %+v, want %+v", cfg, want)
		}
	})

	t.Run("flags", func(t *testing.T) {
		cfg, err := parseArgs([]string{
			"-o", "out.tga", "-png", "out.png", "-width", "64", "-height", "32",
			"-color", "0,255,0", "-bg", "0,0,0", "-fit", "-range", "clamp", "-progress", "-v",
			"model.glb",
		}, io.Discard)
		if err != nil {
			t.Fatalf("parseArgs: %v", err)
		}
		want := DefaultConfig()
		want.Input = "model.glb"
		want.Output = "out.tga"
		want.PNG = "out.png"
		want.Width, want.Height = 64, 32
		want.Color = "0,255,0"
		want.Background = "0,0,0"
		want.Fit = true
		want.Range = render.RangeClamp
		want.Progress = true
		want.LogLevel = slog.LevelDebug
		if cfg != want {
			t.Errorf("parseArgs = %+v, want %+v", cfg, want)
		}
	})

	t.Run("flags override file", func(t *testing.T) {
		path := writeFile(t, "c.yaml", "width: 10\nheight: 20\nplot: sin\n")
		cfg, err := parseArgs([]string{"-config", path, "-height", "99"}, io.Discard)
		if err != nil {
			t.Fatalf("parseArgs: %v", err)
		}
		if cfg.Width != 10 || cfg.Height != 99 || cfg.Plot != "sin" {
			t.Errorf("got width %d, height %d, plot %q; want 10, 99, sin", cfg.Width, cfg.Height, cfg.Plot)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		for _, args := range [][]string{
			{},
			{"-width", "0", "m.obj"},
			{"-color", "red", "m.obj"},
			{"-bg", "1,2", "m.obj"},
			{"-plot", "cos"},
			{"-range", "wrap", "m.obj"},
			{"-view", "-fps", "0", "m.obj"},
		} {
			if _, err := parseArgs(args, io.Discard); err == nil {
				t.Errorf("parseArgs(%q) succeeded, want error", args)
			}
		}
	})

	t.Run("help", func(t *testing.T) {
		var out strings.Builder
		_, err := parseArgs([]string{"-h"}, &out)
		if !errors.Is(err, flag.ErrHelp) {
			t.Errorf("error = %v, want flag.ErrHelp", err)
		}
		if !strings.Contains(out.String(), "Usage: tinyrender") {
			t.Errorf("usage text missing:\n%s", out.String())
		}
	})
}
