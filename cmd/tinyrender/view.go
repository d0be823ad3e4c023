package main

import (
	"context"
	"fmt"
	"image"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/tinyrender/pkg/math3d"
	"github.com/taigrr/tinyrender/pkg/models"
	"github.com/taigrr/tinyrender/pkg/render"
)

const (
	torqueStrength = 3.0
	minZoom        = 0.2
	maxZoom        = 4.0
)

// Rotation axes, indexing spin and torque arrays.
const (
	pitch = iota
	yaw
	roll
)

// spin is the model orientation. Each axis turns at its own angular
// velocity, which a critically damped spring pulls back to rest.
type spin struct {
	spring harmonica.Spring
	angle  [3]float64
	vel    [3]float64
	drift  [3]float64 // spring state for vel
}

func newSpin(fps int) *spin {
	return &spin{spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0)}
}

// advance moves one frame.
func (s *spin) advance() {
	for i := range s.angle {
		s.angle[i] += s.vel[i]
		s.vel[i], s.drift[i] = s.spring.Update(s.vel[i], s.drift[i], 0)
	}
}

// push adds d to the angular velocities.
func (s *spin) push(d [3]float64) {
	for i, dv := range d {
		s.vel[i] += dv
	}
}

func (s *spin) stop() {
	s.angle = [3]float64{}
	s.vel = [3]float64{}
	s.drift = [3]float64{}
}

// matrix returns the orientation scaled by zoom, for row vectors.
func (s *spin) matrix(zoom float64) math3d.Mat3[float32] {
	z := float32(zoom)
	m := math3d.ScaleMatrix(z, z, z)
	for _, r := range []math3d.Mat3[float32]{
		math3d.RotateZ(float32(s.angle[roll])),
		math3d.RotateY(float32(s.angle[yaw])),
		math3d.RotateX(float32(s.angle[pitch])),
	} {
		m = math3d.Mul(r, m)
	}
	return m
}

// viewer is the interactive preview state. It is owned by the frame loop.
type viewer struct {
	mesh     *models.Mesh
	color    render.Color
	bg       render.Color
	spin     *spin
	zoom     float64
	showHUD  bool

	fb     *render.Framebuffer
	wire   *render.Wireframe
	width  int // terminal columns
	height int // terminal rows

	torque [3]float64

	mouseDown      bool
	lastMX, lastMY int
	frames         int
	fps            float64
	fpsSince       time.Time
}

func newViewer(mesh *models.Mesh, cfg Config) (*viewer, error) {
	color, err := ParseColor(cfg.Color)
	if err != nil {
		return nil, err
	}
	bg := render.RGB(30, 30, 40)
	if cfg.Background != "" {
		if bg, err = ParseColor(cfg.Background); err != nil {
			return nil, err
		}
	}
	return &viewer{
		mesh:     mesh,
		color:    color,
		bg:       bg,
		spin:     newSpin(cfg.FPS),
		zoom:     0.9,
		fpsSince: time.Now(),
	}, nil
}

// resize reallocates the framebuffer for a cols x rows terminal.
func (v *viewer) resize(cols, rows int) error {
	w, h := render.TerminalSize(cols, rows)
	fb, err := render.NewFramebuffer(max(w, 1), max(h, 1))
	if err != nil {
		return err
	}
	v.width, v.height = cols, rows
	v.fb = fb
	v.wire = render.NewWireframe(fb)
	v.wire.Policy = render.RangeClip
	return nil
}

// step advances the simulation by dt seconds.
func (v *viewer) step(dt float64) {
	dt = min(dt, 0.1)

	var d [3]float64
	for i := range v.torque {
		d[i] = v.torque[i] * dt
		// Key release events are unreliable, so torque decays on its own.
		v.torque[i] *= 0.9
	}
	v.spin.push(d)
	v.spin.advance()
}

// draw renders the current frame into the framebuffer.
func (v *viewer) draw() error {
	v.fb.Clear(v.bg)
	m := v.spin.matrix(v.zoom)
	v.wire.Transform = &m
	return v.wire.DrawMesh(v.mesh, v.color)
}

// key handles a key press and reports whether the viewer should quit.
func (v *viewer) key(ev uv.KeyPressEvent) bool {
	switch {
	case ev.MatchString("escape", "ctrl+c"):
		return true
	case ev.MatchString("r"):
		v.spin.stop()
		v.zoom = 0.9
	case ev.MatchString("w", "up"):
		v.torque[pitch] = -torqueStrength
	case ev.MatchString("s", "down"):
		v.torque[pitch] = torqueStrength
	case ev.MatchString("a", "left"):
		v.torque[yaw] = -torqueStrength
	case ev.MatchString("d", "right"):
		v.torque[yaw] = torqueStrength
	case ev.MatchString("q"):
		v.torque[roll] = -torqueStrength
	case ev.MatchString("e"):
		v.torque[roll] = torqueStrength
	case ev.MatchString("space"):
		var d [3]float64
		for i := range d {
			d[i] = (rand.Float64() - 0.5) * 1.5
		}
		v.spin.push(d)
	case ev.MatchString("+", "="):
		v.zoom = min(maxZoom, v.zoom*1.1)
	case ev.MatchString("-", "_"):
		v.zoom = max(minZoom, v.zoom/1.1)
	case ev.MatchString("?", "shift+/"):
		v.showHUD = !v.showHUD
	}
	return false
}

// drag turns mouse motion into spin.
func (v *viewer) drag(x, y int) {
	if !v.mouseDown {
		return
	}
	dx, dy := x-v.lastMX, y-v.lastMY
	v.spin.push([3]float64{pitch: float64(dy) * 0.03, yaw: float64(dx) * 0.03})
	v.lastMX, v.lastMY = x, y
}

func (v *viewer) tickFPS() {
	v.frames++
	if elapsed := time.Since(v.fpsSince); elapsed >= time.Second {
		v.fps = float64(v.frames) / elapsed.Seconds()
		v.frames = 0
		v.fpsSince = time.Now()
	}
}

// hud draws a one-line overlay with ANSI escapes.
func (v *viewer) hud() {
	const (
		reset     = "\x1b[0m"
		bgBlack   = "\x1b[40m"
		fgGreen   = "\x1b[92m"
		fgWhite   = "\x1b[97m"
		clearLine = "\x1b[2K"
	)
	fmt.Print("\x1b[1;1H" + clearLine)
	if !v.showHUD {
		return
	}
	fmt.Printf("%s%s %.0f FPS %s%s %s  %d triangles  zoom %.2f %s",
		bgBlack, fgGreen, v.fps, fgWhite, bgBlack,
		filepath.Base(v.mesh.Name), v.mesh.TriangleCount(), v.zoom, reset)
}

// view spins mesh in the terminal until Esc, ctrl+c or ctx is done.
func view(ctx context.Context, mesh *models.Mesh, cfg Config) error {
	v, err := newViewer(mesh, cfg)
	if err != nil {
		return err
	}

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := v.resize(width, height); err != nil {
		return err
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	fmt.Fprint(os.Stdout, "\x1b[?1003h") // any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR extended mouse mode
	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	ticker := time.NewTicker(time.Second / time.Duration(cfg.FPS))
	defer ticker.Stop()
	events := term.Events()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				term.Erase()
				term.Resize(ev.Width, ev.Height)
				if err := v.resize(ev.Width, ev.Height); err != nil {
					return err
				}
			case uv.KeyPressEvent:
				if v.key(ev) {
					return nil
				}
			case uv.KeyReleaseEvent:
				switch {
				case ev.MatchString("w", "up", "s", "down"):
					v.torque[pitch] = 0
				case ev.MatchString("a", "left", "d", "right"):
					v.torque[yaw] = 0
				case ev.MatchString("q", "e"):
					v.torque[roll] = 0
				}
			case uv.MouseClickEvent:
				v.mouseDown = true
				v.lastMX, v.lastMY = ev.X, ev.Y
			case uv.MouseReleaseEvent:
				v.mouseDown = false
			case uv.MouseMotionEvent:
				v.drag(ev.X, ev.Y)
			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					v.zoom = min(maxZoom, v.zoom*1.1)
				case uv.MouseWheelDown:
					v.zoom = max(minZoom, v.zoom/1.1)
				}
			}

		case now := <-ticker.C:
			v.step(now.Sub(last).Seconds())
			last = now

			if err := v.draw(); err != nil {
				return fmt.Errorf("draw: %w", err)
			}
			v.fb.Draw(term, uv.Rectangle(image.Rect(0, 0, v.width, v.height)))
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
			v.tickFPS()
			v.hud()
		}
	}
}
