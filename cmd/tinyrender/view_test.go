package main

import (
	"math"
	"testing"

	"github.com/taigrr/tinyrender/pkg/math3d"
	"github.com/taigrr/tinyrender/pkg/models"
)

func TestSpinDecays(t *testing.T) {
	s := newSpin(30)
	s.push([3]float64{yaw: 1})
	for range 120 {
		s.advance()
	}
	if math.Abs(s.vel[yaw]) > 0.01 {
		t.Errorf("yaw velocity after 4s = %v, want ~0", s.vel[yaw])
	}
	if s.angle[yaw] <= 1 {
		t.Errorf("yaw angle = %v, want > 1", s.angle[yaw])
	}
	if s.angle[pitch] != 0 || s.angle[roll] != 0 {
		t.Errorf("untouched axes moved: %v", s.angle)
	}
}

func TestSpinMatrix(t *testing.T) {
	s := newSpin(30)
	if m := s.matrix(1); !m.Equal(math3d.Identity[float32, math3d.D3]()) {
		t.Errorf("matrix at rest = %v, want identity", m)
	}

	m := s.matrix(0.5)
	if m.At(0, 0) != 0.5 || m.At(2, 2) != 0.5 {
		t.Errorf("matrix(0.5) = %v, want diagonal 0.5", m)
	}

	s.push([3]float64{0.1, 0.2, 0.3})
	s.advance()
	for i, want := range []float64{0.1, 0.2, 0.3} {
		if math.Abs(s.angle[i]-want) > 1e-9 {
			t.Errorf("angle[%d] = %v, want %v", i, s.angle[i], want)
		}
	}

	s.stop()
	if s.angle != [3]float64{} || s.vel != [3]float64{} {
		t.Errorf("after stop angle = %v, vel = %v", s.angle, s.vel)
	}
}

func TestViewerDraw(t *testing.T) {
	mesh, err := models.LoadOBJ(writeFile(t, "tri.obj", triangleOBJ))
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}

	v, err := newViewer(mesh.Fit(), DefaultConfig())
	if err != nil {
		t.Fatalf("newViewer: %v", err)
	}
	if err := v.resize(20, 10); err != nil {
		t.Fatalf("resize: %v", err)
	}
	if v.fb.Width != 20 || v.fb.Height != 20 {
		t.Fatalf("framebuffer = %dx%d, want 20x20", v.fb.Width, v.fb.Height)
	}

	v.torque[yaw] = torqueStrength
	for range 30 {
		v.step(1.0 / 30)
		if err := v.draw(); err != nil {
			t.Fatalf("draw: %v", err)
		}
	}
	if v.spin.angle[yaw] == 0 {
		t.Error("torque did not turn the model")
	}

	var lit int
	for y := range v.fb.Height {
		for x := range v.fb.Width {
			if v.fb.GetPixel(x, y) == v.color {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("no wireframe pixels drawn")
	}

	// Zoomed far in, lines leave the buffer and are clipped.
	v.zoom = maxZoom
	v.spin.angle[yaw] = math.Pi / 4
	if err := v.draw(); err != nil {
		t.Errorf("draw at max zoom: %v", err)
	}
}

func TestViewerDrag(t *testing.T) {
	v, err := newViewer(models.NewMesh("empty"), DefaultConfig())
	if err != nil {
		t.Fatalf("newViewer: %v", err)
	}

	v.drag(10, 10)
	if v.spin.vel != [3]float64{} {
		t.Errorf("drag without a click spun the model: %v", v.spin.vel)
	}

	v.mouseDown = true
	v.drag(10, 0)
	if math.Abs(v.spin.vel[yaw]-0.3) > 1e-9 || v.spin.vel[pitch] != 0 {
		t.Errorf("velocity after drag = %v, want yaw 0.3", v.spin.vel)
	}
}
