package render

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/taigrr/tinyrender/pkg/math3d"
)

var (
	// ErrVertexOutOfRange is returned when a vertex lies outside model
	// space and the range policy does not allow it.
	ErrVertexOutOfRange = errors.New("render: vertex out of range")

	// ErrIndexOutOfRange is returned when a face references a vertex the
	// mesh does not have.
	ErrIndexOutOfRange = errors.New("render: vertex index out of range")
)

// clipGuard bounds model coordinates accepted under RangeClip. Anything
// further out is rejected rather than walked pixel by pixel.
const clipGuard = 64

// MeshRenderer is the interface for meshes that can be drawn as wireframes.
// This interface allows drawing meshes without importing the models package.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	// GetVertex returns the position of the i'th vertex (0-based).
	GetVertex(i int) math3d.Vector3[float32]
	// GetFace returns the 1-based position indices of the i'th triangle.
	GetFace(i int) [3]int
}

// Wireframe draws mesh edges into a framebuffer. Vertices are expected in
// model space, x and y in [-1, 1]; z is ignored.
type Wireframe struct {
	fb *Framebuffer

	// Policy decides what happens to vertices outside [-1, 1].
	Policy RangePolicy

	// Transform, if set, rotates every vertex (v' = v·M) before mapping.
	Transform *math3d.Mat3[float32]

	// Progress, if set, is called after each triangle.
	Progress func(done, total int)
}

// NewWireframe creates a new wireframe renderer drawing into fb.
func NewWireframe(fb *Framebuffer) *Wireframe {
	return &Wireframe{fb: fb}
}

// Framebuffer returns the target framebuffer.
func (w *Wireframe) Framebuffer() *Framebuffer {
	return w.fb
}

// ScreenPoint maps a model-space vertex to pixel coordinates:
// px = (x+1)*(width-1)/2 and py = (y+1)*(height-1)/2, truncated.
func (w *Wireframe) ScreenPoint(v math3d.Vector3[float32]) (Point, error) {
	if w.Transform != nil {
		v = math3d.Mul(v, *w.Transform)
	}
	x, y := v.X(), v.Y()

	if math32.IsNaN(x) || math32.IsNaN(y) || math32.IsInf(x, 0) || math32.IsInf(y, 0) {
		return Point{}, fmt.Errorf("%w: (%g, %g)", ErrVertexOutOfRange, x, y)
	}
	switch w.Policy {
	case RangeClamp:
		x, y = clamp1(x), clamp1(y)
	case RangeClip:
		if math32.Abs(x) > clipGuard || math32.Abs(y) > clipGuard {
			return Point{}, fmt.Errorf("%w: (%g, %g) beyond clip guard", ErrVertexOutOfRange, x, y)
		}
	default:
		if x < -1 || x > 1 || y < -1 || y > 1 {
			return Point{}, fmt.Errorf("%w: (%g, %g)", ErrVertexOutOfRange, x, y)
		}
	}

	px := (x + 1) * float32(w.fb.Width-1) / 2
	py := (y + 1) * float32(w.fb.Height-1) / 2
	return Pt(int(px), int(py)), nil
}

// DrawTriangle draws the edges a-b, b-c and c-a.
func (w *Wireframe) DrawTriangle(a, b, c math3d.Vector3[float32], color Color) error {
	var pts [3]Point
	for i, v := range [3]math3d.Vector3[float32]{a, b, c} {
		p, err := w.ScreenPoint(v)
		if err != nil {
			return err
		}
		pts[i] = p
	}
	return w.drawEdges(pts, color)
}

func (w *Wireframe) drawEdges(pts [3]Point, color Color) error {
	for i := range pts {
		p0, p1 := pts[i], pts[(i+1)%3]
		if w.Policy == RangeClip {
			w.fb.DrawLineClipped(p0, p1, color)
			continue
		}
		if err := w.fb.DrawLine(p0, p1, color); err != nil {
			return err
		}
	}
	return nil
}

// DrawMesh draws every triangle of mesh with a fixed color.
func (w *Wireframe) DrawMesh(mesh MeshRenderer, color Color) error {
	nv := mesh.VertexCount()
	total := mesh.TriangleCount()
	for i := range total {
		face := mesh.GetFace(i)

		var pts [3]Point
		for j, idx := range face {
			if idx < 1 || idx > nv {
				return fmt.Errorf("face %d: %w: %d of %d", i+1, ErrIndexOutOfRange, idx, nv)
			}
			p, err := w.ScreenPoint(mesh.GetVertex(idx - 1))
			if err != nil {
				return fmt.Errorf("face %d: %w", i+1, err)
			}
			pts[j] = p
		}
		if err := w.drawEdges(pts, color); err != nil {
			return fmt.Errorf("face %d: %w", i+1, err)
		}

		if w.Progress != nil {
			w.Progress(i+1, total)
		}
	}
	return nil
}

// RenderWireframe draws mesh into a new width x height framebuffer using
// the default RangeReject policy.
func RenderWireframe(mesh MeshRenderer, width, height int, color Color) (*Framebuffer, error) {
	fb, err := NewFramebuffer(width, height)
	if err != nil {
		return nil, err
	}
	if err := NewWireframe(fb).DrawMesh(mesh, color); err != nil {
		return nil, err
	}
	return fb, nil
}

func clamp1(v float32) float32 {
	return max(-1, min(1, v))
}
