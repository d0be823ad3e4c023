// Package models provides mesh loading and representation for tinyrender.
package models

import (
	"github.com/taigrr/tinyrender/pkg/math3d"
)

// Vec3 and Vec2 are the vertex attribute types stored in a Mesh.
type (
	Vec3 = math3d.Vector3[float32]
	Vec2 = math3d.Vector2[float32]
)

// VertexRef is one corner of a face: 1-based indices into Mesh.Vs, Mesh.Vts
// and Mesh.Vns. Zero means the attribute is absent.
type VertexRef struct {
	V, VT, VN int
}

// Triangle is a face with three corners.
type Triangle [3]VertexRef

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Name string
	Vs   []Vec3     // positions
	Vts  []Vec2     // texture coordinates
	Vns  []Vec3     // normals
	Fs   []Triangle // faces, referencing the lists above 1-based

	// Bounding box (calculated on load)
	BoundsMin Vec3
	BoundsMax Vec3
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:      name,
		BoundsMin: math3d.Vec3[float32](0, 0, 0),
		BoundsMax: math3d.Vec3[float32](0, 0, 0),
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vs) == 0 {
		return
	}

	lo := m.Vs[0].Elems()
	hi := m.Vs[0].Elems()
	for _, v := range m.Vs[1:] {
		for i, c := range v.Elems() {
			lo[i] = min(lo[i], c)
			hi[i] = max(hi[i], c)
		}
	}
	m.BoundsMin = math3d.Vec3(lo[0], lo[1], lo[2])
	m.BoundsMax = math3d.Vec3(hi[0], hi[1], hi[2])
}

// Bounds returns the axis-aligned bounding box.
func (m *Mesh) Bounds() (lo, hi Vec3) {
	return m.BoundsMin, m.BoundsMax
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// Fit returns a copy of the mesh centered on the origin and uniformly
// scaled so its largest extent spans [-1, 1].
func (m *Mesh) Fit() *Mesh {
	fit := m.Clone()
	fit.CalculateBounds()
	size := fit.Size()
	extent := max(size.X(), size.Y(), size.Z())
	if len(fit.Vs) == 0 || extent == 0 {
		return fit
	}

	c := fit.Center()
	s := 2 / extent
	xf := math3d.Mul(
		math3d.Translate(-c.X(), -c.Y(), -c.Z()),
		math3d.Homogeneous(math3d.ScaleMatrix(s, s, s)),
	)
	for i, v := range fit.Vs {
		p := math3d.TransformPoint(v, xf)
		// Rounding can push the extremes a hair past 1.
		fit.Vs[i] = math3d.Vec3(clampUnit(p.X()), clampUnit(p.Y()), clampUnit(p.Z()))
	}
	fit.CalculateBounds()
	return fit
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Fs)
}

// VertexCount returns the number of vertex positions.
func (m *Mesh) VertexCount() int {
	return len(m.Vs)
}

// CalculateNormals computes smooth per-vertex normals by averaging face
// normals, replacing Vns and pointing every corner's VN at its position's
// normal. Faces with invalid position indices are skipped.
func (m *Mesh) CalculateNormals() {
	sums := make([]Vec3, len(m.Vs))

	for _, f := range m.Fs {
		if !m.validFace(f) {
			continue
		}
		v0, v1, v2 := m.Vs[f[0].V-1], m.Vs[f[1].V-1], m.Vs[f[2].V-1]
		n := math3d.Cross(v1.Sub(v0), v2.Sub(v0)) // area weighted
		for _, ref := range f {
			sums[ref.V-1] = sums[ref.V-1].Add(n)
		}
	}

	m.Vns = make([]Vec3, len(sums))
	for i, n := range sums {
		if unit, err := math3d.Normalize(n); err == nil {
			n = unit
		}
		m.Vns[i] = n
	}
	for i := range m.Fs {
		for j := range m.Fs[i] {
			m.Fs[i][j].VN = m.Fs[i][j].V
		}
	}
}

func (m *Mesh) validFace(f Triangle) bool {
	for _, ref := range f {
		if ref.V < 1 || ref.V > len(m.Vs) {
			return false
		}
	}
	return true
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vs:        make([]Vec3, len(m.Vs)),
		Vts:       make([]Vec2, len(m.Vts)),
		Vns:       make([]Vec3, len(m.Vns)),
		Fs:        make([]Triangle, len(m.Fs)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vs, m.Vs)
	copy(clone.Vts, m.Vts)
	copy(clone.Vns, m.Vns)
	copy(clone.Fs, m.Fs)
	return clone
}

// GetVertex returns the position of vertex i (0-based).
// Implements render.MeshRenderer interface.
func (m *Mesh) GetVertex(i int) Vec3 {
	return m.Vs[i]
}

// GetFace returns the 1-based position indices of face i.
// Implements render.MeshRenderer interface.
func (m *Mesh) GetFace(i int) [3]int {
	f := m.Fs[i]
	return [3]int{f[0].V, f[1].V, f[2].V}
}

func clampUnit(v float32) float32 {
	return max(-1, min(1, v))
}
