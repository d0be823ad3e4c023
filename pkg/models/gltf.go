package models

import (
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/tinyrender/pkg/math3d"
)

// GLTFLoader loads glTF/GLB files into Mesh format.
// Every triangle primitive of every mesh in the document is merged into
// one Mesh; node transforms are not applied.
type GLTFLoader struct {
	// CalculateNormals fills Vns when the file carries no normals.
	CalculateNormals bool
}

// NewGLTFLoader creates a new glTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{CalculateNormals: true}
}

// LoadGLTF loads a .gltf or .glb file with the default loader.
func LoadGLTF(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a glTF or GLB file and returns a Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	hasNormals := true
	for _, m := range doc.Meshes {
		n, err := l.processMesh(doc, m, mesh)
		if err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
		hasNormals = hasNormals && n
	}

	if l.CalculateNormals && (!hasNormals || len(mesh.Vns) == 0) {
		mesh.CalculateNormals()
	}
	mesh.CalculateBounds()

	return mesh, nil
}

// processMesh appends the triangle primitives of m to mesh and reports
// whether all of them carried normals.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) (bool, error) {
	hasNormals := true
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return false, fmt.Errorf("read positions: %w", err)
		}

		var normals [][3]float32
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = modeler.ReadNormal(doc, doc.Accessors[normIdx], nil)
			if err != nil {
				return false, fmt.Errorf("read normals: %w", err)
			}
		}
		hasNormals = hasNormals && len(normals) == len(positions)

		var uvs [][2]float32
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[uvIdx], nil)
			if err != nil {
				return false, fmt.Errorf("read uvs: %w", err)
			}
		}

		var indices []uint32
		if prim.Indices != nil {
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return false, fmt.Errorf("read indices: %w", err)
			}
		} else {
			// No indices, assume sequential triangles
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		appendPrimitive(mesh, positions, normals, uvs, indices)
	}
	return hasNormals, nil
}

// appendPrimitive adds one primitive's attributes to mesh and turns its
// 0-based indices into 1-based vertex references.
func appendPrimitive(mesh *Mesh, positions, normals [][3]float32, uvs [][2]float32, indices []uint32) {
	baseV, baseVT, baseVN := len(mesh.Vs), len(mesh.Vts), len(mesh.Vns)

	for _, p := range positions {
		mesh.Vs = append(mesh.Vs, math3d.Vec3(p[0], p[1], p[2]))
	}
	for _, n := range normals {
		mesh.Vns = append(mesh.Vns, math3d.Vec3(n[0], n[1], n[2]))
	}
	for _, uv := range uvs {
		// glTF puts V=0 at the top; flip for a bottom-left origin.
		mesh.Vts = append(mesh.Vts, math3d.Vec2(uv[0], 1-uv[1]))
	}

	ref := func(i uint32) VertexRef {
		r := VertexRef{V: baseV + int(i) + 1}
		if int(i) < len(uvs) {
			r.VT = baseVT + int(i) + 1
		}
		if int(i) < len(normals) {
			r.VN = baseVN + int(i) + 1
		}
		return r
	}
	for i := 0; i+2 < len(indices); i += 3 {
		mesh.Fs = append(mesh.Fs, Triangle{ref(indices[i]), ref(indices[i+1]), ref(indices[i+2])})
	}
}
