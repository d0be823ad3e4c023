package models

import (
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func TestLoadGLTFInvalidPath(t *testing.T) {
	_, err := LoadGLTF("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestGLTFLoaderCreation(t *testing.T) {
	loader := NewGLTFLoader()
	if loader == nil {
		t.Fatal("NewGLTFLoader returned nil")
	}
	if !loader.CalculateNormals {
		t.Error("CalculateNormals should default to true")
	}
}

// writeQuadGLB saves a two-triangle quad without normals.
func writeQuadGLB(t *testing.T) string {
	t.Helper()

	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}})
	uv := modeler.WriteTextureCoord(doc, [][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2, 0, 2, 3})
	doc.Meshes = []*gltf.Mesh{{
		Name: "quad",
		Primitives: []*gltf.Primitive{{
			Indices: gltf.Index(idx),
			Attributes: gltf.PrimitiveAttributes{
				gltf.POSITION:   pos,
				gltf.TEXCOORD_0: uv,
			},
		}},
	}}
	doc.Nodes = []*gltf.Node{{Name: "root", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	path := filepath.Join(t.TempDir(), "quad.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}
	return path
}

func TestLoadGLTF(t *testing.T) {
	mesh, err := LoadGLTF(writeQuadGLB(t))
	if err != nil {
		t.Fatalf("LoadGLTF: %v", err)
	}

	if mesh.Name != "quad.glb" {
		t.Errorf("Name = %q, want quad.glb", mesh.Name)
	}
	if mesh.VertexCount() != 4 || mesh.TriangleCount() != 2 {
		t.Fatalf("got %d vertices, %d triangles; want 4, 2", mesh.VertexCount(), mesh.TriangleCount())
	}

	// References are 1-based.
	if got := mesh.GetFace(1); got != [3]int{1, 3, 4} {
		t.Errorf("GetFace(1) = %v, want [1 3 4]", got)
	}
	if ref := mesh.Fs[0][1]; ref.VT != 2 || ref.VN != 2 {
		t.Errorf("Fs[0][1] = %+v, want VT=2 VN=2", ref)
	}

	// V is flipped to a bottom-left origin.
	if vt := mesh.Vts[0]; vt.X() != 0 || vt.Y() != 0 {
		t.Errorf("Vts[0] = %v, want (0, 0)", vt)
	}

	// Normals were computed: the quad faces +Z.
	if len(mesh.Vns) != 4 {
		t.Fatalf("len(Vns) = %d, want 4", len(mesh.Vns))
	}
	if n := mesh.Vns[0]; n.Z() < 0.99 {
		t.Errorf("Vns[0] = %v, want +Z", n)
	}

	lo, hi := mesh.Bounds()
	if lo.X() != -1 || hi.Y() != 1 {
		t.Errorf("Bounds = %v, %v", lo, hi)
	}
}
