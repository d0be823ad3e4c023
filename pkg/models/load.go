package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Load reads a mesh file, choosing the reader by extension:
// .obj for Wavefront OBJ, .gltf and .glb for glTF.
func Load(path string) (*Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return LoadOBJ(path)
	case ".gltf", ".glb":
		return LoadGLTF(path)
	default:
		return nil, fmt.Errorf("%w: unknown mesh extension %q", ErrFormat, ext)
	}
}
