package models

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/tinyrender/pkg/math3d"
)

// ErrFormat is returned for malformed mesh files.
var ErrFormat = errors.New("models: malformed mesh")

// maxLineSize bounds a single OBJ line.
const maxLineSize = 1 << 20

// LoadOBJ loads a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	mesh.Name = filepath.Base(path)
	return mesh, nil
}

// ParseOBJ reads the v, vt, vn and f statements of a Wavefront OBJ stream.
// Other statements are skipped. Every face corner is v/vt/vn and only
// the first three corners of a face are kept.
//
// Malformed numbers or missing fields fail with ErrFormat and the line
// number; no partial mesh is returned.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	mesh := NewMesh("")
	p := objParser{mesh: mesh}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		p.line++
		if err := p.parseLine(sc.Text()); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrFormat, p.line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	mesh.CalculateBounds()
	return mesh, nil
}

type objParser struct {
	mesh *Mesh
	line int
}

func (p *objParser) parseLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}

	switch fields[0] {
	case "v":
		xyz, err := parseFloats(fields[1:], 3)
		if err != nil {
			return fmt.Errorf("vertex: %w", err)
		}
		p.mesh.Vs = append(p.mesh.Vs, math3d.Vec3(xyz[0], xyz[1], xyz[2]))
	case "vt":
		uv, err := parseFloats(fields[1:], 2)
		if err != nil {
			return fmt.Errorf("texture coordinate: %w", err)
		}
		p.mesh.Vts = append(p.mesh.Vts, math3d.Vec2(uv[0], uv[1]))
	case "vn":
		n, err := parseFloats(fields[1:], 3)
		if err != nil {
			return fmt.Errorf("normal: %w", err)
		}
		p.mesh.Vns = append(p.mesh.Vns, math3d.Vec3(n[0], n[1], n[2]))
	case "f":
		if len(fields) < 4 {
			return fmt.Errorf("face has %d corners, want at least 3", len(fields)-1)
		}
		var tri Triangle
		for i, group := range fields[1:4] {
			ref, err := parseRef(group)
			if err != nil {
				return fmt.Errorf("face corner %q: %w", group, err)
			}
			tri[i] = ref
		}
		p.mesh.Fs = append(p.mesh.Fs, tri)
	}
	return nil
}

// parseRef parses one face corner. A corner is v/vt/vn, three positive
// 1-based indices; components past the third are ignored.
func parseRef(group string) (VertexRef, error) {
	parts := strings.Split(group, "/")
	if len(parts) < 3 {
		return VertexRef{}, fmt.Errorf("%d index components, want 3", len(parts))
	}

	var idx [3]int
	for i, s := range parts[:3] {
		if s == "" {
			return VertexRef{}, fmt.Errorf("missing index component %d", i+1)
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return VertexRef{}, err
		}
		if n < 1 {
			return VertexRef{}, fmt.Errorf("index %d is not 1-based", n)
		}
		idx[i] = n
	}
	return VertexRef{V: idx[0], VT: idx[1], VN: idx[2]}, nil
}

// parseFloats parses the first n fields as float32.
func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("got %d values, want %d", len(fields), n)
	}
	out := make([]float32, n)
	for i, f := range fields[:n] {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(v)
	}
	return out, nil
}
