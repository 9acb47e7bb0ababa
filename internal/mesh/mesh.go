// Package mesh holds the flat mesh descriptors a soft body is built from,
// together with validation, JSON I/O and procedural generators.
package mesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softsim/internal/dynamo"
)

// TetMesh is a tetrahedral simulation mesh. Verts has stride 3, TetIDs
// stride 4, EdgeIDs stride 2 and SurfaceTriIDs stride 3.
type TetMesh struct {
	Name          string    `json:"name,omitempty"`
	Verts         []float64 `json:"verts"`
	TetIDs        []int     `json:"tetIds"`
	EdgeIDs       []int     `json:"tetEdgeIds"`
	SurfaceTriIDs []int     `json:"tetSurfaceTriIds,omitempty"`
}

// VisMesh is a display mesh driven through a skin binding.
type VisMesh struct {
	Name   string    `json:"name,omitempty"`
	Verts  []float64 `json:"verts"`
	TriIDs []int     `json:"triIds"`
}

func (m *TetMesh) NumVerts() int { return len(m.Verts) / 3 }
func (m *TetMesh) NumTets() int  { return len(m.TetIDs) / 4 }
func (m *TetMesh) NumEdges() int { return len(m.EdgeIDs) / 2 }
func (m *VisMesh) NumVerts() int { return len(m.Verts) / 3 }

// Positions unpacks the flat vertex array.
func (m *TetMesh) Positions() []mgl64.Vec3 { return unpack(m.Verts) }

// Positions unpacks the flat vertex array.
func (m *VisMesh) Positions() []mgl64.Vec3 { return unpack(m.Verts) }

// Validate checks strides and that every index addresses an existing vertex.
func (m *TetMesh) Validate() error {
	if len(m.Verts) == 0 {
		return fmt.Errorf("tet mesh %q has no vertices: %w", m.Name, dynamo.ErrInvalidMesh)
	}
	if err := checkStride("verts", len(m.Verts), 3); err != nil {
		return err
	}
	if err := checkStride("tetIds", len(m.TetIDs), 4); err != nil {
		return err
	}
	if err := checkStride("tetEdgeIds", len(m.EdgeIDs), 2); err != nil {
		return err
	}
	if err := checkStride("tetSurfaceTriIds", len(m.SurfaceTriIDs), 3); err != nil {
		return err
	}
	n := m.NumVerts()
	for _, ids := range []struct {
		name string
		ids  []int
	}{{"tetIds", m.TetIDs}, {"tetEdgeIds", m.EdgeIDs}, {"tetSurfaceTriIds", m.SurfaceTriIDs}} {
		if err := checkRange(ids.name, ids.ids, n); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks strides and triangle indices.
func (m *VisMesh) Validate() error {
	if err := checkStride("verts", len(m.Verts), 3); err != nil {
		return err
	}
	if err := checkStride("triIds", len(m.TriIDs), 3); err != nil {
		return err
	}
	return checkRange("triIds", m.TriIDs, m.NumVerts())
}

// Transform scales every vertex about the origin and then translates it.
func (m *TetMesh) Transform(scale float64, offset mgl64.Vec3) {
	transform(m.Verts, scale, offset)
}

// Transform scales every vertex about the origin and then translates it.
func (m *VisMesh) Transform(scale float64, offset mgl64.Vec3) {
	transform(m.Verts, scale, offset)
}

// Clone returns a deep copy.
func (m *TetMesh) Clone() *TetMesh {
	return &TetMesh{
		Name:          m.Name,
		Verts:         append([]float64(nil), m.Verts...),
		TetIDs:        append([]int(nil), m.TetIDs...),
		EdgeIDs:       append([]int(nil), m.EdgeIDs...),
		SurfaceTriIDs: append([]int(nil), m.SurfaceTriIDs...),
	}
}

// Clone returns a deep copy.
func (m *VisMesh) Clone() *VisMesh {
	return &VisMesh{
		Name:   m.Name,
		Verts:  append([]float64(nil), m.Verts...),
		TriIDs: append([]int(nil), m.TriIDs...),
	}
}

func checkStride(field string, n, stride int) error {
	if n%stride != 0 {
		return fmt.Errorf("%s length %d is not a multiple of %d: %w", field, n, stride, dynamo.ErrInvalidMesh)
	}
	return nil
}

func checkRange(field string, ids []int, n int) error {
	for i, id := range ids {
		if id < 0 || id >= n {
			return fmt.Errorf("%s[%d] = %d with %d vertices: %w", field, i, id, n, dynamo.ErrIndexOutOfRange)
		}
	}
	return nil
}

func unpack(flat []float64) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(flat)/3)
	for i := range out {
		out[i] = mgl64.Vec3{flat[3*i], flat[3*i+1], flat[3*i+2]}
	}
	return out
}

func transform(flat []float64, scale float64, offset mgl64.Vec3) {
	for i := 0; i+2 < len(flat); i += 3 {
		for a := 0; a < 3; a++ {
			flat[i+a] = flat[i+a]*scale + offset[a]
		}
	}
}
