package mesh

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/softsim/internal/dynamo"
	"github.com/san-kum/softsim/internal/geom"
)

func TestBoxCounts(t *testing.T) {
	tests := []struct {
		res, verts, tets, surface int
	}{
		{2, 8, 6, 12},
		{3, 27, 48, 48},
		{4, 64, 162, 108},
	}

	for _, tt := range tests {
		m := Box(tt.res, 1, 1, 1)
		if err := m.Validate(); err != nil {
			t.Fatalf("res %d: %v", tt.res, err)
		}
		if m.NumVerts() != tt.verts {
			t.Errorf("res %d: expected %d verts, got %d", tt.res, tt.verts, m.NumVerts())
		}
		if m.NumTets() != tt.tets {
			t.Errorf("res %d: expected %d tets, got %d", tt.res, tt.tets, m.NumTets())
		}
		if got := len(m.SurfaceTriIDs) / 3; got != tt.surface {
			t.Errorf("res %d: expected %d surface triangles, got %d", tt.res, tt.surface, got)
		}
	}
}

func TestBoxVolume(t *testing.T) {
	m := Box(3, 2, 1, 0.5)
	pos := m.Positions()

	total := 0.0
	for i := 0; i < m.NumTets(); i++ {
		v := m.TetIDs[4*i : 4*i+4]
		vol := geom.TetVolume(pos[v[0]], pos[v[1]], pos[v[2]], pos[v[3]])
		if vol <= 0 {
			t.Fatalf("tet %d has non-positive volume %f", i, vol)
		}
		total += vol
	}
	if diff := total - 1.0; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("expected total volume 1, got %f", total)
	}
}

func TestBoxEdgesUnique(t *testing.T) {
	m := Box(3, 1, 1, 1)
	seen := make(map[[2]int]bool)
	for i := 0; i < m.NumEdges(); i++ {
		e := [2]int{m.EdgeIDs[2*i], m.EdgeIDs[2*i+1]}
		if e[0] >= e[1] {
			t.Fatalf("edge %d not ordered: %v", i, e)
		}
		if seen[e] {
			t.Fatalf("duplicate edge %v", e)
		}
		seen[e] = true
	}
}

func TestSurfaceOutward(t *testing.T) {
	m := Box(3, 1, 1, 1)
	pos := m.Positions()
	center := mgl64.Vec3{0.5, 0.5, 0.5}

	for i := 0; i+2 < len(m.SurfaceTriIDs); i += 3 {
		a, b, c := pos[m.SurfaceTriIDs[i]], pos[m.SurfaceTriIDs[i+1]], pos[m.SurfaceTriIDs[i+2]]
		n := b.Sub(a).Cross(c.Sub(a))
		mid := geom.Centroid(a, b, c)
		if n.Dot(mid.Sub(center)) <= 0 {
			t.Fatalf("triangle %d faces inward", i/3)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mesh TetMesh
		want error
	}{
		{"empty", TetMesh{}, dynamo.ErrInvalidMesh},
		{"bad stride", TetMesh{Verts: []float64{0, 0}}, dynamo.ErrInvalidMesh},
		{"bad tet stride", TetMesh{Verts: make([]float64, 12), TetIDs: []int{0, 1, 2}}, dynamo.ErrInvalidMesh},
		{"tet out of range", TetMesh{Verts: make([]float64, 12), TetIDs: []int{0, 1, 2, 4}}, dynamo.ErrIndexOutOfRange},
		{"edge negative", TetMesh{Verts: make([]float64, 12), EdgeIDs: []int{0, -1}}, dynamo.ErrIndexOutOfRange},
		{"ok", *Tetrahedron(1), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mesh.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "box.json")

	m := Box(2, 1, 1, 1)
	if err := Save(path, m); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := LoadTetMesh(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.NumVerts() != m.NumVerts() || loaded.NumTets() != m.NumTets() || loaded.NumEdges() != m.NumEdges() {
		t.Errorf("mesh changed across save/load")
	}

	visPath := filepath.Join(dir, "vis.json")
	if err := Save(visPath, &VisMesh{Verts: []float64{0, 0, 0}, TriIDs: []int{0, 0, 1}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := LoadVisMesh(visPath); !errors.Is(err, dynamo.ErrIndexOutOfRange) {
		t.Errorf("expected index error, got %v", err)
	}

	if _, err := LoadTetMesh(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSurfaceGrid(t *testing.T) {
	m := SurfaceGrid(4, 1, 2, 3, NoiseOptions{})
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	// res^3 lattice minus the (res-2)^3 interior.
	if got, want := m.NumVerts(), 64-8; got != want {
		t.Errorf("expected %d verts, got %d", want, got)
	}
	if got, want := len(m.TriIDs)/3, 6*9*2; got != want {
		t.Errorf("expected %d triangles, got %d", want, got)
	}
	b := geom.Bounds(m.Positions())
	if b.Min != (mgl64.Vec3{0, 0, 0}) || b.Max != (mgl64.Vec3{1, 2, 3}) {
		t.Errorf("unexpected bounds %v", b)
	}
}

func TestSurfaceGridNoise(t *testing.T) {
	flat := SurfaceGrid(5, 1, 1, 1, NoiseOptions{})
	noisy := SurfaceGrid(5, 1, 1, 1, NoiseOptions{Amplitude: 0.05, Frequency: 3, Seed: 42})
	again := SurfaceGrid(5, 1, 1, 1, NoiseOptions{Amplitude: 0.05, Frequency: 3, Seed: 42})

	moved := 0
	for i := range flat.Verts {
		if noisy.Verts[i] != again.Verts[i] {
			t.Fatal("noise is not deterministic for a fixed seed")
		}
		d := noisy.Verts[i] - flat.Verts[i]
		if d > 0.1 || d < -0.1 {
			t.Fatalf("vertex component %d moved %f, far more than the amplitude", i, d)
		}
		if d != 0 {
			moved++
		}
	}
	if moved == 0 {
		t.Error("expected noise to move some vertices")
	}
}

func TestTransform(t *testing.T) {
	m := Tetrahedron(1)
	m.Transform(2, mgl64.Vec3{1, 0, 0})
	if got := m.Positions()[1]; got != (mgl64.Vec3{3, 0, 0}) {
		t.Errorf("expected (3,0,0), got %v", got)
	}
}
