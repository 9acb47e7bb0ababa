package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/softsim/internal/config"
	"github.com/san-kum/softsim/internal/mesh"
	"github.com/san-kum/softsim/internal/metrics"
)

// MeshFactory builds the simulation mesh and the optional display mesh for
// a mesh section.
type MeshFactory func(mc config.MeshConfig) (*mesh.TetMesh, *mesh.VisMesh, error)

type Registry struct {
	meshes map[string]MeshFactory
}

func NewRegistry() *Registry {
	r := &Registry{meshes: make(map[string]MeshFactory)}

	r.meshes["box"] = func(mc config.MeshConfig) (*mesh.TetMesh, *mesh.VisMesh, error) {
		tm := mesh.Box(mc.Resolution, mc.Size[0], mc.Size[1], mc.Size[2])
		vm, err := displayMesh(mc)
		return tm, vm, err
	}
	r.meshes["tet"] = func(mc config.MeshConfig) (*mesh.TetMesh, *mesh.VisMesh, error) {
		vm, err := loadDisplay(mc.DisplayPath)
		return mesh.Tetrahedron(mc.Size[0]), vm, err
	}
	r.meshes["file"] = func(mc config.MeshConfig) (*mesh.TetMesh, *mesh.VisMesh, error) {
		tm, err := mesh.LoadTetMesh(mc.Path)
		if err != nil {
			return nil, nil, err
		}
		vm, err := loadDisplay(mc.DisplayPath)
		return tm, vm, err
	}

	return r
}

func displayMesh(mc config.MeshConfig) (*mesh.VisMesh, error) {
	if mc.DisplayPath != "" {
		return mesh.LoadVisMesh(mc.DisplayPath)
	}
	if mc.DisplayResolution < 2 {
		return nil, nil
	}
	return mesh.SurfaceGrid(mc.DisplayResolution, mc.Size[0], mc.Size[1], mc.Size[2], mc.Noise), nil
}

func loadDisplay(path string) (*mesh.VisMesh, error) {
	if path == "" {
		return nil, nil
	}
	return mesh.LoadVisMesh(path)
}

// Register adds or replaces a mesh source.
func (r *Registry) Register(name string, f MeshFactory) {
	r.meshes[name] = f
}

func (r *Registry) BuildMesh(mc config.MeshConfig) (*mesh.TetMesh, *mesh.VisMesh, error) {
	fn, ok := r.meshes[mc.Source]
	if !ok {
		return nil, nil, fmt.Errorf("unknown mesh source: %s", mc.Source)
	}
	return fn(mc)
}

func (r *Registry) ListMeshes() []string {
	names := make([]string, 0, len(r.meshes))
	for name := range r.meshes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics() []metrics.Metric {
	return metrics.Defaults()
}
