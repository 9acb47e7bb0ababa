package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestTetVolume(t *testing.T) {
	tests := []struct {
		name string
		p    [4]mgl64.Vec3
		want float64
	}{
		{"unit corner", [4]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, 1.0 / 6},
		{"inverted", [4]mgl64.Vec3{{0, 0, 0}, {0, 1, 0}, {1, 0, 0}, {0, 0, 1}}, -1.0 / 6},
		{"flat", [4]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}}, 0},
		{"scaled", [4]mgl64.Vec3{{0, 0, 0}, {2, 0, 0}, {0, 2, 0}, {0, 0, 2}}, 8.0 / 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TetVolume(tt.p[0], tt.p[1], tt.p[2], tt.p[3])
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestIntersectTriangle(t *testing.T) {
	a := mgl64.Vec3{-1, -1, 0}
	b := mgl64.Vec3{1, -1, 0}
	c := mgl64.Vec3{0, 1, 0}

	tests := []struct {
		name  string
		ray   Ray
		hit   bool
		wantT float64
	}{
		{"straight on", NewRay(mgl64.Vec3{0, 0, 5}, mgl64.Vec3{0, 0, -1}), true, 5},
		{"behind origin", NewRay(mgl64.Vec3{0, 0, 5}, mgl64.Vec3{0, 0, 1}), false, 0},
		{"miss", NewRay(mgl64.Vec3{3, 0, 5}, mgl64.Vec3{0, 0, -1}), false, 0},
		{"parallel", NewRay(mgl64.Vec3{0, 0, 1}, mgl64.Vec3{1, 0, 0}), false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := IntersectTriangle(tt.ray, a, b, c)
			if ok != tt.hit {
				t.Fatalf("expected hit=%v, got %v", tt.hit, ok)
			}
			if ok && math.Abs(got-tt.wantT) > 1e-12 {
				t.Errorf("expected t=%f, got %f", tt.wantT, got)
			}
		})
	}
}

func TestBounds(t *testing.T) {
	b := Bounds([]mgl64.Vec3{{1, -2, 3}, {-1, 4, 0}})
	if b.Min != (mgl64.Vec3{-1, -2, 0}) || b.Max != (mgl64.Vec3{1, 4, 3}) {
		t.Errorf("unexpected bounds %v", b)
	}
	if !b.Contains(mgl64.Vec3{0, 0, 0}) || b.Contains(mgl64.Vec3{2, 0, 0}) {
		t.Error("contains check failed")
	}
}
