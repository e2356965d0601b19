package tessellate_test

import (
	"testing"

	"github.com/chazu/lodestar/pkg/errors"
	"github.com/chazu/lodestar/pkg/geom"
	"github.com/chazu/lodestar/pkg/kernel"
	"github.com/chazu/lodestar/pkg/kernel/sdfx"
	"github.com/chazu/lodestar/pkg/tessellate"
)

// newKernel returns a fresh sdfx kernel for testing.
func newKernel() kernel.Kernel {
	return sdfx.New(32)
}

func sphere(x, y, z, r float64) geom.Sphere {
	return geom.NewSphere(geom.V(x, y, z), r)
}

func TestConstraintsOneMeshPerSphere(t *testing.T) {
	spheres := []geom.Sphere{
		sphere(0, 0, 0, 10),
		geom.NewShell(geom.V(15, 0, 0), 10, 4),
	}
	meshes, err := tessellate.Constraints(spheres, newKernel())
	if err != nil {
		t.Fatalf("Constraints failed: %v", err)
	}
	if len(meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(meshes))
	}
	for i, m := range meshes {
		if m.IsEmpty() {
			t.Errorf("mesh %d should not be empty", i)
		}
	}
	if meshes[1].Label != "sphere 1" {
		t.Errorf("Label = %q, want %q", meshes[1].Label, "sphere 1")
	}
	// The second mesh is centered on x = 15.
	min, max := meshes[1].Bounds()
	if min[0] < 4 || max[0] > 26 {
		t.Errorf("translated shell spans x [%g, %g], want within [5, 25]", min[0], max[0])
	}
}

func TestRegionOfTwoOverlappingBalls(t *testing.T) {
	a, b := sphere(0, 0, 0, 10), sphere(12, 0, 0, 10)
	mesh, err := tessellate.Region([]geom.Sphere{a, b}, newKernel())
	if err != nil {
		t.Fatalf("Region failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("region mesh should not be empty")
	}
	if mesh.TriangleCount() == 0 {
		t.Error("mesh should have triangles")
	}

	// Allow one marching cubes cell of slack.
	const slack = 1.0
	min, max := mesh.Bounds()
	for _, s := range []geom.Sphere{a, b} {
		box := s.Box()
		lo := [3]float64{box.Min.X, box.Min.Y, box.Min.Z}
		hi := [3]float64{box.Max.X, box.Max.Y, box.Max.Z}
		for i := range 3 {
			if min[i] < lo[i]-slack || max[i] > hi[i]+slack {
				t.Errorf("axis %d: mesh [%g, %g] escapes %v box [%g, %g]", i, min[i], max[i], s, lo[i], hi[i])
			}
		}
	}
}

func TestRegionOrderDoesNotMatter(t *testing.T) {
	big, small := sphere(0, 0, 0, 20), sphere(5, 0, 0, 6)
	k := newKernel()
	m1, err := tessellate.Region([]geom.Sphere{big, small}, k)
	if err != nil {
		t.Fatal(err)
	}
	m2, err := tessellate.Region([]geom.Sphere{small, big}, k)
	if err != nil {
		t.Fatal(err)
	}
	if m1.TriangleCount() != m2.TriangleCount() {
		t.Errorf("triangle counts differ: %d vs %d", m1.TriangleCount(), m2.TriangleCount())
	}
}

func TestRegionErrors(t *testing.T) {
	tests := []struct {
		name    string
		spheres []geom.Sphere
		code    errors.Code
	}{
		{"no spheres", nil, errors.ErrCodeInsufficientConstraints},
		{"void sphere", []geom.Sphere{geom.NewShell(geom.V(0, 0, 0), 5, 8)}, errors.ErrCodeInvalidInput},
		{"zero radius", []geom.Sphere{sphere(0, 0, 0, 0)}, errors.ErrCodeInvalidInput},
		{"disjoint", []geom.Sphere{sphere(0, 0, 0, 1), sphere(10, 0, 0, 1)}, errors.ErrCodeEmptyFeasibleRegion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tessellate.Region(tt.spheres, newKernel())
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestConstraintsRejectsVoidSphere(t *testing.T) {
	_, err := tessellate.Constraints([]geom.Sphere{geom.NewShell(geom.V(0, 0, 0), 1, 2)}, newKernel())
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestInputNotMutated(t *testing.T) {
	spheres := []geom.Sphere{sphere(0, 0, 0, 20), sphere(5, 0, 0, 6)}
	before := append([]geom.Sphere(nil), spheres...)
	if _, err := tessellate.Region(spheres, newKernel()); err != nil {
		t.Fatal(err)
	}
	for i := range spheres {
		if spheres[i] != before[i] {
			t.Errorf("sphere %d changed: %v -> %v", i, before[i], spheres[i])
		}
	}
}
