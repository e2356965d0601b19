// Package tessellate turns sphere constraints into triangle meshes using
// a geometry kernel: one mesh per constraint shell, or one mesh for the
// region where every constraint holds.
package tessellate

import (
	"fmt"
	"slices"

	"github.com/chazu/lodestar/pkg/errors"
	"github.com/chazu/lodestar/pkg/geom"
	"github.com/chazu/lodestar/pkg/kernel"
)

// solid builds the shell of s at its center.
func solid(k kernel.Kernel, i int, s geom.Sphere) (kernel.Solid, error) {
	if s.IsVoid() {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"sphere %d %v is void (inner > outer) and has no solid", i, s)
	}
	sh, err := k.Shell(s.Outer, s.Inner)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "sphere %d %v", i, s)
	}
	c := s.Center
	if c.X != 0 || c.Y != 0 || c.Z != 0 {
		sh = k.Translate(sh, c.X, c.Y, c.Z)
	}
	return sh, nil
}

// Constraints produces one mesh per sphere, labelled by its position in
// spheres. The tessellator never mutates its input.
func Constraints(spheres []geom.Sphere, k kernel.Kernel) ([]*kernel.Mesh, error) {
	meshes := make([]*kernel.Mesh, 0, len(spheres))
	for i, s := range spheres {
		sh, err := solid(k, i, s)
		if err != nil {
			return nil, err
		}
		mesh, err := k.ToMesh(sh)
		if err != nil {
			return nil, fmt.Errorf("tessellate: ToMesh failed for sphere %d: %w", i, err)
		}
		mesh.Label = fmt.Sprintf("sphere %d", i)
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// Region produces one mesh for the intersection of every sphere's shell.
// Disjoint bounding boxes fail with ErrCodeEmptyFeasibleRegion before any
// meshing; an intersection that is empty for other reasons yields an
// empty mesh.
func Region(spheres []geom.Sphere, k kernel.Kernel) (*kernel.Mesh, error) {
	if len(spheres) < 1 {
		return nil, errors.New(errors.ErrCodeInsufficientConstraints, "region needs at least one sphere")
	}
	if _, ok := geom.IntersectBoxes(spheres); !ok {
		return nil, errors.New(errors.ErrCodeEmptyFeasibleRegion,
			"bounding boxes of %d spheres do not intersect", len(spheres))
	}

	// The kernel bounds an intersection by its first operand, so mesh
	// inside the smallest sphere.
	order := make([]int, len(spheres))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		switch ra, rb := spheres[a].Outer, spheres[b].Outer; {
		case ra < rb:
			return -1
		case ra > rb:
			return 1
		}
		return 0
	})

	var acc kernel.Solid
	for _, i := range order {
		sh, err := solid(k, i, spheres[i])
		if err != nil {
			return nil, err
		}
		if acc == nil {
			acc = sh
		} else {
			acc = k.Intersection(acc, sh)
		}
	}

	mesh, err := k.ToMesh(acc)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed for region: %w", err)
	}
	mesh.Label = fmt.Sprintf("region of %d spheres", len(spheres))
	return mesh, nil
}
