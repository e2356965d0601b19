// Package kernel defines the geometry kernel used to turn sphere
// constraints into solids and solids into triangle meshes. The sdfx
// subpackage is the implementation; tests substitute stubs.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel builds constraint solids and tessellates them.
type Kernel interface {
	// Primitives, centered at the origin.
	Ball(radius float64) (Solid, error)
	Shell(outer, inner float64) (Solid, error) // ball minus the inner ball

	Intersection(a, b Solid) Solid
	Translate(s Solid, x, y, z float64) Solid

	ToMesh(s Solid) (*Mesh, error)
}
