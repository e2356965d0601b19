// Package geom holds the geometric primitives shared by the estimator:
// 3-vectors, sphere constraints and axis-aligned boxes. Vectors and boxes
// are the sdfx types so that constraint geometry can be handed to the
// sdfx kernel without conversion.
package geom
