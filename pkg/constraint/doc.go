// Package constraint maintains the set of sphere constraints known to a
// session. New spheres pass through a dominance filter so the active list
// only holds mutually non-dominated constraints; superseded and duplicate
// spheres are retired to an inactive list and never reconsidered.
package constraint
