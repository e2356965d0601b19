package bounds

import (
	"testing"

	"github.com/chazu/lodestar/pkg/geom"
)

func TestReportCenterOnly(t *testing.T) {
	center := geom.V(12, -7, 300)
	b := Report([]geom.Vec3{center}, center)
	if b.X != [2]int{12, 12} || b.Y != [2]int{-7, -7} || b.Z != [2]int{300, 300} {
		t.Errorf("Report = %v, want the center on every axis", b)
	}
}

func TestReportEmptyCloud(t *testing.T) {
	b := Report(nil, geom.V(1, 2, 3))
	if b.X != [2]int{1, 1} || b.Y != [2]int{2, 2} || b.Z != [2]int{3, 3} {
		t.Errorf("Report = %v", b)
	}
}

func TestReportAlwaysContainsCenter(t *testing.T) {
	// Every point sits on the positive side of the center.
	center := geom.V(0, 0, 0)
	pts := []geom.Vec3{geom.V(1, 2, 3), geom.V(4, 5, 6)}
	b := Report(pts, center)
	if b.X != [2]int{0, 4} || b.Y != [2]int{0, 5} || b.Z != [2]int{0, 6} {
		t.Errorf("Report = %v", b)
	}
	if !b.Contains(center) {
		t.Error("box does not contain the center")
	}
	for _, p := range pts {
		if !b.Contains(p) {
			t.Errorf("box does not contain %v", p)
		}
	}
}

func TestReportTruncatesTowardZero(t *testing.T) {
	center := geom.V(0.5, 0.5, 0.5)
	b := Report([]geom.Vec3{geom.V(-2.7, 3.9, 0.2), geom.V(1.2, -0.4, 9.99)}, center)
	if b.X != [2]int{-2, 1} {
		t.Errorf("X = %v, want [-2 1]", b.X)
	}
	if b.Y != [2]int{0, 3} {
		t.Errorf("Y = %v, want [0 3]", b.Y)
	}
	if b.Z != [2]int{0, 9} {
		t.Errorf("Z = %v, want [0 9]", b.Z)
	}
	if b.Extent.Min.X != -2.7 || b.Extent.Max.Z != 9.99 {
		t.Errorf("Extent = %v", b.Extent)
	}
}
