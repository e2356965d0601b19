package constraint

import (
	"fmt"
	"math"

	"github.com/chazu/lodestar/pkg/geom"
)

// Severity indicates whether a validation finding blocks estimation or is
// merely informational.
type Severity int

const (
	SeverityError   Severity = iota // blocks estimation
	SeverityWarning                 // informational
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Finding describes a single validation result for one sphere.
type Finding struct {
	Index    int // position in the validated slice
	Message  string
	Severity Severity
}

func (f Finding) Error() string {
	return fmt.Sprintf("[%s] sphere %d: %s", f.Severity, f.Index, f.Message)
}

// ValidationResult bundles blocking errors and advisory warnings.
type ValidationResult struct {
	Errors   []Finding
	Warnings []Finding
}

// OK reports whether no blocking error was found.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate checks every sphere. Non-finite values and negative radii are
// errors. Void spheres (inner > outer) and zero outer radii are accepted
// but reported as warnings: a void sphere rejects every point. Shape
// warnings are skipped for a sphere that already has an error.
func Validate(spheres []geom.Sphere) ValidationResult {
	var res ValidationResult
	for i, s := range spheres {
		if errs := validateValues(i, s); len(errs) > 0 {
			res.Errors = append(res.Errors, errs...)
			continue
		}
		res.Warnings = append(res.Warnings, validateShape(i, s)...)
	}
	return res
}

func validateValues(i int, s geom.Sphere) []Finding {
	var errs []Finding
	if !geom.IsFinite(s.Center) {
		errs = append(errs, Finding{Index: i, Message: fmt.Sprintf("center %v is not finite", s.Center), Severity: SeverityError})
	}
	if math.IsNaN(s.Outer) || math.IsInf(s.Outer, 0) || s.Outer < 0 {
		errs = append(errs, Finding{Index: i, Message: fmt.Sprintf("outer radius is %g, must be finite and non-negative", s.Outer), Severity: SeverityError})
	}
	if math.IsNaN(s.Inner) || math.IsInf(s.Inner, 0) || s.Inner < 0 {
		errs = append(errs, Finding{Index: i, Message: fmt.Sprintf("inner radius is %g, must be finite and non-negative", s.Inner), Severity: SeverityError})
	}
	return errs
}

func validateShape(i int, s geom.Sphere) []Finding {
	var warnings []Finding
	if s.IsVoid() {
		warnings = append(warnings, Finding{
			Index:    i,
			Message:  fmt.Sprintf("inner radius %g exceeds outer radius %g: no point can satisfy it", s.Inner, s.Outer),
			Severity: SeverityWarning,
		})
	}
	if s.Outer == 0 {
		warnings = append(warnings, Finding{Index: i, Message: "outer radius is zero", Severity: SeverityWarning})
	}
	return warnings
}
