package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/lodestar/pkg/constraint"
	"github.com/chazu/lodestar/pkg/geom"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms script source before passing it to zygomys.
// It performs three transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Comments: ; and ;; become //, the only comment form zygomys reads.
//
//  3. Kebab-case to underscore: default-radius -> default_radius
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// All transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a geom.Vec3.
type sexpVec3 struct {
	vec geom.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpSphere wraps the sphere a `sphere` call added.
type sexpSphere struct {
	sphere geom.Sphere
}

func (s *sexpSphere) SexpString(ps *zygo.PrintState) string {
	c := s.sphere.Center
	if s.sphere.Inner > 0 {
		return fmt.Sprintf("(sphere %g %g %g %g %g)", c.X, c.Y, c.Z, s.sphere.Outer, s.sphere.Inner)
	}
	return fmt.Sprintf("(sphere %g %g %g %g)", c.X, c.Y, c.Z, s.sphere.Outer)
}
func (s *sexpSphere) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (geom.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return geom.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Evaluation state
// ---------------------------------------------------------------------------

// state is the constraint set a script builds up.
type state struct {
	set           constraint.Set
	defaultRadius float64
	tol           float64
	added         int
	warnings      []EvalWarning
}

func (st *state) script() *Script {
	return &Script{
		Set:           st.set.Clone(),
		DefaultRadius: st.defaultRadius,
		Warnings:      st.warnings,
	}
}

func (st *state) add(sp geom.Sphere) error {
	res := constraint.Validate([]geom.Sphere{sp})
	if !res.OK() {
		return fmt.Errorf("%s", res.Errors[0].Message)
	}
	for _, w := range res.Warnings {
		st.warnings = append(st.warnings, EvalWarning{Index: st.added, Message: w.Message})
	}
	st.added++
	st.set = constraint.Add(st.set, sp, st.tol)
	return nil
}

// sphereArgs decodes the positional and keyword forms of `sphere` into
// the x y z [outer [inner]] tuple.
func (st *state) sphereArgs(args []zygo.Sexp) ([]float64, error) {
	pa := parseArgs(args)
	var values []float64

	pos := pa.positional
	if len(pos) > 0 {
		if _, ok := pos[0].(*sexpVec3); ok {
			c, err := toVec3(pos[0])
			if err != nil {
				return nil, err
			}
			values = append(values, c.X, c.Y, c.Z)
			pos = pos[1:]
		}
	}
	for i, p := range pos {
		f, err := toFloat64(p)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		values = append(values, f)
	}
	if len(values) < 3 {
		return nil, fmt.Errorf("needs a center: x y z or (vec3 x y z)")
	}

	for idx, key := range []string{"radius", "inner"} {
		v, ok := pa.kw[key]
		if !ok {
			continue
		}
		f, err := toFloat64(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		slot := 3 + idx
		switch {
		case len(values) > slot:
			return nil, fmt.Errorf("%s given both positionally and as :%s", key, key)
		case len(values) < slot:
			// :inner without an outer radius uses the default.
			values = append(values, st.defaultRadius)
		}
		values = append(values, f)
	}
	return values, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the script builtins into a zygomys environment.
// The builtins operate on st, populating it during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, st *state) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}

		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}

		return &sexpVec3{vec: geom.V(x, y, z)}, nil
	})

	// -----------------------------------------------------------------------
	// (sphere x y z [outer [inner]])
	// (sphere (vec3 x y z) :radius r :inner i)
	// -----------------------------------------------------------------------
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		values, err := st.sphereArgs(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		sp, err := constraint.FromTuple(values, st.defaultRadius)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		if err := st.add(sp); err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		return &sexpSphere{sphere: sp}, nil
	})

	// -----------------------------------------------------------------------
	// (undo)
	// -----------------------------------------------------------------------
	env.AddFunction("undo", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		set, err := constraint.Undo(st.set)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("undo: %w", err)
		}
		st.set = set
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (reset)
	// -----------------------------------------------------------------------
	env.AddFunction("reset", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		st.set = constraint.Set{}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (default-radius 150)
	//
	// Registered as "default_radius" because zygomys does not support
	// hyphens in identifiers. The preprocessor converts default-radius to
	// default_radius in the source.
	// -----------------------------------------------------------------------
	env.AddFunction("default_radius", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("default-radius requires exactly 1 argument, got %d", len(args))
		}
		r, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("default-radius: %w", err)
		}
		if !(r >= 0) {
			return zygo.SexpNull, fmt.Errorf("default-radius must be non-negative, got %g", r)
		}
		st.defaultRadius = r
		return &zygo.SexpFloat{Val: r}, nil
	})

	// -----------------------------------------------------------------------
	// (active-count)
	// -----------------------------------------------------------------------
	env.AddFunction("active_count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &zygo.SexpInt{Val: int64(st.set.Len())}, nil
	})
}
