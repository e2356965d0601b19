// Package engine evaluates measurement scripts: small Lisp programs that
// feed spheres into a constraint set. It wraps zygomys in a sandboxed
// environment and returns the resulting set.
//
//	; two beacons, then a ranged shell
//	(default-radius 150)
//	(sphere 0 0 0)
//	(sphere 100 0 0 120)
//	(sphere (vec3 50 80 0) :radius 90 :inner 20)
//	(undo)
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/lodestar/pkg/constraint"
	"github.com/chazu/lodestar/pkg/errors"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning represents a non-fatal warning produced during evaluation.
// Index is the position of the offending sphere in the script's order of
// sphere calls.
type EvalWarning struct {
	Index   int
	Message string
}

// Script is the output of a successful evaluation.
type Script struct {
	Set           constraint.Set
	DefaultRadius float64 // radius in force when the script ended
	Warnings      []EvalWarning
}

// Options seed the state every evaluation starts from.
type Options struct {
	DefaultRadius float64
	Tolerance     float64 // dominance slack
}

// DefaultOptions returns the constraint package defaults.
func DefaultOptions() Options {
	return Options{
		DefaultRadius: constraint.DefaultRadius,
		Tolerance:     constraint.DefaultTolerance,
	}
}

// Engine wraps the zygomys interpreter.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	opts Options

	mu         sync.Mutex
	generation uint64
}

// NewEngine creates a new Engine instance.
func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Evaluate runs source and returns the constraint set it builds.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns script + nil errors + nil error
//   - On parse/eval failure: returns nil script + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*Script, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: errors.New(errors.ErrCodeInternal, "panic during evaluation: %v", r)}
			}
		}()

		s, evalErrs, err := e.evaluate(source)
		ch <- evalResult{script: s, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*Script, []EvalError, error) {
	st := &state{defaultRadius: e.opts.DefaultRadius, tol: e.opts.Tolerance}

	// Empty source is a valid program that produces an empty set.
	if strings.TrimSpace(source) == "" {
		return st.script(), nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, st)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	return st.script(), nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
// The detail may span several lines.
var linePattern = regexp.MustCompile(`(?is)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			detail := strings.TrimSpace(m[2])
			if detail == "" {
				detail = strings.TrimSpace(msg)
			}
			return []EvalError{{Line: line, Message: detail}}
		}
	}

	// Fallback: no line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
