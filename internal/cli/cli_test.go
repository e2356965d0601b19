package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/lodestar/pkg/errors"
	"github.com/chazu/lodestar/pkg/kernel"
	"github.com/chazu/lodestar/pkg/session"
)

const testConfig = `
seed = 3

[estimate]
sample_count = 2000

[scatter]
samples = 5000
max_plot_points = 100

[mesh]
cells = 16
`

const threeSpheres = `
; three overlapping ranges
(sphere 0 0 0 1.5)
(sphere 1 0 0 1.5)
(sphere (vec3 0 1 0) :radius 1.5)
`

// writeFile writes content into dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the CLI with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(io.Discard)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func fixture(t *testing.T, script string) (cfgPath, scriptPath string) {
	t.Helper()
	dir := t.TempDir()
	return writeFile(t, dir, "lodestar.toml", testConfig), writeFile(t, dir, "session.lisp", script)
}

func TestRunReport(t *testing.T) {
	cfg, script := fixture(t, threeSpheres)
	out, err := execute(t, "--config", cfg, "run", script)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"Constraints", "Feasible region", "Intersection seed", "Point cloud", "centroid", "located"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunJSON(t *testing.T) {
	cfg, script := fixture(t, threeSpheres)
	out, err := execute(t, "--config", cfg, "run", "--json", script)
	if err != nil {
		t.Fatalf("run --json: %v", err)
	}
	var snap session.Snapshot
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("decode snapshot: %v\n%s", err, out)
	}
	if len(snap.Active) != 3 || snap.Centroid == nil || snap.Bounds == nil {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestRunSeedFlagIsReproducible(t *testing.T) {
	cfg, script := fixture(t, threeSpheres)
	a, err := execute(t, "--config", cfg, "--seed", "11", "run", "--json", script)
	if err != nil {
		t.Fatal(err)
	}
	b, err := execute(t, "--config", cfg, "--seed", "11", "run", "--json", script)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("same seed produced different snapshots")
	}
}

func TestRunDisjointSpheresReportsWarning(t *testing.T) {
	cfg, script := fixture(t, "(sphere 0 0 0 1)\n(sphere 10 0 0 1)")
	out, err := execute(t, "--config", cfg, "run", script)
	if err != nil {
		t.Fatalf("disjoint spheres should not fail the command: %v", err)
	}
	if !strings.Contains(out, "no intersection") {
		t.Errorf("expected a no-intersection warning:\n%s", out)
	}
}

func TestRunScriptError(t *testing.T) {
	cfg, script := fixture(t, "(sphere 0 0")
	_, err := execute(t, "--config", cfg, "run", script)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestRunMissingScript(t *testing.T) {
	cfg, _ := fixture(t, "")
	if _, err := execute(t, "--config", cfg, "run", filepath.Join(t.TempDir(), "nope.lisp")); err == nil {
		t.Error("expected an error for a missing script")
	}
}

func TestBadConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "bad.toml", "[mesh]\ncells = -1\n")
	script := writeFile(t, dir, "s.lisp", threeSpheres)
	_, err := execute(t, "--config", cfg, "run", script)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestTrilaterate(t *testing.T) {
	out, err := execute(t, "trilaterate", "0", "0", "0", "5", "8", "0", "0", "5")
	if err != nil {
		t.Fatalf("trilaterate: %v", err)
	}
	if !strings.Contains(out, "(4.000, 0.000, 0.000)") {
		t.Errorf("expected center (4, 0, 0):\n%s", out)
	}
	if !strings.Contains(out, "3") {
		t.Errorf("expected circle radius 3:\n%s", out)
	}
}

func TestTrilaterateErrors(t *testing.T) {
	_, err := execute(t, "trilaterate", "0", "0", "0", "1", "10", "0", "0", "1")
	if !errors.Is(err, errors.ErrCodeNoIntersection) {
		t.Errorf("disjoint: err = %v, want NO_INTERSECTION", err)
	}
	_, err = execute(t, "trilaterate", "0", "0", "x", "1", "10", "0", "0", "1")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad number: err = %v, want INVALID_INPUT", err)
	}
	if _, err := execute(t, "trilaterate", "1", "2"); err == nil {
		t.Error("expected an arity error")
	}
}

func TestScatter(t *testing.T) {
	cfg, script := fixture(t, threeSpheres)
	out, err := execute(t, "--config", cfg, "scatter", script)
	if err != nil {
		t.Fatalf("scatter: %v", err)
	}
	var rows [][3]float64
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode points: %v", err)
	}
	if len(rows) == 0 || len(rows) > 100 {
		t.Errorf("got %d points, want 1..100", len(rows))
	}
}

func TestMeshToFile(t *testing.T) {
	cfg, script := fixture(t, threeSpheres)
	path := filepath.Join(t.TempDir(), "mesh.json")
	out, err := execute(t, "--config", cfg, "mesh", script, "-o", path)
	if err != nil {
		t.Fatalf("mesh: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("expected the output path to be reported:\n%s", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var mesh kernel.Mesh
	if err := json.Unmarshal(data, &mesh); err != nil {
		t.Fatalf("decode mesh: %v", err)
	}
	if mesh.IsEmpty() {
		t.Error("region mesh should not be empty")
	}
}

func TestMeshPerSphere(t *testing.T) {
	cfg, script := fixture(t, threeSpheres)
	out, err := execute(t, "--config", cfg, "mesh", "--per-sphere", script)
	if err != nil {
		t.Fatalf("mesh --per-sphere: %v", err)
	}
	var meshes []kernel.Mesh
	if err := json.Unmarshal([]byte(out), &meshes); err != nil {
		t.Fatalf("decode meshes: %v", err)
	}
	if len(meshes) != 3 {
		t.Errorf("got %d meshes, want 3", len(meshes))
	}
}

func TestVersion(t *testing.T) {
	SetVersion("v1.2.3", "abc123", "2026-01-01")
	t.Cleanup(func() { SetVersion("dev", "none", "unknown") })

	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "v1.2.3") || !strings.Contains(out, "abc123") {
		t.Errorf("version output = %q", out)
	}
}
