// Package session owns a caller's growing constraint set and turns it
// into derived results: the Chebyshev center estimate, the trilateration
// seed, the validated point cloud, its centroid and its bounding box.
//
// Derived data is never updated incrementally. Every snapshot after a
// change is recomputed in full from the active spheres.
package session

import (
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/chazu/lodestar/pkg/bounds"
	"github.com/chazu/lodestar/pkg/config"
	"github.com/chazu/lodestar/pkg/constraint"
	"github.com/chazu/lodestar/pkg/errors"
	"github.com/chazu/lodestar/pkg/geom"
	"github.com/chazu/lodestar/pkg/region"
	"github.com/chazu/lodestar/pkg/sample"
	"github.com/chazu/lodestar/pkg/trilat"
)

// Snapshot is the state of a session after its latest change.
type Snapshot struct {
	Active   []geom.Sphere `json:"active"`
	Inactive []geom.Sphere `json:"inactive"`

	// Seed is the intersection circle of the most constraining pair.
	Seed *trilat.Seed `json:"seed,omitempty"`
	// Feasibility is the N-sphere region estimate.
	Feasibility *region.Result `json:"feasibility,omitempty"`
	// Cloud holds the scattered points that satisfy every active sphere.
	Cloud    sample.PointCloud `json:"cloud,omitempty"`
	Centroid *geom.Vec3        `json:"centroid,omitempty"`
	Bounds   *bounds.Box       `json:"bounds,omitempty"`
}

// Session is a caller-owned constraint set. It is not safe for concurrent
// use.
type Session struct {
	cfg    config.Config
	seed   uint64
	logger *log.Logger

	set   constraint.Set
	snap  *Snapshot
	err   error
	stale bool
}

// New creates an empty session. A nil logger means log.Default(). When
// cfg.Seed is nil a seed is derived from the clock once.
func New(cfg config.Config, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	seed := uint64(time.Now().UnixNano())
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	return &Session{cfg: cfg, seed: seed, logger: logger, stale: true}
}

// Seed returns the seed every snapshot of this session is drawn from.
func (s *Session) Seed() uint64 {
	return s.seed
}

// Set returns a copy of the current constraint set.
func (s *Session) Set() constraint.Set {
	return s.set.Clone()
}

// Restore replaces the constraint set, e.g. with the output of a script.
func (s *Session) Restore(set constraint.Set) {
	s.set = set.Clone()
	s.touch("restore")
}

// SetDefaultRadius changes the radius given to bare coordinate triples.
func (s *Session) SetDefaultRadius(r float64) error {
	if !(r >= 0) {
		return errors.New(errors.ErrCodeInvalidInput, "default radius must be non-negative, got %g", r)
	}
	s.cfg.DefaultRadius = r
	return nil
}

// Add applies the dominance rule for sp.
func (s *Session) Add(sp geom.Sphere) error {
	res := constraint.Validate([]geom.Sphere{sp})
	if !res.OK() {
		return errors.New(errors.ErrCodeInvalidInput, "%s", res.Errors[0].Message)
	}
	for _, w := range res.Warnings {
		s.logger.Warn("constraint", "sphere", sp, "warning", w.Message)
	}
	s.set = constraint.Add(s.set, sp, s.cfg.Estimate.Tolerance)
	s.touch("add")
	return nil
}

// AddTuple decodes x y z [outer [inner]] and adds the sphere.
func (s *Session) AddTuple(values []float64) error {
	sp, err := constraint.FromTuple(values, s.cfg.DefaultRadius)
	if err != nil {
		return err
	}
	return s.Add(sp)
}

// Undo retires the most recently added active sphere.
func (s *Session) Undo() error {
	set, err := constraint.Undo(s.set)
	if err != nil {
		return err
	}
	s.set = set
	s.touch("undo")
	return nil
}

// Reset clears the session.
func (s *Session) Reset() {
	s.set = constraint.Set{}
	s.touch("reset")
}

func (s *Session) touch(op string) {
	s.stale = true
	s.logger.Debug(op, "active", len(s.set.Active), "inactive", len(s.set.Inactive))
}

// Snapshot returns the derived state for the current constraint set,
// recomputing it if anything changed since the last call. With fewer than
// two active spheres only the set itself is filled in. Errors from the
// estimator or the trilateration are returned alongside the partial
// snapshot.
func (s *Session) Snapshot() (*Snapshot, error) {
	if !s.stale {
		return s.snap, s.err
	}
	if len(s.set.Active) < 2 {
		s.snap, s.err = bare(s.set), nil
	} else {
		start := time.Now()
		s.snap, s.err = compute(s.set, s.cfg, s.seed)
		s.logger.Debug("recompute", "active", len(s.set.Active), "points", len(s.snap.Cloud),
			"elapsed", time.Since(start).Round(time.Millisecond))
	}
	s.stale = false
	return s.snap, s.err
}

// Compute derives a snapshot for active with the given seed. The estimator
// draws from seed and the cloud from seed+1.
func Compute(active []geom.Sphere, cfg config.Config, seed uint64) (*Snapshot, error) {
	if len(active) < 2 {
		return bare(constraint.Set{Active: active}), errors.New(errors.ErrCodeInsufficientConstraints,
			"need at least 2 active spheres, got %d", len(active))
	}
	return compute(constraint.Set{Active: active}, cfg, seed)
}

func bare(set constraint.Set) *Snapshot {
	set = set.Clone()
	return &Snapshot{Active: set.Active, Inactive: set.Inactive}
}

func compute(set constraint.Set, cfg config.Config, seed uint64) (*Snapshot, error) {
	snap := bare(set)
	active := snap.Active

	est := cfg.Estimate
	est.Seed = seed
	res, err := region.Estimate(active, est)
	if res == nil {
		return snap, err
	}
	snap.Feasibility = res
	estErr := err

	ts, err := trilat.Intersect(active, est.Tolerance)
	if err != nil {
		return snap, errors.Join(estErr, err)
	}
	snap.Seed = &ts

	// Tangent spheres may overlap by slightly less than zero.
	height := math.Max(0, ts.Overlap)
	cloud, err := sample.ScatterCylinder(ts.Center, height, ts.CircleRadius, ts.Axis,
		cfg.Scatter.Samples, seed+1)
	if err != nil {
		return snap, errors.Join(estErr, err)
	}
	snap.Cloud = sample.FilterValid(cloud, active)
	if len(snap.Cloud) > 0 {
		c, err := sample.Centroid(snap.Cloud)
		if err != nil {
			return snap, errors.Join(estErr, err)
		}
		b := bounds.Report(snap.Cloud, c)
		snap.Centroid, snap.Bounds = &c, &b
	}
	return snap, estErr
}
