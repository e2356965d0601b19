// Package sample generates candidate point clouds by rejection sampling
// and filters them against the active constraint set.
//
// Each public generator takes an explicit seed and builds a single random
// source for the call, so equal arguments give equal clouds. The *With
// variants accept a caller-owned source for callers that thread one
// source through several steps.
package sample
