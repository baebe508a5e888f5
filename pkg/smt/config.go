package smt

import "time"

// Config is the key-value configuration surface §4.2/§6 require of an
// SMT backend: solver executable path, unrolling bound, per-call
// timeout and cache size. internal/config loads this from HCL and
// passes it here unchanged.
type Config struct {
	SolverPath       string
	UnrollDepth      int
	Timeout          time.Duration
	CacheSize        int
	FailureThreshold int
	MaxConcurrent    int64
}

// DefaultConfig returns conservative defaults for local development: a
// z3-compatible binary on PATH, a shallow unrolling bound suited to the
// short residuals typical of a streaming monitor, and a small cache.
func DefaultConfig() Config {
	return Config{
		SolverPath:       "z3",
		UnrollDepth:      4,
		Timeout:          2 * time.Second,
		CacheSize:        512,
		FailureThreshold: 3,
		MaxConcurrent:    4,
	}
}
