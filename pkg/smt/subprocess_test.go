package smt

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exertio/ldlmonitor/pkg/query"
)

// writeStubSolver writes a tiny shell script that ignores its input and
// prints a fixed verdict, standing in for a real SMT solver binary so
// these tests never depend on one being installed.
func writeStubSolver(t *testing.T, verdict string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "stub-solver.sh")
	script := "#!/bin/sh\ncat >/dev/null\necho " + verdict + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func newTestBackend(t *testing.T, solverPath string) *SubprocessBackend {
	t.Helper()
	cfg := DefaultConfig()
	cfg.SolverPath = solverPath
	cfg.Timeout = 2 * time.Second
	b, err := NewSubprocessBackend(cfg, nil)
	require.NoError(t, err)
	return b
}

func TestSubprocessBackend_SatisfiableTrue(t *testing.T) {
	solver := writeStubSolver(t, "sat")
	b := newTestBackend(t, solver)

	q := query.Formula(query.Assert(query.PosFact{Fact: gesture("impact")}))
	sat, err := b.Satisfiable(context.Background(), q).Wait(context.Background())
	require.NoError(t, err)
	assert.True(t, sat)
	assert.EqualValues(t, 1, b.Statistics().CacheMisses)
}

func TestSubprocessBackend_SatisfiableFalse(t *testing.T) {
	solver := writeStubSolver(t, "unsat")
	b := newTestBackend(t, solver)

	q := query.Formula(query.Assert(query.PosFact{Fact: gesture("impact")}))
	sat, err := b.Satisfiable(context.Background(), q).Wait(context.Background())
	require.NoError(t, err)
	assert.False(t, sat)
}

func TestSubprocessBackend_UnknownTreatedAsSatisfiable(t *testing.T) {
	solver := writeStubSolver(t, "unknown")
	b := newTestBackend(t, solver)

	q := query.Formula(query.Assert(query.PosFact{Fact: gesture("impact")}))
	sat, err := b.Satisfiable(context.Background(), q).Wait(context.Background())
	require.NoError(t, err)
	assert.True(t, sat)
}

func TestSubprocessBackend_ValidNegatesUnderTheHood(t *testing.T) {
	// not(q) unsatisfiable => q valid
	solver := writeStubSolver(t, "unsat")
	b := newTestBackend(t, solver)

	valid, err := b.Valid(context.Background(), query.TT).Wait(context.Background())
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestSubprocessBackend_CachesRepeatCalls(t *testing.T) {
	solver := writeStubSolver(t, "sat")
	b := newTestBackend(t, solver)

	q := query.Formula(query.Assert(query.PosFact{Fact: gesture("impact")}))
	ctx := context.Background()
	_, err := b.Satisfiable(ctx, q).Wait(ctx)
	require.NoError(t, err)
	_, err = b.Satisfiable(ctx, q).Wait(ctx)
	require.NoError(t, err)

	stats := b.Statistics()
	assert.EqualValues(t, 1, stats.CacheMisses)
	assert.EqualValues(t, 1, stats.CacheHits)
}

func TestSubprocessBackend_SolverFailureTripsBreaker(t *testing.T) {
	// A nonexistent path fails every invocation.
	cfg := DefaultConfig()
	cfg.SolverPath = filepath.Join(t.TempDir(), "does-not-exist")
	cfg.FailureThreshold = 2
	cfg.Timeout = time.Second
	b, err := NewSubprocessBackend(cfg, nil)
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		q := query.Formula(query.Assert(query.PosFact{Fact: gesture(rawName(i))}))
		_, err := b.Satisfiable(ctx, q).Wait(ctx)
		assert.Error(t, err)
	}

	// Breaker should now be open; the next call is rejected without a
	// subprocess spawn.
	q := query.Formula(query.Assert(query.PosFact{Fact: gesture("probe")}))
	_, err = b.Satisfiable(ctx, q).Wait(ctx)
	assert.Error(t, err)
	assert.EqualValues(t, 1, b.Statistics().CircuitRejected)
}

func rawName(i int) string {
	return string(rune('a' + i))
}
