package pipeline

import (
	"context"
	"sync"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/exertio/ldlmonitor/pkg/eval"
	"github.com/exertio/ldlmonitor/pkg/query"
	"github.com/exertio/ldlmonitor/pkg/smt"
)

// Monitor is the per-query state machine of §4.4.4: one mutable
// residual currentState, initialized to the watched query, and an
// optional stableState latch. Once latched, every subsequent event
// returns the latched value without touching the SMT backend.
//
// Steps on one Monitor never overlap: the pipeline calls step once per
// windowed event and waits for every monitor's step to finish before
// feeding the next event. mu guards currentState/stableState against
// Snapshot and currentQuery, which may be called from other goroutines.
type Monitor struct {
	Name string

	currentState query.Query
	stableState  *query.QueryValue

	backend smt.Backend
	log     hclog.Logger

	mu sync.Mutex // guards Snapshot, called from outside the actor goroutine
}

// NewMonitor creates a Monitor watching q against backend.
func NewMonitor(name string, q query.Query, backend smt.Backend, log hclog.Logger) *Monitor {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Monitor{
		Name:         name,
		currentState: q,
		backend:      backend,
		log:          log.Named("monitor").With("query", name),
	}
}

// currentQuery returns the monitor's current residual: the watched
// query until the first Unstable step, then the simplified residual of
// the latest Unstable step. Used to label decisions.
func (m *Monitor) currentQuery() query.Query {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentState
}

// Snapshot returns the monitor's current QueryValue without advancing
// it: the latched value if set, otherwise Unstable{currentState}. Safe
// to call concurrently with step.
func (m *Monitor) Snapshot() query.QueryValue {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stableState != nil {
		return *m.stableState
	}
	return query.Unstable{Residual: m.currentState}
}

// step implements one iteration of §4.4.4's loop for a single windowed
// event. The pipeline never runs two steps of one monitor at once.
func (m *Monitor) step(ctx context.Context, we WindowedEvent) query.QueryValue {
	m.mu.Lock()
	if m.stableState != nil {
		v := *m.stableState
		m.mu.Unlock()
		return v
	}
	current := m.currentState
	m.mu.Unlock()

	v := eval.Evaluate(current, we.Event.Facts, we.Last)

	switch t := v.(type) {
	case query.Stable:
		m.latch(t)
		return t

	case query.Unstable:
		return m.resolveUnstable(ctx, t)

	default:
		panic("pipeline: unknown QueryValue type")
	}
}

// resolveUnstable implements §4.4.4 step 2's three SMT-backed
// branches, querying valid/satisfiable/simplify concurrently via
// errgroup (§5's "concurrent SMT calls within one evaluation step run
// via errgroup fan-out so a solver failure on one call doesn't block
// the others").
func (m *Monitor) resolveUnstable(ctx context.Context, u query.Unstable) query.QueryValue {
	// §7.4: a failed valid/satisfiable call is treated as "unknown",
	// equivalent to satisfiable=true, valid=false, so evaluation
	// continues with an unsimplified residual rather than stalling.
	valid := false
	satisfiable := true
	var simplified query.Query

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		v, err := m.backend.Valid(egCtx, u.Residual).Wait(egCtx)
		if err != nil {
			m.log.Warn("valid() call failed", "error", err)
			return nil
		}
		valid = v
		return nil
	})
	eg.Go(func() error {
		s, err := m.backend.Satisfiable(egCtx, u.Residual).Wait(egCtx)
		if err != nil {
			m.log.Warn("satisfiable() call failed", "error", err)
			return nil
		}
		satisfiable = s
		return nil
	})
	eg.Go(func() error {
		s, err := m.backend.Simplify(egCtx, u.Residual).Wait(egCtx)
		if err != nil {
			m.log.Warn("simplify() call failed", "error", err)
			simplified = u.Residual
			return nil
		}
		simplified = s
		return nil
	})
	_ = eg.Wait() // errors are logged per-call above; never fatal to the monitor

	switch {
	case valid:
		// §4.4.4.2.b: returns Stable(true) but does NOT latch source
		// behavior; the Open Question in §9 resolves this in favor of
		// latching for idempotence (DESIGN.md), matching the teacher's
		// "once resolved, stay resolved" discipline.
		m.latch(query.Stable{Value: true})
		return query.StableTrue

	case satisfiable:
		m.mu.Lock()
		m.currentState = simplified
		m.mu.Unlock()
		return u

	default:
		latched := query.Stable{Value: false}
		m.latch(latched)
		return latched
	}
}

func (m *Monitor) latch(v query.Stable) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stableState == nil {
		qv := query.QueryValue(v)
		m.stableState = &qv
	}
}
