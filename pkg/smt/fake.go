package smt

import (
	"context"
	"sync/atomic"

	"github.com/exertio/ldlmonitor/pkg/query"
)

// FakeBackend is an in-process Backend for tests and for exercising
// the pipeline without a solver subprocess. Valid/Satisfiable results
// are driven by caller-supplied lookup tables keyed by CacheKey,
// defaulting to false when a query is not registered.
type FakeBackend struct {
	ValidResults       map[string]bool
	SatisfiableResults map[string]bool
	stats              Statistics
}

// NewFakeBackend returns a FakeBackend with empty lookup tables; every
// query defaults to not-valid, not-satisfiable until registered.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		ValidResults:       make(map[string]bool),
		SatisfiableResults: make(map[string]bool),
	}
}

func (f *FakeBackend) Valid(_ context.Context, q query.Query) *Future[bool] {
	atomic.AddInt64(&f.stats.ValidCalls, 1)
	return ResolvedFuture(f.ValidResults[CacheKey(q)], nil)
}

func (f *FakeBackend) Satisfiable(_ context.Context, q query.Query) *Future[bool] {
	atomic.AddInt64(&f.stats.SatisfiableCalls, 1)
	return ResolvedFuture(f.SatisfiableResults[CacheKey(q)], nil)
}

func (f *FakeBackend) Simplify(_ context.Context, q query.Query) *Future[query.Query] {
	atomic.AddInt64(&f.stats.SimplifyCalls, 1)
	return ResolvedFuture[query.Query](q, nil)
}

func (f *FakeBackend) Statistics() Statistics {
	return Statistics{
		ValidCalls:       atomic.LoadInt64(&f.stats.ValidCalls),
		SatisfiableCalls: atomic.LoadInt64(&f.stats.SatisfiableCalls),
		SimplifyCalls:    atomic.LoadInt64(&f.stats.SimplifyCalls),
	}
}
