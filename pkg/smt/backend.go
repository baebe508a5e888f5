package smt

import (
	"context"

	"github.com/exertio/ldlmonitor/pkg/query"
)

// Backend is the SMT contract of §4.2. Valid reports whether q is a
// tautology of the embedded propositional/LDL fragment; Satisfiable
// reports whether some interpretation satisfies q; Simplify returns an
// equivalent, normalized query. All three must be safe for concurrent
// use by multiple monitors sharing one Backend.
type Backend interface {
	Valid(ctx context.Context, q query.Query) *Future[bool]
	Satisfiable(ctx context.Context, q query.Query) *Future[bool]
	Simplify(ctx context.Context, q query.Query) *Future[query.Query]
	Statistics() Statistics
}

// Statistics is the call-count/cache-hit observability surface named
// in §4.2.
type Statistics struct {
	ValidCalls       int64
	SatisfiableCalls int64
	SimplifyCalls    int64
	CacheHits        int64
	CacheMisses      int64
	SolverFailures   int64
	CircuitRejected  int64
}
