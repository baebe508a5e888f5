package smt

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync/atomic"

	"github.com/hashicorp/go-hclog"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/semaphore"

	"github.com/exertio/ldlmonitor/pkg/query"
)

type cacheEntry struct {
	valid       *bool
	satisfiable *bool
	simplified  query.Query
}

// SubprocessBackend implements Backend by shelling out to an external
// SMT solver for each query. It caches results by structural key,
// bounds concurrent subprocess invocations with a weighted semaphore,
// and trips a breaker after repeated solver failures so a wedged
// solver cannot stall the pipeline it backs.
type SubprocessBackend struct {
	cfg     Config
	log     hclog.Logger
	cache   *lru.Cache[string, *cacheEntry]
	breaker *breaker
	sem     *semaphore.Weighted

	stats Statistics
}

// NewSubprocessBackend constructs a SubprocessBackend from cfg. log may
// be nil, in which case a logger named "smt" is created with hclog's
// default options (info level, written to stderr).
func NewSubprocessBackend(cfg Config, log hclog.Logger) (*SubprocessBackend, error) {
	if log == nil {
		log = hclog.New(&hclog.LoggerOptions{Name: "smt"})
	}
	cache, err := lru.New[string, *cacheEntry](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("smt: building result cache: %w", err)
	}
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &SubprocessBackend{
		cfg:     cfg,
		log:     log.Named("backend"),
		cache:   cache,
		breaker: newBreaker(cfg.FailureThreshold),
		sem:     semaphore.NewWeighted(maxConcurrent),
	}, nil
}

func (b *SubprocessBackend) Statistics() Statistics {
	return Statistics{
		ValidCalls:       atomic.LoadInt64(&b.stats.ValidCalls),
		SatisfiableCalls: atomic.LoadInt64(&b.stats.SatisfiableCalls),
		SimplifyCalls:    atomic.LoadInt64(&b.stats.SimplifyCalls),
		CacheHits:        atomic.LoadInt64(&b.stats.CacheHits),
		CacheMisses:      atomic.LoadInt64(&b.stats.CacheMisses),
		SolverFailures:   atomic.LoadInt64(&b.stats.SolverFailures),
		CircuitRejected:  atomic.LoadInt64(&b.stats.CircuitRejected),
	}
}

func (b *SubprocessBackend) Valid(ctx context.Context, q query.Query) *Future[bool] {
	atomic.AddInt64(&b.stats.ValidCalls, 1)
	key := CacheKey(q)

	if entry, ok := b.cache.Get(key); ok && entry.valid != nil {
		atomic.AddInt64(&b.stats.CacheHits, 1)
		return ResolvedFuture(*entry.valid, nil)
	}
	atomic.AddInt64(&b.stats.CacheMisses, 1)

	f, resolve := newFuture[bool]()
	go func() {
		result, err := b.checkSat(ctx, query.Not(q))
		if err != nil {
			resolve(false, err)
			return
		}
		valid := !result
		b.storeValid(key, valid)
		resolve(valid, nil)
	}()
	return f
}

func (b *SubprocessBackend) Satisfiable(ctx context.Context, q query.Query) *Future[bool] {
	atomic.AddInt64(&b.stats.SatisfiableCalls, 1)
	key := CacheKey(q)

	if entry, ok := b.cache.Get(key); ok && entry.satisfiable != nil {
		atomic.AddInt64(&b.stats.CacheHits, 1)
		return ResolvedFuture(*entry.satisfiable, nil)
	}
	atomic.AddInt64(&b.stats.CacheMisses, 1)

	f, resolve := newFuture[bool]()
	go func() {
		sat, err := b.checkSat(ctx, q)
		if err != nil {
			resolve(false, err)
			return
		}
		b.storeSatisfiable(key, sat)
		resolve(sat, nil)
	}()
	return f
}

func (b *SubprocessBackend) Simplify(ctx context.Context, q query.Query) *Future[query.Query] {
	atomic.AddInt64(&b.stats.SimplifyCalls, 1)
	// Simplification is the structural identity: q is returned as is.
	// The query package's smart constructors flatten nested connectives
	// of the same kind, but no rewriting happens here; TT/FF operands
	// and redundant conjuncts are left in place.
	return ResolvedFuture[query.Query](q, nil)
}

// checkSat reports whether q is satisfiable by invoking the configured
// solver subprocess, respecting the circuit breaker and the
// concurrency semaphore. An unknown verdict is reported as satisfiable,
// so Satisfiable answers true and Valid (which checks not(q)) answers
// false, per §4.2/§7.4's "callers treat unknown as not valid and
// satisfiable" rule. A solver failure is returned as an error.
func (b *SubprocessBackend) checkSat(ctx context.Context, q query.Query) (bool, error) {
	if !b.breaker.Allow() {
		atomic.AddInt64(&b.stats.CircuitRejected, 1)
		return false, fmt.Errorf("smt: circuit open, solver unavailable")
	}

	if err := b.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer b.sem.Release(1)

	callCtx := ctx
	var cancel context.CancelFunc
	if b.cfg.Timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, b.cfg.Timeout)
		defer cancel()
	}

	script := b.buildScript(q)
	out, err := b.runSolver(callCtx, script)
	if err != nil {
		atomic.AddInt64(&b.stats.SolverFailures, 1)
		b.breaker.RecordFailure()
		b.log.Warn("solver invocation failed", "error", err)
		return false, err
	}

	verdict := parseVerdict(out)
	switch verdict {
	case verdictSat:
		b.breaker.RecordSuccess()
		return true, nil
	case verdictUnsat:
		b.breaker.RecordSuccess()
		return false, nil
	default:
		// unknown: the solver ran but could not decide. Not a process
		// failure, so the breaker stays closed, and the result is
		// "satisfiable": neither valid nor proven unsatisfiable.
		b.log.Debug("solver returned unknown", "query", q.String())
		return true, nil
	}
}

func (b *SubprocessBackend) buildScript(q query.Query) string {
	formula, decls := EncodeFormula(q, b.cfg.UnrollDepth)
	var buf bytes.Buffer
	buf.WriteString("(set-logic QF_UF)\n")
	for _, d := range decls {
		buf.WriteString(d)
		buf.WriteByte('\n')
	}
	fmt.Fprintf(&buf, "(assert %s)\n", formula)
	buf.WriteString("(check-sat)\n")
	return buf.String()
}

func (b *SubprocessBackend) runSolver(ctx context.Context, script string) (string, error) {
	cmd := exec.CommandContext(ctx, b.cfg.SolverPath, "-in")
	cmd.Stdin = strings.NewReader(script)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("smt: solver %s: %w: %s", b.cfg.SolverPath, err, stderr.String())
	}
	return stdout.String(), nil
}

type verdict int

const (
	verdictUnknown verdict = iota
	verdictSat
	verdictUnsat
)

func parseVerdict(out string) verdict {
	switch {
	case strings.Contains(out, "unsat"):
		return verdictUnsat
	case strings.Contains(out, "sat"):
		return verdictSat
	default:
		return verdictUnknown
	}
}

func (b *SubprocessBackend) storeValid(key string, valid bool) {
	entry, ok := b.cache.Get(key)
	if !ok {
		entry = &cacheEntry{}
	}
	v := valid
	entry.valid = &v
	b.cache.Add(key, entry)
}

func (b *SubprocessBackend) storeSatisfiable(key string, sat bool) {
	entry, ok := b.cache.Get(key)
	if !ok {
		entry = &cacheEntry{}
	}
	s := sat
	entry.satisfiable = &s
	b.cache.Add(key, entry)
}
