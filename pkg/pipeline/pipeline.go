package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"

	"github.com/exertio/ldlmonitor/internal/parallel"
	"github.com/exertio/ldlmonitor/pkg/query"
	"github.com/exertio/ldlmonitor/pkg/sensor"
	"github.com/exertio/ldlmonitor/pkg/smt"
)

// Source is the upstream boundary interface of §6: something that
// produces SensorNet snapshots tagged with the listener identity they
// should reply to.
type Source interface {
	Next(ctx context.Context) (sensor.Net, uuid.UUID, bool, error)
}

// WatchedQuery names a query the pipeline monitors and the decision
// transform that turns its emitted QueryValues into deliveries.
type WatchedQuery struct {
	Name   string
	Query  query.Query
	Decide MakeDecision
}

// Config configures a MonitorPipeline.
type Config struct {
	ConfiguredSamplingRate int
	MaxBufferSize          int
}

// MonitorPipeline is the Go realization of §4.4: it pulls snapshots
// from Source, reshapes and buffers them, runs them through Workflow
// and a sliding Window, feeds the windowed events to one Monitor per
// WatchedQuery, and forwards non-nil decisions to Sink.
type MonitorPipeline struct {
	cfg      Config
	source   Source
	workflow Workflow
	backend  smt.Backend
	sink     Sink
	log      hclog.Logger

	buffer   *Buffer
	monitors []*Monitor
	queries  []WatchedQuery
	pool     *parallel.Pool
}

// WithPool bounds the number of goroutines MonitorPipeline runs
// concurrently when evaluating a windowed event against every watched
// query, instead of spawning one goroutine per query per event. Useful
// when a deployment watches many queries and wants a fixed ceiling on
// concurrent SMT subprocess pressure regardless of query count.
func (p *MonitorPipeline) WithPool(pool *parallel.Pool) *MonitorPipeline {
	p.pool = pool
	return p
}

// New constructs a MonitorPipeline. log may be nil.
func New(cfg Config, source Source, workflow Workflow, backend smt.Backend, sink Sink, queries []WatchedQuery, log hclog.Logger) *MonitorPipeline {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	log = log.Named("pipeline")

	monitors := make([]*Monitor, len(queries))
	for i, wq := range queries {
		monitors[i] = NewMonitor(wq.Name, wq.Query, backend, log)
	}

	return &MonitorPipeline{
		cfg:      cfg,
		source:   source,
		workflow: workflow,
		backend:  backend,
		sink:     sink,
		log:      log,
		buffer:   NewBuffer(cfg.MaxBufferSize, log),
		monitors: monitors,
		queries:  queries,
	}
}

// Run drives the pipeline until ctx is cancelled or Source is
// exhausted. It fans Source snapshots into the backpressure buffer on
// one goroutine, and drains the buffer through workflow/window/monitor
// evaluation on another, running every monitor's evaluation for a
// windowed event concurrently via errgroup (§5: "the pipeline runs
// monitors as goroutines over an errgroup.Group rooted at the
// ingestion context").
func (p *MonitorPipeline) Run(ctx context.Context) error {
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		defer p.buffer.Stop()
		return p.ingest(egCtx)
	})

	eg.Go(func() error {
		return p.drain(egCtx)
	})

	return eg.Wait()
}

// ingest pulls SensorNet snapshots from source, reshapes them into
// per-block envelopes, and enqueues them onto the backpressure buffer
// until ctx is done or source is exhausted. Ingress validation
// failures (§7.1) are fatal and propagate; they are caller bugs, not
// recoverable runtime conditions.
func (p *MonitorPipeline) ingest(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		net, listener, ok, err := p.source.Next(ctx)
		if err != nil {
			return fmt.Errorf("pipeline: source: %w", err)
		}
		if !ok {
			return nil
		}

		values, err := sensor.Reshape(net, p.cfg.ConfiguredSamplingRate)
		if err != nil {
			return fmt.Errorf("pipeline: ingress validation: %w", err)
		}

		for _, v := range values {
			p.buffer.Put(Envelope{Value: v, Listener: listener})
		}
	}
}

// drain consumes buffered envelopes, applies workflow and the sliding
// window, and evaluates each windowed event against every monitor,
// delivering decisions to sink.
func (p *MonitorPipeline) drain(ctx context.Context) error {
	var win Window

	for e := range p.buffer.Drain() {
		bound := func() (b BindToSensors) {
			defer func() {
				// §7.5: a workflow plug-in exception drops the event,
				// logs it, and does not notify downstream.
				if r := recover(); r != nil {
					p.log.Error("workflow plug-in panicked, dropping event", "error", r, "block_index", e.Value.BlockIndex)
					b = BindToSensors{}
				}
			}()
			return p.workflow.apply(e)
		}()
		if bound.Value.Values == nil {
			continue
		}

		we, ready := win.Feed(bound)
		if !ready {
			continue
		}
		p.evaluateAndDeliver(ctx, we)
	}

	if we, ok := win.Close(); ok {
		p.evaluateAndDeliver(ctx, we)
	}
	return nil
}

func (p *MonitorPipeline) evaluateAndDeliver(ctx context.Context, we WindowedEvent) {
	evaluate := func(i int) {
		v := p.monitors[i].step(ctx, we)
		if decision := p.queries[i].Decide(p.monitors[i].currentQuery(), v); decision != nil {
			p.sink.Send(ctx, Decision{Listener: we.Event.Listener, Exercise: *decision})
		}
	}

	if p.pool == nil {
		eg, egCtx := errgroup.WithContext(ctx)
		for i := range p.monitors {
			i := i
			eg.Go(func() error {
				v := p.monitors[i].step(egCtx, we)
				if decision := p.queries[i].Decide(p.monitors[i].currentQuery(), v); decision != nil {
					p.sink.Send(egCtx, Decision{Listener: we.Event.Listener, Exercise: *decision})
				}
				return nil
			})
		}
		_ = eg.Wait()
		return
	}

	var wg sync.WaitGroup
	for i := range p.monitors {
		i := i
		wg.Add(1)
		if err := p.pool.Submit(ctx, func() {
			defer wg.Done()
			evaluate(i)
		}); err != nil {
			wg.Done()
			p.log.Warn("dropped monitor evaluation, pool rejected submission", "error", err)
		}
	}
	wg.Wait()
}

// Monitors returns a snapshot view of every running monitor's current
// QueryValue, keyed by WatchedQuery name. Useful for diagnostics/tests.
func (p *MonitorPipeline) Monitors() map[string]query.QueryValue {
	out := make(map[string]query.QueryValue, len(p.monitors))
	for i, m := range p.monitors {
		out[p.queries[i].Name] = m.Snapshot()
	}
	return out
}
