// Package main is the ldlmon CLI: a demonstration entrypoint that
// wires an HCL-configured SMT backend and a MonitorPipeline together
// and runs them over a canned SensorNet trace.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/exertio/ldlmonitor/internal/config"
	"github.com/exertio/ldlmonitor/pkg/pipeline"
	"github.com/exertio/ldlmonitor/pkg/query"
	"github.com/exertio/ldlmonitor/pkg/sensor"
	"github.com/exertio/ldlmonitor/pkg/smt"
)

var (
	configPath string
	fakeSolver bool
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "ldlmon",
	Short: "ldlmon runs an LDLf streaming monitor pipeline over a sensor trace",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the monitor pipeline over a built-in demonstration trace",
	RunE:  runPipeline,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ldlmon version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("ldlmon (dev)")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to an HCL configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	runCmd.Flags().BoolVar(&fakeSolver, "fake-solver", false, "use an in-process stub backend instead of a subprocess solver")

	rootCmd.AddCommand(runCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runPipeline(cmd *cobra.Command, args []string) error {
	log := hclog.New(&hclog.LoggerOptions{
		Name:  "ldlmon",
		Level: hclog.LevelFromString(logLevel),
	})

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	backend, err := newBackend(cfg.Solver, log)
	if err != nil {
		return fmt.Errorf("ldlmon: backend: %w", err)
	}

	sink := newLoggingSink(log)
	watched := demoWatchedQuery()

	p := pipeline.New(cfg.Pipeline, newDemoSource(), demoWorkflow, backend, sink,
		[]pipeline.WatchedQuery{watched}, log)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if err := p.Run(ctx); err != nil {
		return fmt.Errorf("ldlmon: pipeline: %w", err)
	}

	for name, v := range p.Monitors() {
		log.Info("final monitor state", "monitor", name, "value", v.String())
	}
	return nil
}

func newBackend(cfg smt.Config, log hclog.Logger) (smt.Backend, error) {
	if fakeSolver {
		return smt.NewFakeBackend(), nil
	}
	return smt.NewSubprocessBackend(cfg, log)
}

// loggingSink is a pipeline.Sink that logs every decision it receives,
// standing in for the "reply to the originating connection" boundary
// a real deployment would implement over its transport of choice.
type loggingSink struct {
	log hclog.Logger
}

func newLoggingSink(log hclog.Logger) *loggingSink {
	return &loggingSink{log: log.Named("sink")}
}

func (s *loggingSink) Send(_ context.Context, d pipeline.Decision) {
	s.log.Info("decision", "listener", d.Listener, "query", d.Exercise.Query.String(), "value", d.Exercise.Value.String())
}

// demoSource replays a short fixed SensorNet trace representing a
// wrist-worn gesture sensor: the rotation signal is absent, then
// present, modeling a gesture becoming true partway through a trace.
type demoSource struct {
	nets     []sensor.Net
	listener uuid.UUID
	i        int
}

func newDemoSource() *demoSource {
	absent := sensor.Net{Streams: map[sensor.Location][]sensor.Stream{
		sensor.Location(query.LocationWrist): {{SamplingRate: 50, Values: []sensor.Value{
			sensor.RotationValue{X: 0, Y: 0, Z: 0},
		}}},
	}}
	present := sensor.Net{Streams: map[sensor.Location][]sensor.Stream{
		sensor.Location(query.LocationWrist): {{SamplingRate: 50, Values: []sensor.Value{
			sensor.RotationValue{X: 1, Y: 0, Z: 0},
		}}},
	}}
	return &demoSource{nets: []sensor.Net{absent, absent, present}, listener: uuid.New()}
}

func (d *demoSource) Next(_ context.Context) (sensor.Net, uuid.UUID, bool, error) {
	if d.i >= len(d.nets) {
		return sensor.Net{}, uuid.Nil, false, nil
	}
	n := d.nets[d.i]
	d.i++
	return n, d.listener, true, nil
}

func curlGesture() query.GroundFact {
	return query.NewGroundFact("Gesture", query.StringValue("curl"), query.NumberValue(0.8), query.LocationValue(query.LocationWrist))
}

// demoWorkflow tags an event with the curl-gesture fact whenever the
// wrist stream's rotation X component is non-zero.
func demoWorkflow(v sensor.NetValue) query.FactSet {
	for _, p := range v.Values[sensor.Location(query.LocationWrist)] {
		if r, ok := p.(sensor.RotationValue); ok && r.X != 0 {
			return query.NewFactSet(curlGesture())
		}
	}
	return query.NewFactSet()
}

// demoWatchedQuery watches for the curl gesture to ever hold,
// classifying the trace as a completed exercise once it does.
func demoWatchedQuery() pipeline.WatchedQuery {
	q := query.Diamond(query.Formula(query.Assert(query.PosFact{Fact: curlGesture()})))
	decide := func(q query.Query, v query.QueryValue) *pipeline.ClassifiedExercise {
		if s, ok := v.(query.Stable); ok && s.Value {
			return &pipeline.ClassifiedExercise{Query: q, Value: v}
		}
		return nil
	}
	return pipeline.WatchedQuery{Name: "curl-gesture", Query: q, Decide: decide}
}
