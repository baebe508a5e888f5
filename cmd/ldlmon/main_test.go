package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exertio/ldlmonitor/pkg/query"
	"github.com/exertio/ldlmonitor/pkg/sensor"
)

func TestDemoWorkflow_TagsGestureOnNonZeroRotation(t *testing.T) {
	absent := sensor.NetValue{Values: map[sensor.Location][]sensor.Value{
		sensor.Location(query.LocationWrist): {sensor.RotationValue{X: 0}},
	}}
	assert.Equal(t, query.NewFactSet(), demoWorkflow(absent))

	present := sensor.NetValue{Values: map[sensor.Location][]sensor.Value{
		sensor.Location(query.LocationWrist): {sensor.RotationValue{X: 1}},
	}}
	assert.Equal(t, query.NewFactSet(curlGesture()), demoWorkflow(present))
}

func TestDemoSource_ExhaustsAfterThreeNets(t *testing.T) {
	src := newDemoSource()
	ctx := context.Background()

	count := 0
	for {
		_, listener, ok, err := src.Next(ctx)
		require.NoError(t, err)
		if !ok {
			break
		}
		assert.Equal(t, src.listener, listener)
		count++
	}
	assert.Equal(t, 3, count)
}

func TestRunPipeline_WithFakeSolverCompletes(t *testing.T) {
	fakeSolver = true
	defer func() { fakeSolver = false }()

	configPath = ""
	logLevel = "error"

	cmd := runCmd
	cmd.SetContext(context.Background())
	require.NoError(t, runPipeline(cmd, nil))
}
