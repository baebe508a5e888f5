package pipeline

import (
	"github.com/exertio/ldlmonitor/pkg/query"
	"github.com/exertio/ldlmonitor/pkg/sensor"
)

// Workflow binds a raw sensor event to the ground facts it contributes
// at this trace position (§4.4.3: "a configurable transformation from
// SensorNetValue to BindToSensors"). Implementations are user-supplied
// per deployment (e.g. a gesture classifier emitting Gesture facts).
type Workflow func(sensor.NetValue) query.FactSet

// apply runs workflow over e, producing the bound event carried
// through the rest of the pipeline.
func (w Workflow) apply(e Envelope) BindToSensors {
	return BindToSensors{
		Value:    e.Value,
		Listener: e.Listener,
		Facts:    w(e.Value),
	}
}
