package pipeline

import (
	"github.com/google/uuid"

	"github.com/exertio/ldlmonitor/pkg/query"
	"github.com/exertio/ldlmonitor/pkg/sensor"
)

// Envelope pairs one reshaped sensor event with the listener identity
// that should receive any decision it eventually produces (§4.4.1's
// "original request-sender identity is carried alongside each event
// for reply routing").
type Envelope struct {
	Value    sensor.NetValue
	Listener uuid.UUID
}

// BindToSensors is the output of a Workflow: a raw sensor event bound
// to the ground facts it contributes at this trace position (§4.4.3).
type BindToSensors struct {
	Value    sensor.NetValue
	Listener uuid.UUID
	Facts    query.FactSet
}
