// Package sensor models the upstream SensorNet data feeding the
// pipeline (§6's upstream source API) and the §4.4.1 reshaping of a
// SensorNet snapshot into a sequence of per-block SensorNetValue
// events.
package sensor

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/exertio/ldlmonitor/pkg/query"
)

// Location is the sensor-attachment point a stream is recorded at. It
// is the same closed enum GroundFact attribute values reference
// (query.Location), so a workflow plug-in can tag a BindToSensors fact
// with the location a sample came from without a conversion step.
type Location = query.Location

// Value is a single sensor reading. AccelerometerValue and
// RotationValue are the two kinds named in §6; the interface stays
// open so future kinds can be added without touching existing code
// that only matches on the kinds it understands.
type Value interface {
	isSensorValue()
}

// AccelerometerValue is a 3-axis acceleration reading.
type AccelerometerValue struct{ X, Y, Z float64 }

func (AccelerometerValue) isSensorValue() {}

// RotationValue is a 3-axis rotation-rate reading.
type RotationValue struct{ X, Y, Z float64 }

func (RotationValue) isSensorValue() {}

// Stream is one sensor-point's samples at a uniform sampling rate.
type Stream struct {
	SamplingRate int
	Values       []Value
}

// Net is a snapshot of samples across locations, each location
// carrying one or more point streams (§6's SensorNet.toMap).
type Net struct {
	Streams map[Location][]Stream
}

// ValidationError wraps the aggregated ingress violations of §7.1.
// These are fatal precondition violations — caller bugs — and are
// never recovered from by the pipeline.
type ValidationError struct {
	Err *multierror.Error
}

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

// Validate enforces §4.4.1's ingress preconditions: every location has
// at least one stream, every stream has at least one value, all
// streams share one blockSize, and all streams share the configured
// samplingRate. Returns the uniform blockSize on success.
func Validate(net Net, configuredRate int) (blockSize int, err error) {
	var merr *multierror.Error

	if len(net.Streams) == 0 {
		merr = multierror.Append(merr, fmt.Errorf("sensor: net has no locations"))
		return 0, &ValidationError{Err: merr}
	}

	blockSize = -1
	for loc, streams := range net.Streams {
		if len(streams) == 0 {
			merr = multierror.Append(merr, fmt.Errorf("sensor: location %s has no streams", loc))
			continue
		}
		for i, s := range streams {
			if len(s.Values) == 0 {
				merr = multierror.Append(merr, fmt.Errorf("sensor: location %s stream %d has no values", loc, i))
				continue
			}
			if s.SamplingRate != configuredRate {
				merr = multierror.Append(merr, fmt.Errorf(
					"sensor: location %s stream %d sampling rate %d != configured %d",
					loc, i, s.SamplingRate, configuredRate))
			}
			if blockSize == -1 {
				blockSize = len(s.Values)
			} else if len(s.Values) != blockSize {
				merr = multierror.Append(merr, fmt.Errorf(
					"sensor: location %s stream %d has %d values, expected block size %d",
					loc, i, len(s.Values), blockSize))
			}
		}
	}

	if merr != nil {
		return 0, &ValidationError{Err: merr}
	}
	return blockSize, nil
}

// NetValue is one trace position: the i-th sample across every
// stream at every location, produced by Reshape.
type NetValue struct {
	BlockIndex int
	Values     map[Location][]Value
}

// Reshape validates net against configuredRate and emits one NetValue
// per block index in order, per §4.4.1. The original request-sender
// identity is not modeled here; callers that need to carry a listener
// identity alongside each event pair it themselves (see
// pkg/pipeline.Envelope).
func Reshape(net Net, configuredRate int) ([]NetValue, error) {
	blockSize, err := Validate(net, configuredRate)
	if err != nil {
		return nil, err
	}

	out := make([]NetValue, blockSize)
	for i := 0; i < blockSize; i++ {
		values := make(map[Location][]Value, len(net.Streams))
		for loc, streams := range net.Streams {
			points := make([]Value, len(streams))
			for j, s := range streams {
				points[j] = s.Values[i]
			}
			values[loc] = points
		}
		out[i] = NetValue{BlockIndex: i, Values: values}
	}
	return out, nil
}
