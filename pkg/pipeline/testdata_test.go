package pipeline

import "github.com/exertio/ldlmonitor/pkg/sensor"

// testNetValue builds a minimal NetValue carrying only a block index,
// sufficient for window/buffer tests that never inspect sensor values.
func testNetValue(i int) sensor.NetValue {
	return sensor.NetValue{BlockIndex: i}
}
