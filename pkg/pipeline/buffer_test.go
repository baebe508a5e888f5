package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exertio/ldlmonitor/pkg/sensor"
)

func envelope(i int) Envelope {
	return Envelope{
		Value:    sensor.NetValue{BlockIndex: i},
		Listener: uuid.New(),
	}
}

func TestBuffer_PutThenDrain(t *testing.T) {
	b := NewBuffer(4, nil)
	b.Put(envelope(0))
	b.Put(envelope(1))
	b.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	out := drainAll(ctx, b)
	require.Len(t, out, 2)
	assert.Equal(t, 0, out[0].Value.BlockIndex)
	assert.Equal(t, 1, out[1].Value.BlockIndex)
}

func TestBuffer_DropsWhenFull(t *testing.T) {
	b := NewBuffer(1, nil)
	b.Put(envelope(0))
	b.Put(envelope(1)) // dropped, buffer at capacity
	assert.EqualValues(t, 1, b.Dropped())

	b.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	out := drainAll(ctx, b)
	require.Len(t, out, 1)
	assert.Equal(t, 0, out[0].Value.BlockIndex)
}

func TestBuffer_PutAfterStopIsDropped(t *testing.T) {
	b := NewBuffer(4, nil)
	b.Stop()
	b.Put(envelope(0))
	assert.EqualValues(t, 1, b.Dropped())
}

func TestBuffer_StopIsIdempotent(t *testing.T) {
	b := NewBuffer(1, nil)
	assert.NotPanics(t, func() {
		b.Stop()
		b.Stop()
	})
}
