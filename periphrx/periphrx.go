// Package periphrx is an irkeys.EdgeSource for a demodulating IR receiver
// wired to a Linux GPIO line, using periph.io edge detection.
package periphrx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// TickRate of the timestamps returned by Source: one tick per microsecond.
const TickRate = 1_000_000

// pollInterval bounds how long WaitEdge stays blind to ctx.
const pollInterval = 250 * time.Millisecond

// ErrNoPin is returned by Open when the named pin does not exist.
var ErrNoPin = errors.New("periphrx: no such pin")

// Source waits for both edges on a pin.
type Source struct {
	pin   gpio.PinIn
	epoch time.Time
}

// Open initialises the host drivers and configures the pin named name
// (e.g. "GPIO17") as a pulled-up input interrupting on both edges.
func Open(name string) (*Source, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periphrx: host init: %w", err)
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoPin, name)
	}
	return New(p)
}

// New configures an already resolved pin.
func New(p gpio.PinIn) (*Source, error) {
	if err := p.In(gpio.PullUp, gpio.BothEdges); err != nil {
		return nil, fmt.Errorf("periphrx: configure %s: %w", p, err)
	}
	return &Source{pin: p, epoch: time.Now()}, nil
}

// WaitEdge implements irkeys.EdgeSource.
func (s *Source) WaitEdge(ctx context.Context) (uint32, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if s.pin.WaitForEdge(pollInterval) {
			return uint32(time.Since(s.epoch) / time.Microsecond), nil
		}
	}
}

// Close stops edge detection.
func (s *Source) Close() error {
	return s.pin.In(gpio.PullUp, gpio.NoEdge)
}
