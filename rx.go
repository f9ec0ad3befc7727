//go:build tinygo

package irkeys

import (
	"context"
	. "machine"
	"time"
)

// PinSource is an EdgeSource fed by pin change interrupts. The capture value
// is the microsecond clock at interrupt time, so the tick rate is 1 MHz.
type PinSource struct {
	pin   Pin
	edges chan uint32
	epoch time.Time
}

// NewPinSource configures pin as an input.
func NewPinSource(pin Pin) *PinSource {
	// the most common receivers have a pull up pin builtin
	// but in the future, may want to add the option to use PinPullupInput
	pin.Configure(PinConfig{Mode: PinInput})
	return &PinSource{
		pin:   pin,
		edges: make(chan uint32, 1),
		epoch: time.Now(),
	}
}

func (ps *PinSource) interruptHandler(Pin) {
	ts := uint32(time.Since(ps.epoch) / time.Microsecond)
	select {
	case ps.edges <- ts:
	default:
		// previous edge not consumed yet; this one is lost
	}
}

// Start sets the interrupt handler and thus starts capturing edges.
func (ps *PinSource) Start() {
	ps.pin.SetInterrupt(PinFalling|PinRising, ps.interruptHandler)
}

// Stop disables the interrupt handler.
func (ps *PinSource) Stop() {
	ps.pin.SetInterrupt(PinFalling|PinRising, nil)
}

// WaitEdge implements EdgeSource.
func (ps *PinSource) WaitEdge(ctx context.Context) (uint32, error) {
	select {
	case ts := <-ps.edges:
		return ts, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}
