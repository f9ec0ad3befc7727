// Package nec implements an irkeys.PulseDecoder for NEC style pulse-distance
// remotes, plus encoders that produce the matching mark-space trains.
//
// A frame is a header (9ms mark, 4.5ms space), then the bits LSB first, each
// a 562.5us mark followed by a 562.5us space for zero or a 1.6875ms space for
// one, then a trailing 562.5us mark. Holding a button sends a repeat code
// (9ms mark, 2.25ms space, trailing mark) about every 108ms.
package nec

import (
	"github.com/sparques/irkeys"
)

type state uint8

const (
	seekingHeader state = iota
	headerMark          // header mark seen, waiting for its space
	readingBits
)

// Decoder is the NEC state machine. It keeps the bits of one frame and
// nothing else; every terminal outcome resets it to seeking the header.
type Decoder struct {
	timing Timing
	b      bands
	nbits  int

	state    state
	buf      uint32
	bitcount int
	// bitMark is set once the mark of the current bit has been seen.
	bitMark bool
}

// NewDecoder validates t and returns a decoder for it.
func NewDecoder(t Timing) (*Decoder, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &Decoder{
		timing: t,
		b:      t.bands(),
		nbits:  t.FrameBits(),
	}, nil
}

// Timing returns the timing the decoder was built with.
func (d *Decoder) Timing() Timing {
	return d.timing
}

// Reset drops any partial frame.
func (d *Decoder) Reset() {
	d.state = seekingHeader
	d.buf = 0
	d.bitcount = 0
	d.bitMark = false
}

// Event implements irkeys.PulseDecoder. A rising edge ends a space, a
// falling edge ends a mark.
func (d *Decoder) Event(interval uint32, rising bool) (irkeys.RawCommand, irkeys.Outcome, error) {
	mark := !rising

	switch d.state {
	case seekingHeader:
		if !mark {
			// idle line, any length
			return irkeys.RawCommand{}, irkeys.NoCommand, nil
		}
		switch {
		case d.b.headerMark.match(interval):
			d.state = headerMark
		case d.b.bitMark.match(interval):
			// trailing mark of a frame or repeat code
		default:
			return d.fail(irkeys.ErrTiming)
		}
		return irkeys.RawCommand{}, irkeys.NoCommand, nil

	case headerMark:
		if mark {
			// two marks in a row; treat this one as a fresh candidate
			d.state = seekingHeader
			return d.Event(interval, rising)
		}
		switch {
		case d.b.headerSpace.match(interval):
			d.state = readingBits
			d.buf = 0
			d.bitcount = 0
			d.bitMark = false
			return irkeys.RawCommand{}, irkeys.NoCommand, nil
		case d.b.repeatSpace.match(interval):
			d.Reset()
			return irkeys.RawCommand{}, irkeys.Repeat, nil
		}
		return d.fail(irkeys.ErrTiming)

	case readingBits:
		if mark {
			if d.bitMark || !d.b.bitMark.match(interval) {
				return d.fail(irkeys.ErrTiming)
			}
			d.bitMark = true
			return irkeys.RawCommand{}, irkeys.NoCommand, nil
		}
		if !d.bitMark {
			return d.fail(irkeys.ErrTiming)
		}
		switch {
		case d.b.oneSpace.match(interval):
			d.buf |= 1 << d.bitcount
		case d.b.zeroSpace.match(interval):
		default:
			return d.fail(irkeys.ErrTiming)
		}
		d.bitMark = false
		d.bitcount++

		if d.bitcount != d.nbits {
			return irkeys.RawCommand{}, irkeys.NoCommand, nil
		}
		buf := d.buf
		d.Reset()
		cmd, ok := d.split(buf)
		if !ok {
			return irkeys.RawCommand{}, irkeys.NoCommand, irkeys.ErrChecksum
		}
		return cmd, irkeys.Command, nil
	}

	return d.fail(irkeys.ErrTiming)
}

func (d *Decoder) fail(err error) (irkeys.RawCommand, irkeys.Outcome, error) {
	d.Reset()
	return irkeys.RawCommand{}, irkeys.NoCommand, err
}

// split takes a complete frame apart and checks the command complement.
func (d *Decoder) split(buf uint32) (irkeys.RawCommand, bool) {
	ab := d.timing.AddressBits
	cmd := uint8(buf >> ab)
	inv := uint8(buf >> (ab + 8))
	if cmd != ^inv {
		return irkeys.RawCommand{}, false
	}
	return irkeys.RawCommand{
		Address: uint16(buf & (1<<ab - 1)),
		Code:    cmd,
	}, true
}
