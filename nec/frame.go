package nec

import (
	"time"

	"github.com/sparques/irkeys"
)

// RepeatPeriod is the spacing between the starts of consecutive frames or
// repeat codes while a button is held.
const RepeatPeriod = 192 * Unit // 108ms

// Frame is one transmission of a command. Timing decides the durations and
// how many address bits precede the command.
type Frame struct {
	Timing  Timing
	Address uint16
	Cmd     uint8

	// Check overrides the complement byte when non-nil. Only useful for
	// producing deliberately broken frames.
	Check *uint8
}

// MarshalFrame implements irkeys.FrameMarshaller. The last pair carries the
// trailing mark; its space is the idle gap up to RepeatPeriod.
func (f Frame) MarshalFrame() []irkeys.TimePair {
	t := f.Timing
	n := t.FrameBits()
	out := make([]irkeys.TimePair, 0, n+2)

	out = append(out, irkeys.TimePair{t.HeaderMark, t.HeaderSpace})

	check := ^f.Cmd
	if f.Check != nil {
		check = *f.Check
	}
	ab := t.AddressBits
	buf := uint32(check)<<(ab+8) | uint32(f.Cmd)<<ab | uint32(f.Address)&(1<<ab-1)

	for bit := 0; bit < n; bit++ {
		if (buf>>bit)&1 == 1 {
			out = append(out, irkeys.TimePair{t.BitMark, t.OneSpace})
		} else {
			out = append(out, irkeys.TimePair{t.BitMark, t.ZeroSpace})
		}
	}

	out = append(out, irkeys.TimePair{t.BitMark, idle(t, out)})
	return out
}

// Repeat is the "still held" code.
type Repeat struct {
	Timing Timing
}

// MarshalFrame implements irkeys.FrameMarshaller.
func (r Repeat) MarshalFrame() []irkeys.TimePair {
	t := r.Timing
	out := []irkeys.TimePair{{t.HeaderMark, t.RepeatSpace}}
	return append(out, irkeys.TimePair{t.BitMark, idle(t, out)})
}

// idle pads a transmission out to RepeatPeriod, scaled like the rest of t.
func idle(t Timing, pairs []irkeys.TimePair) time.Duration {
	period := time.Duration(float64(RepeatPeriod) * float64(t.BitMark) / float64(Unit))
	used := t.BitMark
	for _, p := range pairs {
		used += p[0] + p[1]
	}
	if used >= period {
		return t.HeaderSpace
	}
	return period - used
}
