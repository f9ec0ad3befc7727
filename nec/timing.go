package nec

import (
	"errors"
	"fmt"
	"time"

	"github.com/sparques/irkeys"
)

// Unit is the NEC base period, 562.5us.
const Unit = 562500 * time.Nanosecond

// ErrInvalidTiming is returned by Timing.Validate and NewDecoder.
var ErrInvalidTiming = errors.New("nec: invalid timing")

// Timing holds the nominal durations of the protocol and how strictly they
// are matched. All of it can be tuned without touching the decoder.
type Timing struct {
	HeaderMark  time.Duration
	HeaderSpace time.Duration
	RepeatSpace time.Duration
	BitMark     time.Duration
	ZeroSpace   time.Duration
	OneSpace    time.Duration

	// Tolerance is the symmetric relative tolerance, in percent, applied to
	// every nominal duration.
	Tolerance int

	// TickRate is the capture counter frequency in Hz.
	TickRate uint32

	// AddressBits is the number of address bits sent before the command and
	// its complement: 0, 8 or 16.
	AddressBits int
}

// DefaultTiming is 16-bit framing (command, ~command) with NEC pulse
// durations, ±25%, on a 1 MHz counter.
func DefaultTiming() Timing {
	return Timing{
		HeaderMark:  16 * Unit, // 9ms
		HeaderSpace: 8 * Unit,  // 4.5ms
		RepeatSpace: 4 * Unit,  // 2.25ms
		BitMark:     Unit,
		ZeroSpace:   Unit,
		OneSpace:    3 * Unit, // 1.6875ms
		Tolerance:   25,
		TickRate:    irkeys.TickRate1MHz,
	}
}

// NEC16Timing is DefaultTiming with a 16 bit address in front of the
// command, as sent by extended NEC remotes.
func NEC16Timing() Timing {
	t := DefaultTiming()
	t.AddressBits = 16
	return t
}

// SamsungTiming is the Samsung32 variant: a shorter, symmetric header and a
// 16 bit address. Samsung remotes resend the full frame instead of a repeat
// code, so RepeatSpace is never seen.
func SamsungTiming() Timing {
	t := NEC16Timing()
	t.HeaderMark = 8 * Unit  // 4.5ms
	t.HeaderSpace = 8 * Unit // 4.5ms
	return t
}

// Scale returns a copy of t with every duration multiplied by f. Useful to
// run the protocol on a slower or faster test clock.
func (t Timing) Scale(f float64) Timing {
	s := func(d time.Duration) time.Duration { return time.Duration(float64(d) * f) }
	t.HeaderMark = s(t.HeaderMark)
	t.HeaderSpace = s(t.HeaderSpace)
	t.RepeatSpace = s(t.RepeatSpace)
	t.BitMark = s(t.BitMark)
	t.ZeroSpace = s(t.ZeroSpace)
	t.OneSpace = s(t.OneSpace)
	return t
}

// FrameBits is the number of bits in a full frame.
func (t Timing) FrameBits() int {
	return t.AddressBits + 16
}

// Validate rejects timings the decoder cannot tell apart.
func (t Timing) Validate() error {
	switch {
	case t.TickRate == 0:
		return fmt.Errorf("%w: tick rate is zero", ErrInvalidTiming)
	case t.Tolerance <= 0 || t.Tolerance >= 100:
		return fmt.Errorf("%w: tolerance %d%% not in (0, 100)", ErrInvalidTiming, t.Tolerance)
	case t.AddressBits != 0 && t.AddressBits != 8 && t.AddressBits != 16:
		return fmt.Errorf("%w: address bits must be 0, 8 or 16, got %d", ErrInvalidTiming, t.AddressBits)
	}
	for name, d := range map[string]time.Duration{
		"header mark":  t.HeaderMark,
		"header space": t.HeaderSpace,
		"repeat space": t.RepeatSpace,
		"bit mark":     t.BitMark,
		"zero space":   t.ZeroSpace,
		"one space":    t.OneSpace,
	} {
		if irkeys.Ticks(d, t.TickRate) == 0 {
			return fmt.Errorf("%w: %s shorter than one tick", ErrInvalidTiming, name)
		}
	}

	b := t.bands()
	pairs := []struct {
		a, b band
		what string
	}{
		{b.headerMark, b.bitMark, "header mark and bit mark"},
		{b.headerSpace, b.repeatSpace, "header space and repeat space"},
		{b.zeroSpace, b.oneSpace, "zero space and one space"},
	}
	for _, p := range pairs {
		if p.a.overlaps(p.b) {
			return fmt.Errorf("%w: %s overlap", ErrInvalidTiming, p.what)
		}
	}
	return nil
}

// band is an inclusive range of ticks.
type band struct {
	lo, hi uint32
}

func (b band) match(ticks uint32) bool {
	return ticks >= b.lo && ticks <= b.hi
}

func (b band) overlaps(o band) bool {
	return b.lo <= o.hi && o.lo <= b.hi
}

type bands struct {
	headerMark, headerSpace, repeatSpace band
	bitMark, zeroSpace, oneSpace         band
}

func (t Timing) band(d time.Duration) band {
	n := uint64(irkeys.Ticks(d, t.TickRate))
	slack := n * uint64(t.Tolerance) / 100
	return band{lo: uint32(n - slack), hi: uint32(n + slack)}
}

func (t Timing) bands() bands {
	return bands{
		headerMark:  t.band(t.HeaderMark),
		headerSpace: t.band(t.HeaderSpace),
		repeatSpace: t.band(t.RepeatSpace),
		bitMark:     t.band(t.BitMark),
		zeroSpace:   t.band(t.ZeroSpace),
		oneSpace:    t.band(t.OneSpace),
	}
}
