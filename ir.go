// Package irkeys turns the edge timestamps of a demodulating IR receiver
// into keypad input: digits, Submit and Backspace.
//
// The pipeline is EdgeSource -> PulseDecoder -> Keymap -> Gate -> chan Key,
// driven by a single Loop.
package irkeys

import (
	"context"
	"time"
)

const (
	// Freq38Khz is the most commonly used frequency for IR remotes
	Freq38Khz = 38000

	// TickRate1MHz is the capture counter rate of the reference receiver:
	// one tick per microsecond.
	TickRate1MHz = 1_000_000
)

// TimePair encodes two durations used to encode an on-off (mark-space) amount of time.
type TimePair [2]time.Duration

// FrameMarshaller defines an interface for marshalling data to slice of TimePairs
type FrameMarshaller interface {
	MarshalFrame() []TimePair
}

// EdgeSource delivers the capture counter value of each edge on the IR line.
// The counter wraps at 32 bits. WaitEdge blocks until the next edge; at most
// one edge is in flight at a time.
type EdgeSource interface {
	WaitEdge(ctx context.Context) (uint32, error)
}

// Outcome is what a PulseDecoder made of one edge.
type Outcome uint8

const (
	// NoCommand means the edge was consumed without completing anything.
	NoCommand Outcome = iota
	// Command means a full frame decoded and passed its check.
	Command
	// Repeat means a repeat header ("button still held") was seen.
	Repeat
)

func (o Outcome) String() string {
	switch o {
	case Command:
		return "command"
	case Repeat:
		return "repeat"
	default:
		return "none"
	}
}

// RawCommand is a decoded frame.
type RawCommand struct {
	Address uint16
	Code    uint8
}

// PulseDecoder consumes the interval (in capture ticks) that ended at an
// edge. rising reports the polarity of that edge: true when the edge starts
// a mark, so the interval that just ended was a space.
//
// On ErrTiming or ErrChecksum the decoder has already reset itself and is
// waiting for the next header.
type PulseDecoder interface {
	Event(interval uint32, rising bool) (RawCommand, Outcome, error)
}

// Edges converts a train of mark-space pairs into capture timestamps at the
// given tick rate, starting with the edge that begins the first mark at
// start. The space of the last pair is trailing idle time and produces no
// edge, so frames can be appended back to back with Edges of their own.
//
// An even number of edges is always returned, which keeps the alternating
// polarity of a Loop aligned across frames.
func Edges(start uint32, tickRate uint32, pairs ...TimePair) []uint32 {
	if len(pairs) == 0 {
		return nil
	}
	out := make([]uint32, 0, 2*len(pairs))
	t := start
	out = append(out, t)
	for i, p := range pairs {
		t += Ticks(p[0], tickRate)
		out = append(out, t)
		if i == len(pairs)-1 {
			break
		}
		t += Ticks(p[1], tickRate)
		out = append(out, t)
	}
	return out
}

// Ticks converts d into counter ticks at tickRate, rounding to nearest.
func Ticks(d time.Duration, tickRate uint32) uint32 {
	return uint32((int64(d)*int64(tickRate) + int64(time.Second)/2) / int64(time.Second))
}

// Train lays frames out back to back, each starting where the previous
// one's pairs (including its trailing space) end, and returns all their
// edges.
func Train(start uint32, tickRate uint32, frames ...FrameMarshaller) []uint32 {
	var out []uint32
	t := start
	for _, fm := range frames {
		pairs := fm.MarshalFrame()
		out = append(out, Edges(t, tickRate, pairs...)...)
		for _, p := range pairs {
			t += Ticks(p[0], tickRate) + Ticks(p[1], tickRate)
		}
	}
	return out
}
