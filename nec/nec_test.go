package nec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sparques/irkeys"
)

// decoded collects what a decoder made of an edge train.
type decoded struct {
	cmds    []irkeys.RawCommand
	repeats int
	errs    []error
}

// feed drives d the way a Loop does: wrapping deltas from a zero start and
// polarity alternating from irkeys.InitialRising.
func feed(d *Decoder, edges []uint32) decoded {
	var (
		out    decoded
		last   uint32
		rising = irkeys.InitialRising
	)
	for _, ts := range edges {
		cmd, outcome, err := d.Event(ts-last, rising)
		last = ts
		rising = !rising
		switch {
		case err != nil:
			out.errs = append(out.errs, err)
		case outcome == irkeys.Command:
			out.cmds = append(out.cmds, cmd)
		case outcome == irkeys.Repeat:
			out.repeats++
		}
	}
	return out
}

func newDecoder(t *testing.T, timing Timing) *Decoder {
	t.Helper()
	d, err := NewDecoder(timing)
	require.NoError(t, err)
	return d
}

func frameEdges(timing Timing, start uint32, cmd uint8) []uint32 {
	return irkeys.Edges(start, timing.TickRate, Frame{Timing: timing, Cmd: cmd}.MarshalFrame()...)
}

func TestDecodeEveryCode(t *testing.T) {
	timing := DefaultTiming()
	d := newDecoder(t, timing)

	for code := 0; code < 256; code++ {
		got := feed(d, frameEdges(timing, 1000, uint8(code)))
		require.Empty(t, got.errs, "code %d", code)
		require.Equal(t, []irkeys.RawCommand{{Code: uint8(code)}}, got.cmds, "code %d", code)
	}
}

func TestDecodeIndependentOfStart(t *testing.T) {
	timing := DefaultTiming()
	starts := []uint32{0, 1, 123456, 1 << 31, 0xFFFFFFFF - 20000, 0xFFFFFFFF}

	for _, start := range starts {
		d := newDecoder(t, timing)
		got := feed(d, frameEdges(timing, start, 12))
		require.Empty(t, got.errs, "start %d", start)
		require.Equal(t, []irkeys.RawCommand{{Code: 12}}, got.cmds, "start %d", start)
	}
}

func TestDecodeBackToBackFrames(t *testing.T) {
	timing := DefaultTiming()
	d := newDecoder(t, timing)

	frames := []irkeys.FrameMarshaller{
		Frame{Timing: timing, Cmd: 22},
		Repeat{Timing: timing},
		Repeat{Timing: timing},
		Frame{Timing: timing, Cmd: 64},
	}
	got := feed(d, irkeys.Train(5000, timing.TickRate, frames...))
	require.Empty(t, got.errs)
	require.Equal(t, 2, got.repeats)
	require.Equal(t, []irkeys.RawCommand{{Code: 22}, {Code: 64}}, got.cmds)
}

func TestDecodeExtendedAddress(t *testing.T) {
	timing := NEC16Timing()
	d := newDecoder(t, timing)

	f := Frame{Timing: timing, Address: 0xBF00, Cmd: 68}
	got := feed(d, irkeys.Edges(0, timing.TickRate, f.MarshalFrame()...))
	require.Empty(t, got.errs)
	require.Equal(t, []irkeys.RawCommand{{Address: 0xBF00, Code: 68}}, got.cmds)
}

func TestDecodeEightBitAddress(t *testing.T) {
	timing := DefaultTiming()
	timing.AddressBits = 8
	d := newDecoder(t, timing)

	f := Frame{Timing: timing, Address: 0x1FF, Cmd: 90}
	got := feed(d, irkeys.Edges(0, timing.TickRate, f.MarshalFrame()...))
	require.Empty(t, got.errs)
	require.Equal(t, []irkeys.RawCommand{{Address: 0xFF, Code: 90}}, got.cmds)
}

func TestChecksumMismatch(t *testing.T) {
	timing := DefaultTiming()
	d := newDecoder(t, timing)

	for _, check := range []uint8{12, 0x00, 0xFF, 0xF2} {
		check := check
		bad := Frame{Timing: timing, Cmd: 12, Check: &check}
		good := Frame{Timing: timing, Cmd: 12}

		got := feed(d, irkeys.Train(0, timing.TickRate, bad, good))
		require.Len(t, got.errs, 1, "check %#x", check)
		require.ErrorIs(t, got.errs[0], irkeys.ErrChecksum)
		require.Equal(t, []irkeys.RawCommand{{Code: 12}}, got.cmds, "check %#x", check)
	}
}

func TestTimingErrorResynchronises(t *testing.T) {
	timing := DefaultTiming()

	tests := []struct {
		name  string
		edges []uint32
	}{
		{
			// mark that is neither a header nor a bit mark
			name:  "bad mark while seeking",
			edges: []uint32{1000, 4000},
		},
		{
			name:  "bad header space",
			edges: []uint32{1000, 10000, 13000},
		},
		{
			// space between the zero and one bands
			name:  "bad bit space",
			edges: []uint32{1000, 10000, 14500, 15063, 16063},
		},
		{
			name:  "bad bit mark",
			edges: []uint32{1000, 10000, 14500, 15500},
		},
		{
			name: "frame cut after eight bits",
			edges: func() []uint32 {
				e := frameEdges(timing, 1000, 0x55)
				return append(e[:19:19], e[19]+20000)
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDecoder(t, timing)

			got := feed(d, tt.edges)
			require.Len(t, got.errs, 1)
			require.ErrorIs(t, got.errs[0], irkeys.ErrTiming)
			require.Empty(t, got.cmds)
			require.Equal(t, seekingHeader, d.state)
			require.Zero(t, d.buf)
			require.Zero(t, d.bitcount)

			last := tt.edges[len(tt.edges)-1]
			next := frameEdges(timing, last+100000, 0xA5)
			if len(tt.edges)%2 == 1 {
				// keep the next frame's first edge rising
				next = append([]uint32{last + 50000}, next...)
			}
			got = feed(d, append(append([]uint32{}, tt.edges...), next...))
			require.Equal(t, []irkeys.RawCommand{{Code: 0xA5}}, got.cmds)
		})
	}
}

func TestIdleAndTrailingMarksAreIgnored(t *testing.T) {
	d := newDecoder(t, DefaultTiming())

	for _, in := range []struct {
		interval uint32
		rising   bool
	}{
		{0xFFFFFFFF, true}, // idle line, any length
		{1, true},
		{560, false}, // trailing mark
		{50000, true},
	} {
		cmd, outcome, err := d.Event(in.interval, in.rising)
		require.NoError(t, err)
		require.Equal(t, irkeys.NoCommand, outcome)
		require.Zero(t, cmd)
	}
}

func TestRepeatCode(t *testing.T) {
	timing := DefaultTiming()
	d := newDecoder(t, timing)

	got := feed(d, irkeys.Edges(0, timing.TickRate, Repeat{Timing: timing}.MarshalFrame()...))
	require.Empty(t, got.errs)
	require.Empty(t, got.cmds)
	require.Equal(t, 1, got.repeats)
	require.Equal(t, seekingHeader, d.state)
}

func TestJitterWithinTolerance(t *testing.T) {
	timing := DefaultTiming()

	stretch := func(f float64) []uint32 {
		pairs := Frame{Timing: timing, Cmd: 94}.MarshalFrame()
		for i := range pairs {
			pairs[i][0] = time.Duration(float64(pairs[i][0]) * f)
			pairs[i][1] = time.Duration(float64(pairs[i][1]) * f)
		}
		return irkeys.Edges(100, timing.TickRate, pairs...)
	}

	for _, f := range []float64{0.8, 0.9, 1.1, 1.2} {
		got := feed(newDecoder(t, timing), stretch(f))
		require.Empty(t, got.errs, "factor %v", f)
		require.Equal(t, []irkeys.RawCommand{{Code: 94}}, got.cmds, "factor %v", f)
	}
	for _, f := range []float64{0.6, 1.4} {
		got := feed(newDecoder(t, timing), stretch(f))
		require.NotEmpty(t, got.errs, "factor %v", f)
		require.Empty(t, got.cmds, "factor %v", f)
	}
}

func TestScaledTiming(t *testing.T) {
	timing := DefaultTiming().Scale(4)
	d := newDecoder(t, timing)

	got := feed(d, frameEdges(timing, 0, 82))
	require.Empty(t, got.errs)
	require.Equal(t, []irkeys.RawCommand{{Code: 82}}, got.cmds)

	// unscaled frames no longer fit
	got = feed(newDecoder(t, timing), frameEdges(DefaultTiming(), 0, 82))
	require.Empty(t, got.cmds)
}

func TestSlowTickRate(t *testing.T) {
	timing := DefaultTiming()
	timing.TickRate = 32768
	d := newDecoder(t, timing)

	got := feed(d, frameEdges(timing, 7, 74))
	require.Empty(t, got.errs)
	require.Equal(t, []irkeys.RawCommand{{Code: 74}}, got.cmds)
}

func TestDecodeSamsung(t *testing.T) {
	timing := SamsungTiming()
	d := newDecoder(t, timing)

	f := Frame{Timing: timing, Address: 0x0707, Cmd: 0x02}
	got := feed(d, irkeys.Train(0, timing.TickRate, f, f))
	require.Empty(t, got.errs)
	require.Equal(t, []irkeys.RawCommand{{Address: 0x0707, Code: 0x02}, {Address: 0x0707, Code: 0x02}}, got.cmds)

	// an NEC header is too long for it
	got = feed(newDecoder(t, timing), frameEdges(NEC16Timing(), 0, 0x02))
	require.Empty(t, got.cmds)
}
