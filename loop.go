package irkeys

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// InitialRising is the polarity assumed for the first edge. The receiver
// idles at its inactive level, so the first edge seen starts a mark.
const InitialRising = true

// Loop pulls edges from an EdgeSource, decodes them, and delivers accepted
// keys to a channel. It owns its decoder and gate; run exactly one Loop per
// source.
type Loop struct {
	src    EdgeSource
	dec    PulseDecoder
	keymap Keymap
	gate   *Gate
	out    chan<- Key
	now    func() time.Time
	log    zerolog.Logger

	last   uint32
	rising bool

	// edge clock, see WithEdgeClock
	tickRate uint32
	elapsed  uint64
	epoch    time.Time

	stats stats
}

// Option configures a Loop.
type Option func(*Loop)

// WithKeymap replaces DefaultKeymap.
func WithKeymap(km Keymap) Option {
	return func(l *Loop) { l.keymap = km }
}

// WithQuietWindow sets the debounce window. Default DefaultQuietWindow.
func WithQuietWindow(d time.Duration) Option {
	return func(l *Loop) { l.gate = NewGate(d) }
}

// WithClock sets the clock the gate is fed from. Default time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Loop) { l.now = now }
}

// WithEdgeClock feeds the gate from the capture counter instead of the
// wall clock: time advances by the sum of edge intervals at tickRate. Use
// it when edges are replayed faster than they were captured.
func WithEdgeClock(tickRate uint32) Option {
	return func(l *Loop) {
		l.tickRate = tickRate
		l.epoch = time.Now()
		l.now = l.edgeNow
	}
}

func (l *Loop) edgeNow() time.Time {
	rate := uint64(l.tickRate)
	secs, rem := l.elapsed/rate, l.elapsed%rate
	return l.epoch.Add(time.Duration(secs)*time.Second + time.Duration(rem*uint64(time.Second)/rate))
}

// WithLogger attaches a logger. Drops are logged at debug level, deliveries
// at info. Default is zerolog.Nop().
func WithLogger(log zerolog.Logger) Option {
	return func(l *Loop) { l.log = log }
}

// NewLoop wires src through dec into out. out is the bounded queue; the
// loop blocks when it is full.
func NewLoop(src EdgeSource, dec PulseDecoder, out chan<- Key, opts ...Option) *Loop {
	l := &Loop{
		src:    src,
		dec:    dec,
		keymap: DefaultKeymap(),
		gate:   NewGate(DefaultQuietWindow),
		out:    out,
		now:    time.Now,
		log:    zerolog.Nop(),
		rising: InitialRising,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run processes edges until ctx is done or the source fails. On a device
// the context is never cancelled and Run does not return.
func (l *Loop) Run(ctx context.Context) error {
	for {
		ts, err := l.src.WaitEdge(ctx)
		if err != nil {
			return err
		}
		if err := l.Edge(ctx, ts); err != nil {
			return err
		}
	}
}

// Edge processes a single captured timestamp. It only returns an error if
// ctx ends while waiting for room in the output queue.
func (l *Loop) Edge(ctx context.Context, ts uint32) error {
	interval := ts - l.last
	l.last = ts
	l.elapsed += uint64(interval)
	rising := l.rising
	l.rising = !l.rising
	l.stats.edges.Add(1)

	cmd, outcome, err := l.dec.Event(interval, rising)
	switch {
	case err != nil:
		l.drop(err, interval, rising)
		return nil
	case outcome == Repeat:
		l.stats.repeats.Add(1)
		return nil
	case outcome != Command:
		return nil
	}
	l.stats.frames.Add(1)

	k, ok := l.keymap.Lookup(cmd.Code)
	if !ok {
		l.stats.unmapped.Add(1)
		l.log.Debug().Err(ErrUnmapped).Uint8("code", cmd.Code).Uint16("addr", cmd.Address).Msg("dropped frame")
		return nil
	}
	if !l.gate.Accept(l.now(), k) {
		l.stats.debounced.Add(1)
		l.log.Debug().Err(ErrDebounced).Stringer("key", k).Msg("dropped key")
		return nil
	}

	select {
	case l.out <- k:
	case <-ctx.Done():
		return ctx.Err()
	}
	l.stats.delivered.Add(1)
	l.log.Info().Stringer("key", k).Uint8("code", cmd.Code).Msg("key")
	return nil
}

func (l *Loop) drop(err error, interval uint32, rising bool) {
	switch {
	case errors.Is(err, ErrChecksum):
		l.stats.checksum.Add(1)
	default:
		l.stats.timing.Add(1)
	}
	l.log.Debug().Err(err).Uint32("interval", interval).Bool("rising", rising).Msg("dropped frame")
}

// Stats counts what a Loop has seen. Safe to read from another goroutine.
type Stats struct {
	Edges     uint64 `json:"edges"`
	Frames    uint64 `json:"frames"`
	Repeats   uint64 `json:"repeats"`
	Timing    uint64 `json:"timing_errors"`
	Checksum  uint64 `json:"checksum_errors"`
	Unmapped  uint64 `json:"unmapped"`
	Debounced uint64 `json:"debounced"`
	Delivered uint64 `json:"delivered"`
}

type stats struct {
	edges, frames, repeats, timing, checksum, unmapped, debounced, delivered atomic.Uint64
}

// Stats returns a snapshot of the counters.
func (l *Loop) Stats() Stats {
	return Stats{
		Edges:     l.stats.edges.Load(),
		Frames:    l.stats.frames.Load(),
		Repeats:   l.stats.repeats.Load(),
		Timing:    l.stats.timing.Load(),
		Checksum:  l.stats.checksum.Load(),
		Unmapped:  l.stats.unmapped.Load(),
		Debounced: l.stats.debounced.Load(),
		Delivered: l.stats.delivered.Load(),
	}
}
