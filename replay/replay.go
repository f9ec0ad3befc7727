// Package replay provides an irkeys.EdgeSource that plays back a recorded
// capture. The format is one unsigned 32-bit counter value per line,
// decimal or 0x-prefixed hex; blank lines and lines starting with # are
// ignored.
package replay

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Source reads timestamps from r. It returns io.EOF once r is exhausted.
type Source struct {
	sc   *bufio.Scanner
	line int

	// Pace, if set, sleeps for the interval between timestamps at this tick
	// rate before returning each edge, to replay in real time.
	Pace uint32

	last    uint32
	started bool
}

// NewSource reads from r.
func NewSource(r io.Reader) *Source {
	return &Source{sc: bufio.NewScanner(r)}
}

// WaitEdge implements irkeys.EdgeSource.
func (s *Source) WaitEdge(ctx context.Context) (uint32, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	for s.sc.Scan() {
		s.line++
		text := strings.TrimSpace(s.sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		v, err := strconv.ParseUint(text, 0, 32)
		if err != nil {
			return 0, fmt.Errorf("replay: line %d: %w", s.line, err)
		}
		ts := uint32(v)
		if err := s.pace(ctx, ts); err != nil {
			return 0, err
		}
		return ts, nil
	}
	if err := s.sc.Err(); err != nil {
		return 0, fmt.Errorf("replay: %w", err)
	}
	return 0, io.EOF
}

func (s *Source) pace(ctx context.Context, ts uint32) error {
	defer func() { s.last, s.started = ts, true }()
	if s.Pace == 0 || !s.started {
		return nil
	}
	d := time.Duration(uint64(ts-s.last) * uint64(time.Second) / uint64(s.Pace))
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Write writes timestamps in the format Source reads.
func Write(w io.Writer, ts []uint32) error {
	bw := bufio.NewWriter(w)
	for _, t := range ts {
		if _, err := fmt.Fprintln(bw, t); err != nil {
			return err
		}
	}
	return bw.Flush()
}
