package irkeys

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGateWindow(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		delta time.Duration
		want  bool
	}{
		{0, false},
		{time.Millisecond, false},
		{50 * time.Millisecond, false},
		{299 * time.Millisecond, false},
		{300*time.Millisecond - time.Nanosecond, false},
		{300 * time.Millisecond, true},
		{350 * time.Millisecond, true},
		{time.Hour, true},
	}

	for _, tt := range tests {
		g := NewGate(DefaultQuietWindow)
		require.True(t, g.Accept(t0, Key1), "first call")
		require.Equal(t, tt.want, g.Accept(t0.Add(tt.delta), Key1), "delta %v", tt.delta)
	}
}

func TestGateIgnoresKeyIdentity(t *testing.T) {
	t0 := time.Now()
	g := NewGate(DefaultQuietWindow)

	require.True(t, g.Accept(t0, Key1))
	require.False(t, g.Accept(t0.Add(10*time.Millisecond), Key2))
	require.False(t, g.Accept(t0.Add(100*time.Millisecond), KeySubmit))
	require.True(t, g.Accept(t0.Add(300*time.Millisecond), KeyBackspace))
}

func TestGateOnlyAcceptedKeysMoveWindow(t *testing.T) {
	t0 := time.Now()
	g := NewGate(DefaultQuietWindow)

	require.True(t, g.Accept(t0, Key5))
	require.False(t, g.Accept(t0.Add(200*time.Millisecond), Key5))
	require.True(t, g.Accept(t0.Add(300*time.Millisecond), Key5))
	require.False(t, g.Accept(t0.Add(599*time.Millisecond), Key5))
	require.True(t, g.Accept(t0.Add(600*time.Millisecond), Key5))
}

func TestGateFirstCallAlwaysPasses(t *testing.T) {
	require.True(t, NewGate(time.Hour).Accept(time.Time{}, Key0))
}
