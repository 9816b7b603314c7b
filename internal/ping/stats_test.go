package ping

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAverageIsPerSuccessfulTrial(t *testing.T) {
	s := Stats{Requested: 4, Size: 1000}
	s.record(10 * time.Millisecond)
	s.record(30 * time.Millisecond)
	s.Skipped = 2

	require.Equal(t, 20*time.Millisecond, s.Average())
	require.Equal(t, 40*time.Millisecond, s.Total)
	require.Equal(t, 10*time.Millisecond, s.Min)
	require.Equal(t, 30*time.Millisecond, s.Max)
	require.Equal(t, 10*time.Millisecond, s.Jitter())
}

func TestEmptyStats(t *testing.T) {
	s := Stats{}
	require.Zero(t, s.Average())
	require.Zero(t, s.Jitter())

	var out bytes.Buffer
	s.Report(&out, "localhost", "1266")
	require.Equal(t, "nping: 0 arraysize: 0 successes: 0 skipped: 0 aborted: false total: 0.000000 avg/trial: 0.000000 ponghost: localhost pongport: 1266\n", out.String())
}

func TestReport(t *testing.T) {
	s := Stats{Requested: 3, Size: 10}
	s.record(2 * time.Second)
	s.record(4 * time.Second)
	s.Aborted = true

	var out bytes.Buffer
	s.Report(&out, "pong.example", "4000")
	require.Contains(t, out.String(), "nping: 3 arraysize: 10 successes: 2 skipped: 0 aborted: true total: 6.000000 avg/trial: 3.000000 ponghost: pong.example pongport: 4000\n")
	require.Contains(t, out.String(), "rtt min/avg/max/jitter = 2s/3s/4s/1s\n")
}
