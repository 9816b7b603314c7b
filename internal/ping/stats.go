package ping

import (
	"fmt"
	"io"
	"time"
)

// Stats accumulates the results of a run.
type Stats struct {
	Requested   int
	Size        int
	Attempted   int
	Succeeded   int
	Skipped     int
	Aborted     bool
	Interrupted bool

	// Total is the summed round trip time of successful trials only.
	Total    time.Duration
	Min, Max time.Duration
	Samples  []time.Duration
}

func (s *Stats) record(d time.Duration) {
	if s.Succeeded == 0 || d < s.Min {
		s.Min = d
	}
	if d > s.Max {
		s.Max = d
	}
	s.Succeeded++
	s.Total += d
	s.Samples = append(s.Samples, d)
}

// Average is the mean round trip time per successful trial.
func (s Stats) Average() time.Duration {
	if s.Succeeded == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Succeeded)
}

// Jitter is the mean absolute deviation from the average.
func (s Stats) Jitter() time.Duration {
	if len(s.Samples) == 0 {
		return 0
	}
	avg := s.Average()
	var total time.Duration
	for _, d := range s.Samples {
		dev := d - avg
		if dev < 0 {
			dev = -dev
		}
		total += dev
	}
	return total / time.Duration(len(s.Samples))
}

// Report writes the summary for a run against host:port.
func (s Stats) Report(w io.Writer, host, port string) {
	fmt.Fprintf(w, "nping: %d arraysize: %d successes: %d skipped: %d aborted: %t total: %f avg/trial: %f ponghost: %s pongport: %s\n",
		s.Requested, s.Size, s.Succeeded, s.Skipped, s.Aborted,
		s.Total.Seconds(), s.Average().Seconds(), host, port)

	if s.Succeeded > 0 {
		fmt.Fprintf(w, "rtt min/avg/max/jitter = %v/%v/%v/%v\n", s.Min, s.Average(), s.Max, s.Jitter())
	}
}
