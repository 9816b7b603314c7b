package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/DrC0ns0le/net-pingpong/internal/protocol"
	"github.com/pkg/errors"
)

const (
	DefaultHost  = "localhost"
	DefaultPort  = "1266"
	DefaultCount = 1
	DefaultSize  = 100

	DefaultMetricsPath = "/metrics"
	DefaultICMPCount   = 5
)

// Metrics configures the optional prometheus endpoint. Port 0 disables it.
type Metrics struct {
	Port int
	Path string
}

// Client holds the parameters of a ping run. It is assembled once and never
// mutated afterwards.
type Client struct {
	Host    string
	Port    string
	Count   int
	Size    int
	Verbose bool

	// ICMP baseline measured with pro-bing before the UDP trials
	ICMP      bool
	ICMPCount int

	Metrics Metrics
}

// Server holds the parameters of a pong run.
type Server struct {
	Port    string
	Count   int
	Verbose bool

	Metrics Metrics
}

// Address returns host:port of the ping target.
func (c Client) Address() string {
	return c.Host + ":" + c.Port
}

func (c Client) Validate() error {
	if c.Host == "" {
		return errors.New("host must not be empty")
	}
	if c.Port == "" {
		return errors.New("port must not be empty")
	}
	if c.Count < 0 {
		return errors.Errorf("count must not be negative, got %d", c.Count)
	}
	if c.Size <= 0 {
		return errors.Errorf("datagram size must be positive, got %d", c.Size)
	}
	if c.Size > protocol.MaxDatagramSize {
		return errors.Errorf("datagram size %d exceeds maximum of %d", c.Size, protocol.MaxDatagramSize)
	}
	if c.ICMP && c.ICMPCount <= 0 {
		return errors.Errorf("icmp count must be positive, got %d", c.ICMPCount)
	}
	return c.Metrics.validate()
}

func (s Server) Validate() error {
	if s.Port == "" {
		return errors.New("port must not be empty")
	}
	if s.Count < 0 {
		return errors.Errorf("count must not be negative, got %d", s.Count)
	}
	return s.Metrics.validate()
}

func (m Metrics) validate() error {
	if m.Port < 0 || m.Port > 65535 {
		return errors.Errorf("invalid metrics port %d", m.Port)
	}
	if m.Port != 0 && (m.Path == "" || m.Path[0] != '/') {
		return errors.Errorf("metrics path must start with /, got %q", m.Path)
	}
	return nil
}

// ParseClient builds a Client from command line arguments. Unknown or malformed
// flags print usage to stderr and are skipped; parsing carries on with the rest.
func ParseClient(args []string, stderr io.Writer) (Client, error) {
	c := Client{}
	fs := flag.NewFlagSet("ping", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: ping [-h host] [-n #pings] [-p port] [-s size] [-v]")
	}

	fs.StringVar(&c.Host, "h", DefaultHost, "host to ping")
	fs.IntVar(&c.Count, "n", DefaultCount, "number of pings")
	fs.StringVar(&c.Port, "p", DefaultPort, "port or service name of the pong server")
	fs.IntVar(&c.Size, "s", DefaultSize, "datagram size in bytes")
	fs.BoolVar(&c.Verbose, "v", false, "verbose diagnostics")
	fs.BoolVar(&c.ICMP, "icmp", false, "measure an ICMP baseline before the UDP trials")
	fs.IntVar(&c.ICMPCount, "icmp.count", DefaultICMPCount, "number of ICMP echoes for the baseline")
	fs.IntVar(&c.Metrics.Port, "metrics.port", 0, "port for metrics server, 0 disables it")
	fs.StringVar(&c.Metrics.Path, "metrics.path", DefaultMetricsPath, "path for metrics server")

	parseBestEffort(fs, args)

	return c, c.Validate()
}

// ParseServer builds a Server from command line arguments, with the same
// best-effort handling as ParseClient.
func ParseServer(args []string, stderr io.Writer) (Server, error) {
	s := Server{}
	fs := flag.NewFlagSet("pong", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: pong [-n #pings] [-p port] [-v]")
	}

	fs.IntVar(&s.Count, "n", DefaultCount, "number of pings to answer")
	fs.StringVar(&s.Port, "p", DefaultPort, "port or service name to bind")
	fs.BoolVar(&s.Verbose, "v", false, "verbose diagnostics")
	fs.IntVar(&s.Metrics.Port, "metrics.port", 0, "port for metrics server, 0 disables it")
	fs.StringVar(&s.Metrics.Path, "metrics.path", DefaultMetricsPath, "path for metrics server")

	parseBestEffort(fs, args)

	return s, s.Validate()
}

// parseBestEffort keeps parsing after a bad flag or a stray positional
// argument. The flag package consumes the offending flag before failing, except
// for bad syntax, which is dropped here along with positionals.
func parseBestEffort(fs *flag.FlagSet, args []string) {
	for len(args) > 0 {
		err := fs.Parse(args)
		rest := fs.Args()
		if err == nil && len(rest) == 0 {
			return
		}
		if err == nil || len(rest) >= len(args) {
			rest = rest[1:]
		}
		args = rest
	}
}
