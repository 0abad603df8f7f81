// Package netlink brings network link up for acquisition window and down
// after, so radio stays off between cycles.
package netlink

import (
	"context"
	"net"
	"os/exec"
	"strings"
	"time"

	"github.com/edomo/edomo/log2"
	"github.com/google/shlex"
	"github.com/juju/errors"
)

const (
	DefaultRetryCount = 25
	DefaultRetryDelay = 500 * time.Millisecond
	downTimeout       = 10 * time.Second
)

// ErrAssociation is soft failure: link did not come up within retry budget.
var ErrAssociation = errors.New("network association failed")

type Link interface {
	Up(ctx context.Context) error
	Down() error
}

// Always is Link for hosts with permanent network.
type Always struct{}

func (Always) Up(context.Context) error { return nil }
func (Always) Down() error              { return nil }

type ProbeFunc func(ctx context.Context) error
type RunFunc func(ctx context.Context, argv []string) error

type Config struct {
	UpCmd      string
	DownCmd    string
	RetryCount int
	RetryDelay time.Duration
	Probe      ProbeFunc // nil: link is considered up after UpCmd
}

// Poller runs optional up command, then polls probe until it succeeds or
// retry budget is exhausted.
type Poller struct {
	upCmd      []string
	downCmd    []string
	retryCount int
	retryDelay time.Duration
	probe      ProbeFunc
	log        *log2.Log

	Run RunFunc
}

var _ Link = &Poller{}

func NewPoller(c Config, log *log2.Log) (*Poller, error) {
	p := &Poller{
		retryCount: c.RetryCount,
		retryDelay: c.RetryDelay,
		probe:      c.Probe,
		log:        log,
		Run:        ExecRun,
	}
	if p.retryCount == 0 {
		p.retryCount = DefaultRetryCount
	}
	if p.retryCount < 0 {
		return nil, errors.NotValidf("network retry_count=%d", c.RetryCount)
	}
	if p.retryDelay == 0 {
		p.retryDelay = DefaultRetryDelay
	}
	var err error
	if p.upCmd, err = shlex.Split(c.UpCmd); err != nil {
		return nil, errors.Annotatef(err, "network up_cmd=%q", c.UpCmd)
	}
	if p.downCmd, err = shlex.Split(c.DownCmd); err != nil {
		return nil, errors.Annotatef(err, "network down_cmd=%q", c.DownCmd)
	}
	return p, nil
}

func (p *Poller) Up(ctx context.Context) error {
	if len(p.upCmd) != 0 {
		if err := p.Run(ctx, p.upCmd); err != nil {
			return errors.Annotate(err, "network up")
		}
	}
	if p.probe == nil {
		return nil
	}
	var lastErr error
	for attempt := 1; attempt <= p.retryCount; attempt++ {
		if lastErr = p.probe(ctx); lastErr == nil {
			p.log.Debugf("network up attempt=%d", attempt)
			return nil
		}
		if attempt == p.retryCount {
			break
		}
		select {
		case <-time.After(p.retryDelay):
		case <-ctx.Done():
			return errors.Annotate(ctx.Err(), "network up")
		}
	}
	p.log.Debugf("network probe last error: %v", lastErr)
	return errors.Annotatef(ErrAssociation, "attempts=%d", p.retryCount)
}

func (p *Poller) Down() error {
	if len(p.downCmd) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), downTimeout)
	defer cancel()
	return errors.Annotate(p.Run(ctx, p.downCmd), "network down")
}

func ExecRun(ctx context.Context, argv []string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec
	out, err := cmd.CombinedOutput()
	if err != nil {
		return errors.Annotatef(err, "exec %s output=%s", cmd.Path, strings.TrimSpace(string(out)))
	}
	return nil
}

// DialProbe succeeds when TCP connection to addr can be established.
func DialProbe(addr string, timeout time.Duration) ProbeFunc {
	return func(ctx context.Context) error {
		d := net.Dialer{Timeout: timeout}
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return err
		}
		return conn.Close()
	}
}
