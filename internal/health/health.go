package health

import (
	"context"
	"errors"
	"time"
)

// DefaultTimeout bounds a single probe.
const DefaultTimeout = 3 * time.Second

// Status is the service availability as last observed.
type Status int

const (
	Checking Status = iota
	Available
	Unavailable
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Checking:
		return "checking"
	case Available:
		return "available"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Pinger is anything that can answer a liveness request.
type Pinger interface {
	Health(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

// Health calls f(ctx).
func (f PingerFunc) Health(ctx context.Context) error {
	return f(ctx)
}

// Report is the outcome of one probe.
type Report struct {
	Status    Status
	Err       error
	Latency   time.Duration
	CheckedAt time.Time
	TimedOut  bool
}

// Available reports whether the service answered in time.
func (r Report) Available() bool {
	return r.Status == Available
}

// Check probes p once. Any failure, including a timeout, yields Unavailable.
// A non-positive timeout uses DefaultTimeout.
func Check(ctx context.Context, p Pinger, timeout time.Duration) Report {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if p == nil {
		return Report{Status: Unavailable, Err: errors.New("no service configured"), CheckedAt: time.Now()}
	}

	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := p.Health(probeCtx)
	report := Report{
		Latency:   time.Since(start),
		CheckedAt: time.Now(),
	}
	if err != nil {
		report.Status = Unavailable
		report.Err = err
		report.TimedOut = errors.Is(err, context.DeadlineExceeded) || errors.Is(probeCtx.Err(), context.DeadlineExceeded)
		return report
	}
	report.Status = Available
	return report
}
