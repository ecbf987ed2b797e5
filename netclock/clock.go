package netclock

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/mesa-game/mesa/debug"
	"github.com/mesa-game/mesa/oerror"
	"github.com/mesa-game/mesa/utils"
	"github.com/mesa-game/mesa/wire"
	"github.com/sirupsen/logrus"
)

// Options configure a Clock.
type Options struct {
	// ResyncPeriod is the interval between time requests sent by Run. Zero only sends the initial request.
	ResyncPeriod time.Duration
	// SampleSize is the number of round trip times averaged once enough have been collected.
	SampleSize int
	// Now returns the local time. If nil, the time elapsed since the clock was created is used.
	Now func() time.Duration
}

// DefaultOptions ...
func DefaultOptions() Options {
	return Options{ResyncPeriod: time.Second, SampleSize: 10}
}

// MonotonicNow returns a function reporting the time elapsed since it was created.
func MonotonicNow() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}

// Clock estimates the time of a server from the responses to the time requests it sends. The server time
// is the local time plus an offset, corrected for half of the round trip time.
type Clock struct {
	opts Options
	now  func() time.Duration
	log  *logrus.Logger
	dbg  *debug.Debugger

	mu     sync.Mutex
	rtts   *utils.CircularQueue[time.Duration]
	rtt    time.Duration
	offset time.Duration
}

// NewClock creates a Clock that has not synchronised yet. dbg may be nil.
func NewClock(opts Options, log *logrus.Logger, dbg *debug.Debugger) *Clock {
	if opts.SampleSize < 3 {
		opts.SampleSize = DefaultOptions().SampleSize
	}
	now := opts.Now
	if now == nil {
		now = MonotonicNow()
	}
	return &Clock{
		opts: opts,
		now:  now,
		log:  log,
		dbg:  dbg,
		rtts: utils.NewCircularQueue[time.Duration](opts.SampleSize),
	}
}

// LocalTime returns the time on the local clock.
func (c *Clock) LocalTime() time.Duration {
	return c.now()
}

// ServerTime returns the estimated current time of the server.
func (c *Clock) ServerTime() time.Duration {
	return c.LocalTime() + c.Offset()
}

// Offset returns the difference between the server and the local clock.
func (c *Clock) Offset() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offset
}

// RTT returns the round trip time used for the last offset update.
func (c *Clock) RTT() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rtt
}

// Samples returns the number of round trip times currently buffered.
func (c *Clock) Samples() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rtts.Len()
}

// Request returns a time request stamped with the local time.
func (c *Clock) Request() *wire.TimeRequest {
	return &wire.TimeRequest{ClientTimestamp: int64(c.now())}
}

// HandleResponse updates the offset from a response to a request sent earlier. Responses to requests that
// appear to be from the future are ignored.
func (c *Clock) HandleResponse(pk *wire.TimeResponse) {
	now := c.now()
	sample := now - time.Duration(pk.ClientTimestamp)
	if sample < 0 {
		c.dbg.Notify(debug.ModeNetClock, true, "ignoring time response with negative rtt %v", sample)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.rtts.Append(sample); err != nil {
		c.log.Errorf("netclock: unable to buffer rtt sample: %v", err)
		return
	}
	c.rtt = sample
	if c.rtts.Full() {
		c.rtt = TrimmedMean(c.rtts.Slice())
	}
	c.offset = time.Duration(pk.ServerTimestamp) - time.Duration(pk.ClientTimestamp) - c.rtt/2
	c.dbg.Notify(debug.ModeNetClock, true, "sample=%v rtt=%v offset=%v", sample, c.rtt, c.offset)
}

// TrimmedMean returns the mean of samples after dropping the lowest and the highest one. The order of
// samples does not matter and the slice is not modified.
func TrimmedMean(samples []time.Duration) time.Duration {
	if len(samples) < 3 {
		var sum time.Duration
		for _, s := range samples {
			sum += s
		}
		if len(samples) == 0 {
			return 0
		}
		return sum / time.Duration(len(samples))
	}

	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	var sum time.Duration
	for _, s := range sorted[1 : len(sorted)-1] {
		sum += s
	}
	return sum / time.Duration(len(sorted)-2)
}

// Run synchronises the clock over conn until ctx is cancelled or conn fails. It sends a request right away
// and then once every ResyncPeriod. Run does not close conn: closing it stops the read loop.
func (c *Clock) Run(ctx context.Context, conn PacketConn) error {
	errs := make(chan error, 1)
	go func() {
		defer recoverPanic(c.log, "clock", conn)

		for {
			b, err := conn.ReadPacket()
			if err != nil {
				errs <- err
				return
			}
			pk, err := wire.Decode(b)
			if err != nil {
				c.log.Warnf("netclock: dropping packet: %v", err)
				continue
			}
			if resp, ok := pk.(*wire.TimeResponse); ok {
				c.HandleResponse(resp)
			}
		}
	}()

	if err := c.send(conn); err != nil {
		return err
	}

	var resync <-chan time.Time
	if c.opts.ResyncPeriod > 0 {
		t := time.NewTicker(c.opts.ResyncPeriod)
		defer t.Stop()
		resync = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errs:
			return oerror.New("clock connection closed: %v", err)
		case <-resync:
			if err := c.send(conn); err != nil {
				return err
			}
		}
	}
}

func (c *Clock) send(conn PacketConn) error {
	if _, err := conn.Write(wire.Encode(c.Request())); err != nil {
		return oerror.New("unable to send time request: %v", err)
	}
	return nil
}
