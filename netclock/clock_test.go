package netclock

import (
	"bytes"
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/mesa-game/mesa/utils"
	"github.com/mesa-game/mesa/wire"
	"github.com/sirupsen/logrus"
)

func ms(values ...float64) []time.Duration {
	out := make([]time.Duration, len(values))
	for i, v := range values {
		out[i] = time.Duration(v * float64(time.Millisecond))
	}
	return out
}

// fakeTime is a manually advanced clock.
type fakeTime struct {
	mu  sync.Mutex
	now time.Duration
}

func (f *fakeTime) Now() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeTime) Set(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = d
}

func TestTrimmedMeanIgnoresOrder(t *testing.T) {
	samples := ms(5, 100, 20, 22, 24, 26, 28, 30, 32, 200)
	expected := time.Duration(35.25 * float64(time.Millisecond))

	orders := [][]time.Duration{
		samples,
		ms(200, 32, 30, 28, 26, 24, 22, 20, 100, 5),
		ms(26, 5, 30, 200, 22, 28, 100, 32, 20, 24),
	}
	for _, order := range orders {
		if got := TrimmedMean(order); got != expected {
			t.Fatalf("expected %v, got %v for %v", expected, got, order)
		}
	}
	if samples[0] != 5*time.Millisecond {
		t.Fatalf("TrimmedMean must not modify its input")
	}
}

func TestClockUsesRawRTTUntilBufferFills(t *testing.T) {
	clock := &fakeTime{}
	c := NewClock(Options{SampleSize: 10, Now: clock.Now}, logrus.New(), nil)

	clock.Set(40 * time.Millisecond)
	c.HandleResponse(&wire.TimeResponse{ClientTimestamp: int64(10 * time.Millisecond), ServerTimestamp: int64(time.Second)})
	if c.RTT() != 30*time.Millisecond {
		t.Fatalf("expected raw rtt of 30ms, got %v", c.RTT())
	}
	if expected := time.Second - 10*time.Millisecond - 15*time.Millisecond; c.Offset() != expected {
		t.Fatalf("expected offset %v, got %v", expected, c.Offset())
	}
	if c.ServerTime() != 40*time.Millisecond+c.Offset() {
		t.Fatalf("server time should be the local time plus the offset")
	}
}

func TestClockAveragesFullBuffer(t *testing.T) {
	clock := &fakeTime{}
	c := NewClock(Options{SampleSize: 10, Now: clock.Now}, logrus.New(), nil)

	var sent time.Duration
	for _, rtt := range ms(5, 100, 20, 22, 24, 26, 28, 30, 32, 200) {
		clock.Set(sent + rtt)
		c.HandleResponse(&wire.TimeResponse{ClientTimestamp: int64(sent), ServerTimestamp: int64(sent + time.Hour)})
		sent += time.Second
	}
	if c.Samples() != 10 {
		t.Fatalf("expected a full buffer, got %d samples", c.Samples())
	}
	expected := time.Duration(35.25 * float64(time.Millisecond))
	if c.RTT() != expected {
		t.Fatalf("expected trimmed mean rtt %v, got %v", expected, c.RTT())
	}
	if c.Offset() != time.Hour-expected/2 {
		t.Fatalf("unexpected offset %v", c.Offset())
	}

	// The oldest sample is dropped once the buffer is full.
	clock.Set(sent + 30*time.Millisecond)
	c.HandleResponse(&wire.TimeResponse{ClientTimestamp: int64(sent), ServerTimestamp: int64(sent + time.Hour)})
	if c.Samples() != 10 {
		t.Fatalf("expected the buffer to stay full, got %d samples", c.Samples())
	}
	if expected := TrimmedMean(ms(100, 20, 22, 24, 26, 28, 30, 32, 200, 30)); c.RTT() != expected {
		t.Fatalf("expected %v after dropping the oldest sample, got %v", expected, c.RTT())
	}
}

func TestClockIgnoresUnansweredAndFutureRequests(t *testing.T) {
	clock := &fakeTime{}
	c := NewClock(Options{Now: clock.Now}, logrus.New(), nil)

	clock.Set(time.Second)
	if req := c.Request(); req.ClientTimestamp != int64(time.Second) {
		t.Fatalf("request should carry the local time, got %d", req.ClientTimestamp)
	}
	if c.Offset() != 0 {
		t.Fatalf("an unanswered request must not change the offset")
	}

	c.HandleResponse(&wire.TimeResponse{ClientTimestamp: int64(2 * time.Second), ServerTimestamp: int64(time.Hour)})
	if c.Offset() != 0 || c.Samples() != 0 {
		t.Fatalf("a response to a request from the future must be ignored")
	}
}

// pipeConn is one end of an in-memory packet connection.
type pipeConn struct {
	in     chan []byte
	out    chan []byte
	closed chan struct{}
	once   *sync.Once
}

func newPipe() (*pipeConn, *pipeConn) {
	a, b := make(chan []byte, 16), make(chan []byte, 16)
	closed, once := make(chan struct{}), &sync.Once{}
	return &pipeConn{in: a, out: b, closed: closed, once: once}, &pipeConn{in: b, out: a, closed: closed, once: once}
}

func (p *pipeConn) ReadPacket() ([]byte, error) {
	select {
	case b := <-p.in:
		return b, nil
	case <-p.closed:
		return nil, net.ErrClosed
	}
}

func (p *pipeConn) Write(b []byte) (int, error) {
	select {
	case p.out <- append([]byte(nil), b...):
		return len(b), nil
	case <-p.closed:
		return 0, net.ErrClosed
	}
}

func (p *pipeConn) Close() error {
	p.once.Do(func() { close(p.closed) })
	return nil
}

func TestRunSynchronisesWithResponder(t *testing.T) {
	client, server := newPipe()
	defer client.Close()

	serverTime := func() time.Duration { return time.Hour }
	go func() {
		_ = NewResponder(serverTime, logrus.New()).Serve(server)
	}()

	clock := &fakeTime{}
	c := NewClock(Options{ResyncPeriod: 0, SampleSize: 10, Now: clock.Now}, logrus.New(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- c.Run(ctx, client)
	}()

	deadline := time.After(5 * time.Second)
	for c.Samples() == 0 {
		select {
		case <-deadline:
			t.Fatalf("clock did not synchronise")
		case <-time.After(time.Millisecond):
		}
	}
	if c.Offset() != time.Hour {
		t.Fatalf("expected an offset of one hour, got %v", c.Offset())
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected Run to stop with the context, got %v", err)
	}
}

func TestRunStopsWhenConnectionCloses(t *testing.T) {
	client, _ := newPipe()
	c := NewClock(Options{ResyncPeriod: time.Hour}, logrus.New(), nil)

	done := make(chan error, 1)
	go func() {
		done <- c.Run(context.Background(), client)
	}()
	_ = client.Close()

	select {
	case err := <-done:
		if err == nil {
			t.Fatalf("expected an error once the connection closed")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after the connection closed")
	}
}

func TestClockKeepsOffsetWhenSampleCannotBeBuffered(t *testing.T) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	c := &Clock{
		now:    func() time.Duration { return time.Second },
		log:    log,
		rtts:   utils.NewCircularQueue[time.Duration](0),
		offset: time.Minute,
	}
	c.HandleResponse(&wire.TimeResponse{ServerTimestamp: int64(time.Hour)})
	if c.Offset() != time.Minute || c.RTT() != 0 {
		t.Fatalf("expected the clock to be left untouched, got offset %v rtt %v", c.Offset(), c.RTT())
	}
}
