package worker

import (
	"errors"
	"runtime"
	"sync"

	"github.com/getsentry/sentry-go"
	"github.com/mesa-game/mesa/oerror"
)

var workerQueue = make(chan func(), runtime.NumCPU())

func init() {
	for i := 0; i < runtime.NumCPU(); i++ {
		go worker()
	}
}

func worker() {
	for f := range workerQueue {
		run(f)
	}
}

// run calls f, reporting a panic to sentry instead of taking the worker down with it.
func run(f func()) {
	defer func() {
		if err := recover(); err != nil {
			sentry.CurrentHub().Recover(err)
		}
	}()
	f()
}

// To be used by a function that may be CPU intensive.
func Submit(f func()) {
	workerQueue <- f
}

// Group runs functions on the workers and collects their errors.
type Group struct {
	wg   sync.WaitGroup
	mu   sync.Mutex
	errs []error
}

// Go runs f on a worker. A panic in f is recorded as an error of the group.
func (g *Group) Go(f func() error) {
	g.wg.Add(1)
	Submit(func() {
		defer g.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				sentry.CurrentHub().Recover(r)
				g.add(oerror.New("worker panic: %v", r))
			}
		}()
		if err := f(); err != nil {
			g.add(err)
		}
	})
}

func (g *Group) add(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errs = append(g.errs, err)
}

// Wait blocks until every function passed to Go returned and returns their errors joined.
func (g *Group) Wait() error {
	g.wg.Wait()
	g.mu.Lock()
	defer g.mu.Unlock()
	return errors.Join(g.errs...)
}
