package engine

import (
	"sync"
	"time"

	"github.com/termtypr/termtypr/internal/model"
)

// poller is the cancellable repeating timer behind live-stats refresh. It is
// an explicit resource: acquired by StartPolling, released by StopPolling or
// by the Finish/Cancel transition.
type poller struct {
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func (p *poller) halt() {
	if p == nil {
		return
	}
	p.stopOnce.Do(func() { close(p.stop) })
	<-p.done
}

// StartPolling begins periodic live-metric callbacks on a dedicated
// goroutine. Any previous poller is stopped first, so repeated starts never
// leak timers. fn must not block; it runs outside the engine lock.
func (e *Engine) StartPolling(interval time.Duration, fn func(model.LiveStats)) {
	if interval <= 0 || fn == nil {
		return
	}
	p := &poller{stop: make(chan struct{}), done: make(chan struct{})}

	e.mu.Lock()
	prev := e.poller
	e.poller = p
	e.mu.Unlock()
	prev.halt()

	go func() {
		defer close(p.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-p.stop:
				return
			case now := <-ticker.C:
				fn(e.Tick(now))
			}
		}
	}()
}

// StopPolling halts the live-stats poller. It is idempotent and safe to call
// in any state, including before StartPolling.
func (e *Engine) StopPolling() {
	e.mu.Lock()
	p := e.poller
	e.poller = nil
	e.mu.Unlock()
	p.halt()
}
