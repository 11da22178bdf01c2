package game

import (
	"context"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// fakeClock drives the engine's timers deterministically. Advance moves time
// forward, firing due timers in order on the calling goroutine.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Time
	f       func()
	fired   bool
	stopped bool
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		t.stopped = true
	}
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	for {
		var next *fakeTimer
		for _, t := range c.timers {
			if t.fired || t.stopped || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) {
				next = t
			}
		}
		if next == nil {
			break
		}
		c.now = next.at
		next.fired = true
		f := next.f
		c.mu.Unlock()
		f()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

// Set moves the clock without firing timers, to model a timer goroutine that
// has not run yet.
func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type awardCall struct {
	name    string
	delta   int
	total   int
	level   string
	special bool
}

type outcomeCall struct {
	message snowflake.ID
	outcome Outcome
}

type fakeNotifier struct {
	mu       sync.Mutex
	opened   int
	timeouts int
	awards   []awardCall
	outcomes []outcomeCall
	openErr  error
	nextMsg  snowflake.ID
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{nextMsg: 1000}
}

func (n *fakeNotifier) DropOpened(time.Duration) (snowflake.ID, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.openErr != nil {
		return 0, n.openErr
	}
	n.opened++
	n.nextMsg++
	return n.nextMsg, nil
}

func (n *fakeNotifier) DropTimedOut() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.timeouts++
}

func (n *fakeNotifier) AwardWon(name string, delta, total int, level string, special bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.awards = append(n.awards, awardCall{name, delta, total, level, special})
}

func (n *fakeNotifier) ClaimOutcome(message snowflake.ID, outcome Outcome) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.outcomes = append(n.outcomes, outcomeCall{message, outcome})
}

func (n *fakeNotifier) openCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.opened
}

func (n *fakeNotifier) timeoutCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.timeouts
}

func (n *fakeNotifier) awardCalls() []awardCall {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]awardCall, len(n.awards))
	copy(out, n.awards)
	return out
}

type fakePersister struct {
	mu    sync.Mutex
	saves int
	last  Snapshot
	err   error
}

func (p *fakePersister) Save(_ context.Context, snap Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.saves++
	p.last = snap
	return nil
}

func (p *fakePersister) saveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saves
}

func (p *fakePersister) lastSnapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}
