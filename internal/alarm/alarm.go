// Package alarm provides site-local time and recurring callbacks.
//
// Services never read the wall clock directly; they ask a Service, so tests
// can drive time with Manual.
package alarm

import (
	"fmt"
	"sync"
	"time"
)

// Service is the time source of the auction site
type Service interface {
	// Now returns the current instant expressed in a UTC offset of tz hours
	Now(tz int) time.Time
	// ScheduleRecurring calls fn every interval until cancel is called.
	// cancel is idempotent.
	ScheduleRecurring(interval time.Duration, fn func()) (cancel func())
}

// Zone returns the fixed zone for a UTC offset in whole hours
func Zone(tz int) *time.Location {
	if tz == 0 {
		return time.UTC
	}
	return time.FixedZone(fmt.Sprintf("UTC%+d", tz), tz*int(time.Hour/time.Second))
}

// System is the wall-clock Service. Each schedule runs on its own ticker
// goroutine.
type System struct{}

// NewSystem returns the wall-clock alarm service
func NewSystem() *System {
	return &System{}
}

func (System) Now(tz int) time.Time {
	return time.Now().In(Zone(tz))
}

func (System) ScheduleRecurring(interval time.Duration, fn func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}

type schedule struct {
	id       int64
	interval time.Duration
	next     time.Time
	fn       func()
}

// Manual is a deterministic Service for tests. Time only moves on Advance,
// which runs due callbacks synchronously on the calling goroutine.
type Manual struct {
	mu        sync.Mutex
	now       time.Time
	seq       int64
	schedules map[int64]*schedule
}

// NewManual returns a manual clock stopped at start
func NewManual(start time.Time) *Manual {
	return &Manual{now: start, schedules: make(map[int64]*schedule)}
}

func (m *Manual) Now(tz int) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now.In(Zone(tz))
}

func (m *Manual) ScheduleRecurring(interval time.Duration, fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	id := m.seq
	m.schedules[id] = &schedule{id: id, interval: interval, next: m.now.Add(interval), fn: fn}

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.schedules, id)
	}
}

// Scheduled returns the number of active schedules
func (m *Manual) Scheduled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.schedules)
}

// Set moves the clock to t without firing callbacks
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// Advance moves the clock forward by d, firing every callback that falls
// due in order of due time. Callbacks run without the clock's lock held and
// may call back into the Manual.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		due := m.nextDue(target)
		if due == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = due.next
		due.next = due.next.Add(due.interval)
		fn := due.fn
		m.mu.Unlock()

		fn()
	}
}

func (m *Manual) nextDue(target time.Time) *schedule {
	var due *schedule
	for _, s := range m.schedules {
		if s.next.After(target) {
			continue
		}
		if due == nil || s.next.Before(due.next) || (s.next.Equal(due.next) && s.id < due.id) {
			due = s
		}
	}
	return due
}
