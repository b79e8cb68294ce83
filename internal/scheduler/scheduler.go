// Package scheduler runs delayed callbacks that can be cancelled individually
// or all at once when their owner shuts down.
package scheduler

import (
	"sort"
	"sync"
	"time"
)

// Handle cancels one scheduled task.
type Handle interface {
	// Cancel stops the task. It returns false if the task already ran or
	// was cancelled.
	Cancel() bool
}

// Scheduler schedules fn to run once after d.
type Scheduler interface {
	After(d time.Duration, fn func()) Handle
	// CancelAll cancels every pending task. Tasks scheduled afterwards are
	// dropped.
	CancelAll()
}

// Timers is a Scheduler backed by time.AfterFunc.
type Timers struct {
	mu      sync.Mutex
	next    uint64
	pending map[uint64]*time.Timer
	closed  bool
}

// NewTimers returns an empty Timers.
func NewTimers() *Timers {
	return &Timers{pending: make(map[uint64]*time.Timer)}
}

type timerHandle struct {
	t  *Timers
	id uint64
}

func (h timerHandle) Cancel() bool {
	h.t.mu.Lock()
	defer h.t.mu.Unlock()
	timer, ok := h.t.pending[h.id]
	if !ok {
		return false
	}
	delete(h.t.pending, h.id)
	// A callback already in flight sees the missing entry and skips fn.
	timer.Stop()
	return true
}

type noopHandle struct{}

func (noopHandle) Cancel() bool { return false }

func (t *Timers) After(d time.Duration, fn func()) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return noopHandle{}
	}
	t.next++
	id := t.next
	t.pending[id] = time.AfterFunc(d, func() {
		t.mu.Lock()
		_, ok := t.pending[id]
		delete(t.pending, id)
		t.mu.Unlock()
		if ok {
			fn()
		}
	})
	return timerHandle{t: t, id: id}
}

func (t *Timers) CancelAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, timer := range t.pending {
		timer.Stop()
		delete(t.pending, id)
	}
	t.closed = true
}

// Pending returns the number of tasks not yet run or cancelled.
func (t *Timers) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

// Manual is a Scheduler driven by Advance, for deterministic tests and
// replay tooling.
type Manual struct {
	mu     sync.Mutex
	now    time.Duration
	seq    uint64
	tasks  []*manualTask
	closed bool
}

type manualTask struct {
	m        *Manual
	at       time.Duration
	seq      uint64
	fn       func()
	finished bool
}

// NewManual returns a Manual scheduler at virtual time zero.
func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) After(d time.Duration, fn func()) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return noopHandle{}
	}
	m.seq++
	task := &manualTask{m: m, at: m.now + d, seq: m.seq, fn: fn}
	m.tasks = append(m.tasks, task)
	return task
}

func (task *manualTask) Cancel() bool {
	task.m.mu.Lock()
	defer task.m.mu.Unlock()
	if task.finished {
		return false
	}
	task.finished = true
	return true
}

func (m *Manual) CancelAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, task := range m.tasks {
		task.finished = true
	}
	m.tasks = nil
	m.closed = true
}

// Advance moves virtual time forward by d and runs every task that became
// due, in due order. Callbacks run without the scheduler lock held.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now += d
	now := m.now
	m.mu.Unlock()

	for {
		m.mu.Lock()
		sort.SliceStable(m.tasks, func(i, j int) bool {
			if m.tasks[i].at == m.tasks[j].at {
				return m.tasks[i].seq < m.tasks[j].seq
			}
			return m.tasks[i].at < m.tasks[j].at
		})
		var due *manualTask
		for len(m.tasks) > 0 {
			head := m.tasks[0]
			if head.finished {
				m.tasks = m.tasks[1:]
				continue
			}
			if head.at <= now {
				due = head
				due.finished = true
				m.tasks = m.tasks[1:]
			}
			break
		}
		m.mu.Unlock()
		if due == nil {
			return
		}
		due.fn()
	}
}

// Pending returns the number of tasks not yet run or cancelled.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, task := range m.tasks {
		if !task.finished {
			n++
		}
	}
	return n
}
