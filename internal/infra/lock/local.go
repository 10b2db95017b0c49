package lock

import (
	"context"
	"sync"
	"time"
)

// LocalLocker блокировка дня внутри одного процесса, когда redis выключен
type LocalLocker struct {
	mu    sync.Mutex
	gates map[string]*dayGate
	wait  time.Duration
}

// dayGate семафор дня и число горутин, которые его держат или ждут
type dayGate struct {
	ch   chan struct{}
	refs int
}

func NewLocalLocker(wait time.Duration) *LocalLocker {
	return &LocalLocker{
		gates: make(map[string]*dayGate),
		wait:  wait,
	}
}

func (l *LocalLocker) WithDayLock(ctx context.Context, date time.Time, fn func(ctx context.Context) error) error {
	key := DayKey(date)
	gate := l.acquireGate(key)
	defer l.releaseGate(key, gate)

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case gate.ch <- struct{}{}:
	case <-timer.C:
		return ErrLockNotAcquired
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-gate.ch }()

	return fn(ctx)
}

func (l *LocalLocker) acquireGate(key string) *dayGate {
	l.mu.Lock()
	defer l.mu.Unlock()

	gate, ok := l.gates[key]
	if !ok {
		gate = &dayGate{ch: make(chan struct{}, 1)}
		l.gates[key] = gate
	}
	gate.refs++
	return gate
}

// releaseGate удаляет семафор дня, когда его больше никто не ждет
func (l *LocalLocker) releaseGate(key string, gate *dayGate) {
	l.mu.Lock()
	defer l.mu.Unlock()

	gate.refs--
	if gate.refs == 0 {
		delete(l.gates, key)
	}
}
