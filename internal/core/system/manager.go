package system

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/zeusync/artrainer/internal/core/observability/log"
)

var ErrDuplicateSystem = errors.New("system: already registered")

// LoopMetrics provides loop statistics
type LoopMetrics struct {
	RegisteredSystems uint32
	Ticks             uint64
	TotalUpdateTime   time.Duration
	AverageUpdateTime time.Duration
	SystemErrorCount  map[string]uint64
	LastUpdateTime    time.Time
}

type entry struct {
	system   System
	priority Priority
	seq      uint64
	metrics  Metrics
}

// Loop runs registered systems in priority order at a fixed tick rate. Systems run on the
// loop goroutine only; registration is safe from any goroutine.
type Loop struct {
	mu      sync.Mutex
	entries []*entry
	seq     uint64

	tickRate time.Duration
	ticks    uint64
	total    time.Duration
	last     time.Time

	onError func(name string, err error)
	logger  log.Log
}

func NewLoop(tickRate time.Duration, logger log.Log) *Loop {
	if tickRate <= 0 {
		tickRate = time.Second / 60
	}
	return &Loop{tickRate: tickRate, logger: logger.Named("loop")}
}

func (l *Loop) TickRate() time.Duration { return l.tickRate }

// OnSystemError installs a callback invoked after a system's Update fails.
func (l *Loop) OnSystemError(fn func(name string, err error)) {
	l.mu.Lock()
	l.onError = fn
	l.mu.Unlock()
}

func (l *Loop) RegisterSystem(s System, priority Priority) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.system.Name() == s.Name() {
			return fmt.Errorf("%w: %s", ErrDuplicateSystem, s.Name())
		}
	}
	l.seq++
	l.entries = append(l.entries, &entry{system: s, priority: priority, seq: l.seq})
	slices.SortStableFunc(l.entries, func(a, b *entry) int {
		if a.priority != b.priority {
			return cmp.Compare(b.priority, a.priority)
		}
		return cmp.Compare(a.seq, b.seq)
	})
	return nil
}

func (l *Loop) UnregisterSystem(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := slices.IndexFunc(l.entries, func(e *entry) bool { return e.system.Name() == name })
	if i < 0 {
		return false
	}
	l.entries = slices.Delete(l.entries, i, i+1)
	return true
}

func (l *Loop) GetExecutionOrder() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	names := make([]string, len(l.entries))
	for i, e := range l.entries {
		names[i] = e.system.Name()
	}
	return names
}

// Step runs one tick. Every system runs even if an earlier one failed; failures are logged
// and returned joined.
func (l *Loop) Step(deltaTime float64) error {
	l.mu.Lock()
	entries := slices.Clone(l.entries)
	onError := l.onError
	l.mu.Unlock()

	start := time.Now()
	var errs []error
	for _, e := range entries {
		began := time.Now()
		err := e.system.Update(deltaTime)
		l.mu.Lock()
		e.metrics.record(time.Since(began), err, began)
		l.mu.Unlock()
		if err != nil {
			l.logger.Warn("system update failed", log.String("system", e.system.Name()), log.Error(err))
			if onError != nil {
				onError(e.system.Name(), err)
			}
			errs = append(errs, fmt.Errorf("%s: %w", e.system.Name(), err))
		}
	}

	l.mu.Lock()
	l.ticks++
	l.total += time.Since(start)
	l.last = start
	l.mu.Unlock()
	return errors.Join(errs...)
}

// Run ticks until ctx is done. Delta is the measured wall time since the previous tick.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.tickRate)
	defer ticker.Stop()

	l.logger.Info("loop started", log.Duration("tick_rate", l.tickRate))
	prev := time.Now()
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("loop stopped", log.Uint64("ticks", l.Metrics().Ticks))
			return ctx.Err()
		case now := <-ticker.C:
			delta := now.Sub(prev).Seconds()
			prev = now
			_ = l.Step(delta)
		}
	}
}

// RunUntil ticks until done reports true or ctx is cancelled.
func (l *Loop) RunUntil(ctx context.Context, done func() bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ticker := time.NewTicker(l.tickRate)
	defer ticker.Stop()

	prev := time.Now()
	for !done() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			_ = l.Step(now.Sub(prev).Seconds())
			prev = now
		}
	}
	return nil
}

func (l *Loop) Metrics() LoopMetrics {
	l.mu.Lock()
	defer l.mu.Unlock()
	m := LoopMetrics{
		RegisteredSystems: uint32(len(l.entries)),
		Ticks:             l.ticks,
		TotalUpdateTime:   l.total,
		LastUpdateTime:    l.last,
		SystemErrorCount:  make(map[string]uint64, len(l.entries)),
	}
	if l.ticks > 0 {
		m.AverageUpdateTime = l.total / time.Duration(l.ticks)
	}
	for _, e := range l.entries {
		m.SystemErrorCount[e.system.Name()] = e.metrics.ErrorCount
	}
	return m
}

func (l *Loop) SystemMetrics(name string) (Metrics, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.system.Name() == name {
			return e.metrics, true
		}
	}
	return Metrics{}, false
}
