// Package spatial exposes the room-scanning state the training core is gated on.
package spatial

import (
	"fmt"
	"sync"

	"github.com/zeusync/artrainer/internal/core/events"
	"github.com/zeusync/artrainer/internal/core/events/bus"
	"github.com/zeusync/artrainer/internal/core/observability/log"
)

type ScanState uint8

const (
	ScanNone ScanState = iota
	ScanReadyToScan
	ScanScanning
	ScanFinishing
	ScanDone
)

func (s ScanState) String() string {
	switch s {
	case ScanNone:
		return "none"
	case ScanReadyToScan:
		return "ready_to_scan"
	case ScanScanning:
		return "scanning"
	case ScanFinishing:
		return "finishing"
	case ScanDone:
		return "done"
	default:
		return fmt.Sprintf("ScanState(%d)", uint8(s))
	}
}

// Understanding is the read-only view of the scanning subsystem.
type Understanding interface {
	Allowed() bool
	ScanState() ScanState
}

// Tracker is an in-memory scanning state machine for shells without a native scanner.
// The scanner drives it through Start, SetReady and Complete; a click while the scan is
// ready requests finalisation. Update publishes scan_done exactly once.
type Tracker struct {
	mu        sync.Mutex
	allowed   bool
	state     ScanState
	ready     bool
	published bool

	bus    bus.EventBus
	click  bus.Subscription
	logger log.Log
}

var _ Understanding = (*Tracker)(nil)

func NewTracker(eb bus.EventBus, logger log.Log) *Tracker {
	return &Tracker{allowed: true, state: ScanReadyToScan, bus: eb, logger: logger.Named("spatial")}
}

func (t *Tracker) Allowed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.allowed
}

func (t *Tracker) SetAllowed(allowed bool) {
	t.mu.Lock()
	t.allowed = allowed
	t.mu.Unlock()
}

func (t *Tracker) ScanState() ScanState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Start begins scanning and listens for the finalising click.
func (t *Tracker) Start() error {
	t.mu.Lock()
	if t.state != ScanReadyToScan {
		state := t.state
		t.mu.Unlock()
		return fmt.Errorf("spatial: cannot start scan from %s", state)
	}
	t.state = ScanScanning
	t.mu.Unlock()

	sub, err := t.bus.Subscribe(events.Click, func(bus.Event) error {
		t.RequestFinish()
		return nil
	})
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.click = sub
	t.mu.Unlock()
	t.logger.Info("scan started")
	return nil
}

// SetReady records whether the scanner considers the playspace complete enough to finalise.
func (t *Tracker) SetReady(ready bool) {
	t.mu.Lock()
	t.ready = ready
	t.mu.Unlock()
}

// RequestFinish moves a ready scan to Finishing. It reports whether the request was taken.
func (t *Tracker) RequestFinish() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.allowed || !t.ready || t.state != ScanScanning {
		return false
	}
	t.state = ScanFinishing
	t.logger.Info("finalizing scan")
	return true
}

// Complete marks the scanner's finalisation as done.
func (t *Tracker) Complete() {
	t.mu.Lock()
	if t.state == ScanFinishing {
		t.state = ScanDone
	}
	t.mu.Unlock()
}

func (t *Tracker) Name() string { return "spatial" }

// Update publishes scan_done the first time the scan is observed Done.
func (t *Tracker) Update(float64) error {
	t.mu.Lock()
	if t.state != ScanDone || t.published {
		t.mu.Unlock()
		return nil
	}
	t.published = true
	click := t.click
	t.click = nil
	t.mu.Unlock()

	if err := t.bus.Unsubscribe(click); err != nil {
		return err
	}
	t.logger.Info("scan done")
	return t.bus.Publish(bus.NewEvent(events.ScanDone, events.SourceScanner, nil))
}
