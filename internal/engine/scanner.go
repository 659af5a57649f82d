package engine

import (
	"github.com/zeusync/artrainer/internal/core/events"
	"github.com/zeusync/artrainer/internal/core/events/bus"
	"github.com/zeusync/artrainer/internal/core/spatial"
)

// Scanner simulates the room scan: it starts scanning, becomes ready after Duration
// seconds, clicks to finalise and completes the scan on the following tick.
type Scanner struct {
	Duration float64

	tracker *spatial.Tracker
	bus     bus.EventBus
	elapsed float64
	clicked bool
}

func NewScanner(tracker *spatial.Tracker, eb bus.EventBus, duration float64) *Scanner {
	return &Scanner{Duration: duration, tracker: tracker, bus: eb}
}

func (s *Scanner) Name() string { return "scanner" }

func (s *Scanner) Update(dt float64) error {
	switch s.tracker.ScanState() {
	case spatial.ScanReadyToScan:
		return s.tracker.Start()
	case spatial.ScanScanning:
		s.elapsed += dt
		if s.elapsed < s.Duration || s.clicked {
			return nil
		}
		s.tracker.SetReady(true)
		s.clicked = true
		return s.bus.Publish(bus.NewEvent(events.Click, events.SourceClicker, nil))
	case spatial.ScanFinishing:
		s.tracker.Complete()
	}
	return nil
}
