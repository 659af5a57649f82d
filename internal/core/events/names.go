// Package events names the events exchanged between the application shell and the
// training core.
package events

// Source tags used on published events.
const (
	SourceScanner = "scanner"
	SourceClicker = "clicker"
	SourceTarget  = "target"
)

const (
	// ScanDone fires once when the spatial scan reaches the Done state.
	ScanDone = "scan_done"
	// Click is a single controller press.
	Click = "click"
	// FloorCollision fires when a launched target first touches geometry.
	FloorCollision = "floor_collision"
)
