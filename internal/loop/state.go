package loop

import "time"

// region is a span of terminal cells written by the overlay during the last frame.
type region struct {
	col, row, width int
}

// SessionState holds the per-viewer state around the field: overlays, inactivity
// and the shutdown countdown. Each session has its own instance.
type SessionState struct {
	ShowHelp bool // Help overlay visible

	lastInput   time.Time // Last time the viewer pressed a key or moved the mouse
	isInactive  bool      // Inactivity warning visible
	wasInactive bool

	shuttingDown  bool
	shutdownTimer time.Duration // Countdown before auto-disconnect on shutdown

	degenerateLogged bool // Page had nothing to scroll and this was logged once

	overlay []region // Cells the overlay drew last frame; repainted by the canvas next frame
}

// NewSessionState creates a state that considers now the last input.
func NewSessionState(now time.Time) *SessionState {
	return &SessionState{lastInput: now}
}

// Inactive reports whether the inactivity warning is showing.
func (s *SessionState) Inactive() bool {
	return s.isInactive
}

// ShuttingDown reports whether the server announced a shutdown.
func (s *SessionState) ShuttingDown() bool {
	return s.shuttingDown
}

// markOverlay records cells written over the canvas.
func (s *SessionState) markOverlay(col, row, width int) {
	if width <= 0 {
		return
	}
	s.overlay = append(s.overlay, region{col: col, row: row, width: width})
}
