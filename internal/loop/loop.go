// Package loop drives the field: a fixed-rate frame scheduler and the terminal
// session that wires input, page scroll, resize and rendering around a field.
package loop

import (
	"context"
	"errors"
	"time"
)

// ErrStop is returned by a FrameFunc to end the loop without an error.
var ErrStop = errors.New("stop loop")

// FrameFunc runs one frame. delta is the time since the previous frame.
type FrameFunc func(delta time.Duration) error

// Driver calls a FrameFunc at a fixed rate until the context is cancelled or
// the func returns an error. It is the repeating timer the field relies on.
type Driver struct {
	FrameTime time.Duration
}

// Run blocks until ctx is done (returns nil), the frame returns ErrStop (returns nil)
// or the frame fails (returns the error).
func (d Driver) Run(ctx context.Context, frame FrameFunc) error {
	frameTime := d.FrameTime
	if frameTime <= 0 {
		frameTime = time.Second / 60
	}
	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	lastTime := time.Now()
	for ctx.Err() == nil {
		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		if err := frame(delta); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
	return nil
}
