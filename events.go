package instanced

import (
	"fmt"

	"github.com/gogpu/gpucontext"
)

// Event is a window event delivered by an EventSource. The concrete types
// are CloseRequested, KeyEvent, Resized and FocusChanged; sources may
// deliver other types, which the driver ignores.
type Event interface {
	isEvent()
}

// CloseRequested is delivered when the user asks to close the window.
type CloseRequested struct{}

// KeyEvent is a keyboard key press or release.
type KeyEvent struct {
	Key     gpucontext.Key
	Mods    gpucontext.Modifiers
	Pressed bool
}

// Resized reports a new window size in logical pixels.
type Resized struct {
	Width, Height int
}

// FocusChanged reports that the window gained or lost input focus.
type FocusChanged struct {
	Focused bool
}

func (CloseRequested) isEvent() {}
func (KeyEvent) isEvent()       {}
func (Resized) isEvent()        {}
func (FocusChanged) isEvent()   {}

func (CloseRequested) String() string { return "CloseRequested" }

func (e KeyEvent) String() string {
	action := "released"
	if e.Pressed {
		action = "pressed"
	}
	return fmt.Sprintf("Key(%d %s mods=%d)", e.Key, action, e.Mods)
}

func (e Resized) String() string { return fmt.Sprintf("Resized(%dx%d)", e.Width, e.Height) }

func (e FocusChanged) String() string { return fmt.Sprintf("FocusChanged(%t)", e.Focused) }

// EventSource delivers pending window events.
type EventSource interface {
	// PollEvents hands every queued event to fn in arrival order and
	// returns without blocking once the queue is empty.
	PollEvents(fn func(Event))
}

// RunningFlag is the loop's single piece of mutable control state. It
// starts true and Stop is the only way to clear it.
type RunningFlag struct {
	stopped bool
}

// NewRunningFlag returns a flag in the running state.
func NewRunningFlag() *RunningFlag { return &RunningFlag{} }

// Running reports whether the loop should keep going.
func (f *RunningFlag) Running() bool { return !f.stopped }

// Stop clears the flag. It cannot be set again.
func (f *RunningFlag) Stop() { f.stopped = true }

// Driver turns window events into updates of a RunningFlag.
type Driver struct {
	running *RunningFlag
	events  uint64
}

// NewDriver returns a driver writing to running.
func NewDriver(running *RunningFlag) *Driver {
	return &Driver{running: running}
}

// Running reports the flag the driver controls.
func (d *Driver) Running() bool { return d.running.Running() }

// Events returns the number of events handled so far.
func (d *Driver) Events() uint64 { return d.events }

// Poll drains all pending events from src.
func (d *Driver) Poll(src EventSource) {
	src.PollEvents(d.HandleEvent)
}

// HandleEvent applies a single event. A close request or a pressed Escape
// key stops the loop; anything else leaves the flag untouched.
func (d *Driver) HandleEvent(ev Event) {
	d.events++
	switch e := ev.(type) {
	case CloseRequested:
		slogger().Info("close requested")
		d.running.Stop()
	case KeyEvent:
		if e.Pressed && e.Key == gpucontext.KeyEscape {
			slogger().Info("escape pressed")
			d.running.Stop()
		}
	case Resized:
		slogger().Debug("window resized, surface unchanged", "width", e.Width, "height", e.Height)
	}
}
