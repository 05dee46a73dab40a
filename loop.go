package instanced

// FrameRenderer draws one frame. *Presenter implements it.
type FrameRenderer interface {
	RenderFrame() error
}

// Loop is the frame loop: poll events, then render, until the running
// flag is cleared.
type Loop struct {
	source   EventSource
	driver   *Driver
	renderer FrameRenderer
}

// NewLoop builds a loop that polls source and renders with r.
func NewLoop(source EventSource, running *RunningFlag, r FrameRenderer) *Loop {
	return &Loop{
		source:   source,
		driver:   NewDriver(running),
		renderer: r,
	}
}

// Driver returns the event driver owned by the loop.
func (l *Loop) Driver() *Driver { return l.driver }

// Run iterates until the running flag is cleared or a frame fails. A frame
// is never acquired after the iteration that saw a close request.
func (l *Loop) Run() error {
	slogger().Info("frame loop started")
	var iterations uint64
	for l.driver.Running() {
		l.driver.Poll(l.source)
		if !l.driver.Running() {
			break
		}
		if err := l.renderer.RenderFrame(); err != nil {
			slogger().Error("frame failed", "frame", iterations, "err", err)
			return err
		}
		iterations++
	}
	slogger().Info("frame loop stopped", "frames", iterations, "events", l.driver.Events())
	return nil
}
