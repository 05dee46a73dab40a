package instanced

import (
	"github.com/chewxy/math32"
	"github.com/gogpu/gpucontext"
)

// Window is the windowing service the renderer draws into.
type Window interface {
	gpucontext.WindowProvider
	EventSource

	// SurfaceHandles returns the platform display and window handles a HAL
	// instance needs to create a surface.
	SurfaceHandles() (display, window uintptr, err error)
}

// framebufferSize converts the window's logical size to physical pixels.
// Each dimension is at least 1.
func framebufferSize(w gpucontext.WindowProvider) (width, height uint32) {
	lw, lh := w.Size()
	scale := float32(w.ScaleFactor())
	if scale <= 0 || math32.IsNaN(scale) || math32.IsInf(scale, 0) {
		scale = 1
	}
	return physical(lw, scale), physical(lh, scale)
}

func physical(logical int, scale float32) uint32 {
	px := math32.Round(float32(logical) * scale)
	if px < 1 {
		return 1
	}
	return uint32(px)
}
