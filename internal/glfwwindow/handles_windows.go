// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build windows

package glfwwindow

import "unsafe"

// SurfaceHandles returns a zero HINSTANCE, which backends replace with the
// current module handle, and the window's HWND.
func (w *Window) SurfaceHandles() (display, window uintptr, err error) {
	return 0, uintptr(unsafe.Pointer(w.glw.GetWin32Window())), nil
}
