// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !linux && !freebsd && !netbsd && !openbsd && !windows

package glfwwindow

import (
	"errors"
	"runtime"
)

// ErrUnsupportedPlatform is returned where a surface needs more than GLFW
// exposes, such as the CAMetalLayer required on macOS.
var ErrUnsupportedPlatform = errors.New("glfwwindow: surface handles not available on " + runtime.GOOS)

// SurfaceHandles always fails on this platform.
func (w *Window) SurfaceHandles() (display, window uintptr, err error) {
	return 0, 0, ErrUnsupportedPlatform
}
