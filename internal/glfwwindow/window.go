// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package glfwwindow provides an instanced.Window backed by GLFW.
//
// GLFW must be driven from the main OS thread: call Open, PollEvents and
// Close only from a goroutine locked with runtime.LockOSThread in init.
package glfwwindow

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/instanced"
)

// Window is a GLFW window without a client API, ready for a HAL surface.
type Window struct {
	glw        *glfw.Window
	pending    []instanced.Event
	delivering []instanced.Event
}

var _ instanced.Window = (*Window)(nil)

// Open initializes GLFW and creates a window of the given logical size.
func Open(title string, width, height int) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glw, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glfw create window: %w", err)
	}

	w := &Window{glw: glw}
	glw.SetCloseCallback(func(*glfw.Window) {
		w.push(instanced.CloseRequested{})
	})
	glw.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		w.push(keyEvent(key, action, mods))
	})
	glw.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		w.push(instanced.Resized{Width: width, Height: height})
	})
	glw.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		w.push(instanced.FocusChanged{Focused: focused})
	})

	instanced.Logger().Info("window opened", "title", title, "width", width, "height", height)
	return w, nil
}

func (w *Window) push(ev instanced.Event) {
	w.pending = append(w.pending, ev)
}

// PollEvents processes pending GLFW events and hands them to fn in arrival
// order. It never blocks.
func (w *Window) PollEvents(fn func(instanced.Event)) {
	glfw.PollEvents()
	w.drain(fn)
}

// drain hands out the queued events. Events pushed while fn runs are kept
// for the next drain; the two buffers swap so neither overwrites the other.
func (w *Window) drain(fn func(instanced.Event)) {
	events := w.pending
	w.pending, w.delivering = w.delivering[:0], nil
	for _, ev := range events {
		fn(ev)
	}
	w.delivering = events[:0]
}

// Size returns the window size in logical points.
func (w *Window) Size() (width, height int) {
	return w.glw.GetSize()
}

// ScaleFactor returns the horizontal content scale of the window.
func (w *Window) ScaleFactor() float64 {
	x, _ := w.glw.GetContentScale()
	if x <= 0 {
		return 1
	}
	return float64(x)
}

// RequestRedraw wakes a blocked event wait. The render loop is continuous,
// so this only matters to callers waiting on GLFW.
func (w *Window) RequestRedraw() {
	glfw.PostEmptyEvent()
}

// Close destroys the window and terminates GLFW.
func (w *Window) Close() {
	if w.glw == nil {
		return
	}
	w.glw.Destroy()
	w.glw = nil
	glfw.Terminate()
}
