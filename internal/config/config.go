// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package config loads the YAML scene file read by cmd/instanced.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/instanced"
	"gopkg.in/yaml.v3"
)

// Scene is the on-disk description of a window and the instances drawn in
// it. Zero values are filled from Default by Normalize.
type Scene struct {
	Title           string      `yaml:"title"`
	Width           int         `yaml:"width"`
	Height          int         `yaml:"height"`
	ClearColor      *[4]float64 `yaml:"clearColor,omitempty"`
	FillColor       *[4]float64 `yaml:"fillColor,omitempty"`
	PresentMode     string      `yaml:"presentMode,omitempty"`
	PowerPreference string      `yaml:"powerPreference,omitempty"`
	Backend         string      `yaml:"backend,omitempty"`
	Primitives      []Primitive `yaml:"primitives"`
}

// Primitive is one instance entry.
type Primitive struct {
	Translate [2]float32 `yaml:"translate"`
}

// Default returns the scene drawn when no file is given: an 800x600 window
// with two side-by-side triangles on green.
func Default() Scene {
	green := [4]float64{0, 1, 0, 1}
	return Scene{
		Title:           "instanced",
		Width:           800,
		Height:          600,
		ClearColor:      &green,
		PresentMode:     "fifo",
		PowerPreference: "low-power",
		Backend:         "auto",
		Primitives: []Primitive{
			{Translate: [2]float32{0, 0}},
			{Translate: [2]float32{1, 0}},
		},
	}
}

// Normalize fills unset fields from Default. A missing primitive list gets
// the default instances; an explicitly empty one is left for Validate to
// reject.
func (s *Scene) Normalize() {
	def := Default()
	if s.Title == "" {
		s.Title = def.Title
	}
	if s.Width == 0 {
		s.Width = def.Width
	}
	if s.Height == 0 {
		s.Height = def.Height
	}
	if s.ClearColor == nil {
		s.ClearColor = def.ClearColor
	}
	if s.PresentMode == "" {
		s.PresentMode = def.PresentMode
	}
	if s.PowerPreference == "" {
		s.PowerPreference = def.PowerPreference
	}
	if s.Backend == "" {
		s.Backend = def.Backend
	}
	if s.Primitives == nil {
		s.Primitives = def.Primitives
	}
}

// Validate reports the first problem in the scene.
func (s *Scene) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", s.Width, s.Height)
	}
	if _, err := ParsePresentMode(s.PresentMode); err != nil {
		return err
	}
	if _, err := ParsePowerPreference(s.PowerPreference); err != nil {
		return err
	}
	if _, _, err := ParseBackend(s.Backend); err != nil {
		return err
	}
	if err := instanced.ValidatePrimitives(s.primitives()); err != nil {
		return err
	}
	return nil
}

func (s *Scene) primitives() []instanced.Primitive {
	prims := make([]instanced.Primitive, len(s.Primitives))
	for i, p := range s.Primitives {
		prims[i] = instanced.Primitive{Translate: p.Translate}
	}
	return prims
}

// Options converts the scene into renderer options. The scene must have
// passed Validate.
func (s *Scene) Options() []instanced.Option {
	opts := []instanced.Option{
		instanced.WithPrimitives(s.primitives()),
	}
	if s.ClearColor != nil {
		opts = append(opts, instanced.WithClearColor(color(*s.ClearColor)))
	}
	if s.FillColor != nil {
		opts = append(opts, instanced.WithFillColor(color(*s.FillColor)))
	}
	if m, err := ParsePresentMode(s.PresentMode); err == nil {
		opts = append(opts, instanced.WithPresentMode(m))
	}
	if p, err := ParsePowerPreference(s.PowerPreference); err == nil {
		opts = append(opts, instanced.WithPowerPreference(p))
	}
	if b, auto, err := ParseBackend(s.Backend); err == nil && !auto {
		opts = append(opts, instanced.WithBackend(b))
	}
	return opts
}

func color(c [4]float64) gputypes.Color {
	return gputypes.Color{R: c[0], G: c[1], B: c[2], A: c[3]}
}

// Parse decodes, normalizes and validates a scene. Unknown keys are errors.
func Parse(data []byte) (Scene, error) {
	var s Scene
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Scene{}, fmt.Errorf("parse scene: %w", err)
	}
	s.Normalize()
	if err := s.Validate(); err != nil {
		return Scene{}, fmt.Errorf("invalid scene: %w", err)
	}
	return s, nil
}

// Load reads a scene file.
func Load(path string) (Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scene{}, fmt.Errorf("read scene: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return Scene{}, fmt.Errorf("%s: %w", path, err)
	}
	instanced.Logger().Debug("scene loaded", "path", path, "instances", len(s.Primitives))
	return s, nil
}

// Save writes s as YAML, replacing any existing file.
func Save(path string, s Scene) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create scene: %w", err)
	}
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode scene: %w", err)
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode scene: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close scene: %w", err)
	}
	return nil
}

// ParsePresentMode maps a scene present mode name to its gputypes value.
func ParsePresentMode(name string) (gputypes.PresentMode, error) {
	switch strings.ToLower(name) {
	case "fifo", "vsync":
		return gputypes.PresentModeFifo, nil
	case "fifo-relaxed":
		return gputypes.PresentModeFifoRelaxed, nil
	case "immediate":
		return gputypes.PresentModeImmediate, nil
	case "mailbox":
		return gputypes.PresentModeMailbox, nil
	}
	return gputypes.PresentModeUndefined, fmt.Errorf("unknown present mode %q", name)
}

// ParsePowerPreference maps a scene power preference name.
func ParsePowerPreference(name string) (gputypes.PowerPreference, error) {
	switch strings.ToLower(name) {
	case "none", "default":
		return gputypes.PowerPreferenceNone, nil
	case "low-power", "low":
		return gputypes.PowerPreferenceLowPower, nil
	case "high-performance", "high":
		return gputypes.PowerPreferenceHighPerformance, nil
	}
	return gputypes.PowerPreferenceNone, fmt.Errorf("unknown power preference %q", name)
}

// ParseBackend maps a scene backend name. "auto" reports auto=true and lets
// the renderer pick the best registered backend.
func ParseBackend(name string) (b gputypes.Backend, auto bool, err error) {
	switch strings.ToLower(name) {
	case "auto":
		return gputypes.BackendEmpty, true, nil
	case "noop", "empty":
		return gputypes.BackendEmpty, false, nil
	case "vulkan":
		return gputypes.BackendVulkan, false, nil
	case "metal":
		return gputypes.BackendMetal, false, nil
	case "dx12":
		return gputypes.BackendDX12, false, nil
	case "gl", "gles":
		return gputypes.BackendGL, false, nil
	}
	return gputypes.BackendEmpty, false, fmt.Errorf("unknown backend %q", name)
}
