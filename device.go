package instanced

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// selectBackend resolves the HAL backend the renderer runs on.
func selectBackend(o *options) (hal.Backend, error) {
	if o.halBackend != nil {
		return o.halBackend, nil
	}
	if o.backend != nil {
		backend, ok := hal.GetBackend(*o.backend)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrBackendUnavailable, *o.backend)
		}
		return backend, nil
	}
	backend, err := hal.SelectBestBackend()
	if err != nil {
		if errors.Is(err, hal.ErrBackendNotFound) {
			return nil, fmt.Errorf("%w: import github.com/gogpu/wgpu/hal/allbackends", ErrBackendUnavailable)
		}
		return nil, err
	}
	return backend, nil
}

// selectAdapter picks the adapter matching the power preference. Integrated
// GPUs count as low power and discrete GPUs as high performance; any GPU
// beats a software or unknown adapter, and the first adapter is the last
// resort.
func selectAdapter(adapters []hal.ExposedAdapter, power gputypes.PowerPreference) (*hal.ExposedAdapter, error) {
	if len(adapters) == 0 {
		return nil, ErrNoAdapter
	}
	var preferred gputypes.DeviceType
	switch power {
	case gputypes.PowerPreferenceLowPower:
		preferred = gputypes.DeviceTypeIntegratedGPU
	case gputypes.PowerPreferenceHighPerformance:
		preferred = gputypes.DeviceTypeDiscreteGPU
	}

	var gpu *hal.ExposedAdapter
	for i := range adapters {
		t := adapters[i].Info.DeviceType
		if power != gputypes.PowerPreferenceNone && t == preferred {
			return &adapters[i], nil
		}
		if gpu == nil && (t == gputypes.DeviceTypeDiscreteGPU || t == gputypes.DeviceTypeIntegratedGPU) {
			gpu = &adapters[i]
		}
	}
	if gpu != nil {
		return gpu, nil
	}
	return &adapters[0], nil
}

// gpuDevice is the instance, surface and device the renderer owns.
type gpuDevice struct {
	instance hal.Instance
	surface  hal.Surface
	adapter  hal.Adapter
	info     gputypes.AdapterInfo
	device   hal.Device
	queue    hal.Queue
}

// openDevice creates the instance and surface, then opens a device on the
// adapter chosen by o.power. On failure everything created is released.
func openDevice(backend hal.Backend, win Window, o *options) (*gpuDevice, error) {
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	g := &gpuDevice{instance: instance}

	display, window, err := win.SurfaceHandles()
	if err != nil {
		g.destroy()
		return nil, fmt.Errorf("window handles: %w", err)
	}
	surface, err := instance.CreateSurface(display, window)
	if err != nil {
		g.destroy()
		return nil, fmt.Errorf("create surface: %w", err)
	}
	g.surface = surface

	selected, err := selectAdapter(instance.EnumerateAdapters(surface), o.power)
	if err != nil {
		g.destroy()
		return nil, err
	}
	g.adapter = selected.Adapter
	g.info = selected.Info

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		g.destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}
	g.device = openDev.Device
	g.queue = openDev.Queue

	slogger().Info("GPU device opened",
		"adapter", selected.Info.Name,
		"type", selected.Info.DeviceType,
		"backend", selected.Info.Backend,
		"power", o.power,
	)
	return g, nil
}

// configureSurface sizes the surface to the window's physical pixels and
// applies the format and present mode. The format falls back to the
// adapter's first supported format if the requested one is not offered.
func (g *gpuDevice) configureSurface(win Window, o *options) (gputypes.TextureFormat, error) {
	format := o.format
	if caps := g.adapter.SurfaceCapabilities(g.surface); caps != nil && len(caps.Formats) > 0 {
		if !containsFormat(caps.Formats, format) {
			slogger().Warn("surface format not supported, using adapter default",
				"requested", format, "using", caps.Formats[0])
			format = caps.Formats[0]
		}
	}
	width, height := framebufferSize(win)
	err := g.surface.Configure(g.device, &hal.SurfaceConfiguration{
		Width:       width,
		Height:      height,
		Format:      format,
		Usage:       gputypes.TextureUsageRenderAttachment,
		PresentMode: o.presentMode,
		AlphaMode:   gputypes.CompositeAlphaModeOpaque,
	})
	if err != nil {
		return format, fmt.Errorf("configure surface: %w", err)
	}
	slogger().Debug("surface configured",
		"width", width, "height", height,
		"format", format, "present_mode", o.presentMode,
	)
	return format, nil
}

func containsFormat(formats []gputypes.TextureFormat, f gputypes.TextureFormat) bool {
	for _, x := range formats {
		if x == f {
			return true
		}
	}
	return false
}

// destroy releases the device, surface and instance in that order.
func (g *gpuDevice) destroy() {
	if g.device != nil {
		if g.surface != nil {
			g.surface.Unconfigure(g.device)
		}
		g.device.Destroy()
		g.device = nil
		g.queue = nil
	}
	if g.surface != nil {
		g.surface.Destroy()
		g.surface = nil
	}
	if g.adapter != nil {
		g.adapter.Destroy()
		g.adapter = nil
	}
	if g.instance != nil {
		g.instance.Destroy()
		g.instance = nil
	}
}
