// Package instanced draws N copies of one triangle with a single instanced
// draw call, using gogpu/wgpu's HAL directly.
//
// # Overview
//
// The package is a bootstrap-style render loop. At startup it opens a GPU
// device, compiles a vertex and a fragment shader from WGSL to SPIR-V with
// gogpu/naga, uploads a three-vertex triangle and an array of per-instance
// translations, and builds one render pipeline. Every frame it acquires the
// next surface texture, records one render pass that draws vertices [0,3)
// for instances [0,N), submits it and presents.
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/instanced"
//		_ "github.com/gogpu/wgpu/hal/allbackends"
//	)
//
//	r, err := instanced.New(window,
//		instanced.WithPrimitives([]instanced.Primitive{
//			{Translate: [2]float32{0, 0}},
//			{Translate: [2]float32{1, 0}},
//		}))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer r.Close()
//
//	if err := r.Run(); err != nil {
//		log.Fatal(err)
//	}
//
// # Architecture
//
//   - Geometry: [Vertex], [UnitTriangle], [GeometryBuffer]
//   - Instances: [Primitive], [InstanceBuffer]
//   - Shaders and pipeline: [Compiler], [NagaCompiler], [PipelineConfig], [Pipeline]
//   - Frames: [Presenter]
//   - Events: [Event], [EventSource], [Driver], [RunningFlag]
//   - Bootstrap: [Renderer]
//
// # Per-instance data
//
// Translations travel through a uniform buffer, not a per-instance vertex
// attribute. The vertex buffer layout does not depend on the instance count;
// the vertex shader indexes the uniform array with the builtin instance
// index.
//
// # Threading
//
// Everything runs on one thread. Windowing systems require it to be the
// main OS thread, so programs should call runtime.LockOSThread from an init
// function.
//
// # Logging
//
// The package is silent by default. See [SetLogger].
package instanced
