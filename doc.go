// Copyright (c) 2024, The tiny-wgpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tinywgpu is a thin convenience layer over WebGPU,
// via the github.com/cogentcore/webgpu bindings.
//
// It has two parts: [Compute], which owns the WebGPU instance, adapter,
// device and queue, and [Program], a label-keyed registry of GPU
// resources (shader modules, buffers, textures, samplers, bind groups,
// pipeline layouts, and render / compute pipelines) built on a shared
// Compute context.
//
// All Add* methods forward their arguments directly to the corresponding
// WebGPU constructor and store the result under the given label.
// Resources that reference other resources (bind groups, pipeline
// layouts, pipelines, staging buffers) look up the referenced labels at
// build time, so everything a resource depends on must be registered
// before it. Command encoding and submission are not wrapped: use the
// Device and Queue on [Compute] directly, as the examples do.
package tinywgpu
