// Copyright (c) 2024, The tiny-wgpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tinywgpu

import (
	"log/slog"
	"math"

	"cogentcore.org/core/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// Debug enables additional logging of GPU initialization and
// resource registration.
var Debug = false

// Compute owns the WebGPU instance, adapter, device and queue.
// It is created once and shared by reference across any number of
// [Program] registries. The handles can be read from multiple
// goroutines; synchronization of actual GPU work is handled by the
// WebGPU implementation itself, not by this layer.
type Compute struct {

	// Instance is the top-level WebGPU instance.
	Instance *wgpu.Instance

	// Adapter is the physical GPU selected for this context.
	Adapter *wgpu.Adapter

	// Device is the logical device, used to create all resources.
	Device *wgpu.Device

	// Queue is the command submission queue for Device.
	Queue *wgpu.Queue

	// Limits are the device limits that were requested at init.
	Limits wgpu.Limits
}

// NewCompute creates a new WebGPU instance, requests an adapter and
// a device with elevated storage buffer limits, and returns the
// resulting context. Each call produces fully independent handles:
// nothing is cached across calls. Fails if no suitable adapter or
// device is available. Call [Compute.Release] when done.
func NewCompute() (*Compute, error) {
	cp := &Compute{}
	cp.Instance = wgpu.CreateInstance(nil)
	adapter, err := cp.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if errors.Log(err) != nil {
		cp.Release()
		return nil, err
	}
	cp.Adapter = adapter

	limits := wgpu.DefaultLimits()
	limits.MaxStorageBuffersPerShaderStage = 10
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "tinywgpu",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: limits,
		},
	})
	if errors.Log(err) != nil {
		cp.Release()
		return nil, err
	}
	cp.Device = device
	cp.Queue = device.GetQueue()
	cp.Limits = limits
	if Debug {
		slog.Info("tinywgpu: device initialized")
	}
	return cp, nil
}

// WaitDone waits until the device is done with all submitted work.
func (cp *Compute) WaitDone() {
	cp.Device.Poll(true, nil)
}

// Release releases the queue, device, adapter and instance,
// in that order. The Compute is unusable afterward.
func (cp *Compute) Release() {
	if cp.Queue != nil {
		cp.Queue.Release()
		cp.Queue = nil
	}
	if cp.Device != nil {
		cp.Device.Release()
		cp.Device = nil
	}
	if cp.Adapter != nil {
		cp.Adapter.Release()
		cp.Adapter = nil
	}
	if cp.Instance != nil {
		cp.Instance.Release()
		cp.Instance = nil
	}
}

// Warps returns the number of workgroups sufficient to compute
// n elements with given number of threads per workgroup:
// Ceil(n / threads).
func Warps(n, threads int) int {
	return int(math.Ceil(float64(n) / float64(threads)))
}
