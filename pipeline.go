// Copyright (c) 2024, The tiny-wgpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tinywgpu

import (
	"log/slog"

	"cogentcore.org/core/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// AddPipelineLayout builds a pipeline layout over the bind group
// layouts registered under the given labels, in order, and
// registers it under label. Every referenced bind group must
// already be registered.
//
// Note: push constant ranges are not supported by WebGPU,
// so there is no equivalent of the native push constant layout here.
func (pg *Program) AddPipelineLayout(label string, bindGroups ...string) error {
	if err := exists(pg.PipelineLayouts, "pipeline layout", label); err != nil {
		return err
	}
	var bgls []*wgpu.BindGroupLayout
	for _, bg := range bindGroups {
		bgl, err := pg.BindGroupLayoutByName(bg)
		if err != nil {
			return err
		}
		bgls = append(bgls, bgl)
	}
	pl, err := pg.Compute.Device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label,
		BindGroupLayouts: bgls,
	})
	if errors.Log(err) != nil {
		return err
	}
	pg.PipelineLayouts[label] = pl
	return nil
}

// AddComputePipeline builds a compute pipeline from the registered
// pipeline layout, module, and entry point, and registers it under
// label. The layout and module must already be registered.
func (pg *Program) AddComputePipeline(label, layout, module, entryPoint string) error {
	if err := exists(pg.ComputePipelines, "compute pipeline", label); err != nil {
		return err
	}
	pl, err := pg.PipelineLayoutByName(layout)
	if err != nil {
		return err
	}
	md, err := pg.ModuleByName(module)
	if err != nil {
		return err
	}
	cpl, err := pg.Compute.Device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  label,
		Layout: pl,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     md,
			EntryPoint: entryPoint,
		},
	})
	if errors.Log(err) != nil {
		return err
	}
	pg.ComputePipelines[label] = cpl
	if Debug {
		slog.Info("tinywgpu: compute pipeline registered", "label", label, "entry", entryPoint)
	}
	return nil
}

// AddComputePipelines registers a pipeline layout under the module
// label, over the bind groups given by label, and then one compute
// pipeline per entry point, each registered under its entry point
// name. This matches the common case of one module with several
// kernels sharing one set of bind groups.
func (pg *Program) AddComputePipelines(module string, bindGroups, entryPoints []string) error {
	if err := pg.AddPipelineLayout(module, bindGroups...); err != nil {
		return err
	}
	for _, entry := range entryPoints {
		if err := pg.AddComputePipeline(entry, module, module, entry); err != nil {
			return err
		}
	}
	return nil
}

// RenderPipelineConfig collects the shader entry points and
// fixed-function state for a render pipeline. Zero-valued fields
// get standard defaults: vs_main / fs_main entry points, triangle
// list with no culling, single-sample, replace blending.
type RenderPipelineConfig struct {

	// VertexEntry is the vertex shader entry point.
	VertexEntry string

	// FragmentEntry is the fragment shader entry point.
	FragmentEntry string

	// ColorFormats are the color target formats, typically the
	// surface format for on-screen rendering.
	ColorFormats []wgpu.TextureFormat

	// VertexLayouts describe the vertex buffers, if any.
	VertexLayouts []wgpu.VertexBufferLayout

	// Primitive has settings for graphics primitives,
	// e.g., TriangleList.
	Primitive wgpu.PrimitiveState

	// Multisample settings; count defaults to 1.
	Multisample wgpu.MultisampleState
}

// SetDefaults fills in zero-valued fields with the standard
// defaults, returning the config for chaining.
func (cf *RenderPipelineConfig) SetDefaults() *RenderPipelineConfig {
	if cf.VertexEntry == "" {
		cf.VertexEntry = "vs_main"
	}
	if cf.FragmentEntry == "" {
		cf.FragmentEntry = "fs_main"
	}
	if cf.Primitive == (wgpu.PrimitiveState{}) {
		cf.Primitive = wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		}
	}
	if cf.Multisample.Count == 0 {
		cf.Multisample = wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		}
	}
	return cf
}

// AddRenderPipeline builds a render pipeline from the registered
// pipeline layout and module with the given config, and registers
// it under label. A nil config uses all defaults.
func (pg *Program) AddRenderPipeline(label, layout, module string, cfg *RenderPipelineConfig) error {
	if err := exists(pg.RenderPipelines, "render pipeline", label); err != nil {
		return err
	}
	pl, err := pg.PipelineLayoutByName(layout)
	if err != nil {
		return err
	}
	md, err := pg.ModuleByName(module)
	if err != nil {
		return err
	}
	if cfg == nil {
		cfg = &RenderPipelineConfig{}
	}
	cfg.SetDefaults()
	targets := make([]wgpu.ColorTargetState, len(cfg.ColorFormats))
	for i, format := range cfg.ColorFormats {
		targets[i] = wgpu.ColorTargetState{
			Format:    format,
			Blend:     &wgpu.BlendStateReplace,
			WriteMask: wgpu.ColorWriteMaskAll,
		}
	}
	rpl, err := pg.Compute.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label,
		Layout: pl,
		Vertex: wgpu.VertexState{
			Module:     md,
			EntryPoint: cfg.VertexEntry,
			Buffers:    cfg.VertexLayouts,
		},
		Primitive:   cfg.Primitive,
		Multisample: cfg.Multisample,
		Fragment: &wgpu.FragmentState{
			Module:     md,
			EntryPoint: cfg.FragmentEntry,
			Targets:    targets,
		},
	})
	if errors.Log(err) != nil {
		return err
	}
	pg.RenderPipelines[label] = rpl
	if Debug {
		slog.Info("tinywgpu: render pipeline registered", "label", label)
	}
	return nil
}

// RenderPipelineItem names one render pipeline and its entry points
// for [Program.AddRenderPipelines].
type RenderPipelineItem struct {
	Label         string
	VertexEntry   string
	FragmentEntry string
}

// AddRenderPipelines registers a pipeline layout under the module
// label, over the bind groups given by label, and then one render
// pipeline per item, sharing the given color formats and vertex
// layouts.
func (pg *Program) AddRenderPipelines(module string, bindGroups []string, items []RenderPipelineItem, colorFormats []wgpu.TextureFormat, vertexLayouts []wgpu.VertexBufferLayout) error {
	if err := pg.AddPipelineLayout(module, bindGroups...); err != nil {
		return err
	}
	for _, it := range items {
		cfg := &RenderPipelineConfig{
			VertexEntry:   it.VertexEntry,
			FragmentEntry: it.FragmentEntry,
			ColorFormats:  colorFormats,
			VertexLayouts: vertexLayouts,
		}
		if err := pg.AddRenderPipeline(it.Label, module, module, cfg); err != nil {
			return err
		}
	}
	return nil
}
