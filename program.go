// Copyright (c) 2024, The tiny-wgpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tinywgpu

import (
	"fmt"
	"sort"
	"strings"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/indent"
	"github.com/cogentcore/webgpu/wgpu"
)

// Program is a label-keyed registry of GPU resources sharing one
// [Compute] context. Each resource kind has its own mapping from
// label to handle; the maps are exported for direct indexing in
// render and compute passes, with XByName accessors providing
// checked lookups that error on unregistered labels.
//
// Registration order matters: a resource that references other
// labels (bind group, pipeline layout, pipeline, staging buffer)
// must be added after everything it references, and fails
// immediately otherwise. A Program is intended for sequential,
// single-goroutine setup; no internal locking is provided.
type Program struct {

	// Modules are compiled WGSL shader modules.
	Modules map[string]*wgpu.ShaderModule

	// Buffers are GPU buffers.
	Buffers map[string]*wgpu.Buffer

	// StagingBuffers are CPU-mappable readback buffers, keyed by the
	// label of the buffer they stage (see [Program.AddStagingBuffer]).
	StagingBuffers map[string]*wgpu.Buffer

	// Textures are GPU textures.
	Textures map[string]*wgpu.Texture

	// TextureViews are the default views of registered textures,
	// created for any texture usable in a bind group.
	TextureViews map[string]*wgpu.TextureView

	// Samplers are texture samplers.
	Samplers map[string]*wgpu.Sampler

	// BindGroupLayouts are the layouts of registered bind groups,
	// under the same label as the bind group.
	BindGroupLayouts map[string]*wgpu.BindGroupLayout

	// BindGroups bind concrete registered resources to shader slots.
	BindGroups map[string]*wgpu.BindGroup

	// PipelineLayouts are pipeline layouts over registered bind
	// group layouts.
	PipelineLayouts map[string]*wgpu.PipelineLayout

	// RenderPipelines by label.
	RenderPipelines map[string]*wgpu.RenderPipeline

	// ComputePipelines by label.
	ComputePipelines map[string]*wgpu.ComputePipeline

	// Compute is our shared GPU context. Not owned: releasing the
	// Program does not release it.
	Compute *Compute

	// requested sizes of registered buffers, by label.
	bufferSizes map[string]int

	// formats of registered textures, by label.
	textureFormats map[string]wgpu.TextureFormat
}

// NewProgram returns a new empty Program using the given
// [Compute] context for all resource construction.
func NewProgram(cp *Compute) *Program {
	pg := &Program{Compute: cp}
	pg.Modules = make(map[string]*wgpu.ShaderModule)
	pg.Buffers = make(map[string]*wgpu.Buffer)
	pg.StagingBuffers = make(map[string]*wgpu.Buffer)
	pg.Textures = make(map[string]*wgpu.Texture)
	pg.TextureViews = make(map[string]*wgpu.TextureView)
	pg.Samplers = make(map[string]*wgpu.Sampler)
	pg.BindGroupLayouts = make(map[string]*wgpu.BindGroupLayout)
	pg.BindGroups = make(map[string]*wgpu.BindGroup)
	pg.PipelineLayouts = make(map[string]*wgpu.PipelineLayout)
	pg.RenderPipelines = make(map[string]*wgpu.RenderPipeline)
	pg.ComputePipelines = make(map[string]*wgpu.ComputePipeline)
	pg.bufferSizes = make(map[string]int)
	pg.textureFormats = make(map[string]wgpu.TextureFormat)
	return pg
}

// lookup returns the resource of given kind under label, with a
// "not found" error (logged) if the label has not been registered.
func lookup[T any](m map[string]T, kind, label string) (T, error) {
	it, ok := m[label]
	if !ok {
		var zero T
		return zero, errors.Log(fmt.Errorf("tinywgpu.Program: %s %q not found", kind, label))
	}
	return it, nil
}

// exists checks for a prior registration of label in the given map,
// returning an "already registered" error (logged) if present.
func exists[T any](m map[string]T, kind, label string) error {
	if _, ok := m[label]; ok {
		return errors.Log(fmt.Errorf("tinywgpu.Program: %s %q already registered", kind, label))
	}
	return nil
}

// ModuleByName returns the shader module registered under label,
// erroring if not found.
func (pg *Program) ModuleByName(label string) (*wgpu.ShaderModule, error) {
	return lookup(pg.Modules, "module", label)
}

// BufferByName returns the buffer registered under label,
// erroring if not found.
func (pg *Program) BufferByName(label string) (*wgpu.Buffer, error) {
	return lookup(pg.Buffers, "buffer", label)
}

// StagingBufferByName returns the staging buffer registered under
// label, erroring if not found.
func (pg *Program) StagingBufferByName(label string) (*wgpu.Buffer, error) {
	return lookup(pg.StagingBuffers, "staging buffer", label)
}

// BufferSizeByName returns the size in bytes that the buffer under
// label was registered with, erroring if not found.
func (pg *Program) BufferSizeByName(label string) (int, error) {
	return lookup(pg.bufferSizes, "buffer", label)
}

// TextureByName returns the texture registered under label,
// erroring if not found.
func (pg *Program) TextureByName(label string) (*wgpu.Texture, error) {
	return lookup(pg.Textures, "texture", label)
}

// TextureViewByName returns the default view of the texture
// registered under label, erroring if not found. Only textures
// registered with a binding usage have a view.
func (pg *Program) TextureViewByName(label string) (*wgpu.TextureView, error) {
	return lookup(pg.TextureViews, "texture view", label)
}

// TextureFormatByName returns the format that the texture under
// label was registered with, erroring if not found.
func (pg *Program) TextureFormatByName(label string) (wgpu.TextureFormat, error) {
	return lookup(pg.textureFormats, "texture", label)
}

// SamplerByName returns the sampler registered under label,
// erroring if not found.
func (pg *Program) SamplerByName(label string) (*wgpu.Sampler, error) {
	return lookup(pg.Samplers, "sampler", label)
}

// BindGroupByName returns the bind group registered under label,
// erroring if not found.
func (pg *Program) BindGroupByName(label string) (*wgpu.BindGroup, error) {
	return lookup(pg.BindGroups, "bind group", label)
}

// BindGroupLayoutByName returns the bind group layout registered
// under label, erroring if not found.
func (pg *Program) BindGroupLayoutByName(label string) (*wgpu.BindGroupLayout, error) {
	return lookup(pg.BindGroupLayouts, "bind group layout", label)
}

// PipelineLayoutByName returns the pipeline layout registered under
// label, erroring if not found.
func (pg *Program) PipelineLayoutByName(label string) (*wgpu.PipelineLayout, error) {
	return lookup(pg.PipelineLayouts, "pipeline layout", label)
}

// RenderPipelineByName returns the render pipeline registered under
// label, erroring if not found.
func (pg *Program) RenderPipelineByName(label string) (*wgpu.RenderPipeline, error) {
	return lookup(pg.RenderPipelines, "render pipeline", label)
}

// ComputePipelineByName returns the compute pipeline registered
// under label, erroring if not found.
func (pg *Program) ComputePipelineByName(label string) (*wgpu.ComputePipeline, error) {
	return lookup(pg.ComputePipelines, "compute pipeline", label)
}

// AddModule compiles the given WGSL shader source and registers the
// resulting module under label.
func (pg *Program) AddModule(label, source string) error {
	if err := exists(pg.Modules, "module", label); err != nil {
		return err
	}
	md, err := pg.Compute.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: source},
	})
	if errors.Log(err) != nil {
		return err
	}
	pg.Modules[label] = md
	return nil
}

// Release drops all registered resources, in reverse dependency
// order, and clears the registry. The shared Compute context is
// not released.
func (pg *Program) Release() {
	for _, pl := range pg.ComputePipelines {
		pl.Release()
	}
	pg.ComputePipelines = nil
	for _, pl := range pg.RenderPipelines {
		pl.Release()
	}
	pg.RenderPipelines = nil
	for _, pl := range pg.PipelineLayouts {
		pl.Release()
	}
	pg.PipelineLayouts = nil
	for _, bg := range pg.BindGroups {
		bg.Release()
	}
	pg.BindGroups = nil
	for _, bgl := range pg.BindGroupLayouts {
		bgl.Release()
	}
	pg.BindGroupLayouts = nil
	for _, smp := range pg.Samplers {
		smp.Release()
	}
	pg.Samplers = nil
	for _, vw := range pg.TextureViews {
		vw.Release()
	}
	pg.TextureViews = nil
	for _, tx := range pg.Textures {
		tx.Release()
	}
	pg.Textures = nil
	for _, bf := range pg.StagingBuffers {
		bf.Release()
	}
	pg.StagingBuffers = nil
	for _, bf := range pg.Buffers {
		bf.Release()
	}
	pg.Buffers = nil
	for _, md := range pg.Modules {
		md.Release()
	}
	pg.Modules = nil
	pg.bufferSizes = nil
	pg.textureFormats = nil
}

// String lists all registered labels by resource kind.
func (pg *Program) String() string {
	var sb strings.Builder
	kind := func(name string, labels []string) {
		if len(labels) == 0 {
			return
		}
		sort.Strings(labels)
		sb.WriteString(name + ":\n")
		for _, lb := range labels {
			sb.WriteString(indent.Spaces(1, 4) + lb + "\n")
		}
	}
	kind("Modules", mapLabels(pg.Modules))
	kind("Buffers", mapLabels(pg.Buffers))
	kind("StagingBuffers", mapLabels(pg.StagingBuffers))
	kind("Textures", mapLabels(pg.Textures))
	kind("Samplers", mapLabels(pg.Samplers))
	kind("BindGroups", mapLabels(pg.BindGroups))
	kind("PipelineLayouts", mapLabels(pg.PipelineLayouts))
	kind("RenderPipelines", mapLabels(pg.RenderPipelines))
	kind("ComputePipelines", mapLabels(pg.ComputePipelines))
	return sb.String()
}

func mapLabels[T any](m map[string]T) []string {
	labels := make([]string, 0, len(m))
	for lb := range m {
		labels = append(labels, lb)
	}
	return labels
}
