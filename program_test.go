// Copyright (c) 2024, The tiny-wgpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tinywgpu

import (
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

// these tests cover the registry semantics that do not require a
// GPU device: checked lookups, duplicate labels, and validation of
// referenced labels before any GPU call is made.

func TestLookupNotFound(t *testing.T) {
	pg := NewProgram(nil)

	md, err := pg.ModuleByName("nope")
	assert.Error(t, err)
	assert.Nil(t, md)

	bf, err := pg.BufferByName("nope")
	assert.Error(t, err)
	assert.Nil(t, bf)

	_, err = pg.TextureByName("nope")
	assert.Error(t, err)
	_, err = pg.TextureViewByName("nope")
	assert.Error(t, err)
	_, err = pg.SamplerByName("nope")
	assert.Error(t, err)
	_, err = pg.BindGroupByName("nope")
	assert.Error(t, err)
	_, err = pg.BindGroupLayoutByName("nope")
	assert.Error(t, err)
	_, err = pg.PipelineLayoutByName("nope")
	assert.Error(t, err)
	_, err = pg.RenderPipelineByName("nope")
	assert.Error(t, err)
	_, err = pg.ComputePipelineByName("nope")
	assert.Error(t, err)
	_, err = pg.BufferSizeByName("nope")
	assert.Error(t, err)
	_, err = pg.TextureFormatByName("nope")
	assert.Error(t, err)
}

func TestLookupIdentity(t *testing.T) {
	pg := NewProgram(nil)
	md := &wgpu.ShaderModule{}
	pg.Modules["shader"] = md

	got, err := pg.ModuleByName("shader")
	assert.NoError(t, err)
	assert.Same(t, md, got)

	// lookups do not mutate: same handle every time
	again, err := pg.ModuleByName("shader")
	assert.NoError(t, err)
	assert.Same(t, md, again)
}

func TestDuplicateLabel(t *testing.T) {
	pg := NewProgram(nil)
	pg.Buffers["data"] = &wgpu.Buffer{}

	// duplicate label errors before any device call
	err := pg.AddBuffer("data", wgpu.BufferUsageStorage, 64)
	assert.Error(t, err)

	pg.Modules["shader"] = &wgpu.ShaderModule{}
	err = pg.AddModule("shader", "")
	assert.Error(t, err)
}

func TestBindGroupRequiresRegisteredLabels(t *testing.T) {
	pg := NewProgram(nil)

	// referenced texture not registered: fails during validation
	err := pg.AddBindGroup("group", SampledTextureItem("tex"))
	assert.Error(t, err)
	_, err = pg.BindGroupByName("group")
	assert.Error(t, err)

	err = pg.AddBindGroup("group", StorageBufferItem("buf", 4, false))
	assert.Error(t, err)

	err = pg.AddBindGroup("group", SamplerItem("smp"))
	assert.Error(t, err)
}

func TestStagingBufferRequiresBuffer(t *testing.T) {
	pg := NewProgram(nil)
	err := pg.AddStagingBuffer("data")
	assert.Error(t, err)
}

func TestPipelineLayoutRequiresBindGroups(t *testing.T) {
	pg := NewProgram(nil)
	err := pg.AddPipelineLayout("layout", "missing")
	assert.Error(t, err)
}

func TestPipelineRequiresLayoutAndModule(t *testing.T) {
	pg := NewProgram(nil)

	err := pg.AddComputePipeline("main", "layout", "shader", "main")
	assert.Error(t, err)

	err = pg.AddRenderPipeline("draw", "layout", "shader", nil)
	assert.Error(t, err)

	// layout present but module still missing
	pg.PipelineLayouts["layout"] = &wgpu.PipelineLayout{}
	err = pg.AddComputePipeline("main", "layout", "shader", "main")
	assert.Error(t, err)
}

func TestCopyToStagingRequiresBoth(t *testing.T) {
	pg := NewProgram(nil)
	err := pg.CopyBufferToStaging(nil, "data")
	assert.Error(t, err)

	pg.Buffers["data"] = &wgpu.Buffer{}
	pg.bufferSizes["data"] = 64
	err = pg.CopyBufferToStaging(nil, "data")
	assert.Error(t, err) // staging buffer still missing
}

func TestBufferSizeBookkeeping(t *testing.T) {
	pg := NewProgram(nil)
	pg.Buffers["data"] = &wgpu.Buffer{}
	pg.bufferSizes["data"] = 64

	size, err := pg.BufferSizeByName("data")
	assert.NoError(t, err)
	assert.Equal(t, 64, size)
}

func TestRenderPipelineConfigDefaults(t *testing.T) {
	cf := &RenderPipelineConfig{}
	cf.SetDefaults()
	assert.Equal(t, "vs_main", cf.VertexEntry)
	assert.Equal(t, "fs_main", cf.FragmentEntry)
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, cf.Primitive.Topology)
	assert.Equal(t, uint32(1), cf.Multisample.Count)

	// explicit settings are preserved
	cf = &RenderPipelineConfig{VertexEntry: "vert"}
	cf.SetDefaults()
	assert.Equal(t, "vert", cf.VertexEntry)
}

func TestBindingRolesString(t *testing.T) {
	assert.Equal(t, "StorageBuffer", StorageBuffer.String())
	assert.Equal(t, "Sampler", Sampler.String())
	assert.True(t, strings.HasPrefix(BindingRolesN.String(), "BindingRoles("))
}

func TestWarps(t *testing.T) {
	assert.Equal(t, 8, Warps(128, 16))
	assert.Equal(t, 9, Warps(129, 16))
	assert.Equal(t, 1, Warps(1, 64))
	assert.Equal(t, 0, Warps(0, 64))
}

func TestProgramString(t *testing.T) {
	pg := NewProgram(nil)
	pg.Buffers["b"] = &wgpu.Buffer{}
	pg.Modules["s"] = &wgpu.ShaderModule{}
	str := pg.String()
	assert.Contains(t, str, "Buffers:")
	assert.Contains(t, str, "b")
	assert.Contains(t, str, "Modules:")
}
