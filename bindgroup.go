// Copyright (c) 2024, The tiny-wgpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tinywgpu

import (
	"fmt"

	"cogentcore.org/core/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// BindingRoles are the kinds of resources that can appear in a
// bind group, corresponding to WebGPU binding types.
type BindingRoles int32

const (
	// StorageBuffer is a read-write or read-only storage buffer.
	StorageBuffer BindingRoles = iota

	// UniformBuffer is a uniform buffer.
	UniformBuffer

	// SampledTexture is a sampled texture, bound via its view.
	SampledTexture

	// StorageTexture is a storage texture, bound via its view.
	StorageTexture

	// Sampler is a filtering sampler.
	Sampler

	BindingRolesN
)

func (br BindingRoles) String() string {
	switch br {
	case StorageBuffer:
		return "StorageBuffer"
	case UniformBuffer:
		return "UniformBuffer"
	case SampledTexture:
		return "SampledTexture"
	case StorageTexture:
		return "StorageTexture"
	case Sampler:
		return "Sampler"
	}
	return fmt.Sprintf("BindingRoles(%d)", int32(br))
}

// BindGroupItem specifies one binding within a bind group,
// referencing a previously registered resource by label.
// Binding numbers are assigned sequentially in the order the
// items are given to [Program.AddBindGroup].
type BindGroupItem struct {

	// Role is the kind of resource bound at this slot.
	Role BindingRoles

	// Label of the registered resource this item references.
	Label string

	// Visibility is the set of shader stages that can see this
	// binding. The helper constructors default it to compute.
	Visibility wgpu.ShaderStage

	// MinBindingSize is the minimum buffer binding size in bytes,
	// for buffer roles.
	MinBindingSize int

	// ReadOnly marks a StorageBuffer binding as read-only.
	ReadOnly bool

	// Access is the access mode for a StorageTexture binding.
	Access wgpu.StorageTextureAccess
}

// StorageBufferItem returns a compute-visible storage buffer item
// referencing the buffer registered under label.
func StorageBufferItem(label string, minBindingSize int, readOnly bool) BindGroupItem {
	return BindGroupItem{Role: StorageBuffer, Label: label, Visibility: wgpu.ShaderStageCompute, MinBindingSize: minBindingSize, ReadOnly: readOnly}
}

// UniformBufferItem returns a compute-visible uniform buffer item
// referencing the buffer registered under label.
func UniformBufferItem(label string, minBindingSize int) BindGroupItem {
	return BindGroupItem{Role: UniformBuffer, Label: label, Visibility: wgpu.ShaderStageCompute, MinBindingSize: minBindingSize}
}

// SampledTextureItem returns a compute-visible sampled texture item
// referencing the texture registered under label.
func SampledTextureItem(label string) BindGroupItem {
	return BindGroupItem{Role: SampledTexture, Label: label, Visibility: wgpu.ShaderStageCompute}
}

// StorageTextureItem returns a compute-visible storage texture item
// referencing the texture registered under label.
func StorageTextureItem(label string, access wgpu.StorageTextureAccess) BindGroupItem {
	return BindGroupItem{Role: StorageTexture, Label: label, Visibility: wgpu.ShaderStageCompute, Access: access}
}

// SamplerItem returns a compute-visible sampler item referencing
// the sampler registered under label.
func SamplerItem(label string) BindGroupItem {
	return BindGroupItem{Role: Sampler, Label: label, Visibility: wgpu.ShaderStageCompute}
}

// AddBindGroup builds a bind group layout and bind group from the
// given items and registers both under label. Every item must
// reference an already-registered resource; a missing label fails
// the whole call before any GPU object is created.
func (pg *Program) AddBindGroup(label string, items ...BindGroupItem) error {
	if err := exists(pg.BindGroups, "bind group", label); err != nil {
		return err
	}
	layoutEntries := make([]wgpu.BindGroupLayoutEntry, 0, len(items))
	entries := make([]wgpu.BindGroupEntry, 0, len(items))

	for i, it := range items {
		binding := uint32(i)
		switch it.Role {
		case StorageBuffer, UniformBuffer:
			bf, err := pg.BufferByName(it.Label)
			if err != nil {
				return err
			}
			bt := wgpu.BufferBindingTypeUniform
			if it.Role == StorageBuffer {
				bt = wgpu.BufferBindingTypeStorage
				if it.ReadOnly {
					bt = wgpu.BufferBindingTypeReadOnlyStorage
				}
			}
			layoutEntries = append(layoutEntries, wgpu.BindGroupLayoutEntry{
				Binding:    binding,
				Visibility: it.Visibility,
				Buffer: wgpu.BufferBindingLayout{
					Type:             bt,
					HasDynamicOffset: false,
					MinBindingSize:   uint64(it.MinBindingSize),
				},
			})
			entries = append(entries, wgpu.BindGroupEntry{
				Binding: binding,
				Buffer:  bf,
				Offset:  0,
				Size:    wgpu.WholeSize,
			})
		case SampledTexture:
			vw, err := pg.TextureViewByName(it.Label)
			if err != nil {
				return err
			}
			format, err := pg.TextureFormatByName(it.Label)
			if err != nil {
				return err
			}
			layoutEntries = append(layoutEntries, wgpu.BindGroupLayoutEntry{
				Binding:    binding,
				Visibility: it.Visibility,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    textureSampleType(format),
					ViewDimension: wgpu.TextureViewDimension2D,
					Multisampled:  false,
				},
			})
			entries = append(entries, wgpu.BindGroupEntry{
				Binding:     binding,
				TextureView: vw,
			})
		case StorageTexture:
			vw, err := pg.TextureViewByName(it.Label)
			if err != nil {
				return err
			}
			format, err := pg.TextureFormatByName(it.Label)
			if err != nil {
				return err
			}
			layoutEntries = append(layoutEntries, wgpu.BindGroupLayoutEntry{
				Binding:    binding,
				Visibility: it.Visibility,
				StorageTexture: wgpu.StorageTextureBindingLayout{
					Access:        it.Access,
					Format:        format,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			})
			entries = append(entries, wgpu.BindGroupEntry{
				Binding:     binding,
				TextureView: vw,
			})
		case Sampler:
			smp, err := pg.SamplerByName(it.Label)
			if err != nil {
				return err
			}
			layoutEntries = append(layoutEntries, wgpu.BindGroupLayoutEntry{
				Binding:    binding,
				Visibility: it.Visibility,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			})
			entries = append(entries, wgpu.BindGroupEntry{
				Binding: binding,
				Sampler: smp,
			})
		default:
			return errors.Log(fmt.Errorf("tinywgpu.Program AddBindGroup: unknown role %v for %q", it.Role, it.Label))
		}
	}

	bgl, err := pg.Compute.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   label,
		Entries: layoutEntries,
	})
	if errors.Log(err) != nil {
		return err
	}
	bg, err := pg.Compute.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   label,
		Layout:  bgl,
		Entries: entries,
	})
	if errors.Log(err) != nil {
		bgl.Release()
		return err
	}
	pg.BindGroupLayouts[label] = bgl
	pg.BindGroups[label] = bg
	return nil
}
