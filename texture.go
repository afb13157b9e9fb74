// Copyright (c) 2024, The tiny-wgpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tinywgpu

import (
	"image"

	"cogentcore.org/core/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// AddTexture allocates a 2D texture of the given size, format and
// usage flags (1 mip level, 1 sample), and registers it under label.
// If usage includes TextureBinding or StorageBinding, the default
// view is also created and registered in TextureViews under the
// same label.
func (pg *Program) AddTexture(label string, usage wgpu.TextureUsage, format wgpu.TextureFormat, size image.Point) error {
	if err := exists(pg.Textures, "texture", label); err != nil {
		return err
	}
	tx, err := pg.Compute.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              uint32(size.X),
			Height:             uint32(size.Y),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if errors.Log(err) != nil {
		return err
	}
	pg.Textures[label] = tx
	pg.textureFormats[label] = format
	if usage&(wgpu.TextureUsageTextureBinding|wgpu.TextureUsageStorageBinding) != 0 {
		vw, err := tx.CreateView(nil)
		if errors.Log(err) != nil {
			return err
		}
		pg.TextureViews[label] = vw
	}
	return nil
}

// AddSampler creates a sampler with the given address mode and
// mag / min filter, and registers it under label.
func (pg *Program) AddSampler(label string, addrMode wgpu.AddressMode, filter wgpu.FilterMode) error {
	if err := exists(pg.Samplers, "sampler", label); err != nil {
		return err
	}
	smp, err := pg.Compute.Device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label,
		AddressModeU:  addrMode,
		AddressModeV:  addrMode,
		AddressModeW:  addrMode,
		MagFilter:     filter,
		MinFilter:     filter,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		Compare:       wgpu.CompareFunctionUndefined,
		MaxAnisotropy: 1,
	})
	if errors.Log(err) != nil {
		return err
	}
	pg.Samplers[label] = smp
	return nil
}

// textureSampleType returns the sample type to use in a sampled
// texture binding layout for the given format, following the
// WebGPU format capability table.
func textureSampleType(format wgpu.TextureFormat) wgpu.TextureSampleType {
	switch format {
	case wgpu.TextureFormatDepth16Unorm, wgpu.TextureFormatDepth24Plus,
		wgpu.TextureFormatDepth24PlusStencil8, wgpu.TextureFormatDepth32Float:
		return wgpu.TextureSampleTypeDepth
	case wgpu.TextureFormatR32Float, wgpu.TextureFormatRG32Float,
		wgpu.TextureFormatRGBA32Float:
		return wgpu.TextureSampleTypeUnfilterableFloat
	case wgpu.TextureFormatR32Uint, wgpu.TextureFormatRG32Uint,
		wgpu.TextureFormatRGBA32Uint, wgpu.TextureFormatR16Uint,
		wgpu.TextureFormatRGBA8Uint:
		return wgpu.TextureSampleTypeUint
	case wgpu.TextureFormatR32Sint, wgpu.TextureFormatRG32Sint,
		wgpu.TextureFormatRGBA32Sint, wgpu.TextureFormatR16Sint,
		wgpu.TextureFormatRGBA8Sint:
		return wgpu.TextureSampleTypeSint
	default:
		return wgpu.TextureSampleTypeFloat
	}
}
