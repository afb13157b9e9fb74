// Copyright (c) 2024, The tiny-wgpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tinywgpu

import (
	"cogentcore.org/core/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// note: Queue.WriteBuffer is the preferred method for writing,
// so this layer only needs to manage readback.

// AddBuffer allocates a GPU buffer of the given size in bytes with
// the given usage flags, and registers it under label. The buffer
// contents start zeroed; write data with Queue.WriteBuffer.
func (pg *Program) AddBuffer(label string, usage wgpu.BufferUsage, size int) error {
	if err := exists(pg.Buffers, "buffer", label); err != nil {
		return err
	}
	bf, err := pg.Compute.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label,
		Size:             uint64(size),
		Usage:            usage,
		MappedAtCreation: false,
	})
	if errors.Log(err) != nil {
		return err
	}
	pg.Buffers[label] = bf
	pg.bufferSizes[label] = size
	return nil
}

// AddBufferInit allocates a GPU buffer initialized with the given
// contents, and registers it under label.
func (pg *Program) AddBufferInit(label string, usage wgpu.BufferUsage, contents []byte) error {
	if err := exists(pg.Buffers, "buffer", label); err != nil {
		return err
	}
	bf, err := pg.Compute.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: contents,
		Usage:    usage,
	})
	if errors.Log(err) != nil {
		return err
	}
	pg.Buffers[label] = bf
	pg.bufferSizes[label] = len(contents)
	return nil
}

// AddStagingBuffer allocates a CPU-mappable staging buffer for
// reading back the registered buffer under label, sized to match.
// Fails if no buffer is registered under label. Use
// [Program.CopyBufferToStaging] and [Program.ReadStagingBuffer]
// to get data back to the CPU.
func (pg *Program) AddStagingBuffer(label string) error {
	if err := exists(pg.StagingBuffers, "staging buffer", label); err != nil {
		return err
	}
	size, err := pg.BufferSizeByName(label)
	if err != nil {
		return err
	}
	bf, err := pg.Compute.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label + ":staging",
		Size:             uint64(size),
		Usage:            wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if errors.Log(err) != nil {
		return err
	}
	pg.StagingBuffers[label] = bf
	return nil
}

// CopyBufferToStaging adds a command to the given encoder copying
// the full contents of the buffer under label into its staging
// buffer. The source buffer must have CopySrc usage.
func (pg *Program) CopyBufferToStaging(cmd *wgpu.CommandEncoder, label string) error {
	src, err := pg.BufferByName(label)
	if err != nil {
		return err
	}
	dst, err := pg.StagingBufferByName(label)
	if err != nil {
		return err
	}
	return errors.Log(cmd.CopyBufferToBuffer(src, 0, dst, 0, uint64(pg.bufferSizes[label])))
}

// ReadStagingBuffer maps the staging buffer for label, copies its
// contents into dest, and unmaps it. It blocks until the device
// has finished the mapping. The copy command must have been
// submitted before calling this.
func (pg *Program) ReadStagingBuffer(label string, dest []byte) error {
	bf, err := pg.StagingBufferByName(label)
	if err != nil {
		return err
	}
	size := pg.bufferSizes[label]
	if size > len(dest) {
		size = len(dest)
	}
	var status wgpu.BufferMapAsyncStatus
	err = bf.MapAsync(wgpu.MapModeRead, 0, uint64(size), func(s wgpu.BufferMapAsyncStatus) {
		status = s
	})
	if errors.Log(err) != nil {
		return err
	}
	pg.Compute.WaitDone()
	if err := BufferMapAsyncError(status); errors.Log(err) != nil {
		return err
	}
	defer bf.Unmap()
	copy(dest, bf.GetMappedRange(0, uint(size)))
	return nil
}

// BufferMapAsyncError returns an error if the status is not success.
func BufferMapAsyncError(status wgpu.BufferMapAsyncStatus) error {
	if status != wgpu.BufferMapAsyncStatusSuccess {
		return errors.New("tinywgpu: BufferMapAsync was not successful")
	}
	return nil
}
