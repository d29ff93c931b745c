// Package gpu binds the orbitsim pipeline's integration and broad-phase
// stages to an OpenCL device. No Go OpenCL binding exists anywhere in the
// example corpus to build on, so this package talks to the system OpenCL
// ICD loader directly through cgo.
//
// Package gpu is provided as part of the orbitsim particle-physics engine.
package gpu

// #cgo linux   LDFLAGS: -lOpenCL
// #cgo darwin  LDFLAGS: -framework OpenCL
// #cgo windows LDFLAGS: -lOpenCL
//
// #include <stdlib.h>
// #if defined(__APPLE__)
// #include <OpenCL/cl.h>
// #else
// #include <CL/cl.h>
// #endif
import "C"

import (
	"fmt"
	"unsafe"
)

// Device owns one OpenCL context and command queue, selected as the first
// GPU device on the first platform that reports one. A process creates at
// most one Device; every kernel dispatch in this package shares it.
type Device struct {
	platform C.cl_platform_id
	device   C.cl_device_id
	context  C.cl_context
	queue    C.cl_command_queue

	programs map[string]*program
	buffers  bufferSet

	globalGravityX, globalGravityY float32
}

// SetGlobalGravity configures the uniform acceleration term added on top of
// planet gravity, matching gravity.Field.Global. The host calls this once
// after New, before the first Advance that uses GPU integration; Engine's
// GPUIntegrator interface has no room for per-tick config beyond dt, so this
// lives on the concrete Device instead.
func (d *Device) SetGlobalGravity(x, y float64) {
	d.globalGravityX = float32(x)
	d.globalGravityY = float32(y)
}

// New enumerates OpenCL platforms, selects the first GPU device found across
// them, and creates one context and one command queue bound to it.
func New() (*Device, error) {
	var numPlatforms C.cl_uint
	if status := C.clGetPlatformIDs(0, nil, &numPlatforms); status != C.CL_SUCCESS {
		return nil, fmt.Errorf("gpu: clGetPlatformIDs: status %d", status)
	}
	if numPlatforms == 0 {
		return nil, fmt.Errorf("gpu: no OpenCL platforms found")
	}
	platforms := make([]C.cl_platform_id, numPlatforms)
	if status := C.clGetPlatformIDs(numPlatforms, &platforms[0], nil); status != C.CL_SUCCESS {
		return nil, fmt.Errorf("gpu: clGetPlatformIDs: status %d", status)
	}

	for _, platform := range platforms {
		var numDevices C.cl_uint
		status := C.clGetDeviceIDs(platform, C.CL_DEVICE_TYPE_GPU, 0, nil, &numDevices)
		if status != C.CL_SUCCESS || numDevices == 0 {
			continue
		}
		devices := make([]C.cl_device_id, numDevices)
		if status := C.clGetDeviceIDs(platform, C.CL_DEVICE_TYPE_GPU, numDevices, &devices[0], nil); status != C.CL_SUCCESS {
			continue
		}
		deviceID := devices[0]

		var ctxStatus C.cl_int
		context := C.clCreateContext(nil, 1, &deviceID, nil, nil, &ctxStatus)
		if ctxStatus != C.CL_SUCCESS {
			return nil, fmt.Errorf("gpu: clCreateContext: status %d", ctxStatus)
		}

		var queueStatus C.cl_int
		queue := C.clCreateCommandQueue(context, deviceID, 0, &queueStatus)
		if queueStatus != C.CL_SUCCESS {
			C.clReleaseContext(context)
			return nil, fmt.Errorf("gpu: clCreateCommandQueue: status %d", queueStatus)
		}

		return &Device{
			platform: platform,
			device:   deviceID,
			context:  context,
			queue:    queue,
			programs: map[string]*program{},
		}, nil
	}
	return nil, fmt.Errorf("gpu: no GPU device found on any platform")
}

// Close releases the command queue and context. A Device must not be used
// after Close.
func (d *Device) Close() {
	for _, p := range d.programs {
		p.release()
	}
	d.buffers.release()
	if d.queue != nil {
		C.clReleaseCommandQueue(d.queue)
	}
	if d.context != nil {
		C.clReleaseContext(d.context)
	}
}

func clError(prefix string, status C.cl_int) error {
	if status == C.CL_SUCCESS {
		return nil
	}
	return fmt.Errorf("gpu: %s: status %d", prefix, int(status))
}

// cPtr returns a pointer to the first element of a float32 slice, the C
// float layout the kernels expect, or nil for an empty slice.
func cPtr(data []float32) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Pointer(&data[0])
}
