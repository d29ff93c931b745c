package gpu

// #if defined(__APPLE__)
// #include <OpenCL/cl.h>
// #else
// #include <CL/cl.h>
// #endif
import "C"

import "unsafe"

// bufferSet holds the device buffers shared by Integrate and FindCandidates.
// Buffers sized by body count are kept across ticks and only reallocated
// when the body count changes, per the engine's buffer lifecycle contract.
type bufferSet struct {
	bodyCount      int
	planetCount    int
	maxPerBody     int
	candidateCount int // body count the candidates buffer was sized for

	positions      C.cl_mem
	velocities     C.cl_mem
	radii          C.cl_mem
	masses         C.cl_mem
	planetMasses   C.cl_mem
	planetSnapshot C.cl_mem // frozen pre-tick planet positions, read-only to the kernel
	candidates     C.cl_mem
}

func (b *bufferSet) release() {
	releaseIfSet(&b.positions)
	releaseIfSet(&b.velocities)
	releaseIfSet(&b.radii)
	releaseIfSet(&b.masses)
	releaseIfSet(&b.planetMasses)
	releaseIfSet(&b.planetSnapshot)
	releaseIfSet(&b.candidates)
}

func releaseIfSet(mem *C.cl_mem) {
	if *mem != nil {
		C.clReleaseMemObject(*mem)
		*mem = nil
	}
}

// ensureBodyBuffers (re)allocates the position/velocity/radius/mass buffers
// when the body count has changed since the last tick.
func (d *Device) ensureBodyBuffers(n int) error {
	if d.buffers.bodyCount == n {
		return nil
	}
	releaseIfSet(&d.buffers.positions)
	releaseIfSet(&d.buffers.velocities)
	releaseIfSet(&d.buffers.radii)
	releaseIfSet(&d.buffers.masses)

	var err error
	if d.buffers.positions, err = d.createFloatBuffer(n * 2); err != nil {
		return err
	}
	if d.buffers.velocities, err = d.createFloatBuffer(n * 2); err != nil {
		return err
	}
	if d.buffers.radii, err = d.createFloatBuffer(n); err != nil {
		return err
	}
	if d.buffers.masses, err = d.createFloatBuffer(n); err != nil {
		return err
	}
	d.buffers.bodyCount = n
	return nil
}

// ensurePlanetMassBuffer (re)allocates the planet-mass buffer, sized P+1 so
// an empty-planet simulation still gets a valid (if unused) buffer.
func (d *Device) ensurePlanetMassBuffer(p int) error {
	if d.buffers.planetCount == p && d.buffers.planetMasses != nil {
		return nil
	}
	releaseIfSet(&d.buffers.planetMasses)
	releaseIfSet(&d.buffers.planetSnapshot)
	var err error
	if d.buffers.planetMasses, err = d.createFloatBuffer(p + 1); err != nil {
		return err
	}
	if d.buffers.planetSnapshot, err = d.createFloatBuffer((p + 1) * 2); err != nil {
		return err
	}
	d.buffers.planetCount = p
	return nil
}

// ensureCandidateBuffer (re)allocates the flat candidate-pair output buffer,
// sized n*maxPerBody pairs of two int32 ids each.
func (d *Device) ensureCandidateBuffer(n, maxPerBody int) error {
	if d.buffers.candidateCount == n && d.buffers.maxPerBody == maxPerBody && d.buffers.candidates != nil {
		return nil
	}
	releaseIfSet(&d.buffers.candidates)
	var status C.cl_int
	size := C.size_t(n * maxPerBody * 2 * 4) // 2 int32 ids per slot
	mem := C.clCreateBuffer(d.context, C.CL_MEM_READ_WRITE, size, nil, &status)
	if status != C.CL_SUCCESS {
		return clError("clCreateBuffer(candidates)", status)
	}
	d.buffers.candidates = mem
	d.buffers.candidateCount = n
	d.buffers.maxPerBody = maxPerBody
	return nil
}

func (d *Device) createFloatBuffer(length int) (C.cl_mem, error) {
	var status C.cl_int
	size := C.size_t(length * 4) // float32
	if length == 0 {
		size = 4
	}
	mem := C.clCreateBuffer(d.context, C.CL_MEM_READ_WRITE, size, nil, &status)
	if status != C.CL_SUCCESS {
		return nil, clError("clCreateBuffer", status)
	}
	return mem, nil
}

func (d *Device) writeFloats(mem C.cl_mem, data []float32) error {
	if len(data) == 0 {
		return nil
	}
	status := C.clEnqueueWriteBuffer(d.queue, mem, C.CL_TRUE, 0, C.size_t(len(data)*4), cPtr(data), 0, nil, nil)
	return clError("clEnqueueWriteBuffer", status)
}

func (d *Device) readFloats(mem C.cl_mem, data []float32) error {
	if len(data) == 0 {
		return nil
	}
	status := C.clEnqueueReadBuffer(d.queue, mem, C.CL_TRUE, 0, C.size_t(len(data)*4), cPtr(data), 0, nil, nil)
	return clError("clEnqueueReadBuffer", status)
}

func (d *Device) readInts(mem C.cl_mem, data []int32) error {
	if len(data) == 0 {
		return nil
	}
	status := C.clEnqueueReadBuffer(d.queue, mem, C.CL_TRUE, 0, C.size_t(len(data)*4), unsafe.Pointer(&data[0]), 0, nil, nil)
	return clError("clEnqueueReadBuffer", status)
}

func setKernelArgMem(kernel C.cl_kernel, index C.cl_uint, mem C.cl_mem) error {
	status := C.clSetKernelArg(kernel, index, C.size_t(unsafe.Sizeof(mem)), unsafe.Pointer(&mem))
	return clError("clSetKernelArg", status)
}

func setKernelArgFloat(kernel C.cl_kernel, index C.cl_uint, value float32) error {
	v := C.cl_float(value)
	status := C.clSetKernelArg(kernel, index, C.size_t(unsafe.Sizeof(v)), unsafe.Pointer(&v))
	return clError("clSetKernelArg", status)
}

func setKernelArgInt(kernel C.cl_kernel, index C.cl_uint, value int32) error {
	v := C.cl_int(value)
	status := C.clSetKernelArg(kernel, index, C.size_t(unsafe.Sizeof(v)), unsafe.Pointer(&v))
	return clError("clSetKernelArg", status)
}

func setKernelArgFloat2(kernel C.cl_kernel, index C.cl_uint, x, y float32) error {
	v := [2]C.cl_float{C.cl_float(x), C.cl_float(y)}
	status := C.clSetKernelArg(kernel, index, C.size_t(unsafe.Sizeof(v)), unsafe.Pointer(&v[0]))
	return clError("clSetKernelArg", status)
}
