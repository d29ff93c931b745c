package gpu

// #if defined(__APPLE__)
// #include <OpenCL/cl.h>
// #else
// #include <CL/cl.h>
// #endif
import "C"

import (
	"path/filepath"

	"github.com/nburjui/orbitsim/body"
	"github.com/nburjui/orbitsim/bvh"
)

var bvhKernelPath = filepath.Join(kernelDir, "bvh.cl")

const bvhKernelName = "find_candidates"

// FindCandidates runs the broad-phase candidate kernel: one work-item per
// body, each writing up to maxPerBody candidate pairs into its
// [i*maxPerBody, (i+1)*maxPerBody) output slots. Unused slots are left as
// the (0,0) sentinel and filtered out here before the host's
// sort/dedup/shuffle pass.
func (d *Device) FindCandidates(store *body.Store, maxPerBody int) ([]bvh.Pair, error) {
	n := store.Len()
	if n == 0 {
		return nil, nil
	}
	if err := d.ensureBodyBuffers(n); err != nil {
		return nil, err
	}
	if err := d.ensureCandidateBuffer(n, maxPerBody); err != nil {
		return nil, err
	}

	positions := make([]float32, n*2)
	radii := make([]float32, n)
	for i := 0; i < n; i++ {
		positions[2*i] = float32(store.Positions[i].X)
		positions[2*i+1] = float32(store.Positions[i].Y)
		radii[i] = float32(store.Radii[i])
	}
	if err := d.writeFloats(d.buffers.positions, positions); err != nil {
		return nil, err
	}
	if err := d.writeFloats(d.buffers.radii, radii); err != nil {
		return nil, err
	}

	_, kernel, err := d.loadOrBuildProgram(bvhKernelPath, bvhKernelName)
	if err != nil {
		return nil, err
	}

	if err := setKernelArgMem(kernel, 0, d.buffers.positions); err != nil {
		return nil, err
	}
	if err := setKernelArgMem(kernel, 1, d.buffers.radii); err != nil {
		return nil, err
	}
	if err := setKernelArgMem(kernel, 2, d.buffers.candidates); err != nil {
		return nil, err
	}
	if err := setKernelArgInt(kernel, 3, int32(n)); err != nil {
		return nil, err
	}
	if err := setKernelArgInt(kernel, 4, int32(maxPerBody)); err != nil {
		return nil, err
	}

	globalSize := C.size_t(n)
	status := C.clEnqueueNDRangeKernel(d.queue, kernel, 1, nil, &globalSize, nil, 0, nil, nil)
	if err := clError("clEnqueueNDRangeKernel(candidates)", status); err != nil {
		return nil, err
	}
	if status := C.clFinish(d.queue); status != C.CL_SUCCESS {
		return nil, clError("clFinish", status)
	}

	raw := make([]int32, n*maxPerBody*2)
	if err := d.readInts(d.buffers.candidates, raw); err != nil {
		return nil, err
	}
	return decodeCandidates(raw), nil
}
