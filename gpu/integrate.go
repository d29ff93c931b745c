package gpu

// #if defined(__APPLE__)
// #include <OpenCL/cl.h>
// #else
// #include <CL/cl.h>
// #endif
import "C"

import (
	"path/filepath"
	"runtime"

	"github.com/nburjui/orbitsim/body"
)

var kernelDir = func() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "kernels")
}()

var integrationKernelPath = filepath.Join(kernelDir, "leapfrog_yoshida.cl")

const integrationKernelName = "leapfrog_yoshida"

// Integrate runs one Yoshida integration step for every body in store on the
// device: one work-item per body, reading positions/velocities/planet
// masses and writing back updated positions and velocities. It mirrors the
// CPU integrator's math (integrator.Step) in single precision.
func (d *Device) Integrate(store *body.Store, planetMasses []float64, dt float64) error {
	n := store.Len()
	if n == 0 {
		return nil
	}
	if err := d.ensureBodyBuffers(n); err != nil {
		return err
	}
	if err := d.ensurePlanetMassBuffer(store.PlanetCount); err != nil {
		return err
	}

	positions := make([]float32, n*2)
	velocities := make([]float32, n*2)
	radii := make([]float32, n)
	for i := 0; i < n; i++ {
		positions[2*i] = float32(store.Positions[i].X)
		positions[2*i+1] = float32(store.Positions[i].Y)
		velocities[2*i] = float32(store.Velocities[i].X)
		velocities[2*i+1] = float32(store.Velocities[i].Y)
		radii[i] = float32(store.Radii[i])
	}
	masses32 := make([]float32, store.PlanetCount+1)
	for i, m := range planetMasses {
		masses32[i] = float32(m)
	}
	snapshot32 := make([]float32, (store.PlanetCount+1)*2)
	for i := 0; i < store.PlanetCount; i++ {
		snapshot32[2*i] = float32(store.Positions[i].X)
		snapshot32[2*i+1] = float32(store.Positions[i].Y)
	}

	if err := d.writeFloats(d.buffers.positions, positions); err != nil {
		return err
	}
	if err := d.writeFloats(d.buffers.velocities, velocities); err != nil {
		return err
	}
	if err := d.writeFloats(d.buffers.radii, radii); err != nil {
		return err
	}
	if err := d.writeFloats(d.buffers.planetMasses, masses32); err != nil {
		return err
	}
	if err := d.writeFloats(d.buffers.planetSnapshot, snapshot32); err != nil {
		return err
	}

	_, kernel, err := d.loadOrBuildProgram(integrationKernelPath, integrationKernelName)
	if err != nil {
		return err
	}

	args := []func() error{
		func() error { return setKernelArgMem(kernel, 0, d.buffers.positions) },
		func() error { return setKernelArgMem(kernel, 1, d.buffers.velocities) },
		func() error { return setKernelArgMem(kernel, 2, d.buffers.planetSnapshot) },
		func() error { return setKernelArgMem(kernel, 3, d.buffers.planetMasses) },
		func() error { return setKernelArgInt(kernel, 4, int32(store.PlanetCount)) },
		func() error { return setKernelArgFloat(kernel, 5, float32(dt)) },
		func() error { return setKernelArgFloat2(kernel, 6, d.globalGravityX, d.globalGravityY) },
	}
	for _, setArg := range args {
		if err := setArg(); err != nil {
			return err
		}
	}

	globalSize := C.size_t(n)
	status := C.clEnqueueNDRangeKernel(d.queue, kernel, 1, nil, &globalSize, nil, 0, nil, nil)
	if err := clError("clEnqueueNDRangeKernel(integrate)", status); err != nil {
		return err
	}
	if status := C.clFinish(d.queue); status != C.CL_SUCCESS {
		return clError("clFinish", status)
	}

	if err := d.readFloats(d.buffers.positions, positions); err != nil {
		return err
	}
	if err := d.readFloats(d.buffers.velocities, velocities); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		store.Positions[i].X = float64(positions[2*i])
		store.Positions[i].Y = float64(positions[2*i+1])
		store.Velocities[i].X = float64(velocities[2*i])
		store.Velocities[i].Y = float64(velocities[2*i+1])
	}
	return nil
}
