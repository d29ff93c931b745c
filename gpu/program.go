package gpu

// #if defined(__APPLE__)
// #include <OpenCL/cl.h>
// #else
// #include <CL/cl.h>
// #endif
// #include <stdlib.h>
import "C"

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unsafe"
)

// program owns a built cl_program plus the one kernel this package ever
// creates from it, keyed by kernel name.
type program struct {
	handle  C.cl_program
	kernels map[string]C.cl_kernel
}

func (p *program) release() {
	for _, k := range p.kernels {
		C.clReleaseKernel(k)
	}
	if p.handle != nil {
		C.clReleaseProgram(p.handle)
	}
}

// loadOrBuildProgram returns the cached program for sourcePath, building it
// (and writing a sibling .bin cache) on first use or whenever the source is
// newer than the cached binary.
func (d *Device) loadOrBuildProgram(sourcePath, kernelName string) (*program, C.cl_kernel, error) {
	if p, ok := d.programs[sourcePath]; ok {
		if k, ok := p.kernels[kernelName]; ok {
			return p, k, nil
		}
		k, err := p.createKernel(kernelName)
		if err != nil {
			return nil, nil, err
		}
		return p, k, nil
	}

	binaryPath := sourcePath[:len(sourcePath)-len(filepath.Ext(sourcePath))] + ".bin"
	sourceInfo, err := os.Stat(sourcePath)
	if err != nil {
		return nil, nil, fmt.Errorf("gpu: stat kernel source: %w", err)
	}
	binaryInfo, binaryErr := os.Stat(binaryPath)

	var handle C.cl_program
	if binaryIsFresh(sourceInfo.ModTime(), timeOrZero(binaryInfo), binaryErr == nil) {
		handle, err = d.loadProgramBinary(binaryPath)
	} else {
		handle, err = d.buildProgramFromSource(sourcePath, binaryPath)
	}
	if err != nil {
		return nil, nil, err
	}

	p := &program{handle: handle, kernels: map[string]C.cl_kernel{}}
	d.programs[sourcePath] = p
	k, err := p.createKernel(kernelName)
	if err != nil {
		return nil, nil, err
	}
	return p, k, nil
}

func timeOrZero(info os.FileInfo) time.Time {
	if info == nil {
		return time.Time{}
	}
	return info.ModTime()
}

func (p *program) createKernel(name string) (C.cl_kernel, error) {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	var status C.cl_int
	kernel := C.clCreateKernel(p.handle, cName, &status)
	if status != C.CL_SUCCESS {
		return nil, clError("clCreateKernel:"+name, status)
	}
	p.kernels[name] = kernel
	return kernel, nil
}

func (d *Device) buildProgramFromSource(sourcePath, binaryPath string) (C.cl_program, error) {
	source, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("gpu: read kernel source: %w", err)
	}
	cSource := C.CString(string(source))
	defer C.free(unsafe.Pointer(cSource))
	length := C.size_t(len(source))

	var status C.cl_int
	handle := C.clCreateProgramWithSource(d.context, 1, &cSource, &length, &status)
	if status != C.CL_SUCCESS {
		return nil, clError("clCreateProgramWithSource", status)
	}

	buildStatus := C.clBuildProgram(handle, 1, &d.device, nil, nil, nil)
	if buildStatus != C.CL_SUCCESS {
		log := d.buildLog(handle)
		C.clReleaseProgram(handle)
		return nil, fmt.Errorf("gpu: clBuildProgram %s: status %d: %s", sourcePath, int(buildStatus), log)
	}

	if err := writeProgramBinary(handle, binaryPath); err != nil {
		return nil, err
	}
	return handle, nil
}

func (d *Device) buildLog(handle C.cl_program) string {
	var logSize C.size_t
	C.clGetProgramBuildInfo(handle, d.device, C.CL_PROGRAM_BUILD_LOG, 0, nil, &logSize)
	if logSize == 0 {
		return ""
	}
	buf := make([]byte, logSize)
	C.clGetProgramBuildInfo(handle, d.device, C.CL_PROGRAM_BUILD_LOG, logSize, unsafe.Pointer(&buf[0]), nil)
	return string(buf)
}

func writeProgramBinary(handle C.cl_program, binaryPath string) error {
	var size C.size_t
	if status := C.clGetProgramInfo(handle, C.CL_PROGRAM_BINARY_SIZES, C.size_t(unsafe.Sizeof(size)), unsafe.Pointer(&size), nil); status != C.CL_SUCCESS {
		return clError("clGetProgramInfo(BINARY_SIZES)", status)
	}
	if size == 0 {
		return fmt.Errorf("gpu: empty program binary")
	}
	binary := make([]byte, size)
	binaryPtr := unsafe.Pointer(&binary[0])
	if status := C.clGetProgramInfo(handle, C.CL_PROGRAM_BINARIES, C.size_t(unsafe.Sizeof(binaryPtr)), unsafe.Pointer(&binaryPtr), nil); status != C.CL_SUCCESS {
		return clError("clGetProgramInfo(BINARIES)", status)
	}
	if err := os.WriteFile(binaryPath, binary, 0o644); err != nil {
		return fmt.Errorf("gpu: write cached binary: %w", err)
	}
	return nil
}

func (d *Device) loadProgramBinary(binaryPath string) (C.cl_program, error) {
	binary, err := os.ReadFile(binaryPath)
	if err != nil {
		return nil, fmt.Errorf("gpu: read cached binary: %w", err)
	}
	cBinary := (*C.uchar)(unsafe.Pointer(&binary[0]))
	length := C.size_t(len(binary))
	var binaryStatus, status C.cl_int
	handle := C.clCreateProgramWithBinary(d.context, 1, &d.device, &length, &cBinary, &binaryStatus, &status)
	if status != C.CL_SUCCESS || binaryStatus != C.CL_SUCCESS {
		return nil, fmt.Errorf("gpu: clCreateProgramWithBinary: status %d/%d", int(status), int(binaryStatus))
	}
	if buildStatus := C.clBuildProgram(handle, 1, &d.device, nil, nil, nil); buildStatus != C.CL_SUCCESS {
		log := d.buildLog(handle)
		C.clReleaseProgram(handle)
		return nil, fmt.Errorf("gpu: clBuildProgram (cached binary): status %d: %s", int(buildStatus), log)
	}
	return handle, nil
}
