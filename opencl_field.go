//go:build opencl

package main

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"
)

// openCLFieldSolver runs the echo field decay and colorization on an OpenCL
// device. The host buffer stays authoritative for splats; it is uploaded when
// dirty and read back after each step so the CPU and GPU copies agree.
type openCLFieldSolver struct {
	context          *cl.Context
	queue            *cl.CommandQueue
	program          *cl.Program
	decayKernel      *cl.Kernel
	clearWallsKernel *cl.Kernel
	colorizeKernel   *cl.Kernel
	paintWallsKernel *cl.Kernel
	fieldBuf         *cl.MemObject
	wallIndexBuf     *cl.MemObject
	pixelBuf         *cl.MemObject
	width            int
	height           int
	wallIndices      []int32
	wallCount        int
	wallsSynced      bool
	deviceName       string
	useFP16          bool
	halfScratch      []uint16
	pixels           []byte
}

const fieldKernelSource = `
#ifdef USE_FP16
#define FIELD_T half
#define LOAD_FIELD(buf, idx) vload_half(idx, buf)
#define STORE_FIELD(val, buf, idx) vstore_half(val, idx, buf)
#else
#define FIELD_T float
#define LOAD_FIELD(buf, idx) buf[idx]
#define STORE_FIELD(val, buf, idx) buf[idx] = (val)
#endif

__kernel void decay_field(
    const int size,
    const float damp,
    __global FIELD_T* field)
{
    int idx = get_global_id(0);
    if (idx >= size) {
        return;
    }
    STORE_FIELD(LOAD_FIELD(field, idx) * damp, field, idx);
}

__kernel void clear_walls(
    __global FIELD_T* field,
    __global const int* wall_indices,
    const int wall_count)
{
    int gid = get_global_id(0);
    if (gid >= wall_count) {
        return;
    }
    STORE_FIELD(0.0f, field, wall_indices[gid]);
}

__kernel void colorize(
    const int size,
    __global const FIELD_T* field,
    __global uchar4* pixels)
{
    int idx = get_global_id(0);
    if (idx >= size) {
        return;
    }
    float v = clamp((float)LOAD_FIELD(field, idx), 0.0f, 1.0f);
    uchar intensity = (uchar)(v * 255.0f);
    uchar blue = (uchar)min(255.0f, v * 255.0f * 1.2f);
    pixels[idx] = (uchar4)(intensity, intensity, blue, 255);
}

__kernel void paint_walls(
    __global uchar4* pixels,
    __global const int* wall_indices,
    const int wall_count)
{
    int gid = get_global_id(0);
    if (gid >= wall_count) {
        return;
    }
    pixels[wall_indices[gid]] = (uchar4)(30, 40, 80, 255);
}`

func newOpenCLFieldSolver(width, height int, preferFP16 bool) (*openCLFieldSolver, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms; install OpenCL drivers and verify with `clinfo`"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available; ensure a vendor driver is installed and detected by `clinfo`")
	}
	var device *cl.Device
	for _, p := range platforms {
		devices, derr := p.GetDevices(cl.DeviceTypeGPU)
		if derr != nil && derr != cl.ErrDeviceNotFound {
			continue
		}
		if len(devices) > 0 {
			device = devices[0]
			break
		}
	}
	if device == nil {
		for _, p := range platforms {
			devices, derr := p.GetDevices(cl.DeviceTypeCPU)
			if derr != nil && derr != cl.ErrDeviceNotFound {
				continue
			}
			if len(devices) > 0 {
				device = devices[0]
				break
			}
		}
	}
	if device == nil {
		return nil, errors.New("no suitable OpenCL devices found")
	}

	useFP16 := preferFP16 && strings.Contains(device.Extensions(), "cl_khr_fp16")

	context, err := cl.CreateContext([]*cl.Device{device})
	if err != nil {
		return nil, fmt.Errorf("creating OpenCL context: %w", err)
	}
	queue, err := context.CreateCommandQueue(device, 0)
	if err != nil {
		context.Release()
		return nil, fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	program, err := context.CreateProgramWithSource([]string{fieldKernelSource})
	if err != nil {
		queue.Release()
		context.Release()
		return nil, fmt.Errorf("creating OpenCL program: %w", err)
	}
	buildOptions := ""
	if useFP16 {
		buildOptions = "-DUSE_FP16"
	}
	if err := program.BuildProgram([]*cl.Device{device}, buildOptions); err != nil {
		program.Release()
		queue.Release()
		context.Release()
		if buildErr, ok := err.(cl.BuildError); ok {
			return nil, fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return nil, fmt.Errorf("building OpenCL program: %w", err)
	}

	solver := &openCLFieldSolver{
		context:    context,
		queue:      queue,
		program:    program,
		width:      width,
		height:     height,
		deviceName: device.Name(),
		useFP16:    useFP16,
	}

	for _, k := range []struct {
		name string
		dst  **cl.Kernel
	}{
		{"decay_field", &solver.decayKernel},
		{"clear_walls", &solver.clearWallsKernel},
		{"colorize", &solver.colorizeKernel},
		{"paint_walls", &solver.paintWallsKernel},
	} {
		kernel, kerr := program.CreateKernel(k.name)
		if kerr != nil {
			solver.Close()
			return nil, fmt.Errorf("creating %s kernel: %w", k.name, kerr)
		}
		*k.dst = kernel
	}

	size := width * height
	fieldBytes := size * int(unsafe.Sizeof(float32(0)))
	if useFP16 {
		fieldBytes = size * int(unsafe.Sizeof(uint16(0)))
		solver.halfScratch = make([]uint16, size)
	}
	solver.fieldBuf, err = context.CreateEmptyBuffer(cl.MemReadWrite, fieldBytes)
	if err != nil {
		solver.Close()
		return nil, fmt.Errorf("allocating field buffer: %w", err)
	}
	solver.wallIndexBuf, err = context.CreateEmptyBuffer(cl.MemReadOnly, size*int(unsafe.Sizeof(int32(0))))
	if err != nil {
		solver.Close()
		return nil, fmt.Errorf("allocating wall index buffer: %w", err)
	}
	solver.pixelBuf, err = context.CreateEmptyBuffer(cl.MemWriteOnly, size*4)
	if err != nil {
		solver.Close()
		return nil, fmt.Errorf("allocating pixel buffer: %w", err)
	}
	solver.pixels = make([]byte, size*4)

	if err := solver.decayKernel.SetArgs(int32(size), fieldDamp32, solver.fieldBuf); err != nil {
		solver.Close()
		return nil, fmt.Errorf("setting decay kernel arguments: %w", err)
	}
	if err := solver.clearWallsKernel.SetArgs(solver.fieldBuf, solver.wallIndexBuf, int32(0)); err != nil {
		solver.Close()
		return nil, fmt.Errorf("setting wall kernel arguments: %w", err)
	}
	if err := solver.colorizeKernel.SetArgs(int32(size), solver.fieldBuf, solver.pixelBuf); err != nil {
		solver.Close()
		return nil, fmt.Errorf("setting colorize kernel arguments: %w", err)
	}
	if err := solver.paintWallsKernel.SetArgs(solver.pixelBuf, solver.wallIndexBuf, int32(0)); err != nil {
		solver.Close()
		return nil, fmt.Errorf("setting wall paint kernel arguments: %w", err)
	}

	return solver, nil
}

func (s *openCLFieldSolver) ensureWallIndices(walls []bool) []int32 {
	size := s.width * s.height
	if len(walls) != size {
		s.wallIndices = s.wallIndices[:0]
		return s.wallIndices
	}
	if cap(s.wallIndices) < size {
		s.wallIndices = make([]int32, 0, size)
	} else {
		s.wallIndices = s.wallIndices[:0]
	}
	for i, wall := range walls {
		if wall {
			s.wallIndices = append(s.wallIndices, int32(i))
		}
	}
	return s.wallIndices
}

// writeField uploads the host energy buffer, packing to binary16 when the
// device runs the fp16 kernels.
func (s *openCLFieldSolver) writeField(field *echoField) error {
	if s.useFP16 {
		packFloat16(s.halfScratch, field.energy)
		ptr := unsafe.Pointer(&s.halfScratch[0])
		byteLen := len(s.halfScratch) * int(unsafe.Sizeof(uint16(0)))
		if _, err := s.queue.EnqueueWriteBuffer(s.fieldBuf, false, 0, byteLen, ptr, nil); err != nil {
			return fmt.Errorf("writing fp16 field buffer: %w", err)
		}
		return nil
	}
	if _, err := s.queue.EnqueueWriteBufferFloat32(s.fieldBuf, false, 0, field.energy, nil); err != nil {
		return fmt.Errorf("writing field buffer: %w", err)
	}
	return nil
}

// readField downloads the decayed energy buffer back into host memory.
func (s *openCLFieldSolver) readField(field *echoField) error {
	if s.useFP16 {
		ptr := unsafe.Pointer(&s.halfScratch[0])
		byteLen := len(s.halfScratch) * int(unsafe.Sizeof(uint16(0)))
		if _, err := s.queue.EnqueueReadBuffer(s.fieldBuf, true, 0, byteLen, ptr, nil); err != nil {
			return fmt.Errorf("reading fp16 field buffer: %w", err)
		}
		unpackFloat16(field.energy, s.halfScratch)
		return nil
	}
	if _, err := s.queue.EnqueueReadBufferFloat32(s.fieldBuf, true, 0, field.energy, nil); err != nil {
		return fmt.Errorf("reading field buffer: %w", err)
	}
	return nil
}

// Step decays the field on the device, clears wall cells, renders the RGBA
// pixel buffer, and returns it. The returned slice is reused between calls.
func (s *openCLFieldSolver) Step(field *echoField, walls []bool, wallsDirty bool, showWalls bool) ([]byte, error) {
	size := s.width * s.height
	if len(field.energy) != size {
		return nil, fmt.Errorf("unexpected field buffer size")
	}
	if field.wasModified() {
		if err := s.writeField(field); err != nil {
			return nil, err
		}
		field.clearDirty()
	}
	if !s.wallsSynced || wallsDirty {
		indices := s.ensureWallIndices(walls)
		s.wallCount = len(indices)
		if s.wallCount > 0 {
			ptr := unsafe.Pointer(&indices[0])
			byteLen := len(indices) * int(unsafe.Sizeof(int32(0)))
			if _, err := s.queue.EnqueueWriteBuffer(s.wallIndexBuf, false, 0, byteLen, ptr, nil); err != nil {
				return nil, fmt.Errorf("writing wall index buffer: %w", err)
			}
		}
		if err := s.clearWallsKernel.SetArgInt32(2, int32(s.wallCount)); err != nil {
			return nil, fmt.Errorf("setting wall count: %w", err)
		}
		if err := s.paintWallsKernel.SetArgInt32(2, int32(s.wallCount)); err != nil {
			return nil, fmt.Errorf("setting wall paint count: %w", err)
		}
		s.wallsSynced = true
	}

	global := []int{size}
	if _, err := s.queue.EnqueueNDRangeKernel(s.decayKernel, nil, global, nil, nil); err != nil {
		return nil, fmt.Errorf("enqueueing decay kernel: %w", err)
	}
	if s.wallCount > 0 {
		if _, err := s.queue.EnqueueNDRangeKernel(s.clearWallsKernel, nil, []int{s.wallCount}, nil, nil); err != nil {
			return nil, fmt.Errorf("clearing walls: %w", err)
		}
	}
	if _, err := s.queue.EnqueueNDRangeKernel(s.colorizeKernel, nil, global, nil, nil); err != nil {
		return nil, fmt.Errorf("enqueueing colorize kernel: %w", err)
	}
	if showWalls && s.wallCount > 0 {
		if _, err := s.queue.EnqueueNDRangeKernel(s.paintWallsKernel, nil, []int{s.wallCount}, nil, nil); err != nil {
			return nil, fmt.Errorf("painting walls: %w", err)
		}
	}

	if err := s.readField(field); err != nil {
		return nil, err
	}
	field.clearDirty()
	ptr := unsafe.Pointer(&s.pixels[0])
	if _, err := s.queue.EnqueueReadBuffer(s.pixelBuf, true, 0, len(s.pixels), ptr, nil); err != nil {
		return nil, fmt.Errorf("reading pixel buffer: %w", err)
	}
	return s.pixels, nil
}

func (s *openCLFieldSolver) Close() {
	if s.pixelBuf != nil {
		s.pixelBuf.Release()
		s.pixelBuf = nil
	}
	if s.wallIndexBuf != nil {
		s.wallIndexBuf.Release()
		s.wallIndexBuf = nil
	}
	if s.fieldBuf != nil {
		s.fieldBuf.Release()
		s.fieldBuf = nil
	}
	for _, kernel := range []**cl.Kernel{&s.decayKernel, &s.clearWallsKernel, &s.colorizeKernel, &s.paintWallsKernel} {
		if *kernel != nil {
			(*kernel).Release()
			*kernel = nil
		}
	}
	if s.program != nil {
		s.program.Release()
		s.program = nil
	}
	if s.queue != nil {
		s.queue.Release()
		s.queue = nil
	}
	if s.context != nil {
		s.context.Release()
		s.context = nil
	}
}

func (s *openCLFieldSolver) DeviceName() string {
	return s.deviceName
}
