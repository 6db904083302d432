package camera

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// GPUCameraUniformSource is the canonical WGSL definition of the CameraUniform struct.
// Matches GPUCameraUniform layout exactly (80 bytes).
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// GPUCameraUniform is the GPU-aligned camera uniform. Rendering is camera-relative,
// so the eye position is always the origin and is not uploaded.
// Size: 80 bytes (WGSL aligned).
type GPUCameraUniform struct {
	ViewProj  [16]float32 // offset  0: combined view-projection matrix (mat4x4<f32>)
	Direction [3]float32  // offset 64: view direction (vec3<f32>)
	FovFactor float32     // offset 76: fov / 40
}

// NewGPUCameraUniform narrows a perspective snapshot for upload.
//
// Parameters:
//   - p: the perspective to upload
//
// Returns:
//   - GPUCameraUniform: the uniform value
func NewGPUCameraUniform(p Perspective) GPUCameraUniform {
	var g GPUCameraUniform
	for i, v := range p.ProjView {
		g.ViewProj[i] = float32(v)
	}
	g.Direction = [3]float32{p.Direction[0], p.Direction[1], p.Direction[2]}
	g.FovFactor = float32(p.Fov / fovFactorBase)
	return g
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ViewProj[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.Direction[i]))
	}
	binary.LittleEndian.PutUint32(buf[76:], math.Float32bits(g.FovFactor))
	return buf
}

// NewUniformBuffer allocates a uniform buffer sized for GPUCameraUniform.
//
// Parameters:
//   - device: the GPU device
//
// Returns:
//   - *wgpu.Buffer: the buffer
//   - error: the device error, if any
func NewUniformBuffer(device *wgpu.Device) (*wgpu.Buffer, error) {
	var g GPUCameraUniform
	return device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            "Camera Uniform Buffer",
		Size:             uint64(g.Size()),
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
}

// WriteUniform stages the uniform into buffer on queue.
func (g *GPUCameraUniform) WriteUniform(queue *wgpu.Queue, buffer *wgpu.Buffer) error {
	return queue.WriteBuffer(buffer, 0, g.Marshal())
}
