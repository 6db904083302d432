package camera

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-nav/engine/camera/mode"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

func TestGPUCameraUniformLayout(t *testing.T) {
	var pv mgl64.Mat4
	for i := range pv {
		pv[i] = float64(i) + 0.5
	}
	p := Perspective{
		Direction: mgl32.Vec3{0, 0.6, -0.8},
		Fov:       60,
		ProjView:  pv,
	}
	g := NewGPUCameraUniform(p)
	if g.Size() != 80 {
		t.Fatalf("Size() = %d, want 80", g.Size())
	}

	buf := g.Marshal()
	if len(buf) != 80 {
		t.Fatalf("len(Marshal()) = %d, want 80", len(buf))
	}
	f32 := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
	}
	for i := range 16 {
		if got := f32(i * 4); got != float32(pv[i]) {
			t.Errorf("view_proj[%d] at offset %d = %v, want %v", i, i*4, got, pv[i])
		}
	}
	for i, want := range p.Direction {
		if got := f32(64 + i*4); got != want {
			t.Errorf("direction[%d] at offset %d = %v, want %v", i, 64+i*4, got, want)
		}
	}
	if got := f32(76); got != 1.5 {
		t.Errorf("fov_factor at offset 76 = %v, want 1.5", got)
	}
}

func TestGPUCameraUniformFromCamera(t *testing.T) {
	c, _ := newTestNatural(t, mode.Free)
	c.SetFov(80)
	p := c.Perspective()
	g := NewGPUCameraUniform(p)
	if got := float64(g.FovFactor); got != c.FovFactor() {
		t.Errorf("fov factor = %v, want %v", got, c.FovFactor())
	}
	if g.Direction != [3]float32(p.Direction) {
		t.Errorf("direction = %v, want %v", g.Direction, p.Direction)
	}
	if !strings.Contains(GPUCameraUniformSource, "fov_factor: f32") {
		t.Error("shader struct does not declare fov_factor")
	}
}
