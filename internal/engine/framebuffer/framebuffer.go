// Package framebuffer provides OpenGL depth-only render targets for shadow
// atlases.
package framebuffer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// DepthTarget is a square depth texture attached to its own framebuffer.
// The texture is set up for comparison sampling (sampler2DShadow).
type DepthTarget struct {
	fbo     uint32
	texture uint32
	size    int32
}

// NewDepth creates a depth target of size x size texels. depthBits selects
// the internal format (16, 24 or 32); linear enables bilinear filtering of
// the comparison result.
func NewDepth(size int32, depthBits int, linear bool) (*DepthTarget, error) {
	if size < 1 {
		return nil, fmt.Errorf("invalid depth target size %d", size)
	}

	dt := &DepthTarget{size: size}
	if err := dt.create(internalFormat(depthBits), linear); err != nil {
		return nil, fmt.Errorf("creating depth target: %w", err)
	}
	return dt, nil
}

func internalFormat(depthBits int) int32 {
	switch {
	case depthBits <= 16:
		return gl.DEPTH_COMPONENT16
	case depthBits <= 24:
		return gl.DEPTH_COMPONENT24
	default:
		return gl.DEPTH_COMPONENT32F
	}
}

func (dt *DepthTarget) create(format int32, linear bool) error {
	gl.GenFramebuffers(1, &dt.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, dt.fbo)

	gl.GenTextures(1, &dt.texture)
	gl.BindTexture(gl.TEXTURE_2D, dt.texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, format, dt.size, dt.size, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)

	filter := int32(gl.NEAREST)
	if linear {
		filter = gl.LINEAR
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)

	// Clamp to border with white (1.0) so samples outside the atlas are lit
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	borderColor := []float32{1.0, 1.0, 1.0, 1.0}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &borderColor[0])

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL)

	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, dt.texture, 0)

	// No color buffer for depth passes
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		dt.Destroy()
		return fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}
	return nil
}

// Bind makes this target the current render target covering the whole
// texture.
func (dt *DepthTarget) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, dt.fbo)
	gl.Viewport(0, 0, dt.size, dt.size)
}

// BindTexture binds the depth texture to a texture unit (gl.TEXTURE0 + n).
func (dt *DepthTarget) BindTexture(textureUnit uint32) {
	gl.ActiveTexture(textureUnit)
	gl.BindTexture(gl.TEXTURE_2D, dt.texture)
}

// Size returns the side of the texture in texels.
func (dt *DepthTarget) Size() int32 {
	return dt.size
}

// ReadDepth reads the whole texture back as depth values in [0, 1], row by
// row from the bottom. Stalls until pending draws into it finish.
func (dt *DepthTarget) ReadDepth() []float32 {
	depth := make([]float32, int(dt.size)*int(dt.size))
	gl.BindTexture(gl.TEXTURE_2D, dt.texture)
	gl.GetTexImage(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT, gl.FLOAT, gl.Ptr(&depth[0]))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return depth
}

// Unbind restores the default framebuffer.
func Unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// Destroy releases all OpenGL resources.
func (dt *DepthTarget) Destroy() {
	if dt.fbo != 0 {
		gl.DeleteFramebuffers(1, &dt.fbo)
		dt.fbo = 0
	}
	if dt.texture != 0 {
		gl.DeleteTextures(1, &dt.texture)
		dt.texture = 0
	}
}
