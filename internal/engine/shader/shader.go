// Package shader provides OpenGL shader compilation and uniform upload by
// uniform table ID.
package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/atlasrp/internal/engine/uniform"
	"github.com/Faultbox/atlasrp/pkg/math"
)

// CompileProgram compiles vertex and fragment shaders and links them into a program.
// Returns the program ID or an error if compilation/linking fails.
func CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	// Compile vertex shader
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	// Compile fragment shader
	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	// Link program
	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", string(log))
	}

	return program, nil
}

// compileShader compiles a single shader of the given type.
func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, string(log))
	}

	return shader, nil
}

// Program is a linked program whose uniforms are addressed by table ID.
// Locations are looked up once and cached; inactive uniforms cache -1 and
// every setter ignores them.
type Program struct {
	id        uint32
	table     *uniform.Table
	locations map[uniform.ID]int32
}

// NewProgram compiles and links a program resolving uniforms through table.
func NewProgram(vertexSrc, fragmentSrc string, table *uniform.Table) (*Program, error) {
	id, err := CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	return &Program{
		id:        id,
		table:     table,
		locations: make(map[uniform.ID]int32),
	}, nil
}

// ID returns the GL program name.
func (p *Program) ID() uint32 { return p.id }

// Use makes p the current program.
func (p *Program) Use() {
	gl.UseProgram(p.id)
}

// Location returns the uniform location of id, or -1 if the program does
// not use it.
func (p *Program) Location(id uniform.ID) int32 {
	if loc, ok := p.locations[id]; ok {
		return loc
	}
	loc := int32(-1)
	if name := p.table.Name(id); name != "" {
		loc = gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	}
	p.locations[id] = loc
	return loc
}

// SetInt uploads an int (or sampler unit) uniform.
func (p *Program) SetInt(id uniform.ID, v int32) {
	if loc := p.Location(id); loc >= 0 {
		gl.Uniform1i(loc, v)
	}
}

// SetFloat uploads a float uniform.
func (p *Program) SetFloat(id uniform.ID, v float32) {
	if loc := p.Location(id); loc >= 0 {
		gl.Uniform1f(loc, v)
	}
}

// SetVec4s uploads a vec4 or vec4 array uniform.
func (p *Program) SetVec4s(id uniform.ID, v []math.Vec4) {
	if loc := p.Location(id); loc >= 0 && len(v) > 0 {
		gl.Uniform4fv(loc, int32(len(v)), &v[0][0])
	}
}

// SetMat4 uploads a mat4 uniform.
func (p *Program) SetMat4(id uniform.ID, m math.Mat4) {
	if loc := p.Location(id); loc >= 0 {
		gl.UniformMatrix4fv(loc, 1, false, m.Ptr())
	}
}

// SetMat4s uploads a mat4 array uniform.
func (p *Program) SetMat4s(id uniform.ID, m []math.Mat4) {
	if loc := p.Location(id); loc >= 0 && len(m) > 0 {
		gl.UniformMatrix4fv(loc, int32(len(m)), false, m[0].Ptr())
	}
}

// Delete releases the program.
func (p *Program) Delete() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}
