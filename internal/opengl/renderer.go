package opengl

import (
	"fmt"
	"log"
	"math"
	"strings"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"hall-of-fame/core"
	"hall-of-fame/scene"
)

// GPUMesh holds the OpenGL buffer objects for an uploaded mesh.
type GPUMesh struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
	HasIndices bool
	// released is set once the buffers are deleted; mesh copies that still
	// point here upload afresh.
	released bool
}

type pointLightLocs struct {
	pos, color, intensity, rng int32
}

type spotLightLocs struct {
	pos, dir, color, intensity, rng, inner, outer int32
}

// Renderer is the OpenGL rendering backend.
type Renderer struct {
	program uint32

	mvpLoc          int32
	modelLoc        int32
	normalMatrixLoc int32
	uvRepeatLoc     int32

	lightDirLoc       int32
	lightColorLoc     int32
	lightIntensityLoc int32
	ambientColorLoc   int32
	cameraPosLoc      int32

	pointLightCountLoc int32
	pointLights        [MaxPointLights]pointLightLocs
	spotLightCountLoc  int32
	spotLights         [MaxSpotLights]spotLightLocs

	matAlbedoLoc    int32
	matSpecularLoc  int32
	matShininessLoc int32
	matOpacityLoc   int32
	unlitLoc        int32
	albedoTexLoc    int32
	hasTextureLoc   int32

	gpuMeshes map[*scene.Mesh]*GPUMesh
	images    *images

	viewportW, viewportH int32
	cullEnabled          bool
	blendEnabled         bool
}

// NewRenderer initialises OpenGL.
// Must be called after the GLFW window context is made current.
func NewRenderer() (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Printf("[GL] version %s", gl.GoStr(gl.GetString(gl.VERSION)))

	prog, err := newProgram(vertSrc, fragSrc)
	if err != nil {
		return nil, fmt.Errorf("main shader compile: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	loc := func(name string) int32 {
		return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
	}

	r := &Renderer{
		program: prog,

		mvpLoc:          loc("mvp"),
		modelLoc:        loc("model"),
		normalMatrixLoc: loc("normalMatrix"),
		uvRepeatLoc:     loc("uvRepeat"),

		lightDirLoc:       loc("lightDir"),
		lightColorLoc:     loc("lightColor"),
		lightIntensityLoc: loc("lightIntensity"),
		ambientColorLoc:   loc("ambientColor"),
		cameraPosLoc:      loc("cameraPos"),

		pointLightCountLoc: loc("pointLightCount"),
		spotLightCountLoc:  loc("spotLightCount"),

		matAlbedoLoc:    loc("matAlbedo"),
		matSpecularLoc:  loc("matSpecular"),
		matShininessLoc: loc("matShininess"),
		matOpacityLoc:   loc("matOpacity"),
		unlitLoc:        loc("unlit"),
		albedoTexLoc:    loc("albedoTex"),
		hasTextureLoc:   loc("hasTexture"),

		gpuMeshes:   make(map[*scene.Mesh]*GPUMesh),
		images:      newImages(),
		cullEnabled: true,
	}

	for i := range r.pointLights {
		r.pointLights[i] = pointLightLocs{
			pos:       loc(fmt.Sprintf("pointLightPos[%d]", i)),
			color:     loc(fmt.Sprintf("pointLightColor[%d]", i)),
			intensity: loc(fmt.Sprintf("pointLightIntensity[%d]", i)),
			rng:       loc(fmt.Sprintf("pointLightRange[%d]", i)),
		}
	}
	for i := range r.spotLights {
		r.spotLights[i] = spotLightLocs{
			pos:       loc(fmt.Sprintf("spotLightPos[%d]", i)),
			dir:       loc(fmt.Sprintf("spotLightDir[%d]", i)),
			color:     loc(fmt.Sprintf("spotLightColor[%d]", i)),
			intensity: loc(fmt.Sprintf("spotLightIntensity[%d]", i)),
			rng:       loc(fmt.Sprintf("spotLightRange[%d]", i)),
			inner:     loc(fmt.Sprintf("spotLightInner[%d]", i)),
			outer:     loc(fmt.Sprintf("spotLightOuter[%d]", i)),
		}
	}

	gl.UseProgram(prog)
	gl.Uniform1i(r.albedoTexLoc, 0)

	return r, nil
}

// SetViewport resizes the OpenGL viewport.
func (r *Renderer) SetViewport(width, height int) {
	r.viewportW = int32(width)
	r.viewportH = int32(height)
	gl.Viewport(0, 0, int32(width), int32(height))
}

// BeginFrame clears the framebuffer and uploads the per-frame lighting.
// Spot and point lights beyond the shader limits are dropped.
func (r *Renderer) BeginFrame(sky core.Color, lights []scene.WorldLight, ambient core.Color, camPos mgl32.Vec3) {
	gl.ClearColor(sky.R, sky.G, sky.B, sky.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(r.program)
	gl.Uniform3f(r.ambientColorLoc, ambient.R, ambient.G, ambient.B)
	gl.Uniform3f(r.cameraPosLoc, camPos.X(), camPos.Y(), camPos.Z())

	// No directional light unless the scene provides one.
	dirLight := mgl32.Vec3{0, -1, 0}
	dirColor := core.ColorBlack
	dirIntensity := float32(0)

	pointIdx, spotIdx := 0, 0
	for _, l := range lights {
		switch l.Type {
		case scene.LightTypeDirectional:
			if l.Direction.Len() > 0 {
				dirLight = l.Direction.Normalize()
			}
			dirColor = l.Color
			dirIntensity = l.Intensity
		case scene.LightTypePoint:
			if pointIdx >= MaxPointLights {
				continue
			}
			u := r.pointLights[pointIdx]
			gl.Uniform3f(u.pos, l.Position.X(), l.Position.Y(), l.Position.Z())
			gl.Uniform3f(u.color, l.Color.R, l.Color.G, l.Color.B)
			gl.Uniform1f(u.intensity, l.Intensity)
			gl.Uniform1f(u.rng, l.Range)
			pointIdx++
		case scene.LightTypeSpot:
			if spotIdx >= MaxSpotLights {
				continue
			}
			u := r.spotLights[spotIdx]
			dir := l.Direction.Normalize()
			outer := cosAngleDeg(l.SpotAngle)
			inner := cosAngleDeg(l.SpotAngle * (1 - mgl32.Clamp(l.Penumbra, 0, 1)))
			gl.Uniform3f(u.pos, l.Position.X(), l.Position.Y(), l.Position.Z())
			gl.Uniform3f(u.dir, dir.X(), dir.Y(), dir.Z())
			gl.Uniform3f(u.color, l.Color.R, l.Color.G, l.Color.B)
			gl.Uniform1f(u.intensity, l.Intensity)
			gl.Uniform1f(u.rng, l.Range)
			gl.Uniform1f(u.inner, inner)
			gl.Uniform1f(u.outer, outer)
			spotIdx++
		}
	}

	gl.Uniform3f(r.lightDirLoc, dirLight.X(), dirLight.Y(), dirLight.Z())
	gl.Uniform3f(r.lightColorLoc, dirColor.R, dirColor.G, dirColor.B)
	gl.Uniform1f(r.lightIntensityLoc, dirIntensity)
	gl.Uniform1i(r.pointLightCountLoc, int32(pointIdx))
	gl.Uniform1i(r.spotLightCountLoc, int32(spotIdx))
}

// DrawMesh draws a mesh with the given MVP and model matrices.
// Material properties are read from mesh.Material.
func (r *Renderer) DrawMesh(mesh *scene.Mesh, mvp, model mgl32.Mat4) {
	gpu := r.ensureUploaded(mesh)
	if gpu == nil {
		return
	}

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.mvpLoc, 1, false, &mvp[0])
	gl.UniformMatrix4fv(r.modelLoc, 1, false, &model[0])
	normal := model.Mat3().Inv().Transpose()
	gl.UniformMatrix3fv(r.normalMatrixLoc, 1, false, &normal[0])

	mat := mesh.Material
	if mat == nil {
		mat = scene.DefaultMaterial()
	}
	r.applyMaterial(mat)

	gl.BindVertexArray(gpu.VAO)
	if gpu.HasIndices {
		gl.DrawElements(gl.TRIANGLES, gpu.IndexCount, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, int32(len(mesh.Vertices)))
	}
	gl.BindVertexArray(0)
}

// SetTransparentPass switches blending and depth writes for the
// transparent pass. Call with false before the next opaque pass.
func (r *Renderer) SetTransparentPass(on bool) {
	if on == r.blendEnabled {
		return
	}
	r.blendEnabled = on
	if on {
		gl.Enable(gl.BLEND)
		gl.DepthMask(false)
	} else {
		gl.Disable(gl.BLEND)
		gl.DepthMask(true)
	}
}

// applyMaterial sets all material-related shader uniforms and binds textures.
func (r *Renderer) applyMaterial(mat *scene.Material) {
	gl.Uniform3f(r.matAlbedoLoc, mat.Albedo.R, mat.Albedo.G, mat.Albedo.B)
	gl.Uniform3f(r.matSpecularLoc, mat.Specular.R, mat.Specular.G, mat.Specular.B)
	gl.Uniform1f(r.matShininessLoc, mat.Shininess)
	gl.Uniform1f(r.matOpacityLoc, mat.Opacity*mat.Albedo.A)
	gl.Uniform1i(r.unlitLoc, boolInt(mat.Unlit))

	r.setCulling(!mat.DoubleSided)

	repeat := mgl32.Vec2{1, 1}
	if tex := mat.AlbedoTexture; tex != nil && r.images.bind(tex.Image) {
		if tex.Repeat.X() > 0 && tex.Repeat.Y() > 0 {
			repeat = tex.Repeat
		}
		gl.Uniform1i(r.hasTextureLoc, 1)
	} else {
		gl.Uniform1i(r.hasTextureLoc, 0)
	}
	gl.Uniform2f(r.uvRepeatLoc, repeat.X(), repeat.Y())
}

func (r *Renderer) setCulling(on bool) {
	if on == r.cullEnabled {
		return
	}
	r.cullEnabled = on
	if on {
		gl.Enable(gl.CULL_FACE)
	} else {
		gl.Disable(gl.CULL_FACE)
	}
}

// ReleaseMesh frees GPU buffers for the given mesh.
func (r *Renderer) ReleaseMesh(mesh *scene.Mesh) {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		// copies made with WithMaterial share buffers; delete them once
		if !gpu.released {
			gl.DeleteVertexArrays(1, &gpu.VAO)
			gl.DeleteBuffers(1, &gpu.VBO)
			if gpu.HasIndices {
				gl.DeleteBuffers(1, &gpu.EBO)
			}
			gpu.released = true
		}
		delete(r.gpuMeshes, mesh)
		mesh.GPUData = nil
	}
}

// ReleaseUnused frees every uploaded mesh whose buffers are not in live
// and returns how many were freed.
func (r *Renderer) ReleaseUnused(live map[*GPUMesh]bool) int {
	n := 0
	for mesh, gpu := range r.gpuMeshes {
		if !live[gpu] {
			r.ReleaseMesh(mesh)
			n++
		}
	}
	return n
}

// Destroy releases all GPU resources.
func (r *Renderer) Destroy() {
	for mesh := range r.gpuMeshes {
		r.ReleaseMesh(mesh)
	}
	r.images.releaseAll()
	gl.DeleteProgram(r.program)
}

// ensureUploaded uploads vertex/index data if not already done. Meshes
// copied with WithMaterial share the GPU buffers of the original.
func (r *Renderer) ensureUploaded(mesh *scene.Mesh) *GPUMesh {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		return gpu
	}
	if gpu, ok := mesh.GPUData.(*GPUMesh); ok && !gpu.released {
		return gpu
	}
	if len(mesh.Vertices) == 0 {
		return nil
	}

	stride := int32(unsafe.Sizeof(core.Vertex{}))

	gpu := &GPUMesh{
		IndexCount: int32(len(mesh.Indices)),
		HasIndices: len(mesh.Indices) > 0,
	}

	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER,
		len(mesh.Vertices)*int(stride),
		gl.Ptr(mesh.Vertices),
		gl.STATIC_DRAW)

	var v core.Vertex
	posOff := int(unsafe.Offsetof(v.Position))
	normOff := int(unsafe.Offsetof(v.Normal))
	uvOff := int(unsafe.Offsetof(v.UV))
	colorOff := int(unsafe.Offsetof(v.Color))

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(posOff))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(normOff))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(uvOff))
	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointer(3, 4, gl.FLOAT, false, stride, gl.PtrOffset(colorOff))

	if gpu.HasIndices {
		gl.GenBuffers(1, &gpu.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER,
			len(mesh.Indices)*4,
			gl.Ptr(mesh.Indices),
			gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)

	r.gpuMeshes[mesh] = gpu
	mesh.GPUData = gpu
	return gpu
}

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		msg := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(msg))
		return 0, fmt.Errorf("link failed: %v", msg)
	}

	gl.DeleteShader(vert)
	gl.DeleteShader(frag)
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		msg := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(msg))
		return 0, fmt.Errorf("compile failed: %v", msg)
	}
	return shader, nil
}

// cosAngleDeg converts an angle in degrees to its cosine (for spot light cutoffs).
func cosAngleDeg(deg float32) float32 {
	return float32(math.Cos(float64(deg) * math.Pi / 180.0))
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
