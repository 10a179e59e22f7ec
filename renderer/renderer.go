package renderer

import (
	"fmt"
	"log"

	"hall-of-fame/internal/opengl"
	"hall-of-fame/platform"
	"hall-of-fame/scene"
)

// RenderEngine is the high-level renderer that drives the OpenGL backend.
type RenderEngine struct {
	gl             *opengl.Renderer
	window         *platform.Window
	Scene          *scene.Scene
	FrustumCulling bool

	// Per-frame stats (populated during Render)
	lastObjects   int
	lastVertices  int
	lastTriangles int
	lastCulled    int
}

func NewRenderEngine(window *platform.Window) (*RenderEngine, error) {
	glRenderer, err := opengl.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenGL renderer: %w", err)
	}

	fbw, fbh := window.GetFramebufferSize()
	glRenderer.SetViewport(fbw, fbh)

	log.Printf("[Render] engine initialized (OpenGL)")
	return &RenderEngine{
		gl:             glRenderer,
		window:         window,
		FrustumCulling: true,
	}, nil
}

func (re *RenderEngine) SetScene(s *scene.Scene) {
	re.Scene = s
}

// Render draws the scene: opaque meshes first, then transparent meshes back
// to front with blending.
func (re *RenderEngine) Render() error {
	if re.Scene == nil || re.Scene.Camera == nil {
		return fmt.Errorf("no scene or camera")
	}
	cam := re.Scene.Camera

	re.gl.BeginFrame(
		re.Scene.SkyColor,
		re.Scene.CollectLights(),
		re.Scene.Ambient,
		cam.Position,
	)

	dl := scene.BuildDrawList(re.Scene, re.FrustumCulling)
	vp := cam.ViewProjectionMatrix()

	objects, vertices, triangles := 0, 0, 0
	draw := func(items []scene.DrawItem) {
		for _, it := range items {
			mesh := it.Node.Mesh
			re.gl.DrawMesh(mesh, vp.Mul4(it.Model), it.Model)
			objects++
			vertices += len(mesh.Vertices)
			triangles += len(mesh.Indices) / 3
		}
	}

	re.gl.SetTransparentPass(false)
	draw(dl.Opaque)
	re.gl.SetTransparentPass(true)
	draw(dl.Transparent)
	re.gl.SetTransparentPass(false)

	re.lastObjects = objects
	re.lastVertices = vertices
	re.lastTriangles = triangles
	re.lastCulled = dl.Culled
	return nil
}

// Present swaps buffers. Call after Render().
func (re *RenderEngine) Present() {
	re.window.SwapBuffers()
}

func (re *RenderEngine) Resize(width, height int) {
	re.gl.SetViewport(width, height)
	if re.Scene != nil && re.Scene.Camera != nil {
		re.Scene.Camera.UpdateAspectRatio(float32(width), float32(height))
	}
}

// Sweep frees the GPU buffers of meshes no longer reachable from the scene
// root, such as labels replaced after a login. Detached meshes that are
// attached again later are simply uploaded again.
func (re *RenderEngine) Sweep() int {
	if re.Scene == nil {
		return 0
	}
	live := make(map[*opengl.GPUMesh]bool)
	re.Scene.Root.Traverse(func(n *scene.Node) {
		if n.Mesh == nil {
			return
		}
		if gpu, ok := n.Mesh.GPUData.(*opengl.GPUMesh); ok {
			live[gpu] = true
		}
	})
	return re.gl.ReleaseUnused(live)
}

func (re *RenderEngine) Destroy() {
	re.gl.Destroy()
}

// DrawStats returns stats from the most recent Render call.
func (re *RenderEngine) DrawStats() (objects, vertices, triangles, culled int) {
	return re.lastObjects, re.lastVertices, re.lastTriangles, re.lastCulled
}
