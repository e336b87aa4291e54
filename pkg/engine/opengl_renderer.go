package engine

import (
	"strings"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"biomorph/pkg/perf"
	"biomorph/pkg/scene"
)

// Fixed look of the scene
var (
	lightDir   = mgl32.Vec3{-0.4, -1, -0.3}.Normalize()
	fogColor   = mgl32.Vec3{0.07, 0.08, 0.10}
	sporeColor = mgl32.Vec3{0.75, 0.95, 0.65}
)

const (
	fogDensity     = 0.015
	shadowAlpha    = 0.45
	bloomThreshold = 0.55
	sporePointSize = 40
)

// OpenGLRenderer draws the creature, terrain, props and spores into an
// offscreen framebuffer and composites it with a bloom pass
type OpenGLRenderer struct {
	width  int
	height int

	meshProgram     uint32
	particleProgram uint32
	postProgram     uint32

	creature *gpuMesh
	terrain  *gpuMesh
	tree     *gpuMesh
	rock     *gpuMesh

	sporeVAO   uint32
	sporeVBO   uint32
	sporeCount int32

	// Post-processing
	fbo           uint32
	rbo           uint32
	screenTexture uint32
	quadVAO       uint32
	quadVBO       uint32

	settings perf.EffectSettings

	// Thread safety
	mutex sync.Mutex
}

// NewOpenGLRenderer creates a renderer. A GL context must be current.
func NewOpenGLRenderer(width, height int) (*OpenGLRenderer, error) {
	r := &OpenGLRenderer{
		width:  width,
		height: height,
		settings: perf.EffectSettings{
			BloomIntensity: 1,
			AnimationSpeed: 1,
			Shadows:        true,
			Particles:      true,
		},
	}

	if err := r.initOpenGL(); err != nil {
		return nil, err
	}

	if err := r.setupFramebuffer(); err != nil {
		return nil, err
	}

	return r, nil
}

// initOpenGL initializes OpenGL resources
func (r *OpenGLRenderer) initOpenGL() error {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(fogColor.X(), fogColor.Y(), fogColor.Z(), 1.0)

	var err error
	if r.meshProgram, err = createShaderProgram(meshVertexShaderSource, meshFragmentShaderSource); err != nil {
		return errors.Wrap(err, "mesh shader")
	}
	if r.particleProgram, err = createShaderProgram(particleVertexShaderSource, particleFragmentShaderSource); err != nil {
		return errors.Wrap(err, "particle shader")
	}
	if r.postProgram, err = createShaderProgram(postProcessVertexShaderSource, postProcessFragmentShaderSource); err != nil {
		return errors.Wrap(err, "post-process shader")
	}

	r.tree = newPropMesh(treeColor)
	r.rock = newPropMesh(rockColor)

	gl.GenVertexArrays(1, &r.sporeVAO)
	gl.BindVertexArray(r.sporeVAO)
	gl.GenBuffers(1, &r.sporeVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.sporeVBO)
	gl.VertexAttribPointer(attribPosition, 3, gl.FLOAT, false, 3*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(attribPosition)
	gl.BindVertexArray(0)

	r.setupScreenQuad()

	return nil
}

// setupScreenQuad creates a full-screen quad for post-processing
func (r *OpenGLRenderer) setupScreenQuad() {
	vertices := []float32{
		// Positions   // Texture coords
		-1.0, -1.0, 0.0, 0.0, 0.0,
		1.0, -1.0, 0.0, 1.0, 0.0,
		1.0, 1.0, 0.0, 1.0, 1.0,
		-1.0, 1.0, 0.0, 0.0, 1.0,
	}

	gl.GenVertexArrays(1, &r.quadVAO)
	gl.GenBuffers(1, &r.quadVBO)
	gl.BindVertexArray(r.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	// Position attribute
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 5*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	// Texture coord attribute
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, 5*4, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
}

// setupFramebuffer initializes the framebuffer for post-processing
func (r *OpenGLRenderer) setupFramebuffer() error {
	gl.GenFramebuffers(1, &r.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, r.fbo)

	gl.GenTextures(1, &r.screenTexture)
	gl.BindTexture(gl.TEXTURE_2D, r.screenTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(r.width), int32(r.height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, r.screenTexture, 0)

	gl.GenRenderbuffers(1, &r.rbo)
	gl.BindRenderbuffer(gl.RENDERBUFFER, r.rbo)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, int32(r.width), int32(r.height))
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.RENDERBUFFER, r.rbo)

	if gl.CheckFramebufferStatus(gl.FRAMEBUFFER) != gl.FRAMEBUFFER_COMPLETE {
		return errors.New("framebuffer not complete")
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	return nil
}

// SetScene uploads the creature and terrain meshes
func (r *OpenGLRenderer) SetScene(s *scene.Scene) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.creature != nil {
		r.creature.delete()
	}
	if r.terrain != nil {
		r.terrain.delete()
	}

	r.creature = newGPUMesh(s.Positions, s.Creature.Normals, s.CreatureColors, s.Creature.Indices, true)
	r.terrain = newGPUMesh(s.Terrain.Positions, s.Terrain.Normals, s.Terrain.Colors, s.Terrain.Indices, false)

	r.sporeCount = int32(s.Spores.Count())
	gl.BindBuffer(gl.ARRAY_BUFFER, r.sporeVBO)
	if r.sporeCount > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(s.Spores.Positions)*4, gl.Ptr(s.Spores.Positions), gl.STREAM_DRAW)
	}
}

// ApplySettings switches effects for the coming frames
func (r *OpenGLRenderer) ApplySettings(settings perf.EffectSettings) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.settings = settings
}

// Render draws one frame
func (r *OpenGLRenderer) Render(s *scene.Scene, cam *Camera) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.creature == nil {
		return
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, r.fbo)
	gl.Viewport(0, 0, int32(r.width), int32(r.height))
	gl.Enable(gl.DEPTH_TEST)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	view := cam.View()
	projection := cam.Projection()
	eye := cam.Position()

	gl.UseProgram(r.meshProgram)
	setMat4(r.meshProgram, "view", view)
	setMat4(r.meshProgram, "projection", projection)
	setVec3(r.meshProgram, "lightDir", lightDir)
	setVec3(r.meshProgram, "cameraPos", eye)
	setVec3(r.meshProgram, "fogColor", fogColor)
	setFloat(r.meshProgram, "fogDensity", fogDensity)
	setFloat(r.meshProgram, "flatShade", 0)
	setFloat(r.meshProgram, "shadowAlpha", shadowAlpha)

	// Terrain
	setMat4(r.meshProgram, "model", mgl32.Ident4())
	r.terrain.draw()

	// Props
	for _, p := range s.Props {
		x, y, z := p.Position.Elem()
		sx, sy, sz := p.Scale.Elem()
		model := mgl32.Translate3D(float32(x), float32(y), float32(z)).
			Mul4(mgl32.HomogRotate3DY(float32(p.Yaw))).
			Mul4(mgl32.Scale3D(float32(sx), float32(sy), float32(sz)))
		setMat4(r.meshProgram, "model", model)
		if p.Kind == scene.PropTree {
			r.tree.draw()
		} else {
			r.rock.draw()
		}
	}

	// Creature
	origin := s.CreatureOrigin()
	scale := float32(s.CreatureScale())
	creatureModel := mgl32.Translate3D(float32(origin.X()), float32(origin.Y()), float32(origin.Z())).
		Mul4(mgl32.Scale3D(scale, scale, scale))
	r.creature.updatePositions(s.Positions)
	setMat4(r.meshProgram, "model", creatureModel)
	r.creature.draw()

	if r.settings.Shadows {
		ground := float32(s.HeightAt(origin.X(), origin.Z())) + 0.02
		gl.Enable(gl.BLEND)
		gl.DepthMask(false)
		setFloat(r.meshProgram, "flatShade", 1)
		setMat4(r.meshProgram, "model", planarShadow(lightDir, ground).Mul4(creatureModel))
		r.creature.draw()
		gl.DepthMask(true)
		gl.Disable(gl.BLEND)
	}

	if r.settings.Particles && r.sporeCount > 0 {
		gl.UseProgram(r.particleProgram)
		setMat4(r.particleProgram, "view", view)
		setMat4(r.particleProgram, "projection", projection)
		setFloat(r.particleProgram, "pointSize", sporePointSize)
		setVec3(r.particleProgram, "sporeColor", sporeColor)

		gl.BindBuffer(gl.ARRAY_BUFFER, r.sporeVBO)
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(s.Spores.Positions)*4, gl.Ptr(s.Spores.Positions))
		gl.Enable(gl.BLEND)
		gl.DepthMask(false)
		gl.BindVertexArray(r.sporeVAO)
		gl.DrawArrays(gl.POINTS, 0, r.sporeCount)
		gl.BindVertexArray(0)
		gl.DepthMask(true)
		gl.Disable(gl.BLEND)
	}

	r.renderPostProcess()
}

// renderPostProcess composites the offscreen frame onto the window
func (r *OpenGLRenderer) renderPostProcess() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(r.width), int32(r.height))
	gl.Disable(gl.DEPTH_TEST)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.UseProgram(r.postProgram)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.screenTexture)
	gl.Uniform1i(uniform(r.postProgram, "screenTexture"), 0)
	gl.Uniform2f(uniform(r.postProgram, "resolution"), float32(r.width), float32(r.height))
	setFloat(r.postProgram, "bloomIntensity", float32(r.settings.BloomIntensity))
	setFloat(r.postProgram, "bloomThreshold", bloomThreshold)

	gl.BindVertexArray(r.quadVAO)
	gl.DrawArrays(gl.TRIANGLE_FAN, 0, 4)
	gl.BindVertexArray(0)
}

// UpdateResolution resizes the offscreen targets
func (r *OpenGLRenderer) UpdateResolution(width, height int) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if width <= 0 || height <= 0 || (r.width == width && r.height == height) {
		return
	}

	r.width = width
	r.height = height

	gl.BindTexture(gl.TEXTURE_2D, r.screenTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)

	gl.BindRenderbuffer(gl.RENDERBUFFER, r.rbo)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, int32(width), int32(height))
}

// Close releases all GL resources
func (r *OpenGLRenderer) Close() {
	for _, m := range []*gpuMesh{r.creature, r.terrain, r.tree, r.rock} {
		if m != nil {
			m.delete()
		}
	}
	gl.DeleteVertexArrays(1, &r.sporeVAO)
	gl.DeleteBuffers(1, &r.sporeVBO)
	gl.DeleteVertexArrays(1, &r.quadVAO)
	gl.DeleteBuffers(1, &r.quadVBO)
	gl.DeleteTextures(1, &r.screenTexture)
	gl.DeleteRenderbuffers(1, &r.rbo)
	gl.DeleteFramebuffers(1, &r.fbo)
	gl.DeleteProgram(r.meshProgram)
	gl.DeleteProgram(r.particleProgram)
	gl.DeleteProgram(r.postProgram)
}

// Uniform helpers

func uniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func setMat4(program uint32, name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(uniform(program, name), 1, false, &m[0])
}

func setVec3(program uint32, name string, v mgl32.Vec3) {
	gl.Uniform3f(uniform(program, name), v.X(), v.Y(), v.Z())
}

func setFloat(program uint32, name string, v float32) {
	gl.Uniform1f(uniform(program, name), v)
}

// createShaderProgram compiles and links a shader program from source
func createShaderProgram(vertexSource, fragmentSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}

	fragmentShader, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))

		gl.DeleteProgram(program)
		gl.DeleteShader(vertexShader)
		gl.DeleteShader(fragmentShader)

		return 0, errors.Errorf("shader program linking failed: %v", log)
	}

	// Shaders are no longer needed once linked
	gl.DetachShader(program, vertexShader)
	gl.DetachShader(program, fragmentShader)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	return program, nil
}

// compileShader compiles a shader from source
func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))

		gl.DeleteShader(shader)

		return 0, errors.Errorf("shader compilation failed: %v", log)
	}

	return shader, nil
}
