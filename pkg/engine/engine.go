package engine

import (
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"biomorph/internal/logger"
	"biomorph/pkg/config"
	"biomorph/pkg/perf"
	"biomorph/pkg/scene"
)

// Engine owns the window and runs the frame loop
type Engine struct {
	window      *glfw.Window
	config      *config.Config
	logger      *logger.Logger
	scene       *scene.Scene
	controller  *perf.Controller
	renderer    Renderer
	camera      *Camera
	input       *InputHandler
	audioEngine *AudioEngine
	biomes      []string
	isRunning   bool
	lastUpdate  time.Time
	frameRate   int
	frames      int
}

// NewEngine creates the window, the GL context and the scene
func NewEngine(cfg *config.Config, log *logger.Logger) (*Engine, error) {
	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize GLFW")
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	var monitor *glfw.Monitor
	if cfg.Graphics.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}

	window, err := glfw.CreateWindow(cfg.Graphics.Width, cfg.Graphics.Height, cfg.Graphics.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, errors.Wrap(err, "failed to create GLFW window")
	}

	window.MakeContextCurrent()
	if cfg.Graphics.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, errors.Wrap(err, "failed to initialize OpenGL")
	}
	log.Infof("OpenGL %s", gl.GoStr(gl.GetString(gl.VERSION)))

	e := &Engine{
		window:    window,
		config:    cfg,
		logger:    log,
		biomes:    cfg.BiomeNames(),
		frameRate: cfg.Graphics.FrameRate,
	}
	if err := e.init(); err != nil {
		e.cleanup()
		return nil, err
	}

	return e, nil
}

// init builds everything that needs a live context
func (e *Engine) init() error {
	sc, err := scene.Build(e.config, e.logger)
	if err != nil {
		return errors.Wrap(err, "failed to build scene")
	}
	e.scene = sc

	opts, err := e.config.PerfOptions()
	if err != nil {
		return errors.Wrap(err, "invalid performance settings")
	}
	if e.controller, err = perf.NewController(opts, e.logger); err != nil {
		return err
	}

	width, height := e.window.GetFramebufferSize()
	renderer, err := NewOpenGLRenderer(width, height)
	if err != nil {
		return errors.Wrap(err, "failed to initialize renderer")
	}
	renderer.SetScene(sc)
	e.renderer = renderer

	e.camera = NewCamera(width, height)
	e.input = NewInputHandler(e.window)
	e.window.SetFramebufferSizeCallback(e.resizeCallback)

	if e.config.Audio.Enabled {
		// The viewer is still useful without sound
		audio, err := NewAudioEngine(sc.Voice, e.logger)
		if err != nil {
			e.logger.Warnf("audio disabled: %v", err)
		} else {
			e.audioEngine = audio
		}
	}

	return nil
}

// Run starts the main loop
func (e *Engine) Run() {
	e.isRunning = true
	e.lastUpdate = time.Now()

	for e.isRunning && !e.window.ShouldClose() {
		currentTime := time.Now()
		deltaTime := currentTime.Sub(e.lastUpdate).Seconds()
		e.lastUpdate = currentTime

		e.processInput()
		e.update(deltaTime)
		e.render()

		e.window.SwapBuffers()
		glfw.PollEvents()

		// Cap the frame rate
		if e.frameRate > 0 {
			frameTime := time.Since(currentTime)
			targetFrameTime := time.Second / time.Duration(e.frameRate)
			if frameTime < targetFrameTime {
				time.Sleep(targetFrameTime - frameTime)
			}
		}
	}

	e.cleanup()
}

// processInput handles user input
func (e *Engine) processInput() {
	e.input.Update()

	if e.input.IsKeyPressed(glfw.KeyEscape) {
		e.isRunning = false
	}

	if i := e.input.BiomePressed(); i >= 0 && i < len(e.biomes) {
		e.setBiome(e.biomes[i])
	}

	// R restores full quality and lets the controller start over
	if e.input.IsKeyPressed(glfw.KeyR) {
		e.controller.Reset()
		e.logger.Info("performance controller reset")
	}

	if wheel := e.input.GetMouseWheelDelta(); wheel != 0 {
		e.camera.Zoom(wheel)
	}
}

func (e *Engine) setBiome(name string) {
	if name == e.scene.Biome().Name {
		return
	}
	if err := e.scene.SetBiome(name); err != nil {
		e.logger.Errorf("biome change failed: %v", err)
		return
	}
	e.renderer.SetScene(e.scene)
}

// update advances the simulation by one frame
func (e *Engine) update(deltaTime float64) {
	e.controller.Update(deltaTime)
	settings := e.controller.Settings()

	e.scene.Update(deltaTime, settings)
	e.renderer.ApplySettings(settings)
	if e.audioEngine != nil {
		e.audioEngine.SetEnabled(settings.AmbientAudio)
	}

	origin := e.scene.CreatureOrigin()
	e.camera.Target = mgl32.Vec3{float32(origin.X()), float32(origin.Y()), float32(origin.Z())}
	e.camera.Update(deltaTime)

	e.frames++
	if e.frames%e.config.Performance.WindowFrames == 0 {
		e.logger.Debugf("%.1f fps, quality %d/%d", e.controller.AverageFPS(), settings.Quality, settings.MaxQuality)
	}
}

// render renders the current frame
func (e *Engine) render() {
	e.renderer.Render(e.scene, e.camera)
}

func (e *Engine) resizeCallback(_ *glfw.Window, width int, height int) {
	e.logger.Debugf("framebuffer resized to %dx%d", width, height)
	e.renderer.UpdateResolution(width, height)
	e.camera.Resize(width, height)
}

// cleanup performs necessary cleanup before exiting
func (e *Engine) cleanup() {
	e.logger.Info("Shutting down engine...")
	if e.audioEngine != nil {
		e.audioEngine.Shutdown()
	}
	if e.renderer != nil {
		e.renderer.Close()
	}
	glfw.Terminate()
}
