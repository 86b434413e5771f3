// Package viewer runs the interactive atlas viewer: window, GL backend and
// render pipeline driven by an orbit camera.
package viewer

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/atlasrp/internal/config"
	"github.com/Faultbox/atlasrp/internal/engine/camera"
	"github.com/Faultbox/atlasrp/internal/engine/debug"
	"github.com/Faultbox/atlasrp/internal/engine/glcontext"
	"github.com/Faultbox/atlasrp/internal/engine/input"
	"github.com/Faultbox/atlasrp/internal/engine/renderer"
	"github.com/Faultbox/atlasrp/internal/engine/scene"
	"github.com/Faultbox/atlasrp/internal/engine/uniform"
	"github.com/Faultbox/atlasrp/internal/engine/visibility"
	"github.com/Faultbox/atlasrp/internal/engine/window"
	"github.com/Faultbox/atlasrp/internal/logger"
)

// Viewer is the interactive application instance.
type Viewer struct {
	title    string
	running  bool
	window   *window.Window
	gl       *glcontext.Context
	pipeline *renderer.Pipeline
	input    *input.Input
	orbit    *camera.OrbitCamera
	dragging bool

	capture     *debug.AtlasCapture
	wantCapture bool
}

// New creates the window, the GL backend and the pipeline for s.
func New(cfg *config.Config, title string, s *scene.Scene) (*Viewer, error) {
	logger.Info("initializing viewer",
		zap.String("title", title),
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	v := &Viewer{title: title}

	// Create window (this also creates OpenGL context)
	var err error
	v.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create backend (AFTER window, since OpenGL context must exist)
	table := uniform.NewTable()
	uniforms := uniform.NewStandard(table)
	v.gl, err = glcontext.New(table, uniforms)
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create GL backend: %w", err)
	}

	v.pipeline = renderer.NewPipeline(cfg, visibility.NewSceneCuller(s), uniforms, v.gl.Capabilities())
	v.input = input.New()
	v.capture = debug.NewAtlasCapture("captures", "atlas")
	v.capture.MaxSide = 2048

	v.orbit = camera.NewOrbitCamera()
	if b, ok := s.Bounds(); ok {
		v.orbit.FitToBounds(b)
		v.orbit.Distance = min(v.orbit.Distance, 60)
	}

	logger.Info("viewer initialized successfully")
	return v, nil
}

// Run starts the main loop. It returns when the window is closed or ESC is
// pressed.
func (v *Viewer) Run() error {
	v.running = true

	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting render loop")

	for v.running {
		// 1. Process input
		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()

		// 2. Render
		width, height := v.window.DrawableSize()
		vp := v.orbit.Viewpoint("main", width, height)
		v.pipeline.Render(v.gl, []*camera.Viewpoint{vp})
		if v.wantCapture {
			v.captureAtlas()
			v.wantCapture = false
		}

		// 3. Present (swap buffers)
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", frameCount))
			v.window.SetTitle(fmt.Sprintf("%s - %d FPS", v.title, frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventKeyDown:
			if event.Key == sdl.SCANCODE_ESCAPE {
				v.running = false
			}
		case input.EventMouseDown:
			v.dragging = event.Button == sdl.BUTTON_LEFT
		case input.EventMouseUp:
			v.dragging = false
		case input.EventMouseMove:
			if v.dragging {
				v.orbit.HandleDrag(float32(event.RelX), float32(event.RelY))
			}
		case input.EventMouseWheel:
			v.orbit.HandleZoom(event.Wheel)
		}
	}

	if v.input.IsKeyPressed(sdl.SCANCODE_F12) {
		v.wantCapture = true
	}

	// Continuous panning with WASD, QE for height
	keys := sdl.GetKeyboardState()
	var forward, right, up float32
	if keys[sdl.SCANCODE_W] != 0 {
		forward++
	}
	if keys[sdl.SCANCODE_S] != 0 {
		forward--
	}
	if keys[sdl.SCANCODE_D] != 0 {
		right++
	}
	if keys[sdl.SCANCODE_A] != 0 {
		right--
	}
	if keys[sdl.SCANCODE_E] != 0 {
		up++
	}
	if keys[sdl.SCANCODE_Q] != 0 {
		up--
	}
	if forward != 0 || right != 0 || up != 0 {
		v.orbit.HandleMovement(forward, right, up)
	}
}

func (v *Viewer) captureAtlas() {
	depth, size, ok := v.gl.ReadAtlas()
	if !ok {
		logger.Info("no shadow atlas to capture")
		return
	}
	split := v.pipeline.Renderer().Lighting().Shadows().Split()
	path, err := v.capture.Capture(depth, size, split)
	if err != nil {
		logger.Error("atlas capture failed", zap.Error(err))
		return
	}
	logger.Info("atlas captured", zap.String("path", path), zap.Int("size", size), zap.Int("split", split))
}

// Close releases the backend and the window.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	if v.gl != nil {
		v.gl.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
