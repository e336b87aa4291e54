package engine

import (
	"biomorph/pkg/perf"
	"biomorph/pkg/scene"
)

// Renderer defines the interface for all renderers
type Renderer interface {
	// Render draws the scene as seen from the camera
	Render(s *scene.Scene, cam *Camera)

	// SetScene uploads the static geometry of a freshly built or re-biomed scene
	SetScene(s *scene.Scene)

	// ApplySettings switches effects on or off for the coming frames
	ApplySettings(settings perf.EffectSettings)

	// UpdateResolution updates the rendering resolution
	UpdateResolution(width, height int)

	// Close releases resources
	Close()
}
