package engine

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// biomeKeys select a configured biome by position in the sorted name list
var biomeKeys = []glfw.Key{glfw.Key1, glfw.Key2, glfw.Key3, glfw.Key4, glfw.Key5, glfw.Key6, glfw.Key7, glfw.Key8, glfw.Key9}

// watchedKeys are the keys the viewer reacts to
var watchedKeys = append([]glfw.Key{glfw.KeyEscape, glfw.KeyR}, biomeKeys...)

// InputHandler tracks keyboard state between frames
type InputHandler struct {
	window          *glfw.Window
	currentKeys     map[glfw.Key]bool
	previousKeys    map[glfw.Key]bool
	mouseWheelDelta float64
}

// NewInputHandler creates an input handler for window
func NewInputHandler(window *glfw.Window) *InputHandler {
	handler := &InputHandler{
		window:       window,
		currentKeys:  make(map[glfw.Key]bool),
		previousKeys: make(map[glfw.Key]bool),
	}

	window.SetScrollCallback(func(_ *glfw.Window, _, yoffset float64) {
		handler.mouseWheelDelta += yoffset
	})

	return handler
}

// Update samples the keyboard
func (ih *InputHandler) Update() {
	for k, v := range ih.currentKeys {
		ih.previousKeys[k] = v
	}

	for _, key := range watchedKeys {
		ih.currentKeys[key] = ih.window.GetKey(key) == glfw.Press
	}
}

// IsKeyPressed reports whether key went down this frame
func (ih *InputHandler) IsKeyPressed(key glfw.Key) bool {
	return ih.currentKeys[key] && !ih.previousKeys[key]
}

// BiomePressed returns the index of the biome key pressed this frame, or -1
func (ih *InputHandler) BiomePressed() int {
	for i, key := range biomeKeys {
		if ih.IsKeyPressed(key) {
			return i
		}
	}
	return -1
}

// GetMouseWheelDelta returns the wheel movement since the last call
func (ih *InputHandler) GetMouseWheelDelta() float64 {
	delta := ih.mouseWheelDelta
	ih.mouseWheelDelta = 0
	return delta
}
