// Package debugui provides a Dear ImGui overlay for the game loop: a
// scheduler performance window and a live game inspector.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/blockfall/engine"
)

// Item is a Dear ImGui render function drawn every frame.
type Item struct {
	Render func()
}

// InputState tracks whether Dear ImGui is consuming mouse or keyboard input.
// Frontends skip game key handling while WantCaptureKeyboard is set.
type InputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem refreshes InputState and defers every item's render function to
// the end of the frame.
type ImguiSystem struct {
	Items []Item
	State *InputState
}

// Add appends a render function.
func (s *ImguiSystem) Add(render func()) {
	s.Items = append(s.Items, Item{Render: render})
}

// Execute updates input state and queues all ImGui render functions for execution.
func (s *ImguiSystem) Execute(frame *engine.UpdateFrame) {
	if s.State != nil {
		io := imgui.CurrentIO()
		s.State.WantCaptureMouse = io.WantCaptureMouse()
		s.State.WantCaptureKeyboard = io.WantCaptureKeyboard()
	}

	for _, item := range s.Items {
		frame.Commands.Defer(item.Render)
	}
}
