package turntable

import "strings"

// Logical key names understood by the controller. Keys are tracked by their
// lower-cased DOM-style name so any driver can feed them.
const (
	KeyForward    = "w"
	KeyBack       = "s"
	KeyLeft       = "a"
	KeyRight      = "d"
	KeyUp         = "q"
	KeyDown       = "e"
	KeyArrowUp    = "arrowup"
	KeyArrowDown  = "arrowdown"
	KeyArrowLeft  = "arrowleft"
	KeyArrowRight = "arrowright"
	KeyShift      = "shift"
)

// movementKeys are the keys that translate the camera.
var movementKeys = []string{
	KeyForward, KeyBack, KeyLeft, KeyRight, KeyUp, KeyDown,
	KeyArrowUp, KeyArrowDown, KeyArrowLeft, KeyArrowRight,
}

// InputState holds the current key flags and pointer-drag status. It is pure
// state: event notifications mutate it and the frame tick reads it. It never
// touches the camera or object.
type InputState struct {
	keys     map[string]bool
	dragging bool

	lastX, lastY   float64
	deltaX, deltaY float64
}

// NewInputState creates an empty tracker.
func NewInputState() *InputState {
	return &InputState{keys: make(map[string]bool)}
}

func normalizeKey(name string) string {
	return strings.ToLower(name)
}

// SetKey records a key press or release. Pressing a held key again and
// releasing a key that is not held are both no-ops.
func (s *InputState) SetKey(name string, pressed bool) {
	k := normalizeKey(name)
	if pressed {
		s.keys[k] = true
	} else {
		delete(s.keys, k)
	}
}

// IsPressed reports whether the key is currently held.
func (s *InputState) IsPressed(name string) bool {
	return s.keys[normalizeKey(name)]
}

// AnyPressed reports whether at least one of the keys is held.
func (s *InputState) AnyPressed(names ...string) bool {
	for _, n := range names {
		if s.keys[normalizeKey(n)] {
			return true
		}
	}
	return false
}

// Pressed returns the number of keys currently held.
func (s *InputState) Pressed() int { return len(s.keys) }

// SetDragging starts or stops a pointer drag. Starting a drag discards any
// pointer delta accumulated before it.
func (s *InputState) SetDragging(dragging bool) {
	if dragging && !s.dragging {
		s.deltaX, s.deltaY = 0, 0
	}
	s.dragging = dragging
}

// IsDragging reports whether a pointer drag is in progress.
func (s *InputState) IsDragging() bool { return s.dragging }

// MovePointer records the pointer position. While dragging, the displacement
// since the previous position accumulates until PointerDelta reads it.
func (s *InputState) MovePointer(x, y float64) {
	if s.dragging {
		s.deltaX += x - s.lastX
		s.deltaY += y - s.lastY
	}
	s.lastX, s.lastY = x, y
}

// Pointer returns the last recorded pointer position.
func (s *InputState) Pointer() (x, y float64) { return s.lastX, s.lastY }

// PointerDelta returns the accumulated drag displacement and clears it.
func (s *InputState) PointerDelta() (dx, dy float64) {
	dx, dy = s.deltaX, s.deltaY
	s.deltaX, s.deltaY = 0, 0
	return dx, dy
}

// Reset releases every key and ends any drag.
func (s *InputState) Reset() {
	clear(s.keys)
	s.dragging = false
	s.deltaX, s.deltaY = 0, 0
}
