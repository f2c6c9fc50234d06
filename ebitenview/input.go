package ebitenview

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/phanxgames/turntable"
)

// keyNames maps the physical keys the viewer reacts to onto the logical
// names understood by turntable.InputState.
var keyNames = map[ebiten.Key]string{
	ebiten.KeyW:          turntable.KeyForward,
	ebiten.KeyS:          turntable.KeyBack,
	ebiten.KeyA:          turntable.KeyLeft,
	ebiten.KeyD:          turntable.KeyRight,
	ebiten.KeyQ:          turntable.KeyUp,
	ebiten.KeyE:          turntable.KeyDown,
	ebiten.KeyArrowUp:    turntable.KeyArrowUp,
	ebiten.KeyArrowDown:  turntable.KeyArrowDown,
	ebiten.KeyArrowLeft:  turntable.KeyArrowLeft,
	ebiten.KeyArrowRight: turntable.KeyArrowRight,
	ebiten.KeyShiftLeft:  turntable.KeyShift,
	ebiten.KeyShiftRight: turntable.KeyShift,
}

// keyName returns the logical name for k. Keys without a mapping still
// count as interaction, so they get their ebiten name.
func keyName(k ebiten.Key) string {
	if n, ok := keyNames[k]; ok {
		return n
	}
	return k.String()
}

// poller translates ebiten's polled input state into turntable event
// notifications. It must be called once per Update.
type poller struct {
	keys []ebiten.Key

	mouseDown bool
	inside    bool

	touchID  ebiten.TouchID
	touching bool
	touchIDs []ebiten.TouchID
}

func (p *poller) poll(v *turntable.Viewport, now time.Time) {
	p.pollKeys(v, now)
	if p.pollTouch(v, now) {
		return
	}
	p.pollMouse(v, now)
	if _, wy := ebiten.Wheel(); wy != 0 {
		// ebiten reports wheel-up as positive; the viewport expects DOM
		// deltaY, where scrolling down (away from the user) is positive.
		v.Wheel(-wy*wheelPixelsPerNotch, now)
	}
}

// wheelPixelsPerNotch converts ebiten wheel notches to DOM-style pixel deltas.
const wheelPixelsPerNotch = 100

func (p *poller) pollKeys(v *turntable.Viewport, now time.Time) {
	p.keys = inpututil.AppendJustPressedKeys(p.keys[:0])
	for _, k := range p.keys {
		v.KeyDown(keyName(k), now)
	}
	p.keys = inpututil.AppendJustReleasedKeys(p.keys[:0])
	for _, k := range p.keys {
		name := keyName(k)
		// Both shift keys share one logical name; keep it held while either is.
		if name == turntable.KeyShift && (ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)) {
			continue
		}
		v.KeyUp(name, now)
	}
}

func (p *poller) pollMouse(v *turntable.Viewport, now time.Time) {
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)
	size := v.Size()
	inside := turntable.Rect{Width: size.X - 1, Height: size.Y - 1}.Contains(x, y)

	if p.inside && !inside {
		p.mouseDown = false
		v.PointerLeave(now)
	}
	p.inside = inside
	if !inside {
		return
	}

	down := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	switch {
	case down && !p.mouseDown:
		v.PointerDown(x, y, now)
	case !down && p.mouseDown:
		v.PointerMove(x, y, now)
		v.PointerUp(now)
	default:
		v.PointerMove(x, y, now)
	}
	p.mouseDown = down
}

// pollTouch drives the viewport from the first active touch. It reports
// whether a touch owned the pointer this frame.
func (p *poller) pollTouch(v *turntable.Viewport, now time.Time) bool {
	p.touchIDs = ebiten.AppendTouchIDs(p.touchIDs[:0])
	if p.touching {
		for _, id := range p.touchIDs {
			if id == p.touchID {
				tx, ty := ebiten.TouchPosition(id)
				v.PointerMove(float64(tx), float64(ty), now)
				return true
			}
		}
		p.touching = false
		v.PointerUp(now)
		return true
	}
	if len(p.touchIDs) == 0 {
		return false
	}
	p.touchID = p.touchIDs[0]
	p.touching = true
	tx, ty := ebiten.TouchPosition(p.touchID)
	v.PointerDown(float64(tx), float64(ty), now)
	return true
}
