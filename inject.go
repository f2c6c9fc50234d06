package turntable

import "time"

type syntheticKind uint8

const (
	syntheticPress syntheticKind = iota
	syntheticMove
	syntheticRelease
	syntheticKeyDown
	syntheticKeyUp
	syntheticWheel
	syntheticHands
)

// syntheticEvent represents a single injected input event. Screen
// coordinates are in viewport pixels, identical to real pointer input.
type syntheticEvent struct {
	kind   syntheticKind
	x, y   float64
	key    string
	hands  []Hand
	imgDim Vec2
}

// InjectPress queues a pointer press at the given viewport coordinates. The
// event is consumed on the next Tick.
func (v *Viewport) InjectPress(x, y float64) {
	v.injectQueue = append(v.injectQueue, syntheticEvent{kind: syntheticPress, x: x, y: y})
}

// InjectMove queues a pointer move. Use this between InjectPress and
// InjectRelease to simulate a drag.
func (v *Viewport) InjectMove(x, y float64) {
	v.injectQueue = append(v.injectQueue, syntheticEvent{kind: syntheticMove, x: x, y: y})
}

// InjectRelease queues a pointer release at the given coordinates.
func (v *Viewport) InjectRelease(x, y float64) {
	v.injectQueue = append(v.injectQueue, syntheticEvent{kind: syntheticRelease, x: x, y: y})
}

// InjectClick is a convenience that queues a press followed by a release at
// the same coordinates. Consumes two ticks.
func (v *Viewport) InjectClick(x, y float64) {
	v.InjectPress(x, y)
	v.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY), linearly
// interpolated moves over frames-2 intermediate ticks, a move onto (toX, toY)
// and the release. The total sequence consumes frames+1 ticks. Minimum
// frames is 2.
func (v *Viewport) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	v.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		x := fromX + (toX-fromX)*t
		y := fromY + (toY-fromY)*t
		v.InjectMove(x, y)
	}
	v.InjectMove(toX, toY)
	v.InjectRelease(toX, toY)
}

// InjectKeyDown queues a key press.
func (v *Viewport) InjectKeyDown(key string) {
	v.injectQueue = append(v.injectQueue, syntheticEvent{kind: syntheticKeyDown, key: key})
}

// InjectKeyUp queues a key release.
func (v *Viewport) InjectKeyUp(key string) {
	v.injectQueue = append(v.injectQueue, syntheticEvent{kind: syntheticKeyUp, key: key})
}

// InjectWheel queues a scroll-wheel step.
func (v *Viewport) InjectWheel(deltaY float64) {
	v.injectQueue = append(v.injectQueue, syntheticEvent{kind: syntheticWheel, y: deltaY})
}

// InjectHands queues a hand-landmark sample for the synchronous gesture path.
// Pass no hands to simulate the hand leaving the frame.
func (v *Viewport) InjectHands(imageSize Vec2, hands ...Hand) {
	v.injectQueue = append(v.injectQueue, syntheticEvent{kind: syntheticHands, hands: hands, imgDim: imageSize})
}

// PendingInjections returns how many injected events are still queued.
func (v *Viewport) PendingInjections() int { return len(v.injectQueue) }

// processInjectedInput pops one event from the inject queue and feeds it
// through the same notification as real input. Returns true if an event was
// consumed.
func (v *Viewport) processInjectedInput(now time.Time) bool {
	if len(v.injectQueue) == 0 {
		return false
	}
	evt := v.injectQueue[0]
	copy(v.injectQueue, v.injectQueue[1:])
	v.injectQueue = v.injectQueue[:len(v.injectQueue)-1]

	switch evt.kind {
	case syntheticPress:
		v.PointerDown(evt.x, evt.y, now)
	case syntheticMove:
		v.PointerMove(evt.x, evt.y, now)
	case syntheticRelease:
		v.PointerMove(evt.x, evt.y, now)
		v.PointerUp(now)
	case syntheticKeyDown:
		v.KeyDown(evt.key, now)
	case syntheticKeyUp:
		v.KeyUp(evt.key, now)
	case syntheticWheel:
		v.Wheel(evt.y, now)
	case syntheticHands:
		v.SubmitHands(evt.hands, evt.imgDim)
	}
	return true
}
