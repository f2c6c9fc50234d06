package turntable

import (
	"fmt"

	"fortio.org/log"
)

// Stats counts what the viewport applied since it was created. It is updated
// on every tick regardless of debug mode; debug mode only adds logging.
type Stats struct {
	Ticks int

	KeyboardTicks   int
	FlightTicks     int
	GestureTicks    int
	AutoRotateTicks int

	DragEvents  int
	WheelEvents int
	Pinches     int
}

func (s *Stats) record(rep FrameReport) {
	s.Ticks++
	switch rep.Camera {
	case SourceKeyboard:
		s.KeyboardTicks++
	case SourceFlight:
		s.FlightTicks++
	}
	switch rep.Orientation {
	case SourceGesture:
		s.GestureTicks++
	case SourceAutoRotate:
		s.AutoRotateTicks++
	}
	for _, e := range rep.PinchEdges {
		if e.Started {
			s.Pinches++
		}
	}
}

// String formats the counters on one line.
func (s Stats) String() string {
	return fmt.Sprintf("ticks: %d | keyboard: %d | flight: %d | gesture: %d | auto-rotate: %d | drags: %d | wheel: %d | pinches: %d",
		s.Ticks, s.KeyboardTicks, s.FlightTicks, s.GestureTicks, s.AutoRotateTicks,
		s.DragEvents, s.WheelEvents, s.Pinches)
}

// SetDebugMode enables per-tick logging of applied sources, arbiter
// transitions and pinch state. Lines go to the debug log level, so the logger
// must also be at debug level for them to appear.
func (v *Viewport) SetDebugMode(enabled bool) {
	v.debug = enabled
}

// DebugMode reports whether debug logging is enabled.
func (v *Viewport) DebugMode() bool { return v.debug }

// Stats returns a copy of the viewport counters.
func (v *Viewport) Stats() Stats { return v.stats }

// debugLog logs what a tick applied. Idle ticks are not logged.
func (v *Viewport) debugLog(rep FrameReport) {
	if !v.debug || !log.LogDebug() {
		return
	}
	if rep.Camera == SourceNone && rep.Orientation == SourceNone && !rep.PinchStarted && !rep.PinchEnded {
		return
	}
	pos := v.camera.Position()
	var pitch, yaw float64
	if v.object != nil {
		pitch, yaw = v.object.Rotation()
	}
	log.Debugf("[turntable] tick %d | camera: %s | orientation: %s | pinch: %v | arbiter: %s",
		v.stats.Ticks, rep.Camera, rep.Orientation, rep.Pinch, v.arbiter.State())
	log.Debugf("[turntable] position: (%.3f, %.3f, %.3f) | pitch: %.4f | yaw: %.4f",
		pos[0], pos[1], pos[2], pitch, yaw)
	if rep.PinchStarted || rep.PinchEnded {
		log.Debugf("[turntable] %s", v.stats)
	}
}
