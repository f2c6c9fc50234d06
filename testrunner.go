package turntable

import (
	"encoding/json"
	"fmt"
	"time"
)

// DefaultPinchGap is the thumb-index distance, in image pixels, used by the
// "pinch" script action when none is given.
const DefaultPinchGap = 10.0

// testStep represents a single action in a test script.
type testStep struct {
	Action string  `json:"action"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
	Key    string  `json:"key,omitempty"`
	DeltaY float64 `json:"deltaY,omitempty"`
	Gap    float64 `json:"gap,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	ImageWidth  float64    `json:"imageWidth,omitempty"`
	ImageHeight float64    `json:"imageHeight,omitempty"`
	Steps       []testStep `json:"steps"`
}

var knownActions = map[string]bool{
	"drag": true, "click": true, "key": true, "hold": true,
	"wheel": true, "pinch": true, "release-hand": true, "wait": true,
}

// TestRunner sequences injected input events across ticks for automated
// interaction testing. Attach to a Viewport via SetTestRunner.
type TestRunner struct {
	steps     []testStep
	imageSize Vec2
	cursor    int
	waitCount int
	release   string // key to release once the current hold elapses
	done      bool
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to a Viewport via SetTestRunner. Hand coordinates in
// "pinch" steps are camera-image pixels; imageWidth and imageHeight default
// to 640x480.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !knownActions[st.Action] {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
		if (st.Action == "key" || st.Action == "hold") && st.Key == "" {
			return nil, fmt.Errorf("parse test script: step %d: %s needs a key", i, st.Action)
		}
	}
	size := Vec2{script.ImageWidth, script.ImageHeight}
	if size.X <= 0 || size.Y <= 0 {
		size = DefaultImageSize
	}
	return &TestRunner{steps: script.Steps, imageSize: size}, nil
}

// SetTestRunner attaches a TestRunner to the viewport. The runner's step
// method is called from Tick before injected input is processed.
func (v *Viewport) SetTestRunner(runner *TestRunner) {
	v.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the test runner by one tick. Called from Viewport.Tick.
func (r *TestRunner) step(v *Viewport, now time.Time) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(v.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.release != "" {
		v.InjectKeyUp(r.release)
		r.release = ""
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "click":
		v.InjectClick(st.X, st.Y)
	case "drag":
		v.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "key":
		v.InjectKeyDown(st.Key)
		v.InjectKeyUp(st.Key)
	case "hold":
		v.InjectKeyDown(st.Key)
		r.release = st.Key
		if st.Frames > 1 {
			r.waitCount = st.Frames - 1
		}
	case "wheel":
		v.InjectWheel(st.DeltaY)
	case "pinch":
		r.injectPinch(v, st)
	case "release-hand":
		v.InjectHands(r.imageSize)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this tick counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && r.release == "" && len(v.injectQueue) == 0 {
		r.done = true
	}
}

// injectPinch queues one hand sample per frame with the index tip moving
// from (fromX, fromY) to (toX, toY) and the thumb tip held gap pixels to
// its left.
func (r *TestRunner) injectPinch(v *Viewport, st testStep) {
	frames := st.Frames
	if frames < 1 {
		frames = 1
	}
	gap := st.Gap
	if gap <= 0 {
		gap = DefaultPinchGap
	}
	for i := 0; i < frames; i++ {
		t := 1.0
		if frames > 1 {
			t = float64(i) / float64(frames-1)
		}
		index := Vec2{st.FromX + (st.ToX-st.FromX)*t, st.FromY + (st.ToY-st.FromY)*t}
		thumb := Vec2{index.X - gap, index.Y}
		v.InjectHands(r.imageSize, PinchHand(thumb, index))
	}
}
