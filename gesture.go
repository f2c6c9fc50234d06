package turntable

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
)

// Gesture defaults.
const (
	DefaultPinchThreshold     = 40.0  // image pixels between thumb and index tips
	DefaultPositionMultiplier = 0.005 // radians per smoothed viewport pixel
	DefaultGestureScale       = 0.2   // secondary factor applied by the controller
)

// GestureConfig tunes the pinch detector and its smoothing.
type GestureConfig struct {
	SmoothingFactor    float64
	PositionMultiplier float64
	PinchThreshold     float64
}

// DefaultGestureConfig returns the stock gesture tuning.
func DefaultGestureConfig() GestureConfig {
	return GestureConfig{
		SmoothingFactor:    DefaultSmoothingFactor,
		PositionMultiplier: DefaultPositionMultiplier,
		PinchThreshold:     DefaultPinchThreshold,
	}
}

// GestureSample is one inference result together with the dimensions needed
// to map it into viewport space.
type GestureSample struct {
	Hands        []Hand
	ImageSize    Vec2
	ViewportSize Vec2
}

// GestureOutput is the derived signal for one sample. Delta is unscaled by
// the controller's secondary factor; X drives yaw and Y drives pitch.
type GestureOutput struct {
	Engaged  bool
	Position Vec2
	Delta    Vec2
}

// GestureProcessor turns raw landmark samples into a pinch signal and a
// smoothed rotation delta. The zero delta on the first engaged sample of
// every pinch keeps the object from jumping when contact begins.
type GestureProcessor struct {
	cfg      GestureConfig
	smoother *Smoother
	engaged  bool
}

// NewGestureProcessor creates a processor. Invalid tuning values fall back
// to their defaults.
func NewGestureProcessor(cfg GestureConfig) *GestureProcessor {
	def := DefaultGestureConfig()
	if !finite(cfg.PositionMultiplier) || cfg.PositionMultiplier == 0 {
		cfg.PositionMultiplier = def.PositionMultiplier
	}
	if !finite(cfg.PinchThreshold) || cfg.PinchThreshold <= 0 {
		cfg.PinchThreshold = def.PinchThreshold
	}
	s := NewSmoother(cfg.SmoothingFactor)
	cfg.SmoothingFactor = s.Alpha
	return &GestureProcessor{cfg: cfg, smoother: s}
}

// Config returns the effective tuning after defaults were applied.
func (p *GestureProcessor) Config() GestureConfig { return p.cfg }

// Engaged reports whether the last processed sample was a pinch.
func (p *GestureProcessor) Engaged() bool { return p.engaged }

// Reset disengages the pinch and drops the smoothed reference point.
func (p *GestureProcessor) Reset() {
	p.engaged = false
	p.smoother.Reset()
}

// Process runs one sample through the pipeline.
func (p *GestureProcessor) Process(s GestureSample) GestureOutput {
	tip, ok := p.pinchPoint(s)
	if !ok {
		p.Reset()
		return GestureOutput{}
	}

	// Mirror horizontally: the camera view is flipped for the user.
	mirrored := Vec2{s.ImageSize.X - tip.X, tip.Y}
	mapped := Vec2{
		X: mirrored.X / s.ImageSize.X * s.ViewportSize.X,
		Y: mirrored.Y / s.ImageSize.Y * s.ViewportSize.Y,
	}

	prev, primed := p.smoother.Estimate()
	smoothed := p.smoother.Update(mapped)
	p.engaged = true

	out := GestureOutput{Engaged: true, Position: smoothed}
	if primed {
		out.Delta = smoothed.Sub(prev).Scale(p.cfg.PositionMultiplier)
	}
	return out
}

// pinchPoint returns the index fingertip of the first hand when it is in
// contact with the thumb tip. Degenerate samples report false.
func (p *GestureProcessor) pinchPoint(s GestureSample) (Vec2, bool) {
	if len(s.Hands) == 0 || len(s.Hands[0].Landmarks) < minLandmarks {
		return Vec2{}, false
	}
	if !(s.ImageSize.X > 0 && s.ImageSize.Y > 0 && s.ViewportSize.X > 0 && s.ViewportSize.Y > 0) {
		return Vec2{}, false
	}
	thumb := s.Hands[0].Landmarks[LandmarkThumbTip]
	index := s.Hands[0].Landmarks[LandmarkIndexTip]
	if !finite(thumb.X) || !finite(thumb.Y) || !finite(index.X) || !finite(index.Y) {
		return Vec2{}, false
	}
	if math.Hypot(thumb.X-index.X, thumb.Y-index.Y) > p.cfg.PinchThreshold {
		return Vec2{}, false
	}
	return Vec2{index.X, index.Y}, true
}

// Run samples tracker as fast as it produces results and publishes each
// output on out until ctx is cancelled. A tracker returning io.EOF ends the
// loop cleanly; any other tracker error is returned and not retried. The
// processor must not be used by anything else while Run is active.
func (p *GestureProcessor) Run(ctx context.Context, tracker HandTracker, viewport func() Vec2, out chan<- GestureOutput) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		hands, err := tracker.EstimateHands(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, io.EOF) {
				// Release any pinch still held so auto-rotate is not blocked.
				p.Reset()
				select {
				case out <- GestureOutput{}:
				case <-ctx.Done():
				}
				return nil
			}
			return fmt.Errorf("estimate hands: %w", err)
		}
		o := p.Process(GestureSample{
			Hands:        hands,
			ImageSize:    tracker.ImageSize(),
			ViewportSize: viewport(),
		})
		select {
		case out <- o:
		case <-ctx.Done():
			return nil
		}
	}
}
