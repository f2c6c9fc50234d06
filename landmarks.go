package turntable

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Hand landmark indices as defined by the hand-pose model (MediaPipe
// convention, 21 points per hand).
const (
	LandmarkWrist    = 0
	LandmarkThumbTip = 4
	LandmarkIndexTip = 8
	NumLandmarks     = 21
)

// minLandmarks is the smallest landmark list that contains both pinch points.
const minLandmarks = LandmarkIndexTip + 1

// Landmark is a single hand keypoint in source-image pixel coordinates.
// Z is the model's relative depth and is not used for pinch detection.
type Landmark struct {
	X, Y, Z float64
}

// Hand is one detected hand: an ordered list of landmarks indexed by the
// Landmark* constants.
type Hand struct {
	Landmarks []Landmark
}

// HandTracker is the gesture capability consumed by the core: a hand-pose
// model bound to a video source. EstimateHands blocks until the next
// inference result is available and returns zero or more hands.
type HandTracker interface {
	EstimateHands(ctx context.Context) ([]Hand, error)
	// ImageSize returns the pixel dimensions of the source image the
	// landmarks are expressed in.
	ImageSize() Vec2
}

// DefaultImageSize is the hand-pose video resolution assumed when a
// recording does not state one.
var DefaultImageSize = Vec2{640, 480}

// HandRecording replays previously captured landmark frames. It implements
// HandTracker so the gesture channel can run without a camera.
type HandRecording struct {
	// Loop restarts playback from the first frame instead of returning io.EOF.
	Loop bool

	imageSize Vec2
	interval  time.Duration
	frames    [][]Hand
	next      int
}

// recordingFile is the JSON layout of a hand recording. Each hand is a list
// of [x, y] or [x, y, z] points.
type recordingFile struct {
	ImageWidth  float64 `json:"imageWidth,omitempty"`
	ImageHeight float64 `json:"imageHeight,omitempty"`
	IntervalMS  int     `json:"intervalMs,omitempty"`
	Frames      []struct {
		Hands [][][]float64 `json:"hands"`
	} `json:"frames"`
}

// LoadHandRecording parses a JSON hand recording.
func LoadHandRecording(data []byte) (*HandRecording, error) {
	var f recordingFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse hand recording: %w", err)
	}
	if len(f.Frames) == 0 {
		return nil, fmt.Errorf("parse hand recording: no frames")
	}
	rec := &HandRecording{
		imageSize: DefaultImageSize,
		interval:  time.Duration(f.IntervalMS) * time.Millisecond,
		frames:    make([][]Hand, len(f.Frames)),
	}
	if f.ImageWidth > 0 && f.ImageHeight > 0 {
		rec.imageSize = Vec2{f.ImageWidth, f.ImageHeight}
	}
	for i, fr := range f.Frames {
		hands := make([]Hand, 0, len(fr.Hands))
		for j, pts := range fr.Hands {
			h := Hand{Landmarks: make([]Landmark, len(pts))}
			for k, p := range pts {
				if len(p) < 2 {
					return nil, fmt.Errorf("parse hand recording: frame %d hand %d point %d: need at least 2 coordinates", i, j, k)
				}
				h.Landmarks[k] = Landmark{X: p[0], Y: p[1]}
				if len(p) > 2 {
					h.Landmarks[k].Z = p[2]
				}
			}
			hands = append(hands, h)
		}
		rec.frames[i] = hands
	}
	return rec, nil
}

// Len returns the number of recorded frames.
func (r *HandRecording) Len() int { return len(r.frames) }

// ImageSize returns the source image dimensions of the recording.
func (r *HandRecording) ImageSize() Vec2 { return r.imageSize }

// EstimateHands returns the next recorded frame, waiting for the recording
// interval first. At the end of a non-looping recording it returns io.EOF.
func (r *HandRecording) EstimateHands(ctx context.Context) ([]Hand, error) {
	if r.interval > 0 {
		t := time.NewTimer(r.interval)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	if r.next >= len(r.frames) {
		if !r.Loop {
			return nil, io.EOF
		}
		r.next = 0
	}
	hands := r.frames[r.next]
	r.next++
	return hands, nil
}

// Rewind restarts playback from the first frame.
func (r *HandRecording) Rewind() { r.next = 0 }

// PinchHand builds a synthetic hand whose thumb tip and index tip sit at the
// given image coordinates. The remaining landmarks are placed at the wrist
// position below the index tip. Used by scripted input and tests.
func PinchHand(thumb, index Vec2) Hand {
	h := Hand{Landmarks: make([]Landmark, NumLandmarks)}
	wrist := Landmark{X: index.X, Y: index.Y + 120}
	for i := range h.Landmarks {
		h.Landmarks[i] = wrist
	}
	h.Landmarks[LandmarkThumbTip] = Landmark{X: thumb.X, Y: thumb.Y}
	h.Landmarks[LandmarkIndexTip] = Landmark{X: index.X, Y: index.Y}
	return h
}
