package turntable

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recordingJSON = `{
	"imageWidth": 1280,
	"imageHeight": 720,
	"frames": [
		{"hands": []},
		{"hands": [[[1, 2], [3, 4, 0.5], [5, 6], [7, 8], [9, 10], [11, 12], [13, 14], [15, 16], [17, 18]]]}
	]
}`

func TestLoadHandRecording(t *testing.T) {
	rec, err := LoadHandRecording([]byte(recordingJSON))
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Len())
	assert.Equal(t, Vec2{1280, 720}, rec.ImageSize())

	ctx := context.Background()
	hands, err := rec.EstimateHands(ctx)
	require.NoError(t, err)
	assert.Empty(t, hands)

	hands, err = rec.EstimateHands(ctx)
	require.NoError(t, err)
	require.Len(t, hands, 1)
	require.Len(t, hands[0].Landmarks, 9)
	assert.Equal(t, Landmark{X: 3, Y: 4, Z: 0.5}, hands[0].Landmarks[1])
	assert.Equal(t, Landmark{X: 17, Y: 18}, hands[0].Landmarks[LandmarkIndexTip])

	_, err = rec.EstimateHands(ctx)
	assert.ErrorIs(t, err, io.EOF)

	rec.Rewind()
	_, err = rec.EstimateHands(ctx)
	assert.NoError(t, err)
}

func TestHandRecordingLoop(t *testing.T) {
	rec, err := LoadHandRecording([]byte(recordingJSON))
	require.NoError(t, err)
	rec.Loop = true
	for i := 0; i < 5; i++ {
		_, err := rec.EstimateHands(context.Background())
		require.NoError(t, err, "frame %d", i)
	}
}

func TestHandRecordingDefaultImageSize(t *testing.T) {
	rec, err := LoadHandRecording([]byte(`{"frames": [{"hands": []}]}`))
	require.NoError(t, err)
	assert.Equal(t, DefaultImageSize, rec.ImageSize())
}

func TestLoadHandRecordingErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `not json`},
		{"no frames", `{"frames": []}`},
		{"short point", `{"frames": [{"hands": [[[1]]]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadHandRecording([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestHandRecordingCancelledWait(t *testing.T) {
	rec, err := LoadHandRecording([]byte(`{"intervalMs": 60000, "frames": [{"hands": []}]}`))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = rec.EstimateHands(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPinchHand(t *testing.T) {
	h := PinchHand(Vec2{10, 20}, Vec2{30, 40})
	require.Len(t, h.Landmarks, NumLandmarks)
	assert.Equal(t, Landmark{X: 10, Y: 20}, h.Landmarks[LandmarkThumbTip])
	assert.Equal(t, Landmark{X: 30, Y: 40}, h.Landmarks[LandmarkIndexTip])
	assert.Equal(t, Landmark{X: 30, Y: 160}, h.Landmarks[LandmarkWrist])
}
