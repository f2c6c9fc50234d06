package turntable

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Object is the loaded model the controller orients. Pitch rotates about
// the X axis and yaw about the Y axis, both in radians.
type Object interface {
	Rotation() (pitch, yaw float64)
	SetRotation(pitch, yaw float64)
}

// FitSize is the largest dimension a model is scaled to when fitted.
const FitSize = 5.0

// Model is a concrete Object with a model-space fit transform.
type Model struct {
	Pitch, Yaw float64

	// Scale and Center map model-space coordinates so the model sits at the
	// origin with its largest dimension equal to FitSize.
	Scale  float64
	Center mgl64.Vec3

	size mgl64.Vec3
}

// NewModel creates an unfitted model with unit scale.
func NewModel() *Model {
	return &Model{Scale: 1}
}

// Rotation returns the current pitch and yaw.
func (m *Model) Rotation() (pitch, yaw float64) { return m.Pitch, m.Yaw }

// SetRotation sets pitch and yaw.
func (m *Model) SetRotation(pitch, yaw float64) {
	m.Pitch, m.Yaw = pitch, yaw
}

// Fit centers the model on the origin and scales it to FitSize using its
// model-space bounding box. A degenerate box leaves the scale at 1.
func (m *Model) Fit(lo, hi mgl64.Vec3) {
	size := hi.Sub(lo)
	m.Center = lo.Add(size.Mul(0.5))
	largest := math.Max(size.X(), math.Max(size.Y(), size.Z()))
	m.Scale = 1
	if largest > 0 && finite(largest) {
		m.Scale = FitSize / largest
	}
	m.size = size.Mul(m.Scale)
}

// Size returns the fitted world-space bounding box size.
func (m *Model) Size() mgl64.Vec3 { return m.size }

// Matrix returns the model-to-world transform: center, scale, then rotate
// pitch and yaw in XYZ Euler order.
func (m *Model) Matrix() mgl64.Mat4 {
	rot := mgl64.HomogRotate3DX(m.Pitch).Mul4(mgl64.HomogRotate3DY(m.Yaw))
	scale := mgl64.Scale3D(m.Scale, m.Scale, m.Scale)
	center := mgl64.Translate3D(-m.Center.X(), -m.Center.Y(), -m.Center.Z())
	return rot.Mul4(scale).Mul4(center)
}
