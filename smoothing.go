package turntable

// DefaultSmoothingFactor is the exponential smoothing weight used when a
// configured factor is missing or out of range.
const DefaultSmoothingFactor = 0.1

// Smoother is an exponential low-pass filter over a 2D position stream.
// Each axis is filtered independently:
//
//	E' = E + Alpha*(S - E)
//
// The first sample after construction or Reset is taken as-is, so the
// estimate never starts from a zero vector.
type Smoother struct {
	// Alpha is the smoothing coefficient in (0, 1). Larger values follow new
	// samples more quickly.
	Alpha float64

	estimate Vec2
	primed   bool
}

// NewSmoother creates a Smoother with the given coefficient. Values outside
// (0, 1) fall back to DefaultSmoothingFactor.
func NewSmoother(alpha float64) *Smoother {
	if !validAlpha(alpha) {
		alpha = DefaultSmoothingFactor
	}
	return &Smoother{Alpha: alpha}
}

func validAlpha(a float64) bool {
	return finite(a) && a > 0 && a < 1
}

// Update feeds a raw sample through the filter and returns the new estimate.
func (s *Smoother) Update(sample Vec2) Vec2 {
	if !s.primed {
		s.estimate = sample
		s.primed = true
		return sample
	}
	a := s.Alpha
	if !validAlpha(a) {
		a = DefaultSmoothingFactor
	}
	s.estimate.X += a * (sample.X - s.estimate.X)
	s.estimate.Y += a * (sample.Y - s.estimate.Y)
	return s.estimate
}

// Estimate returns the current estimate and whether any sample has been
// seen since the last Reset.
func (s *Smoother) Estimate() (Vec2, bool) {
	return s.estimate, s.primed
}

// Reset discards the running estimate. The next Update starts fresh.
func (s *Smoother) Reset() {
	s.estimate = Vec2{}
	s.primed = false
}
