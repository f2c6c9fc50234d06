package turntable

import "time"

// ResumeDelay is how long auto-rotation waits after the last interaction
// ends before it resumes.
const ResumeDelay = 1000 * time.Millisecond

// DefaultAutoRotateSpeed is the yaw advance per tick, in radians.
const DefaultAutoRotateSpeed = 0.005

// AutoRotateState is the arbiter's current state.
type AutoRotateState uint8

const (
	AutoRotateOff       AutoRotateState = iota // feature disabled by configuration
	AutoRotateIdle                             // idle-rotating: auto-rotate may advance yaw
	AutoRotateSuspended                        // an interaction is active or the resume deadline is pending
)

func (s AutoRotateState) String() string {
	switch s {
	case AutoRotateOff:
		return "off"
	case AutoRotateIdle:
		return "idle-rotating"
	case AutoRotateSuspended:
		return "suspended"
	default:
		return "unknown"
	}
}

// AutoRotateArbiter decides whether idle auto-rotation may run. It keeps one
// shared suspension clock for every input source: rotation resumes
// ResumeDelay after the last active interaction ends, and any new
// interaction cancels a pending resume. Each viewport owns its own arbiter.
type AutoRotateArbiter struct {
	// OnTransition, if set, is called after every state change.
	OnTransition func(from, to AutoRotateState, now time.Time)

	enabled     bool
	state       AutoRotateState
	deadline    time.Time
	hasDeadline bool
	active      map[string]struct{}
}

// NewAutoRotateArbiter creates an arbiter. A disabled arbiter stays in
// AutoRotateOff until SetEnabled(true).
func NewAutoRotateArbiter(enabled bool) *AutoRotateArbiter {
	a := &AutoRotateArbiter{
		enabled: enabled,
		active:  make(map[string]struct{}),
	}
	if enabled {
		a.state = AutoRotateIdle
	}
	return a
}

// State returns the current state without advancing the clock.
func (a *AutoRotateArbiter) State() AutoRotateState { return a.state }

// Enabled reports whether auto-rotation is enabled by configuration.
func (a *AutoRotateArbiter) Enabled() bool { return a.enabled }

// Rotating reports whether the arbiter is idle-rotating.
func (a *AutoRotateArbiter) Rotating() bool { return a.state == AutoRotateIdle }

// Deadline returns the pending resume deadline, if one is scheduled.
func (a *AutoRotateArbiter) Deadline() (time.Time, bool) {
	return a.deadline, a.hasDeadline
}

// Interacting reports whether any interaction is in progress.
func (a *AutoRotateArbiter) Interacting() bool { return len(a.active) > 0 }

// Begin records the start of an interaction from source. Auto-rotation is
// suspended and any pending resume is cancelled.
func (a *AutoRotateArbiter) Begin(source string, now time.Time) {
	a.active[source] = struct{}{}
	a.hasDeadline = false
	a.deadline = time.Time{}
	if a.enabled {
		a.transition(AutoRotateSuspended, now)
	}
}

// End records the end of an interaction from source. When no other
// interaction remains active, a resume is scheduled ResumeDelay from now,
// replacing any earlier deadline.
func (a *AutoRotateArbiter) End(source string, now time.Time) {
	delete(a.active, source)
	if !a.enabled || len(a.active) > 0 {
		return
	}
	if a.state == AutoRotateIdle {
		return
	}
	a.deadline = now.Add(ResumeDelay)
	a.hasDeadline = true
}

// Update advances the clock. When the resume deadline has elapsed with no
// interaction in progress, the arbiter returns to idle rotation.
func (a *AutoRotateArbiter) Update(now time.Time) AutoRotateState {
	if a.state == AutoRotateSuspended && a.hasDeadline && len(a.active) == 0 && !now.Before(a.deadline) {
		a.hasDeadline = false
		a.deadline = time.Time{}
		a.transition(AutoRotateIdle, now)
	}
	return a.state
}

// SetEnabled turns the feature on or off at runtime. Enabling while an
// interaction is active starts suspended; it resumes after that interaction
// ends like any other.
func (a *AutoRotateArbiter) SetEnabled(enabled bool, now time.Time) {
	if enabled == a.enabled {
		return
	}
	a.enabled = enabled
	a.hasDeadline = false
	a.deadline = time.Time{}
	switch {
	case !enabled:
		a.transition(AutoRotateOff, now)
	case len(a.active) > 0:
		a.transition(AutoRotateSuspended, now)
	default:
		a.transition(AutoRotateIdle, now)
	}
}

func (a *AutoRotateArbiter) transition(to AutoRotateState, now time.Time) {
	from := a.state
	if from == to {
		return
	}
	a.state = to
	if a.OnTransition != nil {
		a.OnTransition(from, to, now)
	}
}
