package cellfx

import "fmt"

// DefaultFrameDuration is the frame duration used when an Animation leaves
// FrameDuration at zero.
const DefaultFrameDuration = 0.1

// Animation is a named sequence of frame indices into a sprite's frame list,
// with an optional pixel offset per step.
type Animation struct {
	Name string
	// Frames are indices into the sprite's frames; entries may repeat.
	Frames []int
	// FrameDuration is the number of seconds each step is shown.
	FrameDuration float64
	// Offsets holds one pixel offset per step. Missing entries are zero.
	Offsets []Vec2
	// Loop restarts at the first step; otherwise the last step is held.
	Loop bool
	// OffsetSpeed is the easing speed of the offset in pixels per second.
	// Zero snaps.
	OffsetSpeed float64
}

// NewAnimation returns a looping animation with the default frame duration.
func NewAnimation(name string, frames ...int) *Animation {
	return &Animation{Name: name, Frames: frames, FrameDuration: DefaultFrameDuration, Loop: true}
}

// offset returns the offset of step i.
func (a *Animation) offset(i int) Vec2 {
	if i < 0 || i >= len(a.Offsets) {
		return Vec2{}
	}
	return a.Offsets[i]
}

// AnimationState describes where a sprite's animation player is.
type AnimationState uint8

const (
	AnimationStopped  AnimationState = iota // no animation selected
	AnimationPlaying                        // advancing
	AnimationFinished                       // non-looping animation holding its last step
)

// String returns the state name.
func (s AnimationState) String() string {
	switch s {
	case AnimationStopped:
		return "stopped"
	case AnimationPlaying:
		return "playing"
	case AnimationFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// AddAnimation registers a, replacing any animation with the same name.
// Every frame index must refer to an existing frame.
func (s *Sprite) AddAnimation(a *Animation) error {
	for _, fi := range a.Frames {
		if fi < 0 || fi >= len(s.frames) {
			return fmt.Errorf("animation %q: %w: %d of %d", a.Name, ErrInvalidFrame, fi, len(s.frames))
		}
	}
	if a.FrameDuration == 0 {
		a.FrameDuration = DefaultFrameDuration
	}
	s.animations[a.Name] = a
	return nil
}

// Animation returns the registered animation with the given name.
func (s *Sprite) Animation(name string) (*Animation, bool) {
	a, ok := s.animations[name]
	return a, ok
}

// PlayAnimation selects the named animation. With reset, or when switching
// animations, playback restarts from the first step; otherwise the current
// step and timer are kept. Unknown names return ErrAnimationNotFound.
// Animations without frames are ignored.
func (s *Sprite) PlayAnimation(name string, reset bool) error {
	a, ok := s.animations[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrAnimationNotFound, name)
	}
	if len(a.Frames) == 0 {
		return nil
	}
	if reset || s.anim != a {
		s.animIndex = 0
		s.animTimer = 0
		s.finished = false
	}
	s.anim = a
	s.offsetSpeed = a.OffsetSpeed
	s.currentFrame = a.Frames[s.animIndex]
	s.targetOffset = a.offset(s.animIndex)
	return nil
}

// StopAnimation deselects the current animation. With resetOffset the
// offset eases back to zero at the stopped animation's offset speed.
func (s *Sprite) StopAnimation(resetOffset bool) {
	s.anim = nil
	s.finished = false
	if resetOffset {
		s.targetOffset = Vec2{}
	}
}

// IsAnimationPlaying reports whether the named animation is selected and not
// finished. An empty name matches any animation.
func (s *Sprite) IsAnimationPlaying(name string) bool {
	if s.anim == nil || s.finished {
		return false
	}
	return name == "" || s.anim.Name == name
}

// IsAnimationFinished reports whether a non-looping animation has reached
// its last step.
func (s *Sprite) IsAnimationFinished() bool {
	return s.finished
}

// AnimationState returns the player state.
func (s *Sprite) AnimationState() AnimationState {
	switch {
	case s.anim == nil:
		return AnimationStopped
	case s.finished:
		return AnimationFinished
	default:
		return AnimationPlaying
	}
}

// CurrentAnimation returns the selected animation name, or "".
func (s *Sprite) CurrentAnimation() string {
	if s.anim == nil {
		return ""
	}
	return s.anim.Name
}

// advanceAnimation runs the frame timer. Several steps may elapse in one
// call; a non-looping animation stops on its last step and finishes.
func (s *Sprite) advanceAnimation(dt float64) {
	a := s.anim
	if a == nil || s.finished || len(a.Frames) == 0 {
		return
	}
	s.animTimer += dt
	if a.FrameDuration > 0 {
		for s.animTimer >= a.FrameDuration {
			s.animTimer -= a.FrameDuration
			s.animIndex++
			if s.animIndex >= len(a.Frames) {
				if a.Loop {
					s.animIndex = 0
				} else {
					s.animIndex = len(a.Frames) - 1
					s.finished = true
					break
				}
			}
		}
	}
	if fi := a.Frames[s.animIndex]; fi >= 0 && fi < len(s.frames) {
		s.currentFrame = fi
	}
	s.targetOffset = a.offset(s.animIndex)
}
