// Package slider tracks carousel position and drag gestures for a fixed
// number of slides.
package slider

import (
	"sync"
	"time"
)

const (
	// SwipeThreshold is the horizontal travel in pixels that turns a drag into a slide change.
	SwipeThreshold = 92
	// MobileDeadZone zeroes touch movement inside this many pixels.
	MobileDeadZone = 24
	// MobileBreakpoint is the width from which mobile-only sliders ignore gestures.
	MobileBreakpoint = 840
	// ThrottleWindow is the minimum spacing between two navigation steps.
	ThrottleWindow = 100 * time.Millisecond
)

// Options configures a Slider.
type Options struct {
	MobileOnly bool
	Infinite   bool
	Loading    bool
}

// State is a point-in-time view of a Slider.
type State struct {
	Screen       int  `json:"screen"`
	Current      int  `json:"current"`
	Count        int  `json:"count"`
	Movement     int  `json:"movement"`
	Grabbing     bool `json:"grabbing"`
	DisableLeft  bool `json:"disable_left"`
	DisableRight bool `json:"disable_right"`
}

// Slider is safe for concurrent use.
type Slider struct {
	mu sync.Mutex

	count   int
	opts    Options
	screen  int
	current int
	move    int
	grab    bool
	xStart  int
	xEnd    int
	lastNav time.Time

	now func() time.Time
}

// New returns a slider over count slides positioned at the first one.
func New(count int, opts Options) *Slider {
	if count < 0 {
		count = 0
	}
	return &Slider{count: count, opts: opts, now: time.Now}
}

// Resize records the current screen width.
func (s *Slider) Resize(width int) {
	s.mu.Lock()
	s.screen = width
	s.mu.Unlock()
}

// SetCount replaces the number of slides, clamping the current position.
func (s *Slider) SetCount(count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if count < 0 {
		count = 0
	}
	s.count = count
	s.current = s.clamp(s.current)
}

// SetLoading toggles the loading flag, which disables both arrows.
func (s *Slider) SetLoading(loading bool) {
	s.mu.Lock()
	s.opts.Loading = loading
	s.mu.Unlock()
}

// Start begins a drag at x.
func (s *Slider) Start(x int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gesturesOff() {
		return
	}
	s.xStart = x
	s.grab = true
}

// Move updates the live drag offset for pointer position x.
func (s *Slider) Move(x int, mobile bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gesturesOff() {
		return
	}
	diff := x - s.xStart
	if mobile && abs(diff) <= MobileDeadZone {
		diff = 0
	}
	last := s.count - 1
	if s.current == 0 && diff > 0 {
		s.current = 0
	}
	if s.current == last && diff < 0 {
		s.current = last
	}
	s.move = diff
}

// End finishes a drag at x and advances or retreats one slide when the travel
// exceeds SwipeThreshold.
func (s *Slider) End(x int) {
	s.mu.Lock()
	if s.gesturesOff() {
		s.mu.Unlock()
		return
	}
	s.grab = false
	s.xEnd = x
	start, end := s.xStart, s.xEnd
	s.mu.Unlock()

	if start > end && start-end > SwipeThreshold {
		s.Next()
	}
	if start < end && end-start > SwipeThreshold {
		s.Back()
	}

	s.mu.Lock()
	s.move = 0
	s.mu.Unlock()
}

// Swipe runs a full Start/End gesture from x0 to x1.
func (s *Slider) Swipe(x0, x1 int) {
	s.Start(x0)
	s.End(x1)
}

// Next moves to the following slide. It reports whether the position changed.
func (s *Slider) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	atEnd := s.disableRight()
	if atEnd && !s.opts.Infinite {
		return false
	}
	if !s.throttle() {
		return false
	}
	prev := s.current
	if atEnd {
		s.current = 0
	} else {
		s.current++
	}
	return prev != s.current
}

// Back moves to the previous slide. It reports whether the position changed.
func (s *Slider) Back() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	atStart := s.disableLeft()
	if atStart && !s.opts.Infinite {
		return false
	}
	if !s.throttle() {
		return false
	}
	prev := s.current
	if atStart {
		s.current = s.count - 1
		if s.current < 0 {
			s.current = 0
		}
	} else {
		s.current--
	}
	return prev != s.current
}

// SetCurrent jumps to slide i, clamped to the valid range.
func (s *Slider) SetCurrent(i int) {
	s.mu.Lock()
	s.current = s.clamp(i)
	s.mu.Unlock()
}

// Current returns the active slide index.
func (s *Slider) Current() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Snapshot returns the current state.
func (s *Slider) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Screen:       s.screen,
		Current:      s.current,
		Count:        s.count,
		Movement:     s.move,
		Grabbing:     s.grab,
		DisableLeft:  s.disableLeft(),
		DisableRight: s.disableRight(),
	}
}

func (s *Slider) gesturesOff() bool {
	return s.opts.MobileOnly && s.screen >= MobileBreakpoint
}

func (s *Slider) disableLeft() bool {
	return s.current == 0 || s.count == 0 || s.opts.Loading
}

func (s *Slider) disableRight() bool {
	return s.current == s.count-1 || s.count == 0 || s.opts.Loading
}

// throttle reports whether a navigation step may run now and, if so, stamps it.
func (s *Slider) throttle() bool {
	now := s.now()
	if !s.lastNav.IsZero() && now.Sub(s.lastNav) < ThrottleWindow {
		return false
	}
	s.lastNav = now
	return true
}

func (s *Slider) clamp(i int) int {
	if i < 0 || s.count == 0 {
		return 0
	}
	if i > s.count-1 {
		return s.count - 1
	}
	return i
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
