package sim

import (
	"context"
	"image/color"
	"sync"
)

// Strip is a simulated LED strip. Fill only changes the pending frame,
// Update makes it visible.
type Strip struct {
	ChangeCaster

	lock      sync.Mutex
	pending   []color.RGBA
	committed []color.RGBA
	commits   int
	failure   error
}

// NewStrip creates a Strip with n LEDs, all off.
func NewStrip(n int) *Strip {
	return &Strip{
		pending:   make([]color.RGBA, n),
		committed: make([]color.RGBA, n),
	}
}

// Name implements Object.
func (s *Strip) Name() string {
	return "leds"
}

// Len returns the number of LEDs.
func (s *Strip) Len() int {
	return len(s.pending)
}

// Fill implements led.Strip.
func (s *Strip) Fill(c color.RGBA) {
	s.lock.Lock()
	for n := range s.pending {
		s.pending[n] = c
	}
	s.lock.Unlock()
}

// Update implements led.Strip.
func (s *Strip) Update(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.lock.Lock()
	if err := s.failure; err != nil {
		s.lock.Unlock()
		return err
	}
	copy(s.committed, s.pending)
	s.commits++
	s.lock.Unlock()
	s.ObjectChanged(s)
	return nil
}

// FailWith makes subsequent Updates fail with err, nil restores it.
func (s *Strip) FailWith(err error) {
	s.lock.Lock()
	s.failure = err
	s.lock.Unlock()
}

// Snapshot returns the committed colors.
func (s *Strip) Snapshot() []color.RGBA {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]color.RGBA(nil), s.committed...)
}

// Commits returns the number of successful Updates.
func (s *Strip) Commits() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.commits
}
