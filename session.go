package nesppu

import (
	"image"
	"sync/atomic"

	"github.com/bodgit/nesppu/sprite"
)

// Frame is a rendered viewport
type Frame struct {
	Number int
	// Scroll is the offset the viewport was taken from after clamping
	Scroll image.Point
	Image  *image.Paletted
}

// Session is the mutable state of one run: the sprites, the scroll cursor
// and the frame counter. Only one goroutine may render or advance a Session
// but any number may call Frame.
type Session struct {
	sprites  *sprite.List
	scroll   image.Point
	velocity image.Point
	number   int
	clamped  bool

	frame atomic.Pointer[Frame]
}

// NewSession starts a session with the configured number of sprites
// scattered over the canvas using seed.
func (l *Lab) NewSession(seed uint64) *Session {
	size := l.compositor.Size()
	return &Session{
		sprites:  sprite.Scatter(seed, l.cfg.Sprites, l.tiles.Len(), size.X, size.Y),
		velocity: l.cfg.Velocity,
	}
}

// SetScroll moves the scroll cursor. Offsets outside the canvas are clamped
// when the viewport is extracted.
func (s *Session) SetScroll(p image.Point) {
	s.scroll = p
}

// Scroll returns the scroll cursor
func (s *Session) Scroll() image.Point {
	return s.scroll
}

// SetVelocity sets how far the scroll cursor moves on each advance
func (s *Session) SetVelocity(v image.Point) {
	s.velocity = v
}

// Sprites returns a copy of the sprites in drawing order
func (s *Session) Sprites() []sprite.Sprite {
	return s.sprites.Sprites()
}

// Number returns the number of the current frame
func (s *Session) Number() int {
	return s.number
}

// Frame returns the most recently published frame, or nil if the session
// has not been advanced yet. It is safe to call concurrently with Advance.
func (s *Session) Frame() *Frame {
	return s.frame.Load()
}

// Render renders the current state of s. The sprites, scroll cursor and
// frame number of s are left as they are; a scroll offset that has to be
// clamped into range is logged once per session.
func (l *Lab) Render(s *Session) *Frame {
	m, p := l.compositor.Render(s.sprites.Sprites(), s.scroll)
	if p != s.scroll && !s.clamped {
		l.logger.Printf("Scroll offset %v clamped to %v\n", s.scroll, p)
		s.clamped = true
	}
	return &Frame{
		Number: s.number,
		Scroll: p,
		Image:  m,
	}
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// Advance moves the sprites and the scroll cursor on by one frame, then
// renders and publishes the result.
func (l *Lab) Advance(s *Session) *Frame {
	size := l.compositor.Size()
	s.sprites.Advance(size.X, size.Y)

	limit := l.compositor.MaxScroll()
	s.scroll = image.Pt(wrap(s.scroll.X+s.velocity.X, limit.X+1), wrap(s.scroll.Y+s.velocity.Y, limit.Y+1))
	s.number++

	f := l.Render(s)
	s.frame.Store(f)

	return f
}
