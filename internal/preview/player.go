// Package preview plays a rendered frame sequence in a desktop window.
//
// The window needs the ebiten build tag; headless builds report
// ErrUnavailable from Play and false from Available.
package preview

import (
	"errors"
	"math"
)

// ErrUnavailable is returned by Play when no window backend is compiled in.
var ErrUnavailable = errors.New("preview requires a build with -tags ebiten")

// ErrNoFrames is returned when there is nothing to show.
var ErrNoFrames = errors.New("no frames to preview")

// TicksPerSecond is the update rate the player is driven at.
const TicksPerSecond = 60

// Player tracks which frame of a looping sequence is showing. It advances
// on Tick at the requested frame rate and can be paused or stepped by hand.
type Player struct {
	n             int
	ticksPerFrame int
	tick          int
	cur           int
	paused        bool
}

// NewPlayer returns a player over n frames shown at fps frames per second.
func NewPlayer(n, fps int) (*Player, error) {
	if n <= 0 {
		return nil, ErrNoFrames
	}
	if fps <= 0 {
		fps = 1
	}
	tpf := int(math.Round(float64(TicksPerSecond) / float64(fps)))
	if tpf < 1 {
		tpf = 1
	}
	return &Player{n: n, ticksPerFrame: tpf}, nil
}

// Tick advances playback by one update.
func (p *Player) Tick() {
	if p.paused {
		return
	}
	p.tick++
	if p.tick >= p.ticksPerFrame {
		p.tick = 0
		p.cur = (p.cur + 1) % p.n
	}
}

// Next shows the following frame, wrapping at the end.
func (p *Player) Next() {
	p.tick = 0
	p.cur = (p.cur + 1) % p.n
}

// Prev shows the preceding frame, wrapping at the start.
func (p *Player) Prev() {
	p.tick = 0
	p.cur = (p.cur - 1 + p.n) % p.n
}

// TogglePause pauses or resumes automatic playback.
func (p *Player) TogglePause() { p.paused = !p.paused }

// Paused reports whether playback is paused.
func (p *Player) Paused() bool { return p.paused }

// Current returns the index of the frame on screen.
func (p *Player) Current() int { return p.cur }
