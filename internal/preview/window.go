//go:build ebiten

package preview

import (
	"errors"
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Available reports whether Play can open a window.
func Available() bool { return true }

// viewer adapts a Player to the ebiten.Game interface.
type viewer struct {
	player *Player
	frames []image.Image
	cache  []*ebiten.Image
	w, h   int
}

// Play opens a window showing frames in a loop at fps until it is closed or
// Q/Escape is pressed. Space pauses; the arrow keys step while paused.
func Play(title string, frames []image.Image, fps int) error {
	player, err := NewPlayer(len(frames), fps)
	if err != nil {
		return err
	}
	b := frames[0].Bounds()
	v := &viewer{
		player: player,
		frames: frames,
		cache:  make([]*ebiten.Image, len(frames)),
		w:      b.Dx(),
		h:      b.Dy(),
	}

	ebiten.SetWindowTitle(title)
	ebiten.SetTPS(TicksPerSecond)
	ebiten.SetWindowSize(v.w, v.h)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(v); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("preview window: %w", err)
	}
	return nil
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		v.player.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		v.player.Next()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		v.player.Prev()
	}
	v.player.Tick()
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	i := v.player.Current()
	if v.cache[i] == nil {
		v.cache[i] = ebiten.NewImageFromImage(v.frames[i])
	}
	screen.DrawImage(v.cache[i], nil)
	if v.player.Paused() {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("paused %d/%d", i+1, len(v.frames)))
	}
}

func (v *viewer) Layout(int, int) (int, int) {
	return v.w, v.h
}
