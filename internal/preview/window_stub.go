//go:build !ebiten

package preview

import "image"

// Available reports whether Play can open a window.
func Available() bool { return false }

// Play is unavailable in headless builds.
func Play(string, []image.Image, int) error { return ErrUnavailable }
