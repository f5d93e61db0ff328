// Package clipboard adapts the system clipboard to roster.Clipboard.
package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrUnsupported is returned when no clipboard utility is available.
var ErrUnsupported = errors.New("system clipboard unavailable (install xclip, xsel or wl-clipboard)")

// System writes to the operating system clipboard.
type System struct{}

// Available reports whether a clipboard backend was found.
func (System) Available() bool { return !clipboard.Unsupported }

// WriteText replaces the clipboard contents with text.
func (s System) WriteText(text string) error {
	if !s.Available() {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}
