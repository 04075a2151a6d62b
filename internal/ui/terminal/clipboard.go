package terminal

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnavailable is returned when no clipboard utility exists
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// SystemClipboard copies text to the OS clipboard
type SystemClipboard struct{}

// Copy writes text to the clipboard
func (SystemClipboard) Copy(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	return clipboard.WriteAll(text)
}
