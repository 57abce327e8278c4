package inject

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/micmonay/keybd_event"
)

func readClipboard() (string, error) { return clipboard.ReadAll() }

func writeClipboard(s string) error { return clipboard.WriteAll(s) }

// sendCtrlV sends a ctrl+v chord to the focused window.
func sendCtrlV() error {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return err
	}
	kb.SetKeys(keybd_event.VK_V)
	kb.HasCTRL(true)
	return kb.Launching()
}

// pasteWindows places text on the clipboard, sends ctrl+v, and restores
// the previous clipboard contents.
func (in *Injector) pasteWindows(text string) error {
	prev, readErr := in.clipRead()
	if readErr != nil {
		// Non-text clipboard contents (images, files) cannot be saved.
		in.log.Debug("clipboard read failed", "err", readErr)
	}

	if err := in.clipWrite(text); err != nil {
		return fmt.Errorf("clipboard write: %w", err)
	}
	in.wait()

	if err := in.pasteKey(); err != nil {
		return fmt.Errorf("send ctrl+v: %w", err)
	}
	in.wait()

	if readErr == nil {
		if err := in.clipWrite(prev); err != nil {
			in.log.Warn("clipboard restore failed", "err", err)
		}
	}
	return nil
}
