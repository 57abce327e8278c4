package inject

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// typeX11 types text key by key with xdotool.
func (in *Injector) typeX11(ctx context.Context, text string, delay time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, typingTimeout)
	defer cancel()

	args := []string{
		"type", "--clearmodifiers",
		"--delay", strconv.Itoa(int(delay.Milliseconds())),
		"--", text,
	}
	if _, err := in.run(ctx, "xdotool", args, ""); err != nil {
		return fmt.Errorf("xdotool type: %w", err)
	}
	return nil
}

// pasteX11 places text on the clipboard, sends the paste chord, and
// restores the previous clipboard contents.
func (in *Injector) pasteX11(ctx context.Context, snap *snapshot, text string) error {
	readCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	prev, readErr := in.run(readCtx, "xclip", []string{"-selection", "clipboard", "-o"}, "")
	cancel()
	if readErr != nil {
		// Empty clipboard makes xclip exit nonzero; restore is skipped.
		in.log.Debug("clipboard read failed", "err", readErr)
	}

	writeCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	_, err := in.run(writeCtx, "xclip", []string{"-selection", "clipboard"}, text)
	cancel()
	if err != nil {
		return fmt.Errorf("xclip write: %w", err)
	}
	in.wait()

	chord := "ctrl+v"
	if isTerminal(snap.wmClass) {
		chord = "ctrl+shift+v"
	}
	pasteCtx, cancel := context.WithTimeout(ctx, pasteTimeout)
	_, err = in.run(pasteCtx, "xdotool", []string{"key", "--clearmodifiers", chord}, "")
	cancel()
	if err != nil {
		return fmt.Errorf("xdotool key: %w", err)
	}
	in.wait()

	if readErr == nil {
		restoreCtx, cancel := context.WithTimeout(ctx, queryTimeout)
		_, err = in.run(restoreCtx, "xclip", []string{"-selection", "clipboard"}, prev)
		cancel()
		if err != nil {
			in.log.Warn("clipboard restore failed", "err", err)
		}
	}
	return nil
}
