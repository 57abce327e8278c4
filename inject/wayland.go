package inject

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// typeWayland types text key by key with wtype.
func (in *Injector) typeWayland(ctx context.Context, text string, delay time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, typingTimeout)
	defer cancel()

	args := []string{"-d", strconv.Itoa(int(delay.Milliseconds())), "--", text}
	if _, err := in.run(ctx, "wtype", args, ""); err != nil {
		return fmt.Errorf("wtype: %w", err)
	}
	return nil
}

// pasteWayland places text on the clipboard with wl-copy, sends ctrl+v
// through wtype, and restores the previous contents.
func (in *Injector) pasteWayland(ctx context.Context, text string) error {
	var prev string
	readErr := fmt.Errorf("wl-paste unavailable")
	if _, err := in.look("wl-paste"); err == nil {
		readCtx, cancel := context.WithTimeout(ctx, queryTimeout)
		prev, readErr = in.run(readCtx, "wl-paste", []string{"--no-newline"}, "")
		cancel()
		if readErr != nil {
			in.log.Debug("clipboard read failed", "err", readErr)
		}
	}

	writeCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	_, err := in.run(writeCtx, "wl-copy", []string{"--", text}, "")
	cancel()
	if err != nil {
		return fmt.Errorf("wl-copy: %w", err)
	}
	in.wait()

	pasteCtx, cancel := context.WithTimeout(ctx, pasteTimeout)
	_, err = in.run(pasteCtx, "wtype", []string{"-M", "ctrl", "-P", "v", "-p", "v", "-m", "ctrl"}, "")
	cancel()
	if err != nil {
		return fmt.Errorf("wtype paste: %w", err)
	}
	in.wait()

	if readErr == nil {
		restoreCtx, cancel := context.WithTimeout(ctx, queryTimeout)
		_, err = in.run(restoreCtx, "wl-copy", []string{"--", prev}, "")
		cancel()
		if err != nil {
			in.log.Warn("clipboard restore failed", "err", err)
		}
	}
	return nil
}
