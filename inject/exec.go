package inject

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Per-command timeouts. Typing a long utterance key by key is the only
// genuinely slow operation.
const (
	queryTimeout  = 2 * time.Second
	pasteTimeout  = 5 * time.Second
	typingTimeout = 30 * time.Second
)

// commandFunc runs an external command with stdin and returns its stdout.
// Swapped for a fake in tests.
type commandFunc func(ctx context.Context, name string, args []string, stdin string) (string, error)

func runCommand(ctx context.Context, name string, args []string, stdin string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok && len(ee.Stderr) > 0 {
			return "", fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(ee.Stderr)))
		}
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return string(out), nil
}
