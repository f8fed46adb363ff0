// Package opener hands URLs to the host's URL-open facility.
package opener

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Opener opens a URL on the host.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// Func adapts a function to the Opener interface.
type Func func(ctx context.Context, url string) error

// Open calls f.
func (f Func) Open(ctx context.Context, url string) error {
	return f(ctx, url)
}

// Command opens URLs by running Name with Args followed by the URL.
type Command struct {
	Name string
	Args []string
}

// Default returns the URL-open command for the current platform. On macOS
// the URL is opened in the background so Bear does not take focus.
func Default() Command {
	return ForOS(runtime.GOOS)
}

// ForOS returns the URL-open command for goos.
func ForOS(goos string) Command {
	switch goos {
	case "darwin":
		return Command{Name: "open", Args: []string{"-g"}}
	case "windows":
		return Command{Name: "rundll32", Args: []string{"url.dll,FileProtocolHandler"}}
	default:
		return Command{Name: "xdg-open"}
	}
}

// Open runs the command and waits for it to exit.
func (c Command) Open(ctx context.Context, url string) error {
	args := append(append([]string(nil), c.Args...), url)
	cmd := exec.CommandContext(ctx, c.Name, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("failed to open url with %s: %w: %s", c.Name, err, msg)
		}
		return fmt.Errorf("failed to open url with %s: %w", c.Name, err)
	}
	return nil
}

// String renders the command line without the URL.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}
