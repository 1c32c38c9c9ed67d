// Package browser opens URLs in the platform's default web browser.
package browser

import (
	"context"
	"os/exec"
	"runtime"
	"strings"

	"github.com/agentstation/arcade/pkg/errors"
)

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Opener opens URLs with the platform opener command.
type Opener struct {
	goos string
	run  Runner
}

// Option configures an Opener.
type Option func(*Opener)

// WithGOOS overrides the detected operating system.
func WithGOOS(goos string) Option {
	return func(o *Opener) {
		o.goos = goos
	}
}

// WithRunner replaces the command runner.
func WithRunner(run Runner) Option {
	return func(o *Opener) {
		o.run = run
	}
}

// New creates an Opener for the current platform.
func New(opts ...Option) *Opener {
	o := &Opener{goos: runtime.GOOS, run: execRunner}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Command returns the command line that opens url.
func (o *Opener) Command(url string) (string, []string, error) {
	switch o.goos {
	case "darwin":
		return "open", []string{url}, nil
	case "windows":
		return "cmd", []string{"/c", "start", "", url}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{url}, nil
	default:
		return "", nil, &errors.ValidationError{
			Field:   "platform",
			Value:   o.goos,
			Message: "unsupported, open " + url + " manually",
		}
	}
}

// Open opens url in the default browser.
func (o *Opener) Open(ctx context.Context, url string) error {
	name, args, err := o.Command(url)
	if err != nil {
		return err
	}
	if out, err := o.run(ctx, name, args...); err != nil {
		return errors.NewProcessError("open browser", name+" "+strings.Join(args, " "), string(out), err)
	}
	return nil
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}
