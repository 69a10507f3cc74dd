package notify

import (
	"context"
	"os/exec"
	"runtime"
	"time"
)

// Permission is the platform's notification permission state.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// ParsePermission maps a config value to a Permission, defaulting to PermissionDefault.
func ParsePermission(s string) Permission {
	switch Permission(s) {
	case PermissionGranted, PermissionDenied:
		return Permission(s)
	}
	return PermissionDefault
}

// CommandRunner executes an external program.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Desktop is the persistent OS-level sink. It delivers only while Permission reports
// PermissionGranted; otherwise Deliver is a silent no-op.
type Desktop struct {
	Permission func() Permission
	Run        CommandRunner
	Timeout    time.Duration
	GOOS       string
}

func NewDesktop(permission func() Permission) *Desktop {
	return &Desktop{Permission: permission, Run: runCommand, Timeout: 5 * time.Second, GOOS: runtime.GOOS}
}

func (d *Desktop) Name() string { return "desktop" }

func (d *Desktop) Deliver(ctx context.Context, n Notification) error {
	if d.Permission == nil || d.Permission() != PermissionGranted {
		return nil
	}
	name, args, ok := desktopCommand(d.GOOS, n)
	if !ok {
		return nil
	}
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}
	run := d.Run
	if run == nil {
		run = runCommand
	}
	return run(ctx, name, args...)
}

func desktopCommand(goos string, n Notification) (string, []string, bool) {
	switch goos {
	case "linux", "freebsd", "openbsd":
		return "notify-send", []string{"--app-name=ssf", n.Title, n.Body}, true
	case "darwin":
		script := "display notification " + appleQuote(n.Body) + " with title " + appleQuote(n.Title)
		return "osascript", []string{"-e", script}, true
	}
	return "", nil, false
}

func appleQuote(s string) string {
	out := make([]rune, 0, len(s)+2)
	out = append(out, '"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(append(out, '"'))
}

func runCommand(ctx context.Context, name string, args ...string) error {
	if _, err := exec.LookPath(name); err != nil {
		return nil
	}
	return exec.CommandContext(ctx, name, args...).Run()
}
