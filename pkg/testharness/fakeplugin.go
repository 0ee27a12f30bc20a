package testharness

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// FakePlugin is a shell script standing in for session-manager-plugin. It
// records the arguments it was invoked with and exits with a fixed code.
type FakePlugin struct {
	Path     string
	argsFile string
}

// NewFakePlugin writes an executable named name into dir. Each argument is
// recorded NUL-terminated so empty arguments survive.
func NewFakePlugin(dir, name string, exitCode int) (*FakePlugin, error) {
	if runtime.GOOS == "windows" {
		return nil, errors.New("fake plugin requires a POSIX shell")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create plugin directory: %w", err)
	}

	path := filepath.Join(dir, name)
	argsFile := path + ".args"

	script := fmt.Sprintf(`#!/bin/sh
: > %[1]q
for arg in "$@"; do
  printf '%%s\0' "$arg" >> %[1]q
done
exit %[2]d
`, argsFile, exitCode)

	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		return nil, fmt.Errorf("failed to write fake plugin: %w", err)
	}
	return &FakePlugin{Path: path, argsFile: argsFile}, nil
}

// MustFakePlugin is NewFakePlugin for tests. It skips on platforms without
// a POSIX shell.
func MustFakePlugin(t testing.TB, name string, exitCode int) *FakePlugin {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake plugin requires a POSIX shell")
	}
	plugin, err := NewFakePlugin(t.TempDir(), name, exitCode)
	if err != nil {
		t.Fatalf("failed to create fake plugin: %v", err)
	}
	return plugin
}

// Invoked reports whether the plugin has run.
func (p *FakePlugin) Invoked() bool {
	_, err := os.Stat(p.argsFile)
	return err == nil
}

// Args returns the arguments from the most recent invocation.
func (p *FakePlugin) Args() ([]string, error) {
	data, err := os.ReadFile(p.argsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read plugin args: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	data = bytes.TrimSuffix(data, []byte{0})
	return strings.Split(string(data), "\x00"), nil
}

// SignalPlugin stands in for the plugin during a session. It records every
// SIGINT, SIGQUIT and SIGTERM it receives and exits 0 on SIGTERM.
type SignalPlugin struct {
	Path        string
	readyFile   string
	signalsFile string
}

// NewSignalPlugin writes the recording script into dir. The script gives up
// with exit code 3 after about 20 seconds.
func NewSignalPlugin(dir, name string) (*SignalPlugin, error) {
	if runtime.GOOS == "windows" {
		return nil, errors.New("signal plugin requires a POSIX shell")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create plugin directory: %w", err)
	}

	path := filepath.Join(dir, name)
	p := &SignalPlugin{Path: path, readyFile: path + ".ready", signalsFile: path + ".signals"}

	script := fmt.Sprintf(`#!/bin/sh
trap 'echo INT >> %[2]q' INT
trap 'echo QUIT >> %[2]q' QUIT
trap 'echo TERM >> %[2]q; exit 0' TERM
: > %[1]q
i=0
while [ "$i" -lt 20 ]; do
  sleep 1
  i=$((i + 1))
done
exit 3
`, p.readyFile, p.signalsFile)

	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		return nil, fmt.Errorf("failed to write signal plugin: %w", err)
	}
	return p, nil
}

// MustSignalPlugin is NewSignalPlugin for tests.
func MustSignalPlugin(t testing.TB, name string) *SignalPlugin {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("signal plugin requires a POSIX shell")
	}
	plugin, err := NewSignalPlugin(t.TempDir(), name)
	if err != nil {
		t.Fatalf("failed to create signal plugin: %v", err)
	}
	return plugin
}

// Ready reports whether the script has installed its traps.
func (p *SignalPlugin) Ready() bool {
	_, err := os.Stat(p.readyFile)
	return err == nil
}

// Signals returns the recorded signal names in arrival order.
func (p *SignalPlugin) Signals() ([]string, error) {
	data, err := os.ReadFile(p.signalsFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read plugin signals: %w", err)
	}
	return strings.Fields(string(data)), nil
}
