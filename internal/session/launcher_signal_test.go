//go:build unix

package session

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iambrandonn/iecs/internal/platform"
	"github.com/iambrandonn/iecs/pkg/testharness"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Terminal signals already reach the plugin through the foreground process
// group, so only SIGTERM and SIGHUP sent to iecs itself are relayed.
func TestLaunchRelaysOnlyNonTerminalSignals(t *testing.T) {
	plugin := testharness.MustSignalPlugin(t, DefaultPlugin)
	api := &platform.MockECS{}
	expectExecute(api, sessionOutput(), nil)

	logs := &syncBuffer{}
	launcher := NewLauncher(api, "us-east-1",
		slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
		WithLookPath(func(string) (string, error) { return plugin.Path, nil }),
		WithStdio(bytes.NewReader(nil), &bytes.Buffer{}, &bytes.Buffer{}),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- launcher.Launch(context.Background(), testRequest()) }()

	require.Eventually(t, plugin.Ready, 10*time.Second, 20*time.Millisecond, "plugin never started")

	self := os.Getpid()
	for i, sig := range []syscall.Signal{syscall.SIGINT, syscall.SIGQUIT} {
		require.NoError(t, syscall.Kill(self, sig))
		want := i + 1
		require.Eventually(t, func() bool {
			return strings.Count(logs.String(), "signal left to the plugin's process group") == want
		}, 5*time.Second, 20*time.Millisecond, "parent never caught %s", sig)
	}

	require.NoError(t, syscall.Kill(self, syscall.SIGTERM))

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(30 * time.Second):
		t.Fatal("launch did not return after SIGTERM")
	}

	signals, err := plugin.Signals()
	require.NoError(t, err)
	assert.Equal(t, []string{"TERM"}, signals)
}
