package watch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func start(t *testing.T, cfg Config) (chan []string, context.CancelFunc, chan error) {
	t.Helper()
	changes := make(chan []string, 10)
	cfg.Logger = log.New(io.Discard)
	cfg.OnChange = func(_ context.Context, changed []string) error {
		changes <- changed
		return nil
	}
	w, err := New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	return changes, cancel, errCh
}

func TestWatcherDebounce(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	changes, cancel, errCh := start(t, Config{BaseDir: dir, Debounce: 100 * time.Millisecond})
	defer cancel()

	for _, name := range []string{"a.md", "b.md", "c.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case changed := <-changes:
		assert.Subset(t, changed, []string{"a.md", "b.md", "c.md"})
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}

	time.Sleep(250 * time.Millisecond)
	assert.Empty(t, changes)

	cancel()
	require.NoError(t, <-errCh)
}

func TestWatcherIgnore(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	changes, cancel, errCh := start(t, Config{BaseDir: dir, Ignore: []string{"**/*.tmp"}, Debounce: 50 * time.Millisecond})
	defer cancel()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "scratch.tmp"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.swp"), []byte("x"), 0o644))
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "page.md"), []byte("x"), 0o644))

	select {
	case changed := <-changes:
		assert.Equal(t, []string{"page.md"}, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}

	cancel()
	require.NoError(t, <-errCh)
}

func TestWatcherNewDirectory(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	changes, cancel, errCh := start(t, Config{BaseDir: dir, Debounce: 50 * time.Millisecond})
	defer cancel()

	sub := filepath.Join(dir, "guide")
	require.NoError(t, os.Mkdir(sub, 0o755))
	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for mkdir callback")
	}

	require.NoError(t, os.WriteFile(filepath.Join(sub, "intro.md"), []byte("x"), 0o644))
	select {
	case changed := <-changes:
		assert.Contains(t, changed, "guide/intro.md")
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for nested callback")
	}

	cancel()
	require.NoError(t, <-errCh)
}

func TestWatcherInvalidPattern(t *testing.T) {
	_, err := New(Config{BaseDir: t.TempDir(), Ignore: []string{"[bad"}})
	require.Error(t, err)
}

func TestWatcherMissingBase(t *testing.T) {
	_, err := New(Config{BaseDir: filepath.Join(t.TempDir(), "missing"), Logger: log.New(io.Discard)})
	require.Error(t, err)
}

func TestWatcherRunTwice(t *testing.T) {
	w, err := New(Config{BaseDir: t.TempDir(), Logger: log.New(io.Discard)})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, w.Run(ctx))
	require.Error(t, w.Run(ctx))
}
