package config

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreFavorites(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	s, err := OpenStore(path, nil)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path())

	assert.False(t, s.Contains("WhereIsIt"))
	s.Add("WhereIsIt")
	s.Add("Bubbles")
	s.Add("WhereIsIt")
	assert.True(t, s.Contains("WhereIsIt"))
	assert.Equal(t, []string{"Bubbles", "WhereIsIt"}, s.Favorites())

	s.Remove("Bubbles")
	s.Remove("NotThere")
	assert.Equal(t, []string{"WhereIsIt"}, s.Favorites())

	require.NoError(t, s.Save())
	reopened, err := OpenStore(path, nil)
	require.NoError(t, err)
	assert.True(t, reopened.Contains("WhereIsIt"))
	assert.False(t, reopened.Contains("Bubbles"))
}

func TestStoreOpenInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("orientation = 1"), 0o644))
	_, err := OpenStore(path, nil)
	assert.Error(t, err)
}

func TestStoreSaveIgnoringFailures(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gazemenu")

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	s, err := OpenStore(filepath.Join(dir, DefaultFileName), logger)
	require.NoError(t, err)
	s.Add("WhereIsIt")

	// the config "directory" becomes a regular file, every save fails
	require.NoError(t, os.WriteFile(dir, nil, 0o644))

	assert.Error(t, s.Save())
	assert.NotPanics(t, s.SaveIgnoringFailures)
	assert.True(t, s.Contains("WhereIsIt"), "memory state survives a failed save")
	assert.Contains(t, logs.String(), "failed to save config")
}

func TestStoreSetLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gazemenu")
	s, err := OpenStore(filepath.Join(dir, DefaultFileName), nil)
	require.NoError(t, err)

	var logs bytes.Buffer
	s.SetLogger(slog.New(slog.NewTextHandler(&logs, nil)))
	s.SetLogger(nil)

	require.NoError(t, os.WriteFile(dir, nil, 0o644))
	s.SaveIgnoringFailures()
	assert.Contains(t, logs.String(), "component=config")
}

func TestStoreReloadNotifies(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	s, err := OpenStore(path, nil)
	require.NoError(t, err)

	calls := 0
	s.OnChange(func() { calls++ })

	other := Default()
	other.FavoriteGames = []string{"Memory"}
	require.NoError(t, Save(path, other))

	require.NoError(t, s.Reload())
	assert.Equal(t, 1, calls)
	assert.True(t, s.Contains("Memory"))

	require.NoError(t, os.WriteFile(path, []byte("dwell_tick_ms = 0"), 0o644))
	assert.Error(t, s.Reload())
	assert.True(t, s.Contains("Memory"), "failed reload keeps state")
	assert.Equal(t, 1, calls)
}

func TestStoreWatchPicksUpExternalWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	s, err := OpenStore(path, nil)
	require.NoError(t, err)

	changed := make(chan struct{}, 8)
	s.OnChange(func() { changed <- struct{}{} })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx) }()

	// our own saves are not reported back
	s.Add("Bubbles")
	require.NoError(t, s.Save())

	external := Default()
	external.FavoriteGames = []string{"WhereIsIt"}

	// the watcher may not be registered yet, keep rewriting until seen
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
loop:
	for {
		select {
		case <-changed:
			break loop
		case <-tick.C:
			require.NoError(t, Save(path, external))
		case <-deadline:
			t.Fatal("watch did not report external change")
		}
	}

	assert.True(t, s.Contains("WhereIsIt"))
	assert.False(t, s.Contains("Bubbles"))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("watch did not stop")
	}
}
