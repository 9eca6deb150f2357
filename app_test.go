package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"GazeMenu/config"
	"GazeMenu/control"
	"GazeMenu/dwell"
	"GazeMenu/logging"
	"GazeMenu/ui"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGames = `
games:
  - nameCode: WhereIsIt
    categories: [SELECTION]
  - nameCode: Bubbles
    categories: [ACTION_REACTION]
  - nameCode: Memory
`

func testContent() fstest.MapFS {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="8" height="8"/>`)
	return fstest.MapFS{
		"assets/games.yaml":        {Data: []byte(testGames)},
		"assets/" + ui.HeartFilled: {Data: svg},
		"assets/" + ui.HeartEmpty:  {Data: svg},
	}
}

type fixture struct {
	app   *AppManager
	store *config.Store
	clock *dwell.ManualClock
	path  string
}

func newFixture(t *testing.T, favorites ...string) *fixture {
	t.Helper()
	test.NewTempApp(t)

	path := filepath.Join(t.TempDir(), config.DefaultFileName)
	cfg := config.Default()
	cfg.SoundEnabled = false
	cfg.FavoriteGames = favorites
	require.NoError(t, config.Save(path, cfg))

	store, err := config.OpenStore(path, logging.Discard())
	require.NoError(t, err)

	clock := dwell.NewManualClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	a, err := NewAppManager(testContent(), store, cfg, logging.Discard(), clock)
	require.NoError(t, err)
	t.Cleanup(a.Shutdown)

	return &fixture{app: a, store: store, clock: clock, path: path}
}

// send enqueues cmd and waits until the command loop processed it.
func (f *fixture) send(t *testing.T, cmd control.Command) {
	t.Helper()
	cmd.Reply = make(chan error, 1)
	f.app.EnqueueCommand(cmd)
	select {
	case <-cmd.Reply:
	case <-time.After(2 * time.Second):
		t.Fatal("command loop did not reply")
	}
}

func (f *fixture) pointer(t *testing.T, game string, kind dwell.Kind) {
	t.Helper()
	f.send(t, control.Command{
		Type:   control.CmdPointer,
		GameID: game,
		Event:  dwell.Event{Kind: kind, At: f.clock.Now()},
	})
}

func (f *fixture) card(id string) *ui.GameCard {
	for _, c := range f.app.Cards() {
		if c.Game.NameCode == id {
			return c
		}
	}
	return nil
}

func TestFavoritesListedFirst(t *testing.T) {
	f := newFixture(t, "Memory")

	var order []string
	for _, c := range f.app.Cards() {
		order = append(order, c.Game.NameCode)
	}
	assert.Equal(t, []string{"Memory", "WhereIsIt", "Bubbles"}, order)
	assert.True(t, f.card("Memory").IsFilled())
	assert.False(t, f.card("Bubbles").IsFilled())
}

func TestDwellTogglesAndPersistsFavorite(t *testing.T) {
	f := newFixture(t)

	f.pointer(t, "WhereIsIt", dwell.Enter)
	f.clock.Advance(500 * time.Millisecond)
	f.pointer(t, "WhereIsIt", dwell.Move)
	assert.False(t, f.store.Contains("WhereIsIt"))

	f.clock.Advance(700 * time.Millisecond)
	f.pointer(t, "WhereIsIt", dwell.Move)
	assert.True(t, f.store.Contains("WhereIsIt"))
	assert.True(t, f.card("WhereIsIt").IsFilled())

	data, err := os.ReadFile(f.path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "WhereIsIt")

	// still fixated: no flip back
	f.clock.Advance(2 * time.Second)
	f.pointer(t, "WhereIsIt", dwell.Move)
	f.pointer(t, "WhereIsIt", dwell.Exit)
	assert.True(t, f.store.Contains("WhereIsIt"))

	f.pointer(t, "WhereIsIt", dwell.Enter)
	f.clock.Advance(1200 * time.Millisecond)
	f.pointer(t, "WhereIsIt", dwell.Move)
	assert.False(t, f.store.Contains("WhereIsIt"))
	assert.False(t, f.card("WhereIsIt").IsFilled())

	data, err = os.ReadFile(f.path)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(data), "WhereIsIt"))
}

func TestDwellTickFixatesStillPointer(t *testing.T) {
	f := newFixture(t)

	f.pointer(t, "Bubbles", dwell.Enter)
	f.clock.Advance(1100 * time.Millisecond)

	f.app.dwellTick(f.clock.Now())
	// the synthetic move is queued before this marker
	f.send(t, control.Command{Type: control.CmdReload})

	assert.True(t, f.store.Contains("Bubbles"))
	assert.Equal(t, dwell.StateFixated, f.app.switches["Bubbles"].Detector().State())

	// fixated detectors get no more ticks
	f.app.dwellTick(f.clock.Now())
	assert.Empty(t, f.app.cmdCh)
}

func TestUnknownGameAndStrayEventsAreIgnored(t *testing.T) {
	f := newFixture(t)

	assert.NotPanics(t, func() {
		f.pointer(t, "NoSuchGame", dwell.Enter)
		f.pointer(t, "Memory", dwell.Move)
		f.pointer(t, "Memory", dwell.Exit)
		f.send(t, control.Command{Type: control.CmdLaunch, GameID: "Memory"})
	})
	assert.Empty(t, f.store.Favorites())
}

func TestReloadSyncsCards(t *testing.T) {
	f := newFixture(t)

	external := config.Default()
	external.FavoriteGames = []string{"Bubbles"}
	require.NoError(t, config.Save(f.path, external))
	require.NoError(t, f.store.Reload())

	// Reload enqueued a CmdReload, wait for it to be processed
	f.send(t, control.Command{Type: control.CmdReload})
	assert.True(t, f.card("Bubbles").IsFilled())
	assert.False(t, f.card("WhereIsIt").IsFilled())
}

func TestReloadAppliesFixationThreshold(t *testing.T) {
	f := newFixture(t)
	t.Setenv("GAZEMENU_FIXATION_MS", "")

	external := config.Default()
	external.FixationThresholdMs = 2000
	require.NoError(t, config.Save(f.path, external))
	require.NoError(t, f.store.Reload())
	f.send(t, control.Command{Type: control.CmdReload})

	for id, sw := range f.app.switches {
		assert.Equal(t, 2*time.Second, sw.Detector().Threshold(), id)
	}

	f.pointer(t, "Memory", dwell.Enter)
	f.clock.Advance(1500 * time.Millisecond)
	f.pointer(t, "Memory", dwell.Move)
	assert.False(t, f.store.Contains("Memory"))

	f.clock.Advance(500 * time.Millisecond)
	f.pointer(t, "Memory", dwell.Move)
	assert.True(t, f.store.Contains("Memory"))
}

func TestResourceFallback(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, ui.HeartFilled, f.app.Resource(ui.HeartFilled).Name())
	assert.NotNil(t, f.app.Resource("missing.svg"))
}
