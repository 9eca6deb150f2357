// Package main contains the application wiring and the AppManager which
// coordinates the favorites store, the dwell switches, audio and the UI.
//
// Maintenance notes / tips:
//   - Concurrency model: every pointer event of every card goes through the
//     single command-loop goroutine (see `commandLoop`), so each dwell
//     detector sees its events in order. The dwell ticker (`tick`) only
//     enqueues synthetic MOVE events and reads detector progress, detectors
//     guard their own state.
//   - `cmdCh` is buffered. A command is dropped when the channel stays full
//     for a short while, so the UI thread never blocks. A dropped EXIT resets
//     the detector directly, otherwise the ticker would keep the bracket open.
//   - `cards` and `switches` are populated in `NewAppManager` and treated as
//     immutable afterwards.
package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"
	"time"

	"GazeMenu/catalog"
	"GazeMenu/config"
	"GazeMenu/control"
	"GazeMenu/dwell"
	"GazeMenu/i18n"
	"GazeMenu/ui"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate   = beep.SampleRate(44100)
	toneDuration = 120 * time.Millisecond
	toneAdded    = 880.0
	toneRemoved  = 440.0
	enqueueWait  = 150 * time.Millisecond
)

// AppManager is the main application struct, holding all state.
type AppManager struct {
	mainWindow fyne.Window
	content    fs.ReadFileFS
	log        *slog.Logger
	cfg        config.Config
	store      *config.Store
	clock      dwell.Clock

	games    []catalog.GameSummary
	cards    []*ui.GameCard
	byID     map[string]*ui.GameCard
	switches map[string]*dwell.Switch

	cmdCh     chan control.Command
	cmdCtx    context.Context
	cmdCancel context.CancelFunc

	tones       map[bool]*beep.Buffer
	speakerLock sync.Mutex
}

// NewAppManager loads the catalog and builds one card and one favorite
// switch per game. cfg carries the effective settings (file plus env),
// store the persisted favorites.
func NewAppManager(content fs.ReadFileFS, store *config.Store, cfg config.Config, logger *slog.Logger, clock dwell.Clock) (*AppManager, error) {
	a := &AppManager{
		content:  content,
		log:      logger,
		cfg:      cfg,
		store:    store,
		clock:    clock,
		byID:     make(map[string]*ui.GameCard),
		switches: make(map[string]*dwell.Switch),
		tones:    make(map[bool]*beep.Buffer),
	}

	games, err := catalog.Load(content)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	a.games = catalog.SortFavoritesFirst(games, store.Contains)
	a.log.Info("loaded game catalog", "games", len(a.games), "favorites", len(store.Favorites()))

	if cfg.SoundEnabled {
		a.loadTones()
	}

	for _, g := range a.games {
		card := ui.NewGameCard(a, g, cfg.Orientation)
		sw := dwell.NewSwitch(g.NameCode, cfg.FixationThreshold(), card, store, a.log)
		sw.OnToggle = a.onToggle
		a.cards = append(a.cards, card)
		a.byID[g.NameCode] = card
		a.switches[g.NameCode] = sw
	}

	store.OnChange(func() {
		a.EnqueueCommand(control.Command{Type: control.CmdReload})
	})

	// Use a larger buffer for the command channel to absorb bursts of pointer moves.
	a.cmdCh = make(chan control.Command, 256)
	a.cmdCtx, a.cmdCancel = context.WithCancel(context.Background())
	go a.commandLoop()

	return a, nil
}

// Now stamps pointer events.
func (a *AppManager) Now() time.Time {
	return a.clock.Now()
}

// IsFavorite reports whether the game is in the favorites set.
func (a *AppManager) IsFavorite(id string) bool {
	return a.store.Contains(id)
}

// Resource loads an embedded asset.
func (a *AppManager) Resource(name string) fyne.Resource {
	path := "assets/" + name
	data, err := a.content.ReadFile(path)
	if err != nil {
		a.log.Warn("failed to load resource", "path", path, "err", err)
		return theme.QuestionIcon()
	}
	return fyne.NewStaticResource(name, data)
}

// Cards returns the game cards in menu order.
func (a *AppManager) Cards() []*ui.GameCard {
	return a.cards
}

// EnqueueCommand posts a command to the internal command loop.
func (a *AppManager) EnqueueCommand(cmd control.Command) {
	// Try to enqueue the command but avoid blocking UI indefinitely. If the
	// channel stays full for the configured short timeout, drop and log.
	select {
	case a.cmdCh <- cmd:
	case <-a.cmdCtx.Done():
	case <-time.After(enqueueWait):
		a.log.Warn("EnqueueCommand timeout: dropping command", "type", cmd.Type, "game", cmd.GameID)
		if cmd.Type == control.CmdPointer && cmd.Event.Kind == dwell.Exit {
			if sw, ok := a.switches[cmd.GameID]; ok {
				sw.Detector().Reset()
			}
		}
	}
}

func (a *AppManager) commandLoop() {
	for {
		select {
		case <-a.cmdCtx.Done():
			return
		case cmd := <-a.cmdCh:
			a.handle(cmd)
			// send reply if requested
			if cmd.Reply != nil {
				select {
				case cmd.Reply <- nil:
				default:
				}
			}
		}
	}
}

func (a *AppManager) handle(cmd control.Command) {
	switch cmd.Type {
	case control.CmdPointer:
		sw, ok := a.switches[cmd.GameID]
		if !ok {
			a.log.Debug("pointer event for unknown game", "game", cmd.GameID)
			return
		}
		sw.Handle(cmd.Event)
		a.byID[cmd.GameID].SetProgress(sw.Detector().Progress(cmd.Event.At))
	case control.CmdLaunch:
		a.launch(cmd.GameID)
	case control.CmdReload:
		a.reload()
	}
}

// reload applies an externally edited config: favorites and the fixation
// threshold. The env override keeps winning over the file.
func (a *AppManager) reload() {
	threshold := config.ApplyEnv(a.store.Config(), nil).FixationThreshold()
	for id, sw := range a.switches {
		sw.Detector().SetThreshold(threshold)
		a.byID[id].SetVisualState(a.store.Contains(id))
	}
	a.log.Debug("applied reloaded config", "fixation_threshold", threshold)
}

// dwellTick re-evaluates every card the pointer rests on. Gaze can stay
// perfectly still, so a fixation must not depend on MOVE events.
func (a *AppManager) dwellTick(now time.Time) {
	for id, sw := range a.switches {
		d := sw.Detector()
		if d.State() != dwell.StateEntered {
			continue
		}
		select {
		case a.cmdCh <- control.Command{Type: control.CmdPointer, GameID: id, Event: dwell.Event{Kind: dwell.Move, At: now}}:
		default:
			// loop busy, the next tick retries
		}
		a.byID[id].SetProgress(d.Progress(now))
	}
}

func (a *AppManager) tick(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.DwellTick())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.dwellTick(a.clock.Now())
		}
	}
}

func (a *AppManager) watch(ctx context.Context) {
	if err := a.store.Watch(ctx); err != nil {
		a.log.Warn("config watch disabled", "err", err)
	}
}

func (a *AppManager) launch(id string) {
	a.log.Info("game selected", "game", id)
	if a.mainWindow == nil {
		return
	}
	fyne.Do(func() {
		dialog.ShowInformation(i18n.T("Launching"), i18n.T(id), a.mainWindow)
	})
}

func (a *AppManager) onToggle(cmd dwell.ToggleCommand) {
	a.PlayTone(cmd.NewState)
}

func (a *AppManager) loadTones() {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		a.log.Warn("audio disabled: failed to initialize speaker", "err", err)
		return
	}

	for added, freq := range map[bool]float64{true: toneAdded, false: toneRemoved} {
		tone, err := generators.SineTone(sampleRate, freq)
		if err != nil {
			a.log.Warn("failed to generate tone", "freq", freq, "err", err)
			continue
		}
		buffer := beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2})
		buffer.Append(beep.Take(sampleRate.N(toneDuration), tone))
		a.tones[added] = buffer
	}
}

// PlayTone plays the feedback tone for a favorite being added or removed.
func (a *AppManager) PlayTone(added bool) {
	b, ok := a.tones[added]
	if !ok {
		return
	}

	a.speakerLock.Lock()
	defer a.speakerLock.Unlock()

	speaker.Play(b.Streamer(0, b.Len()))
}

// BuildWindow creates the main window.
func (a *AppManager) BuildWindow(fyneApp fyne.App) fyne.Window {
	a.mainWindow = ui.CreateMainWindow(fyneApp, a.cards, a.cfg.Orientation)
	return a.mainWindow
}

// Shutdown stops the command loop.
func (a *AppManager) Shutdown() {
	if a.cmdCancel != nil {
		a.cmdCancel()
	}
}
