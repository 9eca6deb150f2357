// Package dwell turns a stream of pointer enter/exit/move events into
// discrete toggle decisions once the pointer has stayed on a target for a
// minimum fixation duration.
//
// Maintenance notes:
//   - One Detector per interactive target. Detectors never coordinate with
//     each other, the only shared thing is the clock.
//   - Events for a target are expected in temporal order from one delivery
//     goroutine (the application command loop), but the bracket state is still
//     guarded by mu because the dwell ticker and the UI read it concurrently.
//   - Observe never panics and never returns an error: malformed sequences
//     degrade to a no-op and a debug log line.
package dwell

import (
	"io"
	"log/slog"
	"sync"
	"time"
)

// DefaultThreshold is the fixation duration used when none is configured.
const DefaultThreshold = 1000 * time.Millisecond

// Kind is the type of a pointer event.
type Kind int

const (
	Enter Kind = iota
	Exit
	Move
)

func (k Kind) String() string {
	switch k {
	case Enter:
		return "enter"
	case Exit:
		return "exit"
	case Move:
		return "move"
	}
	return "unknown"
}

// Event is one pointer event for a target. At should carry a monotonic clock
// reading (time.Now does).
type Event struct {
	Kind Kind
	At   time.Time
}

// State is the dwell state of a detector.
type State int

const (
	StateIdle State = iota
	StateEntered
	StateFixated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEntered:
		return "entered"
	case StateFixated:
		return "fixated"
	}
	return "unknown"
}

// Mark records when an enter or exit happened and the toggle state seen then.
// Set is false while nothing was recorded.
type Mark struct {
	At    time.Time
	State bool
	Set   bool
}

// Window is the latest enter/exit bracket of a target.
type Window struct {
	Entered Mark
	Exited  Mark
}

// ToggleCommand asks the target to switch to NewState.
type ToggleCommand struct {
	TargetID string
	NewState bool
	At       time.Time
	Dwell    time.Duration
}

// StateFunc reports the current toggle state of the target.
type StateFunc func() bool

// Detector is the per-target fixation state machine.
type Detector struct {
	targetID string
	state    StateFunc
	log      *slog.Logger

	// mutable state - protect with mu
	mu        sync.Mutex
	threshold time.Duration
	window    Window
	active    bool // an ENTER opened the current bracket and no EXIT closed it
	fired     bool // a command already fired for the current bracket
}

// NewDetector creates a detector for targetID. A non-positive threshold falls
// back to DefaultThreshold, a nil state func reads as false and a nil logger
// discards.
func NewDetector(targetID string, threshold time.Duration, state StateFunc, logger *slog.Logger) *Detector {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if state == nil {
		state = func() bool { return false }
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Detector{
		targetID:  targetID,
		threshold: threshold,
		state:     state,
		log:       logger.With("target", targetID),
	}
}

// TargetID returns the identifier of the target this detector watches.
func (d *Detector) TargetID() string {
	return d.targetID
}

// Threshold returns the minimum fixation duration.
func (d *Detector) Threshold() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.threshold
}

// SetThreshold changes the minimum fixation duration. An open bracket is
// judged against the new value. A non-positive threshold falls back to
// DefaultThreshold.
func (d *Detector) SetThreshold(threshold time.Duration) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	d.mu.Lock()
	d.threshold = threshold
	d.mu.Unlock()
}

// Observe feeds one event to the detector. It returns a command and true when
// a fixation completed with this event.
func (d *Detector) Observe(ev Event) (ToggleCommand, bool) {
	// state() is read outside mu, it may lock the favorites store.
	var current bool
	if ev.Kind == Enter || ev.Kind == Exit {
		current = d.state()
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	switch ev.Kind {
	case Enter:
		if d.active {
			d.log.Debug("enter without exit, restarting bracket")
		}
		d.window.Entered = Mark{At: ev.At, State: current, Set: true}
		d.active = true
		d.fired = false
		return ToggleCommand{}, false

	case Exit:
		d.window.Exited = Mark{At: ev.At, State: current, Set: true}
		cmd, ok := d.evaluate(ev.At)
		if !d.active {
			d.log.Debug("exit without enter")
		}
		d.active = false
		return cmd, ok

	case Move:
		return d.evaluate(ev.At)
	}

	d.log.Debug("ignoring event", "kind", ev.Kind)
	return ToggleCommand{}, false
}

// evaluate must be called with mu held.
func (d *Detector) evaluate(now time.Time) (ToggleCommand, bool) {
	if !d.active || !d.window.Entered.Set {
		return ToggleCommand{}, false
	}
	if d.fired {
		return ToggleCommand{}, false
	}
	fixation := now.Sub(d.window.Entered.At)
	if fixation < d.threshold {
		// too early
		return ToggleCommand{}, false
	}
	d.fired = true
	cmd := ToggleCommand{
		TargetID: d.targetID,
		NewState: !d.window.Entered.State,
		At:       now,
		Dwell:    fixation,
	}
	d.log.Debug("fixation completed", "dwell", fixation, "new_state", cmd.NewState)
	return cmd, true
}

// State returns the current dwell state.
func (d *Detector) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch {
	case !d.active:
		return StateIdle
	case d.fired:
		return StateFixated
	}
	return StateEntered
}

// Window returns a copy of the latest bracket.
func (d *Detector) Window() Window {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.window
}

// Progress reports which fraction of the threshold has elapsed in the current
// bracket at now. It is 0 when idle and 1 once the bracket fired.
func (d *Detector) Progress(now time.Time) float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.active {
		return 0
	}
	if d.fired {
		return 1
	}
	elapsed := now.Sub(d.window.Entered.At)
	if elapsed <= 0 {
		return 0
	}
	p := float64(elapsed) / float64(d.threshold)
	if p > 1 {
		p = 1
	}
	return p
}

// Reset closes the current bracket without evaluating it.
func (d *Detector) Reset() {
	d.mu.Lock()
	d.active = false
	d.fired = false
	d.mu.Unlock()
}
