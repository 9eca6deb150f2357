package dwell

import (
	"io"
	"log/slog"
	"time"
)

// Target is the visual side of a toggle, e.g. a heart icon.
type Target interface {
	SetVisualState(on bool)
}

// Persistence is the durable set the target id belongs to or not.
type Persistence interface {
	Contains(id string) bool
	Add(id string)
	Remove(id string)
	// SaveIgnoringFailures persists the set. Failures are logged by the
	// implementation and never reported back.
	SaveIgnoringFailures()
}

// Switch delivers the commands of one Detector to its Target and Persistence.
type Switch struct {
	detector *Detector
	target   Target
	store    Persistence
	log      *slog.Logger

	// OnToggle, when set, runs after a command was applied and saved.
	OnToggle func(ToggleCommand)
}

// NewSwitch creates a switch for targetID whose toggle state is membership of
// targetID in store. target may be nil.
func NewSwitch(targetID string, threshold time.Duration, target Target, store Persistence, logger *slog.Logger) *Switch {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Switch{
		target: target,
		store:  store,
		log:    logger,
	}
	s.detector = NewDetector(targetID, threshold, func() bool {
		return store.Contains(targetID)
	}, logger)
	return s
}

// Detector returns the underlying detector.
func (s *Switch) Detector() *Detector {
	return s.detector
}

// Handle observes ev and applies the resulting command, if any.
func (s *Switch) Handle(ev Event) (ToggleCommand, bool) {
	cmd, ok := s.detector.Observe(ev)
	if !ok {
		return cmd, false
	}

	if cmd.NewState {
		s.store.Add(cmd.TargetID)
	} else {
		s.store.Remove(cmd.TargetID)
	}
	if s.target != nil {
		s.target.SetVisualState(cmd.NewState)
	}
	s.log.Info("toggled", "target", cmd.TargetID, "state", cmd.NewState, "dwell", cmd.Dwell)

	s.store.SaveIgnoringFailures()

	if s.OnToggle != nil {
		s.OnToggle(cmd)
	}
	return cmd, true
}
