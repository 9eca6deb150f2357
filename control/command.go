// Package control defines lightweight command messages used by the UI to
// request actions from the application command loop. All pointer events of
// all cards go through that single loop, so each dwell detector sees its
// events in order from one goroutine.
package control

import "GazeMenu/dwell"

// CommandType enumerates supported command operations.
type CommandType int

const (
	CmdPointer CommandType = iota
	CmdLaunch
	CmdReload
)

func (t CommandType) String() string {
	switch t {
	case CmdPointer:
		return "pointer"
	case CmdLaunch:
		return "launch"
	case CmdReload:
		return "reload"
	}
	return "unknown"
}

// Command is the message sent from UI to AppManager.commandLoop. The
// optional Reply channel can be used by the commandLoop to confirm
// completion back to the sender.
type Command struct {
	Type   CommandType
	GameID string      // target game name code
	Event  dwell.Event // CmdPointer only
	Reply  chan error  // optional reply channel
}
