package bridge

import (
	"github.com/igoryan-dao/coqd/internal/protocol"
	"github.com/igoryan-dao/coqd/internal/store"
	"github.com/igoryan-dao/coqd/internal/textrange"
	"github.com/igoryan-dao/coqd/internal/ui"
)

// PendingCall is an optional backend call paired with the echo needed to
// reapply it later (e.g. a BackTo re-injected after a rewind), and the
// Statement/command it was classified from.
type PendingCall struct {
	Call protocol.Call
	// Kind distinguishes how the response processor should interpret the
	// eventual response; see internal/process.
	Kind   PendingKind
	Range  textrange.Range
	Append bool
	Code   string
	// CorrelationID tags calls that travel through the internal
	// re-injection channel (a Fail's BackTo, a move-to statement), so the
	// daemon's diagnostic log can tie a dispatch back to the call that
	// scheduled it. Assigned by Bridge.Reinject, or by the bridge when it
	// classifies a move-to statement off the internal channel; empty for
	// calls classified directly from an editor command.
	CorrelationID string
}

// PendingKind names the classification the response processor switches
// on, independent of the wire-level protocol.CallKind (e.g. both
// "previous" and "rewind-to" compile to CallEditAt but are handled
// differently on response).
type PendingKind int

const (
	PendingInit PendingKind = iota
	PendingPrevious
	PendingBackTo
	PendingNext
	PendingShowGoals
	PendingStatus
	PendingQuery
	PendingHints
)

// Classification is the result of classifying one parsed Command: an
// optional backend call to issue, plus any UI updates to emit
// immediately (without waiting for a backend response).
type Classification struct {
	Call      *PendingCall
	Immediate []ui.Update
	Quit      bool
	ClearsInt bool // stop-interrupt: caller should return status to Ok
	ClearsErr bool // ignore-error: caller should return status to Ok
}

// Classify maps one parsed Command to its backend call and immediate UI
// updates, consulting the store's current error status for commands
// whose availability depends on it.
func Classify(cmd Command, s *store.Store) Classification {
	status := s.Status()

	switch cmd.Kind {
	case CmdInit:
		return Classification{Call: &PendingCall{Call: protocol.Init("", false), Kind: PendingInit}}

	case CmdQuit:
		return Classification{Quit: true}

	case CmdPrevious:
		if status == store.StatusInterrupted {
			return Classification{}
		}
		target := s.Previous()
		return Classification{Call: &PendingCall{Call: protocol.EditAt(target), Kind: PendingPrevious}}

	case CmdRewindTo:
		if status == store.StatusInterrupted {
			return Classification{}
		}
		target := s.RewindTarget(textrange.Position{Line: cmd.Line, Col: cmd.Col})
		if target >= s.TipStateId() {
			return Classification{}
		}
		targetRange, _ := s.FindRangeBySid(target)
		return Classification{Call: &PendingCall{Call: protocol.EditAt(target), Kind: PendingBackTo, Range: targetRange}}

	case CmdMoveTo:
		if status != store.StatusOk {
			return Classification{}
		}
		// Bridge.expandMoveTo re-injects each statement individually onto
		// the internal channel, where it is classified lazily as a CmdNext
		// at dispatch time (see Bridge.resolveInternal); Classify itself
		// never sees a CmdMoveTo's statements directly.
		return Classification{}

	case CmdNext:
		if status != store.StatusOk {
			return Classification{Immediate: []ui.Update{ui.RemoveToBeProcessed(cmd.Range)}}
		}
		tip := s.TipStateId()
		return Classification{Call: &PendingCall{
			Call:  protocol.Add(cmd.Code, tip),
			Kind:  PendingNext,
			Range: cmd.Range,
			Code:  cmd.Code,
		}}

	case CmdIgnoreError:
		if status == store.StatusError {
			return Classification{Immediate: []ui.Update{ui.RefreshErrorRange(nil, true)}, ClearsErr: true}
		}
		return Classification{}

	case CmdHints:
		return Classification{Call: &PendingCall{Call: protocol.Hints(), Kind: PendingHints}}

	case CmdShowGoals:
		if status == store.StatusInterrupted {
			return Classification{}
		}
		return Classification{Call: &PendingCall{Call: protocol.GoalCall(), Kind: PendingShowGoals, Range: cmd.GoalRange}}

	case CmdStatus:
		return Classification{Call: &PendingCall{Call: protocol.StatusCall(false), Kind: PendingStatus}}

	case CmdStopInterrupt:
		return Classification{ClearsInt: true}

	case CmdQuery:
		return Classification{Call: &PendingCall{Call: protocol.Query(0, cmd.Text, s.TipStateId()), Kind: PendingQuery}}

	default:
		return Classification{}
	}
}
