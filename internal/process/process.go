// Package process implements the response processor: given a backend
// Result paired with the command that produced it, it mutates the
// proof-state store and produces the ordered UI updates the emitter
// renders.
package process

import (
	"fmt"
	"log"
	"strings"

	"github.com/igoryan-dao/coqd/internal/backend"
	"github.com/igoryan-dao/coqd/internal/bridge"
	"github.com/igoryan-dao/coqd/internal/protocol"
	"github.com/igoryan-dao/coqd/internal/store"
	"github.com/igoryan-dao/coqd/internal/textrange"
	"github.com/igoryan-dao/coqd/internal/ui"
)

// Processor applies backend responses and feedback to a Store and
// produces the UI updates describing how the editor should redraw.
type Processor struct {
	store *store.Store
	// Reinject schedules a call back onto the bridge's internal channel,
	// used to resynchronise the backend after a Fail.
	Reinject func(bridge.PendingCall)
}

// New builds a Processor over s. Reinject may be nil in tests that don't
// exercise the Fail resynchronisation path.
func New(s *store.Store, reinject func(bridge.PendingCall)) *Processor {
	return &Processor{store: s, Reinject: reinject}
}

// SetInterrupted transitions the store to StatusInterrupted, called when
// the main loop's in-flight Ask is cooperatively interrupted rather than
// completed or shut down.
func (p *Processor) SetInterrupted() {
	p.store.SetInterrupted()
}

// ClearError returns the store to StatusOk, for both the stop-interrupt
// and ignore-error commands, which share the same Ok transition.
func (p *Processor) ClearError() {
	p.store.ClearError()
}

// Handle processes one (pending call, ask) pair: the response's state
// mutation is applied first, producing response-derived UI updates,
// then feedback-derived UI updates are appended after them: feedback
// never changes proof state and should render on top of the result.
func (p *Processor) Handle(pending bridge.PendingCall, ask backend.Ask) []ui.Update {
	var updates []ui.Update

	switch ask.Response.Kind {
	case protocol.ResultGood:
		updates = append(updates, p.handleGood(pending, ask.Response.Good)...)
	case protocol.ResultFail:
		updates = append(updates, p.handleFail(pending, ask.Response.Fail)...)
	}

	updates = append(updates, p.handleFeedback(ask.Feedback)...)
	return updates
}

func clearingColorResult(append bool) ui.Update {
	return ui.ColorResult(nil, append)
}

// tagDefault re-tags every untagged (PartRaw) part of msg as kind, so a
// Fail message or a Warning feedback still renders with the
// coqide_error/coqide_warning color descriptor even when the
// backend didn't itself wrap the text in a <error>/<warning> richpp tag.
// Parts the backend already tagged (e.g. constr.keyword) are left alone.
func tagDefault(msg protocol.RichPP, kind protocol.PartKind) protocol.RichPP {
	if msg == nil {
		return nil
	}
	tagged := make(protocol.RichPP, len(msg))
	for i, part := range msg {
		if part.Kind == protocol.PartRaw {
			part.Kind = kind
		}
		tagged[i] = part
	}
	return tagged
}

func (p *Processor) handleGood(pending bridge.PendingCall, good protocol.Value) []ui.Update {
	switch pending.Kind {
	case bridge.PendingInit:
		return p.handleInitGood(good)
	case bridge.PendingPrevious:
		return p.handlePreviousGood()
	case bridge.PendingBackTo:
		return p.handleBackToGood(pending)
	case bridge.PendingNext:
		return p.handleNextGood(pending, good)
	case bridge.PendingShowGoals:
		return p.handleShowGoalsGood(good)
	case bridge.PendingStatus:
		return p.handleStatusGood(good)
	default:
		// Hints and disposable Query responses have no state-store
		// effect and no dedicated UI update.
		return nil
	}
}

func (p *Processor) handleInitGood(good protocol.Value) []ui.Update {
	sid, ok := good.AsStateId()
	if !ok {
		log.Printf("process: Init good response is not a state_id: %+v", good)
		return nil
	}
	p.store.Push(store.Operation{StateId: sid, Range: textrange.Default})
	return nil
}

func (p *Processor) handlePreviousGood() []ui.Update {
	popped, ok := p.store.PopFront()
	if !ok {
		return nil
	}
	p.store.ClearError()
	updates := removeUpdatesFor(popped.Range)
	updates = append(updates, ui.RefreshErrorRange(nil, false), ui.GotoTip())
	return updates
}

func (p *Processor) handleBackToGood(pending bridge.PendingCall) []ui.Update {
	target := pending.Call.EditAtId
	popped := p.store.PopUntilStateId(target)

	var updates []ui.Update
	for _, op := range popped {
		updates = append(updates, removeUpdatesFor(op.Range)...)
	}
	if p.store.Status() == store.StatusOk {
		updates = append(updates, ui.RefreshErrorRange(nil, false), clearingColorResult(false))
	}
	return updates
}

func (p *Processor) handleNextGood(pending bridge.PendingCall, good protocol.Value) []ui.Update {
	origSid, stateAndUnion, ok := good.AsPair()
	if !ok {
		log.Printf("process: Next good response is not a pair: %+v", good)
		return nil
	}
	sid, ok := origSid.AsStateId()
	if !ok {
		log.Printf("process: Next good response first element is not a state_id: %+v", origSid)
		return nil
	}
	union, _, ok := stateAndUnion.AsPair()
	if !ok {
		log.Printf("process: Next good response second element is not a pair: %+v", stateAndUnion)
		return nil
	}

	newSid := sid
	if inner, ok := union.AsInr(); ok {
		if innerSid, ok := inner.AsStateId(); ok {
			newSid = innerSid
		}
	}

	p.store.Push(store.Operation{StateId: newSid, Range: pending.Range})
	return []ui.Update{clearingColorResult(pending.Append), ui.RefreshErrorRange(nil, false)}
}

func (p *Processor) handleShowGoalsGood(good protocol.Value) []ui.Update {
	inner, some, isOpt := good.AsOpt()
	if !isOpt {
		log.Printf("process: ShowGoals good response is not an option: %+v", good)
		return nil
	}
	if !some {
		return []ui.Update{ui.OutputGoals(nil, nil, nil, nil)}
	}
	goals, ok := inner.AsGoals()
	if !ok {
		log.Printf("process: ShowGoals good response Some(...) is not a goals value: %+v", inner)
		return nil
	}
	return []ui.Update{ui.OutputGoals(goals.Focused, goals.Background, goals.GivenUp, goals.Shelved)}
}

func (p *Processor) handleStatusGood(good protocol.Value) []ui.Update {
	st, ok := good.AsStatus()
	if !ok {
		log.Printf("process: Status good response is not a status: %+v", good)
		return nil
	}
	proofName := ""
	if st.HasProofName {
		proofName = st.ProofName
	}
	return []ui.Update{ui.ShowStatus(strings.Join(st.Path, "."), proofName)}
}

// handleFail applies a Fail response, applicable only
// to the three command kinds that can produce a Fail: Next, ShowGoals,
// and BackTo.
func (p *Processor) handleFail(pending bridge.PendingCall, fail protocol.FailInfo) []ui.Update {
	switch pending.Kind {
	case bridge.PendingNext, bridge.PendingShowGoals, bridge.PendingBackTo:
	default:
		return nil
	}

	var updates []ui.Update

	if fail.SafeStateId > 0 {
		discarded := p.store.TruncateToStateId(fail.SafeStateId)
		for _, op := range discarded {
			updates = append(updates, removeUpdatesFor(op.Range)...)
		}
	}

	failRange := pending.Range

	// safe_state_id = 0: set Error with no last_error_range and skip
	// RefreshErrorRange so the previously rendered highlight remains.
	if fail.SafeStateId > 0 {
		p.store.SetError(failRange)
	} else {
		p.store.SetErrorNoRange()
	}

	if p.Reinject != nil {
		tip := p.store.Tip()
		p.Reinject(bridge.PendingCall{
			Call:  protocol.EditAt(tip.StateId),
			Kind:  bridge.PendingBackTo,
			Range: tip.Range,
		})
	}

	updates = append(updates,
		ui.ColorResult(tagDefault(fail.Message, protocol.PartError), false),
		ui.RemoveToBeProcessed(failRange),
		ui.RemoveProcessed(failRange),
		ui.RemoveAxiom(failRange),
	)
	if fail.SafeStateId > 0 {
		r := failRange
		updates = append(updates, ui.RefreshErrorRange(&r, true))
	}
	return updates
}

func (p *Processor) handleFeedback(feedback []protocol.Feedback) []ui.Update {
	var updates []ui.Update
	tip := p.store.TipStateId()

	for _, fb := range feedback {
		if fb.State < tip {
			// The statement this feedback concerns has already been
			// superseded; drop it before it reaches the UI.
			continue
		}

		switch fb.Kind {
		case protocol.FeedbackMessage:
			updates = append(updates, p.handleMessageFeedback(fb)...)
		case protocol.FeedbackFileLoaded:
			text := protocol.RichPP{{Kind: protocol.PartRaw, Text: fmt.Sprintf("module %q (%s) imported.", fb.FileName, fb.FilePath)}}
			updates = append(updates, ui.ColorResult(text, true))
		case protocol.FeedbackAddedAxiom:
			if r, ok := p.store.FindRangeBySid(fb.State); ok {
				updates = append(updates, ui.AddAxiom(r))
			}
		case protocol.FeedbackProcessed:
			if r, ok := p.store.FindRangeBySid(fb.State); ok {
				updates = append(updates, ui.AddToProcessed(r))
			}
		case protocol.FeedbackWorkerStatus:
			log.Printf("process: worker status: %s", fb.Node)
		case protocol.FeedbackProcessing:
			log.Printf("process: processing: %s", fb.Node)
		}
	}
	return updates
}

func (p *Processor) handleMessageFeedback(fb protocol.Feedback) []ui.Update {
	switch fb.Level {
	case protocol.LevelError:
		log.Printf("process: backend error message: %s", fb.Text.String())
		return nil
	case protocol.LevelDebug:
		log.Printf("process: backend debug message: %s", fb.Text.String())
		return nil
	case protocol.LevelWarning:
		return []ui.Update{ui.ColorResult(tagDefault(fb.Text, protocol.PartWarning), true)}
	case protocol.LevelNotice, protocol.LevelInfo:
		return []ui.Update{ui.ColorResult(fb.Text, true)}
	default:
		return nil
	}
}

// removeUpdatesFor builds the three remove-updates emitted whenever an
// operation is dropped from the store: RemoveProcessed, RemoveToBeProcessed,
// and RemoveAxiom, in that order.
func removeUpdatesFor(r textrange.Range) []ui.Update {
	return []ui.Update{
		ui.RemoveProcessed(r),
		ui.RemoveToBeProcessed(r),
		ui.RemoveAxiom(r),
	}
}
