package bridge

import (
	"testing"

	"github.com/igoryan-dao/coqd/internal/protocol"
	"github.com/igoryan-dao/coqd/internal/store"
	"github.com/igoryan-dao/coqd/internal/textrange"
	"github.com/igoryan-dao/coqd/internal/ui"
)

func TestClassifyInit(t *testing.T) {
	s := store.New()
	c := Classify(Command{Kind: CmdInit}, s)
	if c.Call == nil || c.Call.Call.Kind != protocol.CallInit {
		t.Fatalf("unexpected classification: %+v", c)
	}
}

func TestClassifyQuit(t *testing.T) {
	s := store.New()
	c := Classify(Command{Kind: CmdQuit}, s)
	if !c.Quit {
		t.Fatalf("expected Quit=true, got %+v", c)
	}
}

func TestClassifyNextWhileOk(t *testing.T) {
	s := store.New()
	r := textrange.Range{Start: textrange.Position{Line: 1, Col: 1}, End: textrange.Position{Line: 1, Col: 10}}
	c := Classify(Command{Kind: CmdNext, Range: r, Code: "Qed."}, s)
	if c.Call == nil || c.Call.Kind != PendingNext {
		t.Fatalf("expected a PendingNext call, got %+v", c)
	}
	if c.Call.Call.AddState != store.RootStateId {
		t.Fatalf("expected Add against the root tip, got %+v", c.Call.Call)
	}
}

func TestClassifyNextWhileError(t *testing.T) {
	s := store.New()
	s.SetError(textrange.Range{})
	r := textrange.Range{Start: textrange.Position{Line: 1, Col: 1}, End: textrange.Position{Line: 1, Col: 10}}
	c := Classify(Command{Kind: CmdNext, Range: r, Code: "Qed."}, s)
	if c.Call != nil {
		t.Fatalf("expected no call while in error state, got %+v", c)
	}
	if len(c.Immediate) != 1 || c.Immediate[0].Kind != ui.KindRemoveToBeProcessed {
		t.Fatalf("expected an immediate RemoveToBeProcessed update, got %+v", c.Immediate)
	}
}

func TestClassifyIgnoreErrorWhileError(t *testing.T) {
	s := store.New()
	s.SetError(textrange.Range{})
	c := Classify(Command{Kind: CmdIgnoreError}, s)
	if c.Call != nil {
		t.Fatalf("expected no call, got %+v", c)
	}
	if len(c.Immediate) != 1 {
		t.Fatalf("expected one immediate update, got %+v", c.Immediate)
	}
	if !c.ClearsErr {
		t.Fatalf("expected ClearsErr=true so the caller returns the store to Ok, got %+v", c)
	}
}

func TestClassifyIgnoreErrorWhileOk(t *testing.T) {
	s := store.New()
	c := Classify(Command{Kind: CmdIgnoreError}, s)
	if c.Call != nil || len(c.Immediate) != 0 {
		t.Fatalf("expected a no-op classification, got %+v", c)
	}
}

func TestClassifyRewindToBelowTip(t *testing.T) {
	s := store.New()
	s.Push(store.Operation{StateId: 2, Range: textrange.Range{Start: textrange.Position{Line: 1, Col: 1}, End: textrange.Position{Line: 1, Col: 10}}})
	s.Push(store.Operation{StateId: 3, Range: textrange.Range{Start: textrange.Position{Line: 2, Col: 1}, End: textrange.Position{Line: 2, Col: 10}}})

	c := Classify(Command{Kind: CmdRewindTo, Line: 2, Col: 5}, s)
	if c.Call == nil || c.Call.Kind != PendingBackTo {
		t.Fatalf("expected a PendingBackTo call, got %+v", c)
	}
}

func TestClassifyRewindToAtOrAboveTipIsNoOp(t *testing.T) {
	s := store.New()
	c := Classify(Command{Kind: CmdRewindTo, Line: 1, Col: 1}, s)
	if c.Call != nil {
		t.Fatalf("expected no call when target >= tip, got %+v", c)
	}
}

func TestClassifyPreviousWhileInterrupted(t *testing.T) {
	s := store.New()
	s.SetInterrupted()
	c := Classify(Command{Kind: CmdPrevious}, s)
	if c.Call != nil {
		t.Fatalf("expected no call while interrupted, got %+v", c)
	}
}

func TestClassifyStopInterrupt(t *testing.T) {
	s := store.New()
	c := Classify(Command{Kind: CmdStopInterrupt}, s)
	if !c.ClearsInt {
		t.Fatalf("expected ClearsInt=true, got %+v", c)
	}
}
