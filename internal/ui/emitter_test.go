package ui

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/igoryan-dao/coqd/internal/protocol"
	"github.com/igoryan-dao/coqd/internal/textrange"
)

func newTestEmitter(t *testing.T) (*Emitter, *bytes.Buffer, string, string) {
	t.Helper()
	dir := t.TempDir()
	resultPath := filepath.Join(dir, "result")
	goalPath := filepath.Join(dir, "goal")
	var control bytes.Buffer
	return NewEmitter(&control, resultPath, goalPath), &control, resultPath, goalPath
}

func TestAddToProcessedWritesRangeCommand(t *testing.T) {
	e, control, _, _ := newTestEmitter(t)
	r := textrange.Range{Start: textrange.Position{Line: 1, Col: 1}, End: textrange.Position{Line: 1, Col: 5}}
	if err := e.Emit(AddToProcessed(r)); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	got := control.String()
	if !strings.Contains(got, "coqide-add-to-processed") || !strings.Contains(got, "1.1,1.5") {
		t.Fatalf("unexpected control output: %q", got)
	}
}

func TestColorResultResetsOnNonAppend(t *testing.T) {
	e, _, resultPath, _ := newTestEmitter(t)
	msg1 := protocol.RichPP{{Kind: protocol.PartRaw, Text: "first"}}
	if err := e.Emit(ColorResult(msg1, false)); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	msg2 := protocol.RichPP{{Kind: protocol.PartRaw, Text: "second"}}
	if err := e.Emit(ColorResult(msg2, false)); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	data, err := os.ReadFile(resultPath)
	if err != nil {
		t.Fatalf("read result file: %v", err)
	}
	if strings.Contains(string(data), "first") {
		t.Fatalf("expected non-append ColorResult to truncate the pane, got %q", data)
	}
	if !strings.Contains(string(data), "second") {
		t.Fatalf("expected the latest message to be present, got %q", data)
	}
}

func TestColorResultAppendsAndAdvancesCursor(t *testing.T) {
	e, _, resultPath, _ := newTestEmitter(t)
	msg1 := protocol.RichPP{{Kind: protocol.PartRaw, Text: "line one"}}
	e.Emit(ColorResult(msg1, false))
	msg2 := protocol.RichPP{{Kind: protocol.PartRaw, Text: "line two"}}
	if err := e.Emit(ColorResult(msg2, true)); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	data, err := os.ReadFile(resultPath)
	if err != nil {
		t.Fatalf("read result file: %v", err)
	}
	if !strings.Contains(string(data), "line one") || !strings.Contains(string(data), "line two") {
		t.Fatalf("expected both lines present, got %q", data)
	}
	// One line written by each emit: the cursor moves from 1 to 3.
	if e.resultCursor != 3 {
		t.Fatalf("expected result cursor 3 after two one-line messages, got %d", e.resultCursor)
	}
}

func TestRefreshErrorRangeNone(t *testing.T) {
	e, control, _, _ := newTestEmitter(t)
	if err := e.Emit(RefreshErrorRange(nil, true)); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(control.String(), "none") {
		t.Fatalf("expected a 'none' refresh command, got %q", control.String())
	}
}

func TestOutputGoalsEmptyGivesCompletionMessage(t *testing.T) {
	e, control, _, goalPath := newTestEmitter(t)
	if err := e.Emit(OutputGoals(nil, nil, nil, nil)); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	data, err := os.ReadFile(goalPath)
	if err != nil {
		t.Fatalf("read goal file: %v", err)
	}
	if !strings.Contains(string(data), "No more subgoals.") {
		t.Fatalf("unexpected goal pane contents: %q", data)
	}
	if !strings.Contains(control.String(), "coqide-output-goals 0") {
		t.Fatalf("unexpected control output: %q", control.String())
	}
}

func TestOutputGoalsRendersHypothesesAndSeparator(t *testing.T) {
	e, _, _, goalPath := newTestEmitter(t)
	goal := protocol.Goal{
		Name:       "1",
		Hypotheses: []protocol.RichPP{
			{{Kind: protocol.PartRaw, Text: "n : nat"}},
			{{Kind: protocol.PartRaw, Text: "H : n > 0"}},
		},
		Conclusion: protocol.RichPP{{Kind: protocol.PartRaw, Text: "n + 1 > 0"}},
	}
	if err := e.Emit(OutputGoals([]protocol.Goal{goal}, nil, nil, nil)); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	data, err := os.ReadFile(goalPath)
	if err != nil {
		t.Fatalf("read goal file: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, " n : nat") || !strings.Contains(s, " H : n > 0") {
		t.Fatalf("expected left-padded hypotheses, got %q", s)
	}
	if !strings.Contains(s, "─") {
		t.Fatalf("expected a separator line, got %q", s)
	}
	if !strings.Contains(s, "n + 1 > 0") {
		t.Fatalf("expected the conclusion to be rendered, got %q", s)
	}
}

func TestShowStatusCommand(t *testing.T) {
	e, control, _, _ := newTestEmitter(t)
	if err := e.Emit(ShowStatus("Top.Foo", "my_lemma")); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(control.String(), "coqide-show-status") || !strings.Contains(control.String(), "Top.Foo") {
		t.Fatalf("unexpected control output: %q", control.String())
	}
}
