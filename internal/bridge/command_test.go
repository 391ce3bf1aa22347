package bridge

import (
	"testing"

	"github.com/igoryan-dao/coqd/internal/textrange"
)

func TestParseSimpleCommands(t *testing.T) {
	tests := []struct {
		line string
		kind CommandKind
	}{
		{"init", CmdInit},
		{"quit", CmdQuit},
		{"previous", CmdPrevious},
		{"ignore-error", CmdIgnoreError},
		{"hints", CmdHints},
		{"status", CmdStatus},
		{"stop-interrupt", CmdStopInterrupt},
	}
	for _, tt := range tests {
		cmd, err := ParseCommand(tt.line)
		if err != nil {
			t.Errorf("ParseCommand(%q): %v", tt.line, err)
			continue
		}
		if cmd.Kind != tt.kind {
			t.Errorf("ParseCommand(%q): kind = %v, want %v", tt.line, cmd.Kind, tt.kind)
		}
	}
}

func TestParseRewindTo(t *testing.T) {
	cmd, err := ParseCommand("rewind-to 3 5")
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}
	if cmd.Kind != CmdRewindTo || cmd.Line != 3 || cmd.Col != 5 {
		t.Fatalf("unexpected command: %+v", cmd)
	}
}

func TestParseQuery(t *testing.T) {
	cmd, err := ParseCommand(`query "About foo."`)
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}
	if cmd.Kind != CmdQuery || cmd.Text != "About foo." {
		t.Fatalf("unexpected command: %+v", cmd)
	}
}

func TestParseQueryWithEscapedQuote(t *testing.T) {
	cmd, err := ParseCommand(`query "say \"hi\"."`)
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}
	if cmd.Text != `say "hi".` {
		t.Fatalf("unexpected text: %q", cmd.Text)
	}
}

func TestParseNext(t *testing.T) {
	cmd, err := ParseCommand(`next 1.1,1.10 "Lemma foo : True."`)
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}
	wantRange := textrange.Range{Start: textrange.Position{Line: 1, Col: 1}, End: textrange.Position{Line: 1, Col: 10}}
	if cmd.Kind != CmdNext || cmd.Range != wantRange || cmd.Code != "Lemma foo : True." {
		t.Fatalf("unexpected command: %+v", cmd)
	}
}

func TestParseShowGoals(t *testing.T) {
	cmd, err := ParseCommand("show-goals 2.1,2.9")
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}
	want := textrange.Range{Start: textrange.Position{Line: 2, Col: 1}, End: textrange.Position{Line: 2, Col: 9}}
	if cmd.Kind != CmdShowGoals || cmd.GoalRange != want {
		t.Fatalf("unexpected command: %+v", cmd)
	}
}

func TestParseMoveTo(t *testing.T) {
	cmd, err := ParseCommand(`move-to 1.1,1.5 "foo." 1.6,1.10 "bar."`)
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}
	if cmd.Kind != CmdMoveTo || len(cmd.Statements) != 2 {
		t.Fatalf("unexpected command: %+v", cmd)
	}
	if cmd.Statements[0].Code != "foo." || cmd.Statements[1].Code != "bar." {
		t.Fatalf("unexpected statements: %+v", cmd.Statements)
	}
}

func TestParseUnknownCommand(t *testing.T) {
	if _, err := ParseCommand("frobnicate"); err == nil {
		t.Fatal("expected an error for an unrecognised command")
	}
}

func TestParseWrongArity(t *testing.T) {
	if _, err := ParseCommand("rewind-to 3"); err == nil {
		t.Fatal("expected an error for rewind-to with too few arguments")
	}
	if _, err := ParseCommand("quit now"); err == nil {
		t.Fatal("expected an error for quit with unexpected arguments")
	}
}
