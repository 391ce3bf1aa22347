package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/igoryan-dao/coqd/internal/protocol"
)

// ControlWriter is the editor's control channel: a sequence of short
// textual commands, one per line.
type ControlWriter interface {
	io.Writer
}

// Emitter consumes an ordered queue of Updates and renders them to the
// editor's control channel and the result/goal scratch files, keeping
// a 1-based result-pane line cursor.
type Emitter struct {
	control    ControlWriter
	resultPath string
	goalPath   string

	resultCursor int // 1-based next line to write
}

// NewEmitter builds an Emitter writing editor commands to control and
// rendering the result/goal panes to the given scratch files.
func NewEmitter(control ControlWriter, resultPath, goalPath string) *Emitter {
	return &Emitter{control: control, resultPath: resultPath, goalPath: goalPath, resultCursor: 1}
}

// Emit renders one Update.
func (e *Emitter) Emit(u Update) error {
	switch u.Kind {
	case KindColorResult:
		return e.emitColorResult(u)
	case KindRefreshErrorRange:
		return e.emitRefreshErrorRange(u)
	case KindAddToProcessed:
		return e.writeRangeCommand("coqide-add-to-processed", u.TargetRange)
	case KindAddAxiom:
		return e.writeRangeCommand("coqide-add-axiom", u.TargetRange)
	case KindRemoveProcessed:
		return e.writeRangeCommand("coqide-remove-processed", u.TargetRange)
	case KindRemoveToBeProcessed:
		return e.writeRangeCommand("coqide-remove-to-be-processed", u.TargetRange)
	case KindRemoveAxiom:
		return e.writeRangeCommand("coqide-remove-axiom", u.TargetRange)
	case KindGotoTip:
		return e.writeCommand("coqide-goto-tip")
	case KindOutputGoals:
		return e.emitGoals(u)
	case KindShowStatus:
		return e.writeCommand(fmt.Sprintf("coqide-show-status %s %s", quote(u.Path), quote(u.ProofName)))
	default:
		return fmt.Errorf("ui: unknown update kind %d", u.Kind)
	}
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "\\'") + "'"
}

func (e *Emitter) writeCommand(cmd string) error {
	_, err := io.WriteString(e.control, cmd+"\n")
	return err
}

func (e *Emitter) writeRangeCommand(name string, r interface{ String() string }) error {
	return e.writeCommand(fmt.Sprintf("%s %s", name, quote(r.String())))
}

func (e *Emitter) emitColorResult(u Update) error {
	text := u.Message.String()
	lines := strings.Count(text, "\n") + 1
	if text == "" {
		lines = 0
	}

	flags := os.O_WRONLY | os.O_CREATE
	if u.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
		e.resultCursor = 1
	}

	f, err := os.OpenFile(e.resultPath, flags, 0o644)
	if err != nil {
		return fmt.Errorf("open result pane %s: %w", e.resultPath, err)
	}
	defer f.Close()

	if text != "" {
		if _, err := io.WriteString(f, text+"\n"); err != nil {
			return fmt.Errorf("write result pane: %w", err)
		}
	}

	colorTags := colorTagsFor(u.Message, e.resultCursor)
	e.resultCursor += lines

	for _, tag := range colorTags {
		if err := e.writeCommand(tag); err != nil {
			return err
		}
	}
	return nil
}

// colorTagsFor emits one "L.C,L.C|coqide_<kind>" descriptor per non-empty
// RichPP part other than PartRaw (raw parts get no descriptor but still
// advance the column), all anchored on the single line the result text occupies
// starting at startLine (the result pane renders plain concatenated
// text, so parts are attributed by running column offset on that line).
func colorTagsFor(msg protocol.RichPP, startLine int) []string {
	var tags []string
	col := 1
	for _, part := range msg {
		width := len([]rune(part.Text))
		if width == 0 {
			continue
		}
		if part.Kind != protocol.PartRaw {
			tags = append(tags, fmt.Sprintf(
				"coqide-color %d.%d,%d.%d|coqide_%s",
				startLine, col, startLine, col+width, part.Kind.String(),
			))
		}
		col += width
	}
	return tags
}

func (e *Emitter) emitRefreshErrorRange(u Update) error {
	if !u.HasRange {
		return e.writeCommand(fmt.Sprintf("coqide-refresh-error-range none %v", u.Force))
	}
	return e.writeCommand(fmt.Sprintf("coqide-refresh-error-range %s %v", quote(u.Range.String()), u.Force))
}

func (e *Emitter) emitGoals(u Update) error {
	f, err := os.OpenFile(e.goalPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open goal pane %s: %w", e.goalPath, err)
	}
	defer f.Close()

	if len(u.Focused) == 0 {
		io.WriteString(f, completionMessage(u)+"\n")
		return e.writeCommand(fmt.Sprintf("coqide-output-goals %d", 0))
	}

	var b strings.Builder
	for i, g := range u.Focused {
		renderGoal(&b, g)
		if i != len(u.Focused)-1 {
			b.WriteString("\n")
		}
	}
	if _, err := io.WriteString(f, b.String()); err != nil {
		return fmt.Errorf("write goal pane: %w", err)
	}
	return e.writeCommand(fmt.Sprintf("coqide-output-goals %d", len(u.Focused)))
}

func completionMessage(u Update) string {
	switch {
	case len(u.GivenUp) > 0:
		return "No more subgoals, but there are some goals you gave up. You need to go back and solve them."
	case len(u.Shelved) > 0:
		return "No more subgoals, but there are some shelved goals. You need to unshelve them."
	case len(u.Background) > 0:
		return "This subproof is complete, but there are some unfocused goals."
	default:
		return "No more subgoals."
	}
}

func renderGoal(b *strings.Builder, g protocol.Goal) {
	width := 0
	for _, h := range g.Hypotheses {
		if w := len([]rune(h.String())) + 1; w > width {
			width = w
		}
	}
	if concl := len([]rune(g.Conclusion.String())); concl > width {
		width = concl
	}
	if width == 0 {
		width = 1
	}

	for _, h := range g.Hypotheses {
		b.WriteString(" ")
		b.WriteString(h.String())
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat("─", width))
	b.WriteString(" ")
	b.WriteString(g.Name)
	b.WriteString("\n")
	b.WriteString(g.Conclusion.String())
	b.WriteString("\n")
}
