// Package bridge implements the editor-facing command grammar: parsing
// line-terminated commands from the editor's stream socket and
// classifying them into backend calls plus immediate UI updates.
package bridge

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/igoryan-dao/coqd/internal/textrange"
)

// CommandKind names one alternative of the editor command grammar.
type CommandKind int

const (
	CmdInit CommandKind = iota
	CmdQuit
	CmdPrevious
	CmdRewindTo
	CmdQuery
	CmdMoveTo
	CmdNext
	CmdIgnoreError
	CmdHints
	CmdShowGoals
	CmdStatus
	CmdStopInterrupt
)

// Statement is one (range, code) pair inside a next or move-to command.
type Statement struct {
	Range textrange.Range
	Code  string
}

// Command is one parsed editor command.
type Command struct {
	Kind CommandKind

	// RewindTo
	Line, Col int

	// Query
	Text string

	// Next
	Range textrange.Range
	Code  string

	// MoveTo
	Statements []Statement

	// ShowGoals
	GoalRange textrange.Range
}

// ParseCommand parses one line-terminated editor command. An error here
// is an EditorCommandParse error: the caller logs it and advances the
// stream by one byte rather than treating it as fatal.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimRight(line, "\r\n")
	fields := tokenizeLine(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}

	switch fields[0] {
	case "init":
		return Command{Kind: CmdInit}, expectArgs(fields, 0)
	case "quit":
		return Command{Kind: CmdQuit}, expectArgs(fields, 0)
	case "previous":
		return Command{Kind: CmdPrevious}, expectArgs(fields, 0)
	case "rewind-to":
		if err := expectArgs(fields, 2); err != nil {
			return Command{}, err
		}
		l, err := strconv.Atoi(fields[1])
		if err != nil {
			return Command{}, fmt.Errorf("rewind-to: bad line %q: %w", fields[1], err)
		}
		c, err := strconv.Atoi(fields[2])
		if err != nil {
			return Command{}, fmt.Errorf("rewind-to: bad column %q: %w", fields[2], err)
		}
		return Command{Kind: CmdRewindTo, Line: l, Col: c}, nil
	case "query":
		if err := expectArgs(fields, 1); err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdQuery, Text: fields[1]}, nil
	case "next":
		if err := expectArgs(fields, 2); err != nil {
			return Command{}, err
		}
		r, err := textrange.Parse(fields[1])
		if err != nil {
			return Command{}, fmt.Errorf("next: %w", err)
		}
		return Command{Kind: CmdNext, Range: r, Code: fields[2]}, nil
	case "move-to":
		if len(fields) < 3 || len(fields)%2 != 1 {
			return Command{}, fmt.Errorf("move-to: expected pairs of RANGE \"code\"")
		}
		var stmts []Statement
		for i := 1; i+1 < len(fields); i += 2 {
			r, err := textrange.Parse(fields[i])
			if err != nil {
				return Command{}, fmt.Errorf("move-to: %w", err)
			}
			stmts = append(stmts, Statement{Range: r, Code: fields[i+1]})
		}
		return Command{Kind: CmdMoveTo, Statements: stmts}, nil
	case "ignore-error":
		return Command{Kind: CmdIgnoreError}, expectArgs(fields, 0)
	case "hints":
		return Command{Kind: CmdHints}, expectArgs(fields, 0)
	case "show-goals":
		if err := expectArgs(fields, 1); err != nil {
			return Command{}, err
		}
		r, err := textrange.Parse(fields[1])
		if err != nil {
			return Command{}, fmt.Errorf("show-goals: %w", err)
		}
		return Command{Kind: CmdShowGoals, GoalRange: r}, nil
	case "status":
		return Command{Kind: CmdStatus}, expectArgs(fields, 0)
	case "stop-interrupt":
		return Command{Kind: CmdStopInterrupt}, expectArgs(fields, 0)
	default:
		return Command{}, fmt.Errorf("unknown command %q", fields[0])
	}
}

func expectArgs(fields []string, n int) error {
	if len(fields)-1 != n {
		return fmt.Errorf("%s: expected %d argument(s), got %d", fields[0], n, len(fields)-1)
	}
	return nil
}

// tokenizeLine splits a command line on whitespace, treating "..."
// spans (with \" escaping) as single tokens.
func tokenizeLine(line string) []string {
	var fields []string
	var cur strings.Builder
	hasCur := false
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case inQuotes:
			if r == '\\' && i+1 < len(runes) && runes[i+1] == '"' {
				cur.WriteRune('"')
				i++
				continue
			}
			if r == '"' {
				inQuotes = false
				continue
			}
			cur.WriteRune(r)
		case r == '"':
			inQuotes = true
			hasCur = true
		case r == ' ' || r == '\t':
			if hasCur {
				fields = append(fields, cur.String())
				cur.Reset()
				hasCur = false
			}
		default:
			cur.WriteRune(r)
			hasCur = true
		}
	}
	if hasCur {
		fields = append(fields, cur.String())
	}
	return fields
}
