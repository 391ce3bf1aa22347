// Command coqtok exposes the statement tokenizer as a standalone CLI for
// debugging and editor integration testing outside of coqd itself.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/igoryan-dao/coqd/internal/textrange"
	"github.com/igoryan-dao/coqd/internal/tokenizer"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "coqtok <start-line> <start-col> next|to <L> <C>",
	Short: "Tokenize Coq statements from stdin",
	Args:  cobra.MinimumNArgs(3),
	RunE:  run,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func run(cmd *cobra.Command, args []string) error {
	startLine, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid start-line %q: %w", args[0], err)
	}
	startCol, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid start-col %q: %w", args[1], err)
	}

	mode := args[2]

	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	tok := tokenizer.New(string(src), textrange.Position{Line: startLine, Col: startCol})

	var stmts []tokenizer.Statement
	switch mode {
	case "next":
		s, ok := tok.Next()
		if ok {
			stmts = []tokenizer.Statement{s}
		}
	case "to":
		if len(args) != 5 {
			return fmt.Errorf("usage: coqtok <start-line> <start-col> to <L> <C>")
		}
		line, err := strconv.Atoi(args[3])
		if err != nil {
			return fmt.Errorf("invalid target line %q: %w", args[3], err)
		}
		col, err := strconv.Atoi(args[4])
		if err != nil {
			return fmt.Errorf("invalid target col %q: %w", args[4], err)
		}
		stmts = tok.CollectTo(textrange.Position{Line: line, Col: col})
	default:
		return fmt.Errorf("unknown mode %q, want \"next\" or \"to\"", mode)
	}

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	for _, s := range stmts {
		fmt.Fprintf(w, "%s \"%s\"\n", s.Range.String(), tokenizer.EscapeText(s.Text))
	}
	return nil
}
