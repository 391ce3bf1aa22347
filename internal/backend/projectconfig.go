package backend

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigFileName is the per-project configuration file the daemon
// searches ancestor directories for.
const ConfigFileName = "_CoqProject"

// FindProjectConfig searches dir and its ancestors for ConfigFileName,
// returning its path. It returns ok=false if none is found before
// reaching the filesystem root.
func FindProjectConfig(dir string) (path string, ok bool) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	for {
		candidate := filepath.Join(abs, ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", false
		}
		abs = parent
	}
}

// ParseProjectConfig reads a project configuration file and returns the
// backend flags it describes, flattened into a single argument slice
// suitable for appending to the backend command line. Only -R, -I, -Q,
// and -arg entries are kept: -R and -Q take two operands, -I one, and
// an -arg operand is itself re-tokenized and spliced in unwrapped.
// Everything else (source file listings, unrecognized options) is not a
// backend flag and is dropped.
func ParseProjectConfig(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project config %s: %w", path, err)
	}
	tokens, err := tokenizeConfig(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse project config %s: %w", path, err)
	}
	args, err := interpretOptions(tokens)
	if err != nil {
		return nil, fmt.Errorf("parse project config %s: %w", path, err)
	}
	return args, nil
}

func interpretOptions(tokens []string) ([]string, error) {
	var args []string
	for i := 0; i < len(tokens); i++ {
		switch tokens[i] {
		case "-R", "-Q":
			if i+2 >= len(tokens) {
				return nil, fmt.Errorf("%s expects 2 operands", tokens[i])
			}
			args = append(args, tokens[i], tokens[i+1], tokens[i+2])
			i += 2
		case "-I":
			if i+1 >= len(tokens) {
				return nil, fmt.Errorf("-I expects an operand")
			}
			args = append(args, tokens[i], tokens[i+1])
			i++
		case "-arg":
			if i+1 >= len(tokens) {
				return nil, fmt.Errorf("-arg expects an operand")
			}
			sub, err := tokenizeConfig(tokens[i+1])
			if err != nil {
				return nil, fmt.Errorf("-arg %q: %w", tokens[i+1], err)
			}
			args = append(args, sub...)
			i++
		}
	}
	return args, nil
}

// tokenizeConfig splits config source on whitespace, honoring "..."
// quoting and '#' line comments, exactly as the -R/-I/-Q/-arg option
// tokens are documented to be read.
func tokenizeConfig(src string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	inQuotes := false
	hasCur := false

	flush := func() {
		if hasCur {
			tokens = append(tokens, cur.String())
			cur.Reset()
			hasCur = false
		}
	}

	runes := []rune(src)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case inQuotes:
			if r == '"' {
				inQuotes = false
				continue
			}
			cur.WriteRune(r)
			hasCur = true
		case r == '"':
			inQuotes = true
			hasCur = true
		case r == '#':
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
			flush()
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			cur.WriteRune(r)
			hasCur = true
		}
	}
	if inQuotes {
		return nil, fmt.Errorf("unterminated quoted token")
	}
	flush()
	return tokens, nil
}
