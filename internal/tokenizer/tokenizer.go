// Package tokenizer implements the Coq-statement tokenizer: a small
// state machine that cuts a character stream into statement ranges,
// handling strings, nested comments, bullets, and the "." vs ".." vs
// qualified-identifier disambiguation.
package tokenizer

import (
	"strings"
	"unicode"

	"github.com/igoryan-dao/coqd/internal/textrange"
)

// Statement is one (range, verbatim text) pair yielded by the tokenizer.
type Statement struct {
	Range textrange.Range
	Text  string
}

// Tokenizer is a pull iterator over a finite rune source. Construct with
// New and repeatedly call Next until it returns ok=false.
type Tokenizer struct {
	runes  []rune
	pos    int // index into runes
	cursor textrange.Position

	atBOL bool

	commentDepth    int
	commentSavedBOL bool
}

// New creates a tokenizer over src starting at the given cursor position.
func New(src string, start textrange.Position) *Tokenizer {
	return &Tokenizer{
		runes:  []rune(src),
		cursor: start,
		atBOL:  true,
	}
}

func (t *Tokenizer) eof() bool { return t.pos >= len(t.runes) }

func (t *Tokenizer) peek() (rune, bool) {
	if t.eof() {
		return 0, false
	}
	return t.runes[t.pos], true
}

func (t *Tokenizer) peekAt(offset int) (rune, bool) {
	i := t.pos + offset
	if i < 0 || i >= len(t.runes) {
		return 0, false
	}
	return t.runes[i], true
}

// advance consumes one rune, updating the cursor: '\n' advances the
// line and resets the column, any other rune advances the column.
func (t *Tokenizer) advance() rune {
	r := t.runes[t.pos]
	t.pos++
	if r == '\n' {
		t.cursor.Line++
		t.cursor.Col = 1
	} else {
		t.cursor.Col++
	}
	return r
}

func isBulletChar(r rune) bool {
	return r == '+' || r == '-' || r == '*'
}

func hasNonSpace(rs []rune) bool {
	for _, r := range rs {
		if !unicode.IsSpace(r) {
			return true
		}
	}
	return false
}

// Next scans and returns the next statement. ok is false once the source
// is exhausted with no further statement pending.
func (t *Tokenizer) Next() (Statement, bool) {
	if t.eof() {
		return Statement{}, false
	}

	start := t.cursor
	var buf []rune

	for {
		if t.eof() {
			if !hasNonSpace(buf) {
				return Statement{}, false
			}
			return t.finish(start, buf), true
		}

		r, _ := t.peek()

		// Inside a (possibly nested) comment.
		if t.commentDepth > 0 {
			if r == '(' {
				if next, ok := t.peekAt(1); ok && next == '*' {
					buf = append(buf, t.advance())
					buf = append(buf, t.advance())
					t.commentDepth++
					continue
				}
			}
			if r == '*' {
				if next, ok := t.peekAt(1); ok && next == ')' {
					buf = append(buf, t.advance())
					buf = append(buf, t.advance())
					t.commentDepth--
					if t.commentDepth == 0 {
						t.atBOL = t.commentSavedBOL
					}
					continue
				}
			}
			buf = append(buf, t.advance())
			continue
		}

		// Comment open.
		if r == '(' {
			if next, ok := t.peekAt(1); ok && next == '*' {
				if t.commentDepth == 0 {
					t.commentSavedBOL = t.atBOL
				}
				t.commentDepth++
				buf = append(buf, t.advance())
				buf = append(buf, t.advance())
				continue
			}
		}

		// Bullet at the beginning of a Coq line. Any whitespace already
		// gathered in buf is carried as a prefix of the bullet statement.
		if t.atBOL && isBulletChar(r) && !hasNonSpace(buf) {
			style := r
			buf = append(buf, t.advance())
			for {
				next, ok := t.peek()
				if !ok || next != style {
					break
				}
				buf = append(buf, t.advance())
			}
			t.atBOL = false
			return t.finish(start, buf), true
		}

		// '{' / '}' at the beginning of a Coq line: single-character
		// statements.
		if t.atBOL && (r == '{' || r == '}') && !hasNonSpace(buf) {
			buf = append(buf, t.advance())
			t.atBOL = false
			return t.finish(start, buf), true
		}

		// String literal.
		if r == '"' {
			buf = append(buf, t.advance())
			t.atBOL = false
			t.scanString(&buf)
			continue
		}

		// Statement terminator disambiguation.
		if r == '.' {
			next, hasNext := t.peekAt(1)
			precededByWhitespace := len(buf) > 0 && unicode.IsSpace(buf[len(buf)-1])
			switch {
			case hasNext && next == '.':
				// ".." notation token, not a terminator.
				buf = append(buf, t.advance())
				buf = append(buf, t.advance())
				t.atBOL = false
				continue
			case hasNext && unicode.IsLetter(next) && !precededByWhitespace:
				// Qualified-identifier dot, not a terminator. Only applies
				// when the dot directly follows an identifier: a
				// whitespace-preceded dot (e.g. "A .B") always terminates.
				buf = append(buf, t.advance())
				t.atBOL = false
				continue
			default:
				// Terminator: whitespace, EOF, or anything else ends the
				// statement, including the '.' itself in the text.
				buf = append(buf, t.advance())
				return t.finish(start, buf), true
			}
		}

		if unicode.IsSpace(r) {
			buf = append(buf, t.advance())
			continue
		}

		buf = append(buf, t.advance())
		t.atBOL = false
	}
}

// scanString consumes runes until the closing unescaped quote, or EOF.
func (t *Tokenizer) scanString(buf *[]rune) {
	for {
		r, ok := t.peek()
		if !ok {
			return
		}
		if r == '\\' {
			*buf = append(*buf, t.advance())
			if _, ok := t.peek(); ok {
				*buf = append(*buf, t.advance())
			}
			continue
		}
		if r == '"' {
			*buf = append(*buf, t.advance())
			return
		}
		*buf = append(*buf, t.advance())
	}
}

func (t *Tokenizer) finish(start textrange.Position, buf []rune) Statement {
	t.atBOL = true
	return Statement{
		Range: textrange.Range{Start: start, End: t.cursor},
		Text:  string(buf),
	}
}

// EscapeText applies the output-framing escape rule: '\n'
// becomes "\\n" and '"' becomes "\\\"", nothing else is touched.
func EscapeText(s string) string {
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}

// Cursor reports the tokenizer's current position.
func (t *Tokenizer) Cursor() textrange.Position { return t.cursor }

// Collect runs Next until EOF and returns every statement.
func (t *Tokenizer) Collect() []Statement {
	var out []Statement
	for {
		s, ok := t.Next()
		if !ok {
			return out
		}
		out = append(out, s)
	}
}

// CollectTo runs Next until the returned statement's end has passed
// target lexicographically, inclusive of the statement that crosses it.
func (t *Tokenizer) CollectTo(target textrange.Position) []Statement {
	var out []Statement
	for {
		s, ok := t.Next()
		if !ok {
			return out
		}
		out = append(out, s)
		if !s.Range.End.Less(target) {
			return out
		}
	}
}
