package lexer

import (
	"strings"

	"github.com/example/esparse/token"
)

func (l *Lexer) tryReadTemplateToken() {
	l.inTemplateElement = true
	ok := l.readTmplTokenChecked()
	l.inTemplateElement = false
	if !ok {
		l.readInvalidTemplateToken()
	}
}

func (l *Lexer) readTmplTokenChecked() (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, bad := r.(invalidTemplateEscape); !bad {
				panic(r)
			}
			ok = false
		}
	}()
	l.readTmplToken()
	return true
}

// readTmplToken reads template text up to the next ` or ${. When the cursor is
// already on one of those and the previous token was template text, the
// delimiter itself is returned.
func (l *Lexer) readTmplToken() {
	var out strings.Builder
	chunkStart := l.pos
	for {
		if l.pos >= len(l.input) {
			l.raise(l.start, "Unterminated template")
		}
		ch := l.input[l.pos]
		if ch == '`' || ch == '$' && l.CharAt(l.pos+1) == '{' {
			if l.pos == l.start && (l.tok.Type == token.Template || l.tok.Type == token.InvalidTemplate) {
				if ch == '$' {
					l.finishOp(token.DollarBrace, 2)
				} else {
					l.finishOp(token.BackQuote, 1)
				}
				return
			}
			out.WriteString(string(l.input[chunkStart:l.pos]))
			l.finishToken(token.Template, out.String())
			return
		}
		switch {
		case ch == '\\':
			out.WriteString(string(l.input[chunkStart:l.pos]))
			out.WriteString(l.readEscapedChar(true))
			chunkStart = l.pos
		case isNewLine(ch):
			out.WriteString(string(l.input[chunkStart:l.pos]))
			l.pos++
			switch ch {
			case '\r':
				if l.CharAt(l.pos) == '\n' {
					l.pos++
				}
				out.WriteByte('\n')
			case '\n':
				out.WriteByte('\n')
			default:
				out.WriteRune(ch)
			}
			l.newLine(l.pos)
			chunkStart = l.pos
		default:
			l.pos++
		}
	}
}

// readInvalidTemplateToken skips to the end of a chunk that contains a bad
// escape. The token carries no cooked value.
func (l *Lexer) readInvalidTemplateToken() {
	for ; l.pos < len(l.input); l.pos++ {
		switch ch := l.input[l.pos]; ch {
		case '\\':
			l.pos++
			if l.pos < len(l.input) && isNewLine(l.input[l.pos]) {
				l.lineBreakAt()
			}
		case '$':
			if l.CharAt(l.pos+1) != '{' {
				break
			}
			l.finishToken(token.InvalidTemplate, "")
			return
		case '`':
			l.finishToken(token.InvalidTemplate, "")
			return
		case '\r', '\n', 0x2028, 0x2029:
			l.lineBreakAt()
		}
	}
	l.raise(l.start, "Unterminated template")
}

// lineBreakAt records the line terminator at the cursor, leaving the cursor on
// its last character.
func (l *Lexer) lineBreakAt() {
	if l.input[l.pos] == '\r' && l.CharAt(l.pos+1) == '\n' {
		l.pos++
	}
	l.newLine(l.pos + 1)
}

// ---------- Regular expressions ----------

const regexpFlags = "dgimsuyv"

// readRegExp reads a regular expression literal; the cursor is past the
// opening slash.
func (l *Lexer) readRegExp() {
	escaped, inClass := false, false
	start := l.pos
	for {
		if l.pos >= len(l.input) {
			l.raise(l.start, "Unterminated regular expression")
		}
		ch := l.input[l.pos]
		if isNewLine(ch) {
			l.raise(l.start, "Unterminated regular expression")
		}
		if !escaped {
			if ch == '[' {
				inClass = true
			} else if ch == ']' && inClass {
				inClass = false
			} else if ch == '/' && !inClass {
				break
			}
			escaped = ch == '\\'
		} else {
			escaped = false
		}
		l.pos++
	}
	pattern := string(l.input[start:l.pos])
	l.pos++ // skip closing slash
	flagsStart := l.pos
	flags := l.readWord1()
	if l.containsEsc {
		l.raise(flagsStart, "Invalid regular expression flag")
	}
	for i, f := range flags {
		if !strings.ContainsRune(regexpFlags, f) || strings.ContainsRune(flags[i+1:], f) {
			l.raise(l.start, "Invalid regular expression flag")
		}
	}
	l.finishToken(token.RegExp, pattern)
	l.tok.Flags = flags
}
