package lexer

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/rangetable"

	"github.com/example/esparse/token"
)

// Unicode ID_Start and ID_Continue, merged once from the category tables.
var (
	idStart = rangetable.Merge(
		unicode.Lu, unicode.Ll, unicode.Lt, unicode.Lm, unicode.Lo,
		unicode.Nl, unicode.Other_ID_Start,
	)
	idContinue = rangetable.Merge(
		idStart, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc,
		unicode.Other_ID_Continue,
	)
)

// IsIdentifierStart reports whether ch can begin an identifier.
func IsIdentifierStart(ch rune) bool { return isIdentifierStart(ch) }

// IsIdentifierChar reports whether ch can continue an identifier.
func IsIdentifierChar(ch rune) bool { return isIdentifierChar(ch) }

func isIdentifierStart(ch rune) bool {
	switch {
	case ch < 'A':
		return ch == '$'
	case ch <= 'Z':
		return true
	case ch < 'a':
		return ch == '_'
	case ch <= 'z':
		return true
	case ch < 0x80:
		return false
	}
	return unicode.Is(idStart, ch)
}

func isIdentifierChar(ch rune) bool {
	switch {
	case ch < '0':
		return ch == '$'
	case ch <= '9':
		return true
	case ch < 0x80:
		return isIdentifierStart(ch)
	case ch == 0x200c || ch == 0x200d: // ZWNJ, ZWJ
		return true
	}
	return unicode.Is(idContinue, ch)
}

func (l *Lexer) readWord() {
	word := l.readWord1()
	l.finishToken(token.LookupIdentifier(word), word)
}

// readWord1 reads an identifier name, decoding \u escapes. It records whether
// an escape was seen so the parser can reject escaped keywords.
func (l *Lexer) readWord1() string {
	l.containsEsc = false
	var word strings.Builder
	first := true
	chunkStart := l.pos
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if isIdentifierChar(ch) {
			l.pos++
		} else if ch == '\\' {
			l.containsEsc = true
			word.WriteString(string(l.input[chunkStart:l.pos]))
			escStart := l.pos
			l.pos++
			if l.CharAt(l.pos) != 'u' {
				l.invalidStringToken(l.pos, "Expecting Unicode escape sequence \\uXXXX")
			}
			l.pos++
			esc := l.readCodePoint()
			valid := isIdentifierChar(esc)
			if first {
				valid = isIdentifierStart(esc)
			}
			if !valid {
				l.invalidStringToken(escStart, "Invalid Unicode escape")
			}
			word.WriteRune(esc)
			chunkStart = l.pos
		} else {
			break
		}
		first = false
	}
	word.WriteString(string(l.input[chunkStart:l.pos]))
	return word.String()
}

// readCodePoint reads the hex part of a \u escape: four digits or {digits}.
func (l *Lexer) readCodePoint() rune {
	if l.CharAt(l.pos) != '{' {
		return l.readHexChar(4)
	}
	l.pos++
	codePos := l.pos
	end := l.indexOf("}", l.pos)
	if end < 0 {
		l.invalidStringToken(codePos, "Bad character escape sequence")
	}
	code := l.readHexChar(end - l.pos)
	l.pos++ // consume '}'
	if code > unicode.MaxRune {
		l.invalidStringToken(codePos, "Code point out of bounds")
	}
	return code
}

func (l *Lexer) readHexChar(n int) rune {
	codePos := l.pos
	if n <= 0 {
		l.invalidStringToken(codePos, "Bad character escape sequence")
	}
	var code rune
	for i := 0; i < n; i++ {
		v := hexVal(l.CharAt(l.pos))
		if v < 0 {
			l.invalidStringToken(codePos, "Bad character escape sequence")
		}
		if code <= unicode.MaxRune {
			code = code*16 + rune(v)
		}
		l.pos++
	}
	return code
}

func hexVal(ch rune) int {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch - '0')
	case ch >= 'a' && ch <= 'f':
		return int(ch-'a') + 10
	case ch >= 'A' && ch <= 'F':
		return int(ch-'A') + 10
	}
	return -1
}
