package lexer

import (
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/example/esparse/token"
)

// ---------- Numbers ----------

// readInt consumes digits of the given radix. n limits the digit count when
// positive; numeric separators are only allowed when it is not. ok is false
// when no digit was read.
func (l *Lexer) readInt(radix, n int, maybeLegacyOctal bool) (total float64, ok bool) {
	allowSeparators := n <= 0
	legacyOctal := maybeLegacyOctal && l.CharAt(l.pos) == '0'
	start := l.pos
	var last rune
	for i := 0; n <= 0 || i < n; i++ {
		ch := l.CharAt(l.pos)
		if allowSeparators && ch == '_' {
			if legacyOctal {
				l.raise(l.pos, "Numeric separator is not allowed in legacy octal numeric literals")
			}
			if last == '_' {
				l.raise(l.pos, "Numeric separator must be exactly one underscore")
			}
			if i == 0 {
				l.raise(l.pos, "Numeric separator is not allowed at the first of digits")
			}
			last = ch
			l.pos++
			continue
		}
		v := hexVal(ch)
		if v < 0 || v >= radix {
			break
		}
		last = ch
		total = total*float64(radix) + float64(v)
		l.pos++
	}
	if allowSeparators && last == '_' {
		l.raise(l.pos-1, "Numeric separator is not allowed at the last of digits")
	}
	if l.pos == start || n > 0 && l.pos-start != n {
		return 0, false
	}
	return total, true
}

func (l *Lexer) readRadixNumber(radix int) {
	start := l.pos
	l.pos += 2 // 0x
	val, ok := l.readInt(radix, 0, false)
	if !ok {
		l.raise(start+2, "Expected number in radix %d", radix)
	}
	if l.CharAt(l.pos) == 'n' {
		l.pos++
		l.finishBigInt(start)
		return
	}
	if isIdentifierStart(l.CharAt(l.pos)) {
		l.raise(l.pos, "Identifier directly after number")
	}
	l.finishNumber(val)
}

func (l *Lexer) readNumber(startsWithDot bool) {
	start := l.pos
	if !startsWithDot {
		if _, ok := l.readInt(10, 0, true); !ok {
			l.raise(start, "Invalid number")
		}
	}
	octal := l.pos-start >= 2 && l.input[start] == '0'
	if octal && l.strict {
		l.raise(start, "Octal literal in strict mode")
	}
	next := l.CharAt(l.pos)
	if !octal && !startsWithDot && next == 'n' {
		l.pos++
		if isIdentifierStart(l.CharAt(l.pos)) {
			l.raise(l.pos, "Identifier directly after number")
		}
		l.finishBigInt(start)
		return
	}
	if octal && strings.ContainsAny(string(l.input[start:l.pos]), "89") {
		octal = false
	}
	if next == '.' && !octal {
		l.pos++
		l.readInt(10, 0, false)
		next = l.CharAt(l.pos)
	}
	if (next == 'e' || next == 'E') && !octal {
		l.pos++
		if c := l.CharAt(l.pos); c == '+' || c == '-' {
			l.pos++
		}
		if _, ok := l.readInt(10, 0, false); !ok {
			l.raise(start, "Invalid number")
		}
	}
	if isIdentifierStart(l.CharAt(l.pos)) {
		l.raise(l.pos, "Identifier directly after number")
	}
	l.finishNumber(stringToNumber(string(l.input[start:l.pos]), octal))
}

func stringToNumber(s string, octal bool) float64 {
	if octal {
		v, _ := strconv.ParseUint(s, 8, 64)
		return float64(v)
	}
	v, _ := strconv.ParseFloat(strings.ReplaceAll(s, "_", ""), 64)
	return v
}

func (l *Lexer) finishNumber(val float64) {
	l.finishToken(token.Number, "")
	l.tok.Num = val
}

// finishBigInt stores the digits without separators or the n suffix.
func (l *Lexer) finishBigInt(start int) {
	digits := strings.ReplaceAll(string(l.input[start:l.pos-1]), "_", "")
	l.finishToken(token.BigInt, digits)
}

// ---------- Strings ----------

func (l *Lexer) readString(quote rune) {
	var out strings.Builder
	l.pos++ // skip opening quote
	chunkStart := l.pos
	for {
		if l.pos >= len(l.input) {
			l.raise(l.start, "Unterminated string constant")
		}
		ch := l.input[l.pos]
		if ch == quote {
			break
		}
		switch {
		case ch == '\\':
			out.WriteString(string(l.input[chunkStart:l.pos]))
			out.WriteString(l.readEscapedChar(false))
			chunkStart = l.pos
		case ch == 0x2028 || ch == 0x2029:
			l.pos++
			l.newLine(l.pos)
		case isNewLine(ch):
			l.raise(l.start, "Unterminated string constant")
		default:
			l.pos++
		}
	}
	out.WriteString(string(l.input[chunkStart:l.pos]))
	l.pos++ // skip closing quote
	l.finishToken(token.String, out.String())
}

// invalidTemplateEscape unwinds a template chunk read that hit a bad escape;
// the chunk is then re-read as an InvalidTemplate token.
type invalidTemplateEscape struct{}

func (l *Lexer) invalidStringToken(pos int, format string, args ...interface{}) {
	if l.inTemplateElement {
		panic(invalidTemplateEscape{})
	}
	l.raise(pos, format, args...)
}

// readEscapedChar decodes the escape sequence at the cursor (on the backslash).
func (l *Lexer) readEscapedChar(inTemplate bool) string {
	l.pos++
	ch := l.CharAt(l.pos)
	l.pos++
	switch ch {
	case 'n':
		return "\n"
	case 'r':
		return "\r"
	case 'x':
		return string(l.readHexChar(2))
	case 'u':
		return l.readUnicodeEscape()
	case 't':
		return "\t"
	case 'b':
		return "\b"
	case 'v':
		return "\v"
	case 'f':
		return "\f"
	case '\r':
		if l.CharAt(l.pos) == '\n' {
			l.pos++
		}
		l.newLine(l.pos)
		return ""
	case '\n':
		l.newLine(l.pos)
		return ""
	case '8', '9':
		if l.strict {
			l.invalidStringToken(l.pos-1, "Invalid escape sequence")
		}
		if inTemplate {
			l.invalidStringToken(l.pos-1, "Invalid escape sequence in template string")
		}
		return string(ch)
	case -1:
		l.raise(l.start, "Unterminated string constant")
	}
	if ch >= '0' && ch <= '7' {
		return l.readLegacyOctalEscape(inTemplate)
	}
	if isNewLine(ch) {
		l.newLine(l.pos)
		return ""
	}
	return string(ch)
}

func (l *Lexer) readLegacyOctalEscape(inTemplate bool) string {
	octalStart := l.pos - 1
	end := octalStart
	for end < octalStart+3 && l.CharAt(end) >= '0' && l.CharAt(end) <= '7' {
		end++
	}
	octalStr := string(l.input[octalStart:end])
	octal, _ := strconv.ParseUint(octalStr, 8, 32)
	if octal > 255 {
		octalStr = octalStr[:len(octalStr)-1]
		octal, _ = strconv.ParseUint(octalStr, 8, 32)
	}
	l.pos = octalStart + len(octalStr)
	next := l.CharAt(l.pos)
	if (octalStr != "0" || next == '8' || next == '9') && (l.strict || inTemplate) {
		if inTemplate {
			l.invalidStringToken(octalStart-1, "Octal literal in template string")
		} else {
			l.invalidStringToken(octalStart-1, "Octal literal in strict mode")
		}
	}
	return string(rune(octal))
}

// readUnicodeEscape decodes \uXXXX or \u{X...}, joining an escaped surrogate
// pair into one code point.
func (l *Lexer) readUnicodeEscape() string {
	r := l.readCodePoint()
	if utf16.IsSurrogate(r) && r < 0xdc00 && l.HasPrefixAt(l.pos, "\\u") {
		save := l.pos
		l.pos += 2
		if l.CharAt(l.pos) != '{' {
			lo := l.readHexChar(4)
			if lo >= 0xdc00 && lo <= 0xdfff {
				return string(utf16.DecodeRune(r, lo))
			}
		}
		l.pos = save
	}
	return string(r)
}
