package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Formatter renders diagnostics with the offending source line and a caret.
type Formatter struct {
	UseColor bool
}

func NewFormatter(useColor bool) *Formatter {
	return &Formatter{UseColor: useColor}
}

var (
	colorError    = color.New(color.FgRed, color.Bold)
	colorWarning  = color.New(color.FgYellow, color.Bold)
	colorLocation = color.New(color.FgCyan)
	colorGutter   = color.New(color.FgHiBlack)
	colorCaret    = color.New(color.FgHiRed)
)

func (f *Formatter) paint(c *color.Color, s string) string {
	if !f.UseColor {
		return s
	}
	c.EnableColor()
	return c.Sprint(s)
}

// Format renders a fatal error against the source it was produced from.
func (f *Formatter) Format(err *Error, source string) string {
	var b strings.Builder
	label := "error"
	if err.Kind == LexError {
		label = "lex error"
	}
	b.WriteString(f.paint(colorError, label))
	b.WriteString(": ")
	b.WriteString(err.Message)
	b.WriteString("\n")
	f.writeContext(&b, err.File, err.Position.Line, err.Position.Column, source)
	return b.String()
}

// FormatWarning renders an advisory in the same layout as Format.
func (f *Formatter) FormatWarning(w Warning, file, source string) string {
	var b strings.Builder
	b.WriteString(f.paint(colorWarning, "warning"))
	b.WriteString(": ")
	b.WriteString(w.Message)
	b.WriteString("\n")
	f.writeContext(&b, file, w.Position.Line, w.Position.Column, source)
	return b.String()
}

func (f *Formatter) writeContext(b *strings.Builder, file string, line, column int, source string) {
	width := len(fmt.Sprintf("%d", line))
	pad := strings.Repeat(" ", width)
	loc := fmt.Sprintf("%d:%d", line, column+1)
	if file != "" {
		loc = file + ":" + loc
	}
	fmt.Fprintf(b, "%s%s %s\n", pad, f.paint(colorLocation, "-->"), loc)

	text, ok := sourceLine(source, line)
	if !ok {
		return
	}
	fmt.Fprintf(b, "%s %s\n", pad, f.paint(colorGutter, "|"))
	fmt.Fprintf(b, "%s %s %s\n", f.paint(colorGutter, fmt.Sprintf("%*d", width, line)), f.paint(colorGutter, "|"), text)
	caret := caretIndent(text, column) + "^"
	fmt.Fprintf(b, "%s %s %s\n", pad, f.paint(colorGutter, "|"), f.paint(colorCaret, caret))
}

// sourceLine returns the 1-based line from source.
func sourceLine(source string, line int) (string, bool) {
	if line < 1 {
		return "", false
	}
	lines := strings.Split(strings.ReplaceAll(source, "\r\n", "\n"), "\n")
	if line > len(lines) {
		return "", false
	}
	return strings.TrimRight(lines[line-1], "\r"), true
}

// caretIndent mirrors tabs in text so the caret lines up under column.
func caretIndent(text string, column int) string {
	var b strings.Builder
	for i, r := range []rune(text) {
		if i >= column {
			break
		}
		if r == '\t' {
			b.WriteRune('\t')
		} else {
			b.WriteRune(' ')
		}
	}
	return b.String()
}
