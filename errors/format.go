package errors

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// Formatter renders FormattedErrors in a compiler-style layout:
//
//	policy violation[E2001]: Call to a not allowed function system
//	  --> upload.php:3:1
//	   |
//	 3 | system('ls');
//	   | ^^^^^^
//	   = hint: Did you mean 'sytem'?
type Formatter struct {
	// UseColor enables ANSI color codes in output.
	UseColor bool
}

// NewFormatter returns a Formatter.
func NewFormatter(useColor bool) *Formatter {
	return &Formatter{UseColor: useColor}
}

// Colors are forced on; Formatter.UseColor decides whether they are used.
var (
	styleError    = style(color.FgRed)
	styleHeader   = style(color.FgHiRed, color.Bold)
	styleDim      = style(color.FgHiBlack)
	styleLocation = style(color.FgCyan)
	styleSource   = style(color.FgWhite)
	styleCaret    = style(color.FgHiRed)
	styleHint     = style(color.FgHiYellow)
	styleNote     = style(color.FgHiBlue)
)

func style(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

// FormattedError is an error ready for display. Everything but Message is
// optional.
type FormattedError struct {
	Code        ErrorCode
	Kind        string // "error", "syntax error", "policy violation", ...
	Message     string
	Filename    string
	Line        int
	Column      int
	EndColumn   int
	SourceLines []SourceLineEntry
	Hint        string
	Note        string
}

// SourceLineEntry is one line of source shown under an error.
type SourceLineEntry struct {
	Number int
	Text   string
	IsMain bool // the line the error points at
}

// Format renders err.
func (f *Formatter) Format(err *FormattedError) string {
	return f.FormatWithPrefix(err, "")
}

// FormatWithPrefix renders err with prefix, such as "1/5", in the header
// brackets when the error has no code.
func (f *Formatter) FormatWithPrefix(err *FormattedError, prefix string) string {
	width := 2
	if n := len(strconv.Itoa(err.Line)); n > width {
		width = n
	}
	w := &writer{color: f.UseColor, gutter: strings.Repeat(" ", width)}

	label := err.Kind
	if label == "" {
		label = "error"
	}
	w.paint(styleHeader, label)
	switch {
	case err.Code != "":
		w.paint(styleDim, "["+err.Code.String()+"]")
	case prefix != "":
		w.paint(styleDim, "["+prefix+"]")
	}
	w.paint(styleError, ": ")
	w.line(err.Message)

	if loc := location(err); loc != "" {
		w.paint(styleDim, w.gutter)
		w.paint(styleLocation, "-->")
		w.text(" ")
		w.paint(styleLocation, loc)
		w.line("")
	}

	if len(err.SourceLines) > 0 {
		w.rule()
		for _, src := range err.SourceLines {
			w.paint(styleDim, fmt.Sprintf("%*d", width, src.Number))
			w.paint(styleDim, " | ")
			w.paint(styleSource, src.Text)
			w.line("")
			if src.IsMain && err.Column > 0 {
				w.paint(styleDim, w.gutter)
				w.paint(styleDim, " | ")
				w.text(strings.Repeat(" ", err.Column-1))
				w.paint(styleCaret, strings.Repeat("^", max(1, err.EndColumn-err.Column+1)))
				w.line("")
			}
		}
	}

	if err.Hint != "" {
		w.rule()
		w.annotation(styleHint, "hint: ", err.Hint)
	}
	if err.Note != "" {
		w.annotation(styleNote, "note: ", err.Note)
	}
	return w.String()
}

// FormatMultiple renders errs numbered "[i/n]" followed by a count. A
// single error is rendered as by Format.
func (f *Formatter) FormatMultiple(errs []*FormattedError) string {
	switch len(errs) {
	case 0:
		return ""
	case 1:
		return f.Format(errs[0])
	}
	w := &writer{color: f.UseColor}
	for i, err := range errs {
		if i > 0 {
			w.line("")
		}
		w.text(f.FormatWithPrefix(err, fmt.Sprintf("%d/%d", i+1, len(errs))))
	}
	w.line("")
	w.paint(styleHeader, fmt.Sprintf("found %d errors", len(errs)))
	w.line("")
	return w.String()
}

func location(err *FormattedError) string {
	switch {
	case err.Filename != "" && err.Line > 0:
		return fmt.Sprintf("%s:%d:%d", err.Filename, err.Line, err.Column)
	case err.Filename != "":
		return err.Filename
	case err.Line > 0:
		return fmt.Sprintf("%d:%d", err.Line, err.Column)
	}
	return ""
}

type writer struct {
	strings.Builder
	color  bool
	gutter string
}

func (w *writer) text(s string) {
	w.WriteString(s)
}

func (w *writer) line(s string) {
	w.WriteString(s)
	w.WriteByte('\n')
}

func (w *writer) paint(c *color.Color, s string) {
	if w.color {
		s = c.Sprint(s)
	}
	w.WriteString(s)
}

// rule writes an empty gutter line.
func (w *writer) rule() {
	w.paint(styleDim, w.gutter)
	w.paint(styleDim, " |")
	w.line("")
}

func (w *writer) annotation(c *color.Color, label, s string) {
	w.paint(styleDim, w.gutter)
	w.paint(styleDim, " = ")
	w.paint(c, label)
	w.line(s)
}
