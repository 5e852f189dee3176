package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const detailWidth = 72

// palette paints text with ANSI codes when on is set.
type palette struct {
	on bool
}

func (p palette) paint(code, text string) string {
	if !p.on {
		return text
	}
	return code + text + "\033[0m"
}

func (p palette) red(text string) string  { return p.paint("\033[31m", text) }
func (p palette) cyan(text string) string { return p.paint("\033[36m", text) }
func (p palette) dim(text string) string  { return p.paint("\033[90m", text) }
func (p palette) bold(text string) string { return p.paint("\033[1m", text) }

// Format returns the error as plain multi-line text.
func (e *CodedError) Format() string {
	return e.render(palette{})
}

// FormatColor returns the error as multi-line text with ANSI colors.
func (e *CodedError) FormatColor() string {
	return e.render(palette{on: true})
}

func (e *CodedError) render(p palette) string {
	var b strings.Builder

	b.WriteString("\n")
	if e.Code != "" {
		b.WriteString(p.red(p.bold("ERROR " + e.Code)))
		if e.Category != "" {
			b.WriteString(p.dim(" [" + string(e.Category) + "]"))
		}
		b.WriteString(p.bold(": " + e.Message))
	} else {
		b.WriteString(p.red(p.bold("ERROR: ")))
		b.WriteString(e.Message)
	}
	b.WriteString("\n\n")

	if e.Location != nil {
		b.WriteString("  " + p.cyan(e.Location.String()) + "\n\n")
		e.writeSource(&b, p)
	}

	if e.Detail != "" {
		for _, line := range wrapText(e.Detail, detailWidth) {
			b.WriteString("  " + line + "\n")
		}
		b.WriteString("\n")
	}

	if e.Wrapped != nil {
		b.WriteString("  " + p.dim("Cause: ") + e.Wrapped.Error() + "\n\n")
	}

	if e.Suggestion != "" {
		b.WriteString("  " + p.cyan("Hint: ") + e.Suggestion + "\n\n")
	}

	return b.String()
}

// writeSource prints the lines around Location with the target line and
// column marked.
func (e *CodedError) writeSource(b *strings.Builder, p palette) {
	if len(e.Context) == 0 {
		return
	}
	first := max(e.Location.Line-contextLines/2, 1)
	for i, line := range e.Context {
		n := first + i
		if n != e.Location.Line {
			fmt.Fprintf(b, "    %4d%s%s\n", n, p.dim(" │ "), line)
			continue
		}
		fmt.Fprintf(b, "  %s%4d%s%s\n", p.red("→ "), n, p.dim(" │ "), line)
		if e.Location.Column > 0 {
			fmt.Fprintf(b, "       %s%s%s\n", p.dim("│ "), strings.Repeat(" ", e.Location.Column-1), p.red("^"))
		}
	}
	b.WriteString("\n")
}

// FormatCompact returns the error on one line, for logs and redirected
// output.
func (e *CodedError) FormatCompact() string {
	var b strings.Builder

	if e.Location != nil {
		b.WriteString(e.Location.String())
		b.WriteString(": ")
	}
	if e.Code != "" {
		b.WriteString(e.Code)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Wrapped != nil {
		b.WriteString(": ")
		b.WriteString(e.Wrapped.Error())
	}
	return b.String()
}

// wrapText wraps text to the specified width.
func wrapText(text string, width int) []string {
	if text == "" {
		return nil
	}
	if len(text) <= width {
		return []string{text}
	}

	var lines []string
	var current strings.Builder

	for _, word := range strings.Fields(text) {
		if current.Len() > 0 && current.Len()+len(word)+1 > width {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}

	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

type outputMode int

const (
	modePlain outputMode = iota
	modeColor
	modeCompact
)

// modeFor picks colors for terminals (unless NO_COLOR is set) and one-line
// output for files and pipes. Other writers get plain text.
func modeFor(w io.Writer) outputMode {
	f, ok := w.(*os.File)
	if !ok {
		return modePlain
	}
	fi, err := f.Stat()
	if err != nil || fi.Mode()&os.ModeCharDevice == 0 {
		return modeCompact
	}
	if os.Getenv("NO_COLOR") != "" {
		return modePlain
	}
	return modeColor
}

// Print writes err to w in the form that suits w.
// Errors without a code are printed with just their message.
func Print(w io.Writer, err error) {
	var ce *CodedError
	if !stderrors.As(err, &ce) {
		ce = &CodedError{Category: CategoryCLI, Message: err.Error()}
	}

	switch modeFor(w) {
	case modeCompact:
		fmt.Fprintln(w, ce.FormatCompact())
	case modeColor:
		fmt.Fprint(w, ce.FormatColor())
	default:
		fmt.Fprint(w, ce.Format())
	}
}
