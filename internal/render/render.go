// Package render is the Renderer collaborator (§1): it turns already-built
// diagnostic/document data into colorized CLI output. Fed pre-built
// document trees, not responsible for building them — it never touches a
// parser or file system. Colorization uses fatih/color SprintFuncs; gutter
// alignment over wide runes uses golang.org/x/text/width, repurposed for
// diagnostic carets instead of locale text.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/width"

	"github.com/velalang/vela/internal/errors"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// ASCII, when true, disables color/unicode glyphs (§6 CLI `--ascii` flag).
type Renderer struct {
	ASCII bool
	Out   io.Writer
}

// New creates a Renderer writing to out.
func New(out io.Writer, ascii bool) *Renderer {
	return &Renderer{ASCII: ascii, Out: out}
}

func (r *Renderer) marker(ok bool) string {
	if r.ASCII {
		if ok {
			return "[ok]"
		}
		return "[error]"
	}
	if ok {
		return green("✓")
	}
	return red("✗")
}

// Diagnostic writes one structured report, caret-aligned under the column
// it names; displayColumn accounts for wide runes via x/text/width so the
// caret lands under the right glyph instead of merely the right byte.
func (r *Renderer) Diagnostic(rep *errors.Report, sourceLine string) {
	sevWord := "error"
	colorFn := red
	if rep.Severity == errors.SeverityWarning {
		sevWord = "warning"
		colorFn = yellow
	}
	if r.ASCII {
		colorFn = func(a ...interface{}) string { return fmt.Sprint(a...) }
	}

	loc := ""
	if rep.Span != nil {
		loc = fmt.Sprintf("%s:%d:%d", rep.Span.File, rep.Span.Line, rep.Span.Col)
	}
	fmt.Fprintf(r.Out, "%s %s[%s]: %s\n", r.marker(rep.Severity == errors.SeverityError), colorFn(sevWord), rep.Code, rep.Message)
	if loc != "" {
		fmt.Fprintf(r.Out, "  --> %s\n", loc)
	}
	if sourceLine != "" && rep.Span != nil {
		fmt.Fprintf(r.Out, "  | %s\n", sourceLine)
		fmt.Fprintf(r.Out, "  | %s^\n", strings.Repeat(" ", displayColumn(sourceLine, rep.Span.Col)))
	}
}

// displayColumn converts a byte/rune column into a display-width offset,
// widening for East-Asian wide runes encountered before it.
func displayColumn(line string, col int) int {
	offset := 0
	count := 0
	for _, r := range line {
		if count >= col-1 {
			break
		}
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			offset += 2
		default:
			offset++
		}
		count++
	}
	return offset
}

// Success prints a one-line success banner.
func (r *Renderer) Success(msg string) {
	if r.ASCII {
		fmt.Fprintf(r.Out, "[ok] %s\n", msg)
		return
	}
	fmt.Fprintf(r.Out, "%s %s\n", green("✓"), msg)
}

// Banner prints the bold program name followed by its version.
func (r *Renderer) Banner(name, version string) {
	if r.ASCII {
		fmt.Fprintf(r.Out, "%s %s\n", name, version)
		return
	}
	fmt.Fprintf(r.Out, "%s %s\n", bold(name), cyan(version))
}
