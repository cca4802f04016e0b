package printers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

// PrettyPrint writes human-oriented command output.
type PrettyPrint struct {
	Out io.Writer
}

// New returns a printer on out, or on color.Output when out is nil.
func New(out io.Writer) *PrettyPrint {
	if out == nil {
		out = color.Output
	}
	return &PrettyPrint{Out: out}
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.Out, "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.Out, title)
}

// TitleWithCount prints a title followed by a faint "- n noun(s)".
func (pp *PrettyPrint) TitleWithCount(title string, count int, noun string) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.Out, title)
	_, _ = c.Fprintf(pp.Out, " - %d %s", count, noun)
	if count != 1 {
		_, _ = c.Fprint(pp.Out, "s")
	}
	_, _ = fmt.Fprintln(pp.Out, "")
}

// None prints the faint placeholder for an empty section.
func (pp *PrettyPrint) None() {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprint(pp.Out, " none\n\n")
}

// Table prints a bold header row and rows. Columns listed in right are
// right aligned.
func (pp *PrettyPrint) Table(header []string, rows [][]string, right ...int) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	cells := make([]interface{}, 0, len(header))
	for _, h := range header {
		cells = append(cells, bold.Sprint(h))
	}
	tbl.AddRow(cells...)
	for _, row := range rows {
		cells = cells[:0]
		for _, v := range row {
			cells = append(cells, v)
		}
		tbl.AddRow(cells...)
	}
	for _, col := range right {
		tbl.RightAlign(col)
	}
	_, _ = fmt.Fprintln(pp.Out, tbl)
}

// KeyValues prints aligned "key: value" pairs.
func (pp *PrettyPrint) KeyValues(pairs ...string) {
	tbl := uitable.New()
	tbl.Separator = " "
	f := color.New(color.Faint)
	for i := 0; i+1 < len(pairs); i += 2 {
		tbl.AddRow(f.Sprint(pairs[i]+":"), pairs[i+1])
	}
	_, _ = fmt.Fprintln(pp.Out, tbl)
}

// Bar renders a proportional bar of at most width cells.
func Bar(value, max int64, width int) string {
	if max <= 0 || value <= 0 || width <= 0 {
		return ""
	}
	n := int(value * int64(width) / max)
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}

// JSON writes v as indented JSON.
func JSON(out io.Writer, v interface{}) error {
	if out == nil {
		out = color.Output
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
