// Package report prints summaries of the tracked tree: layouts, activity,
// stats and changes over a window.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"tableflip.dev/codecanvas/pkg/app"
	"tableflip.dev/codecanvas/pkg/index"
	"tableflip.dev/codecanvas/pkg/layout"
	"tableflip.dev/codecanvas/pkg/manifest"
	"tableflip.dev/codecanvas/pkg/printers"
)

const barWidth = 30

// Layout prints the computed canvas rectangles.
type Layout struct {
	Index  index.Service
	AsOf   *time.Time
	Mode   layout.Mode
	Metric layout.Metric
	JSON   bool
	Out    io.Writer
}

type layoutOutput struct {
	AsOf   *time.Time    `json:"as_of,omitempty"`
	Mode   string        `json:"mode"`
	Metric string        `json:"metric"`
	Bounds layout.Rect   `json:"bounds"`
	Rects  []layout.Rect `json:"rects"`
}

func (n *Layout) Do(ctx context.Context) error {
	if n.Index == nil {
		return errors.New("can not lay out, no index")
	}
	rows, err := n.Index.Manifest(ctx, n.AsOf)
	if err != nil {
		return err
	}
	entries, _ := manifest.Normalize(rows)
	res := layout.Compute(entries, n.Mode, n.Metric)
	out := layoutOutput{
		AsOf:   n.AsOf,
		Mode:   n.Mode.String(),
		Metric: n.Metric.String(),
		Bounds: res.Bounds(),
		Rects:  res.Rects(),
	}

	pp := printers.New(n.Out)
	if n.JSON {
		return printers.JSON(pp.Out, out)
	}
	pp.Title(fmt.Sprintf("Layout %s by %s · %s", out.Mode, out.Metric, describe(n.AsOf)))
	b := out.Bounds
	pp.KeyValues("bounds", fmt.Sprintf("%.0f×%.0f at (%.0f, %.0f)", b.W, b.H, b.X, b.Y))
	tbl := make([][]string, 0, len(out.Rects))
	for _, r := range out.Rects {
		tbl = append(tbl, []string{
			r.Kind.String(),
			r.ID,
			fmt.Sprintf("%.0f", r.X),
			fmt.Sprintf("%.0f", r.Y),
			fmt.Sprintf("%.0f", r.W),
			fmt.Sprintf("%.0f", r.H),
		})
	}
	pp.Table([]string{"KIND", "PATH", "X", "Y", "W", "H"}, tbl, 2, 3, 4, 5)
	return nil
}

// Activity prints the activity histogram.
type Activity struct {
	Index index.Service
	JSON  bool
	Out   io.Writer
}

func (n *Activity) Do(ctx context.Context) error {
	if n.Index == nil {
		return errors.New("can not summarize activity, no index")
	}
	summary, err := n.Index.Activity(ctx)
	if err != nil {
		return err
	}

	pp := printers.New(n.Out)
	if n.JSON {
		return printers.JSON(pp.Out, summary)
	}
	total := 0
	var peak int64
	for _, p := range summary.Series {
		total += p.Count
		if int64(p.Count) > peak {
			peak = int64(p.Count)
		}
	}
	pp.TitleWithCount("Activity", total, "change")
	pp.KeyValues(
		"from", summary.Min.Local().Format("2006-01-02 15:04:05"),
		"to", summary.Max.Local().Format("2006-01-02 15:04:05"),
	)
	if len(summary.Series) == 0 {
		pp.None()
		return nil
	}
	tbl := make([][]string, 0, len(summary.Series))
	for _, p := range summary.Series {
		tbl = append(tbl, []string{
			p.Key.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(p.Count),
			printers.Bar(int64(p.Count), peak, barWidth),
		})
	}
	pp.Table([]string{"BUCKET", "CHANGES", ""}, tbl, 1)
	return nil
}

// Stats prints totals, language mix and the largest files.
type Stats struct {
	Index   index.Service
	AsOf    *time.Time
	Largest int
	JSON    bool
	Out     io.Writer
}

func (n *Stats) Do(ctx context.Context) error {
	svc := &app.Service{Index: n.Index}
	st, err := svc.Stats(ctx, n.AsOf, n.Largest)
	if err != nil {
		return err
	}

	pp := printers.New(n.Out)
	if n.JSON {
		return printers.JSON(pp.Out, st)
	}
	pp.Title("Stats · " + describe(n.AsOf))
	pp.KeyValues(
		"files", strconv.Itoa(st.Files),
		"folders", strconv.Itoa(st.Folders),
		"lines", strconv.FormatInt(st.Lines, 10),
		"bytes", strconv.FormatInt(st.Bytes, 10),
	)

	pp.TitleWithCount("Languages", len(st.ByLines), "language")
	if len(st.ByLines) == 0 {
		pp.None()
	} else {
		top := st.ByLines[0].Weight
		tbl := make([][]string, 0, len(st.ByLines))
		for _, s := range st.ByLines {
			tbl = append(tbl, []string{
				s.Language,
				strconv.Itoa(s.Files),
				strconv.FormatInt(s.Weight, 10),
				fmt.Sprintf("%.1f%%", s.Fraction*100),
				printers.Bar(s.Weight, top, barWidth),
			})
		}
		pp.Table([]string{"LANGUAGE", "FILES", "LINES", "SHARE", ""}, tbl, 1, 2, 3)
	}

	pp.TitleWithCount("Top folders", len(st.Top), "folder")
	tbl := make([][]string, 0, len(st.Top))
	for _, f := range st.Top {
		tbl = append(tbl, []string{f.Folder, strconv.Itoa(f.Files), strconv.FormatInt(f.Lines, 10)})
	}
	pp.Table([]string{"FOLDER", "FILES", "LINES"}, tbl, 1, 2)

	if len(st.Largest) > 0 {
		pp.TitleWithCount("Largest", len(st.Largest), "file")
		tbl = tbl[:0]
		for _, e := range st.Largest {
			tbl = append(tbl, []string{e.Path, e.Language, strconv.FormatInt(e.Lines, 10)})
		}
		pp.Table([]string{"PATH", "LANGUAGE", "LINES"}, tbl, 2)
	}
	for _, p := range st.Problems {
		pp.KeyValues("problem", p)
	}
	return nil
}

// Changes prints what changed between Since and Until.
type Changes struct {
	Index index.Service
	Since time.Time
	Until *time.Time
	Label string
	JSON  bool
	Out   io.Writer
}

func (n *Changes) Do(ctx context.Context) error {
	svc := &app.Service{Index: n.Index}
	result, err := svc.Report(ctx, n.Since, n.Until)
	if err != nil {
		return err
	}

	pp := printers.New(n.Out)
	if n.JSON {
		return printers.JSON(pp.Out, result)
	}
	title := fmt.Sprintf("Changes · %s → %s", result.Since.Local().Format("2006-01-02 15:04"), describe(result.Until))
	if n.Label != "" {
		title = fmt.Sprintf("Changes · last %s", n.Label)
	}
	pp.Title(title)
	if result.Total == 0 {
		_, _ = fmt.Fprintln(pp.Out, "  No changes found in this window.")
		pp.NewLine()
		return nil
	}
	pp.KeyValues(
		"added", strconv.Itoa(result.Added),
		"updated", strconv.Itoa(result.Updated),
		"deleted", strconv.Itoa(result.Deleted),
	)
	for _, section := range result.Sections {
		pp.TitleWithCount(section.Folder, len(section.Changes), "change")
		tbl := make([][]string, 0, len(section.Changes))
		for _, c := range section.Changes {
			tbl = append(tbl, []string{string(c.Action), c.Path, signed(c.LinesDelta)})
		}
		pp.Table([]string{"ACTION", "PATH", "LINES"}, tbl, 2)
	}
	return nil
}

func describe(asOf *time.Time) string {
	if asOf == nil {
		return "live"
	}
	return "as of " + asOf.Local().Format("2006-01-02 15:04:05")
}

func signed(v int64) string {
	if v > 0 {
		return "+" + strconv.FormatInt(v, 10)
	}
	return strconv.FormatInt(v, 10)
}
