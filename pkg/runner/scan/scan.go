package scan

import (
	"context"
	"errors"
	"io"
	"strconv"
	"time"

	"tableflip.dev/codecanvas/pkg/printers"
	"tableflip.dev/codecanvas/pkg/store"
)

// Scan records every change under the tracked root into the local index.
type Scan struct {
	Index *store.Index
	JSON  bool
	// Quiet omits the per-file change list.
	Quiet bool
	Out   io.Writer
}

type scanOutput struct {
	Root      string          `json:"root"`
	Added     int             `json:"added"`
	Updated   int             `json:"updated"`
	Deleted   int             `json:"deleted"`
	Unchanged int             `json:"unchanged"`
	Skipped   int             `json:"skipped"`
	Changes   []scanChangeRow `json:"changes,omitempty"`
}

type scanChangeRow struct {
	Path      string `json:"path"`
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
}

func (n *Scan) Do(ctx context.Context) error {
	if n.Index == nil {
		return errors.New("can not scan, no local index")
	}
	report, err := n.Index.Scan(ctx)
	if err != nil {
		return err
	}

	out := scanOutput{
		Root:      n.Index.Root(),
		Added:     report.Added,
		Updated:   report.Updated,
		Deleted:   report.Deleted,
		Unchanged: report.Unchanged,
		Skipped:   report.Skipped,
	}
	if !n.Quiet {
		for _, ev := range report.Changes {
			out.Changes = append(out.Changes, scanChangeRow{
				Path:      ev.Path,
				Action:    string(ev.Action),
				Timestamp: ev.Timestamp.Local().Format(time.RFC3339),
			})
		}
	}

	pp := printers.New(n.Out)
	if n.JSON {
		return printers.JSON(pp.Out, out)
	}

	pp.Title("Scanned " + out.Root)
	pp.KeyValues(
		"added", strconv.Itoa(out.Added),
		"updated", strconv.Itoa(out.Updated),
		"deleted", strconv.Itoa(out.Deleted),
		"unchanged", strconv.Itoa(out.Unchanged),
		"skipped", strconv.Itoa(out.Skipped),
	)
	if len(out.Changes) == 0 {
		return nil
	}
	pp.NewLine()
	pp.TitleWithCount("Changes", len(out.Changes), "file")
	rows := make([][]string, 0, len(out.Changes))
	for _, c := range out.Changes {
		rows = append(rows, []string{c.Action, c.Path, c.Timestamp})
	}
	pp.Table([]string{"ACTION", "PATH", "AT"}, rows)
	return nil
}
