package info

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"

	"tableflip.dev/codecanvas/pkg/config"
	"tableflip.dev/codecanvas/pkg/index"
	"tableflip.dev/codecanvas/pkg/manifest"
	"tableflip.dev/codecanvas/pkg/printers"
	"tableflip.dev/codecanvas/pkg/store"
)

// Info prints where settings come from, where the index lives and what it
// tracks.
type Info struct {
	Settings *config.Settings
	Index    index.Service
	Out      io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	pp := printers.New(n.Out)

	if override := os.Getenv("CODECANVAS_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(pp.Out, "CODECANVAS_CONFIG_PATH found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(pp.Out, "CODECANVAS_CONFIG_PATH env var not set")
	}

	if n.Settings == nil {
		var err error
		n.Settings, err = config.Load(nil)
		if err != nil {
			return err
		}
	}
	s := n.Settings

	pp.NewLine()
	pp.Title("Settings")
	source := "local index"
	if s.Remote != "" {
		source = "remote " + s.Remote
	}
	pp.KeyValues(
		"source", source,
		"index", s.BasePath(),
		"root", s.Root(),
		"layout", s.Layout.String(),
		"metric", s.Metric.String(),
		"follow", strconv.FormatBool(s.Follow),
		"bucket", s.Bucket().String(),
		"log level", s.LogLevel,
	)

	if s.Remote == "" {
		repo, ok, err := store.FindRepo(s.Root())
		switch {
		case err != nil:
			_, _ = fmt.Fprintln(pp.Out, color.YellowString("git: %v", err))
		case ok:
			pp.Title("Repository")
			pp.KeyValues(
				"dir", repo.Dir,
				"branch", orNone(repo.Branch),
				"origin", orNone(repo.Origin),
			)
		}
	}

	if n.Index == nil {
		return fmt.Errorf("failed to open the index")
	}
	rows, err := n.Index.Manifest(ctx, nil)
	if err != nil {
		return err
	}
	entries, issues := manifest.Normalize(rows)
	files := 0
	for _, e := range entries {
		if !manifest.IsFolderMarker(e.Path) {
			files++
		}
	}
	pp.TitleWithCount("Tracked", files, "file")
	if files == 0 {
		pp.None()
	}
	if len(issues) > 0 {
		pp.TitleWithCount("Manifest problems", len(issues), "row")
		for _, issue := range issues {
			_, _ = fmt.Fprintf(pp.Out, "  %s\n", issue.String())
		}
	}
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
