package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"tableflip.dev/codecanvas/pkg/export"
	"tableflip.dev/codecanvas/pkg/index"
	"tableflip.dev/codecanvas/pkg/printers"
)

// Download writes every file as it was at AsOf into Dir.
type Download struct {
	Index   index.Service
	AsOf    *time.Time
	Dir     string
	Workers int
	JSON    bool
	Out     io.Writer
}

// DefaultDir names the snapshot directory for asOf.
func DefaultDir(asOf time.Time) string {
	return "codecanvas-" + asOf.Local().Format("20060102-150405")
}

func (n *Download) Do(ctx context.Context) error {
	if n.Index == nil {
		return errors.New("can not download, no index")
	}
	if n.AsOf == nil {
		return errors.New("download needs a past instant, see --as-of")
	}
	dir := n.Dir
	if dir == "" {
		dir = DefaultDir(*n.AsOf)
	}

	res, err := export.Snapshot(ctx, n.Index, n.AsOf, dir, n.Workers)
	if err != nil {
		return err
	}

	pp := printers.New(n.Out)
	if n.JSON {
		return printers.JSON(pp.Out, res)
	}
	pp.Title(fmt.Sprintf("Snapshot as of %s", n.AsOf.Local().Format("2006-01-02 15:04:05")))
	pp.KeyValues(
		"dir", res.Dir,
		"files", strconv.Itoa(res.Files),
		"folders", strconv.Itoa(res.Folders),
		"bytes", strconv.FormatInt(res.Bytes, 10),
	)
	if len(res.Missing) > 0 {
		pp.TitleWithCount("Missing", len(res.Missing), "file")
		rows := make([][]string, 0, len(res.Missing))
		for _, p := range res.Missing {
			rows = append(rows, []string{p})
		}
		pp.Table([]string{"PATH"}, rows)
	}
	return nil
}
