package ui

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"tableflip.dev/codecanvas/pkg/index"
	"tableflip.dev/codecanvas/pkg/store"
	teaui "tableflip.dev/codecanvas/pkg/tui/app"
)

// UI launches the interactive canvas.
type UI struct {
	Index   index.Service
	Options teaui.Options
	// Scan refreshes a local index before the canvas opens.
	Scan bool
	Log  logrus.FieldLogger
}

func (n *UI) Do(ctx context.Context) error {
	if n.Index == nil {
		return errors.New("can not open canvas, no index")
	}
	if local, ok := n.Index.(*store.Index); ok && n.Scan {
		report, err := local.Scan(ctx)
		if err != nil {
			return err
		}
		if n.Log != nil {
			n.Log.WithFields(logrus.Fields{
				"added":   report.Added,
				"updated": report.Updated,
				"deleted": report.Deleted,
			}).Info("scanned root before opening canvas")
		}
	}
	if n.Options.Log == nil {
		n.Options.Log = n.Log
	}
	return teaui.Run(n.Index, n.Options)
}
