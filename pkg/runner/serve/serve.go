package serve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"tableflip.dev/codecanvas/pkg/index"
	"tableflip.dev/codecanvas/pkg/index/httpapi"
	"tableflip.dev/codecanvas/pkg/store"
)

// Serve exposes an index over HTTP for remote canvases.
type Serve struct {
	Index index.Service
	Addr  string
	// Scan refreshes a local index before listening.
	Scan bool
	Log  logrus.FieldLogger
	Out  io.Writer
}

func (n *Serve) Do(ctx context.Context) error {
	if n.Index == nil {
		return errors.New("can not serve, no index")
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}
	log := n.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	if local, ok := n.Index.(*store.Index); ok && n.Scan {
		report, err := local.Scan(ctx)
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"added":   report.Added,
			"updated": report.Updated,
			"deleted": report.Deleted,
		}).Info("scanned root")
	}

	addr := n.Addr
	if addr == "" {
		addr = "127.0.0.1:7070"
	}
	srv := httpapi.New(n.Index, log)
	return srv.ListenAndServe(ctx, addr, func(a net.Addr) {
		_, _ = fmt.Fprintf(out, "index listening on %s\n", color.CyanString("http://%s", a.String()))
	})
}
