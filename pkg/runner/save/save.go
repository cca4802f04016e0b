package save

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/codecanvas/pkg/index"
	"tableflip.dev/codecanvas/pkg/manifest"
)

// Save hands new content for Path to the index. Content comes from File, or
// from In when File is empty or "-".
type Save struct {
	Index index.Service
	Path  string
	File  string
	In    io.Reader
	Out   io.Writer
}

func (n *Save) Do(ctx context.Context) error {
	if n.Index == nil {
		return errors.New("can not save, no index")
	}
	path := manifest.CleanPath(n.Path)
	if path == "" || manifest.IsFolderMarker(path) {
		return fmt.Errorf("invalid file path %q", n.Path)
	}

	var (
		body []byte
		err  error
	)
	if n.File == "" || n.File == "-" {
		in := n.In
		if in == nil {
			in = os.Stdin
		}
		body, err = io.ReadAll(in)
	} else {
		body, err = os.ReadFile(n.File)
	}
	if err != nil {
		return err
	}

	if err := n.Index.Save(ctx, path, string(body)); err != nil {
		return err
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}
	_, _ = fmt.Fprintf(out, "%s %s (%d lines)\n", color.GreenString("saved"), path, countLines(body))
	return nil
}

func countLines(b []byte) int {
	if len(b) == 0 {
		return 0
	}
	n := strings.Count(string(b), "\n")
	if b[len(b)-1] != '\n' {
		n++
	}
	return n
}
