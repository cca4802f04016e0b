package store

import "time"

// Config tells the store where to keep revisions and which tree to index.
type Config interface {
	BasePath() string
	Root() string
	Bucket() time.Duration
}

// NewConfig returns a fixed Config.
func NewConfig(basePath, root string, bucket time.Duration) Config {
	return &fileConfig{Path: basePath, Dir: root, Width: bucket}
}

type fileConfig struct {
	Path  string        `json:"path"`
	Dir   string        `json:"root"`
	Width time.Duration `json:"bucket"`
}

func (f *fileConfig) BasePath() string {
	return f.Path
}

func (f *fileConfig) Root() string {
	return f.Dir
}

func (f *fileConfig) Bucket() time.Duration {
	return f.Width
}
