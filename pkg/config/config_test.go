package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"

	"tableflip.dev/codecanvas/pkg/layout"
)

func TestDecodeDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	s, err := Decode(v)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.Layout != layout.Hierarchical || s.Metric != layout.Lines {
		t.Fatalf("unexpected mode/metric %v/%v", s.Layout, s.Metric)
	}
	if s.Bucket() != time.Hour || s.Root() != "." || s.Follow {
		t.Fatalf("unexpected defaults %+v", s)
	}
	if filepath.Base(s.BasePath()) != ".codecanvas.db" {
		t.Fatalf("unexpected base path %q", s.BasePath())
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	body := "layout: treemap-folders\nmetric: bytes\nbucket: 1d\nfollow: true\nroot: /src\n"
	if err := os.WriteFile(filepath.Join(dir, ".codecanvas.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CODECANVAS_CONFIG_PATH", dir)

	s, err := Load(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Layout != layout.TreemapFolders || s.Metric != layout.Bytes || !s.Follow {
		t.Fatalf("unexpected settings %+v", s)
	}
	if s.Bucket() != 24*time.Hour || s.Root() != "/src" {
		t.Fatalf("unexpected bucket/root %v %q", s.Bucket(), s.Root())
	}
}

func TestDecodeRejectsBadValues(t *testing.T) {
	for _, kv := range [][2]string{{"layout", "spiral"}, {"metric", "words"}, {"bucket", "soon"}} {
		v := viper.New()
		SetDefaults(v)
		v.Set(kv[0], kv[1])
		if _, err := Decode(v); err == nil {
			t.Fatalf("%s=%s should fail", kv[0], kv[1])
		}
	}
}
