// Package config loads codecanvas settings from defaults, an optional
// .codecanvas.yaml and CODECANVAS_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/codecanvas/pkg/layout"
	"tableflip.dev/codecanvas/pkg/timeutil"
)

// Settings is the resolved configuration.
type Settings struct {
	Path     string        `json:"path"`
	Dir      string        `json:"root"`
	Remote   string        `json:"remote,omitempty"`
	Layout   layout.Mode   `json:"-"`
	Metric   layout.Metric `json:"-"`
	Follow   bool          `json:"follow"`
	Window   time.Duration `json:"bucket"`
	LogFile  string        `json:"log_file,omitempty"`
	LogLevel string        `json:"log_level"`
}

// BasePath is the diskv directory of the local index.
func (s *Settings) BasePath() string {
	return s.Path
}

// Root is the tracked directory.
func (s *Settings) Root() string {
	return s.Dir
}

// Bucket is the activity histogram bucket width.
func (s *Settings) Bucket() time.Duration {
	return s.Window
}

// SetDefaults registers the default for every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("path", "~/.codecanvas.db")
	v.SetDefault("root", ".")
	v.SetDefault("remote", "")
	v.SetDefault("layout", layout.Hierarchical.String())
	v.SetDefault("metric", layout.Lines.String())
	v.SetDefault("follow", false)
	v.SetDefault("bucket", "1h")
	v.SetDefault("log_file", "")
	v.SetDefault("log_level", "info")
}

// Load reads the configuration. Walks no further than
// $CODECANVAS_CONFIG_PATH and the working directory.
func Load(v *viper.Viper) (*Settings, error) {
	if v == nil {
		v = viper.GetViper()
	}
	SetDefaults(v)
	v.SetConfigName(".codecanvas") // .yaml is implicit
	v.SetEnvPrefix("CODECANVAS")
	v.AutomaticEnv()

	if override := os.Getenv("CODECANVAS_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}

	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}
	return Decode(v)
}

// Decode resolves Settings from the values already on v.
func Decode(v *viper.Viper) (*Settings, error) {
	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("config: path: %w", err)
	}
	root, err := homedir.Expand(v.GetString("root"))
	if err != nil {
		return nil, fmt.Errorf("config: root: %w", err)
	}
	mode, err := layout.ParseMode(v.GetString("layout"))
	if err != nil {
		return nil, fmt.Errorf("config: layout: %w", err)
	}
	metric, err := layout.ParseMetric(v.GetString("metric"))
	if err != nil {
		return nil, fmt.Errorf("config: metric: %w", err)
	}
	window, _, err := timeutil.ParseWindow(v.GetString("bucket"))
	if err != nil {
		return nil, fmt.Errorf("config: bucket: %w", err)
	}
	return &Settings{
		Path:     path,
		Dir:      root,
		Remote:   strings.TrimSpace(v.GetString("remote")),
		Layout:   mode,
		Metric:   metric,
		Follow:   v.GetBool("follow"),
		Window:   window,
		LogFile:  v.GetString("log_file"),
		LogLevel: v.GetString("log_level"),
	}, nil
}
