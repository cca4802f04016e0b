package options

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// SourceOptions are the global flags that choose the index and logging.
// They bind into viper so the config file and CODECANVAS_* env vars share
// the same keys.
type SourceOptions struct {
	Remote   string
	Root     string
	Index    string
	LogFile  string
	LogLevel string
}

func AddSourceArgs(cmd *cobra.Command, o *SourceOptions, v *viper.Viper) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&o.Remote, "remote", "",
		"Base URL of a codecanvas index server. Empty uses the local index.")
	flags.StringVar(&o.Root, "root", "",
		"Directory the local index tracks.")
	flags.StringVar(&o.Index, "index", "",
		"Directory the local index is stored in.")
	flags.StringVar(&o.LogFile, "log-file", "",
		"Write logs to this file. The canvas owns the terminal, so logs are discarded without it.")
	flags.StringVar(&o.LogLevel, "log-level", "",
		"Log level: debug, info, warn or error.")

	_ = v.BindPFlag("remote", flags.Lookup("remote"))
	_ = v.BindPFlag("root", flags.Lookup("root"))
	_ = v.BindPFlag("path", flags.Lookup("index"))
	_ = v.BindPFlag("log_file", flags.Lookup("log-file"))
	_ = v.BindPFlag("log_level", flags.Lookup("log-level"))
}
