package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type baseConfiguration struct {
	// 設定檔路徑，預設為目前目錄下的 idxbench.yaml
	CfgFile   string
	LogLevel  string
	LogFormat string

	logger zerolog.Logger
}

const (
	keyConfig         = "config"
	flagNameLogLevel  = "log-level"
	flagNameLogFormat = "log-format"
)

func (r *baseConfiguration) addConfigurationFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&r.CfgFile, keyConfig, "", fmt.Sprintf("config file (default is ./%s when present)", defaultConfigFile))
	cmd.PersistentFlags().StringVar(&r.LogLevel, flagNameLogLevel, "info", "logging level, one of: debug, info, warn, error, disabled")
	cmd.PersistentFlags().StringVar(&r.LogFormat, flagNameLogFormat, "console", "log format, one of: console, json")
}

func (r *baseConfiguration) initLogger(cmd *cobra.Command) error {
	l, err := newLogger(cmd.ErrOrStderr(), r.LogLevel, r.LogFormat)
	if err != nil {
		return err
	}
	r.logger = l
	return nil
}

func (r *baseConfiguration) Logger() zerolog.Logger {
	return r.logger
}

func newLogger(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	switch strings.ToLower(format) {
	case "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: !isTerminal(w)}
	case "json":
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q", format)
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// isTerminal 只有輸出到終端機時才上色
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
