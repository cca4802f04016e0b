package commands

import (
	"errors"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"

	"tableflip.dev/codecanvas/pkg/config"
	"tableflip.dev/codecanvas/pkg/index"
	"tableflip.dev/codecanvas/pkg/logging"
	"tableflip.dev/codecanvas/pkg/store"
)

// session is the resolved settings, logger and index for one invocation.
type session struct {
	Settings *config.Settings
	Index    index.Service
	// Local is set when Index is the on-disk index.
	Local *store.Index
	Log   *logrus.Logger

	closeLog func() error
}

// openSession loads settings and opens the configured index. stderr sends
// logs to the terminal when no log file is configured.
func openSession(stderr bool) (*session, error) {
	settings, err := config.Load(cfg)
	if err != nil {
		return nil, err
	}
	log, closeLog, err := logging.New(settings.LogFile, settings.LogLevel)
	if err != nil {
		return nil, err
	}
	if stderr && settings.LogFile == "" {
		log.SetOutput(os.Stderr)
	}
	s := &session{Settings: settings, Log: log, closeLog: closeLog}

	if settings.Remote != "" {
		// No client timeout: the change feed is a long-lived stream.
		client, err := index.NewClient(settings.Remote, &http.Client{})
		if err != nil {
			_ = closeLog()
			return nil, err
		}
		s.Index = index.Dedupe(client)
		return s, nil
	}

	local, err := store.Load(settings, log)
	if err != nil {
		_ = closeLog()
		return nil, err
	}
	s.Local = local
	s.Index = local
	return s, nil
}

// local returns the on-disk index or an error for remote sessions.
func (s *session) local(op string) (*store.Index, error) {
	if s.Local == nil {
		return nil, errors.New(op + " needs a local index, drop --remote")
	}
	return s.Local, nil
}

func (s *session) Close() {
	if s.closeLog != nil {
		_ = s.closeLog()
	}
}
