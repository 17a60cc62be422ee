package cmd

import (
	"context"
	"io"

	"github.com/felixgeelhaar/lunar/internal/config"
	"github.com/felixgeelhaar/lunar/internal/log"
	"github.com/felixgeelhaar/lunar/internal/version"
)

// setupLogging installs the process logger. Logs go to w, which keeps
// stdout for task and listing output.
func setupLogging(cfg *config.Config, w io.Writer) *log.Logger {
	logger := log.New(log.Config{
		Level:  log.ParseLevel(cfg.Log.Level),
		Format: log.ParseFormat(cfg.Log.Format),
		Output: w,
	})
	log.SetDefaultLogger(logger)

	if logger.Enabled(context.Background(), log.LevelDebug) {
		logger.Debug("Starting lunar", "build", version.GetInfo().String())
	}
	return logger
}
