package cmd

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/felixgeelhaar/lunar/internal/command"
	"github.com/felixgeelhaar/lunar/internal/config"
	"github.com/felixgeelhaar/lunar/internal/health"
	"github.com/felixgeelhaar/lunar/internal/localdata"
	"github.com/felixgeelhaar/lunar/internal/ux"
)

// errUnhealthy is returned when a doctor check fails.
var errUnhealthy = errors.New("doctor found problems; see the report above")

func newHealthManager(cfg *config.Config, root *localdata.Root) *health.Manager {
	runner := command.NewExecRunner()

	manager := health.NewManager().WithTimeout(10 * time.Second)
	manager.AddChecker(health.NewBinaryChecker("git-binary", cfg.Git,
		"Install Git from https://git-scm.com/downloads", runner))
	manager.AddChecker(health.NewBinaryChecker("runtime-binary", cfg.Runtime,
		"Install the Lune runtime or set 'runtime' in the lunar config", runner))
	manager.AddChecker(health.NewCacheChecker(root.Dir()))
	return manager
}

func runDoctor(ctx context.Context, cfg *config.Config, root *localdata.Root, format ux.Format, w io.Writer) error {
	report := newHealthManager(cfg, root).Report(ctx)
	if err := ux.Write(w, format, report); err != nil {
		return err
	}

	if report.Status == health.StatusUnhealthy {
		return errUnhealthy
	}
	return nil
}
