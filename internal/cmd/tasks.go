package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/lunar/internal/command"
	lunarerrors "github.com/felixgeelhaar/lunar/internal/errors"
	"github.com/felixgeelhaar/lunar/internal/exitcode"
	"github.com/felixgeelhaar/lunar/internal/log"
	"github.com/felixgeelhaar/lunar/internal/runtime"
	"github.com/felixgeelhaar/lunar/internal/taskinfo"
)

// newTaskCommand creates the subcommand of a task. Every argument after the
// task name, flags included, is passed to the script untouched.
func newTaskCommand(record taskinfo.Record, rt *runtime.Runtime, dir string) *cobra.Command {
	return &cobra.Command{
		Use:                record.Usage(),
		Short:              record.About,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTask(cmd.Context(), rt, dir, record, args)
		},
	}
}

func runTask(ctx context.Context, rt *runtime.Runtime, dir string, record taskinfo.Record, args []string) error {
	if !record.Runnable() {
		return lunarerrors.NewTaskNotRunnableError(record.Name)
	}

	log.DefaultLogger().Debug("Running task",
		"task", record.Name,
		"path", record.Path,
		"subtask_args", record.SubtaskArgs,
	)

	err := rt.Run(ctx, dir, record.Path, record.SubtaskArgs, args)
	if err == nil {
		return nil
	}

	var exitErr *command.ExitError
	if errors.As(err, &exitErr) && exitErr.Code >= 0 {
		return &exitcode.TaskExit{Task: record.Name, Code: exitErr.Code}
	}
	return lunarerrors.Wrap(lunarerrors.ErrCodeExecFailed, "failed to start "+rt.Binary(), err)
}

func unknownTask(name string) error {
	return lunarerrors.NewTaskNotFoundError(name)
}
