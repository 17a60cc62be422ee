// Package cmd implements the lunar command line: global flags, one
// subcommand per resolved task, and the cache, listing and doctor actions.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/lunar/internal/command"
	"github.com/felixgeelhaar/lunar/internal/config"
	"github.com/felixgeelhaar/lunar/internal/git"
	"github.com/felixgeelhaar/lunar/internal/localdata"
	"github.com/felixgeelhaar/lunar/internal/log"
	"github.com/felixgeelhaar/lunar/internal/repo"
	"github.com/felixgeelhaar/lunar/internal/runtime"
	"github.com/felixgeelhaar/lunar/internal/taskconfig"
	"github.com/felixgeelhaar/lunar/internal/taskinfo"
	"github.com/felixgeelhaar/lunar/internal/trust"
	"github.com/felixgeelhaar/lunar/internal/tui"
	"github.com/felixgeelhaar/lunar/internal/ux"
	"github.com/felixgeelhaar/lunar/internal/version"
)

// Options configures a run of the command line.
type Options struct {
	// Args are the command-line arguments without the program name.
	Args []string
	// Dir is the directory tasks are discovered from and run in. Empty
	// means the current directory.
	Dir string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Prompter answers trust questions. Nil picks an interactive form on a
	// terminal and a line prompt otherwise.
	Prompter trust.Prompter
}

// ExecuteContext runs lunar with the process arguments and streams.
func ExecuteContext(ctx context.Context) error {
	return Run(ctx, Options{
		Args:   os.Args[1:],
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
}

// Run executes one invocation of lunar.
func Run(ctx context.Context, opts Options) error {
	opts = withDefaultStreams(opts)

	cc, rest, err := parseGlobalFlags(opts.Args)
	if err != nil {
		return err
	}

	if cc.Version {
		_, err := fmt.Fprintf(opts.Stdout, "lunar %s\n", version.GetInfo().Short())
		return err
	}

	cfg, err := config.Load(cc.ConfigPath, config.Overrides{TrustNew: cc.TrustNew, LogLevel: cc.LogLevel})
	if err != nil {
		return err
	}
	logger := setupLogging(cfg, opts.Stderr)

	if cc.ShowConfig {
		data, err := cfg.YAML()
		if err != nil {
			return err
		}
		_, err = opts.Stdout.Write(data)
		return err
	}

	root, err := openCacheRoot(cfg)
	if err != nil {
		return err
	}

	switch {
	case cc.ClearCache:
		return clearCache(root, opts.Stdout)
	case cc.Doctor:
		return runDoctor(ctx, cfg, root, cc.Format, opts.Stdout)
	}

	dir := opts.Dir
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return err
		}
	}

	env := newEnvironment(cfg, root, opts, logger)

	tasks := make(taskconfig.Tasks)
	if err := env.resolver.DirectoryTasks(ctx, dir, tasks); err != nil {
		return err
	}
	records := taskinfo.BuildRecords(tasks, logger)

	if cc.List {
		return listTasks(records, cc.Format, opts.Stdout)
	}

	rootCmd := newRootCommand(records, env.runtime, dir)
	rootCmd.SetArgs(rest)
	rootCmd.SetIn(opts.Stdin)
	rootCmd.SetOut(opts.Stdout)
	rootCmd.SetErr(opts.Stderr)
	return rootCmd.ExecuteContext(ctx)
}

func withDefaultStreams(opts Options) Options {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return opts
}

// environment is the wired set of collaborators for one run.
type environment struct {
	runtime  *runtime.Runtime
	resolver *taskconfig.Resolver
}

func newEnvironment(cfg *config.Config, root *localdata.Root, opts Options, logger *log.Logger) *environment {
	runner := command.NewExecRunner()

	interactive := opts.Prompter == nil && tui.ShouldPrompt()

	prompter := opts.Prompter
	if prompter == nil {
		if interactive {
			prompter = tui.NewConfirmPrompter()
		} else {
			prompter = ux.NewLinePrompter(opts.Stdin, opts.Stderr)
		}
	}

	store := trust.NewStore(root.TrustCachePath(),
		trust.WithTrustNew(cfg.TrustNew),
		trust.WithPrompter(prompter),
		trust.WithLogger(logger),
	)

	rt := runtime.New(cfg.Runtime, runner)
	rt.Stdin, rt.Stdout, rt.Stderr = opts.Stdin, opts.Stdout, opts.Stderr

	gitClient := git.NewClient(cfg.Git, runner)
	var cloner repo.Cloner = gitClient
	if interactive {
		cloner = &progressCloner{Cloner: gitClient, out: opts.Stderr}
	}

	hashes := repo.NewHashResolver(gitClient, repo.NewHashCache(root.HashCachePath()), logger)
	fetcher := repo.NewFetcher(root.ReposDir(), hashes, cloner, rt, store, logger)

	resolver := taskconfig.NewResolver(store, fetcher,
		taskconfig.WithLogger(logger),
		taskconfig.WithMaxDepth(cfg.MaxDepth),
	)

	return &environment{runtime: rt, resolver: resolver}
}

// progressCloner shows a spinner while a repository is cloned.
type progressCloner struct {
	repo.Cloner
	out io.Writer
}

func (c *progressCloner) CloneAt(ctx context.Context, dir, url, hash string) error {
	return tui.Spin(ctx, c.out, "Cloning "+url+" at "+repo.ShortHash(hash), func() error {
		return c.Cloner.CloneAt(ctx, dir, url, hash)
	})
}

func newRootCommand(records map[string]taskinfo.Record, rt *runtime.Runtime, dir string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lunar [flags] <task> [args...]",
		Short: "Lunar: Task Runner for Lune",
		Long: `lunar discovers tasks from the lune, .lune, lunar and .lunar directories of the
current directory, from *.lunar.toml files and from the git repositories they
reference, and runs them with the Lune runtime.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Without tasks cobra registers no help command.
			if len(args) == 0 || args[0] == "help" {
				return cmd.Help()
			}
			return unknownTask(args[0])
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Global flags are consumed before the command tree runs; they are
	// registered here so help lists them.
	rootCmd.Flags().AddFlagSet(newGlobalFlags(&CommandContext{}))

	for _, record := range taskinfo.Sorted(records) {
		rootCmd.AddCommand(newTaskCommand(record, rt, dir))
	}

	return rootCmd
}
