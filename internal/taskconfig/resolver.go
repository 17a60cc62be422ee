package taskconfig

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lunarerrors "github.com/felixgeelhaar/lunar/internal/errors"
	"github.com/felixgeelhaar/lunar/internal/log"
	"github.com/felixgeelhaar/lunar/internal/repo"
)

// ScriptDirs are searched, in order, for scripts and config files.
var ScriptDirs = []string{"lune", ".lune", "lunar", ".lunar"}

// SingleScriptDirs are searched, in order, for the script of a single-script
// selector.
var SingleScriptDirs = []string{"lune", ".lune", "lunar", ".lunar", "."}

// DefaultMaxDepth bounds how many selectors may be nested.
const DefaultMaxDepth = 16

// Tasks maps task names to script paths.
type Tasks map[string]string

// TrustGate asks whether a subject may be trusted.
type TrustGate interface {
	PromptForTrust(subject, query string) (bool, error)
}

// RepoFetcher makes a repository available locally.
type RepoFetcher interface {
	Fetch(ctx context.Context, ref repo.Reference) (string, error)
}

// Resolver resolves task names to scripts.
type Resolver struct {
	trust    TrustGate
	fetcher  RepoFetcher
	logger   *log.Logger
	maxDepth int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxDepth bounds selector nesting. Values below one keep the default.
func WithMaxDepth(depth int) Option {
	return func(r *Resolver) {
		if depth > 0 {
			r.maxDepth = depth
		}
	}
}

// WithLogger sets the logger used for skip warnings.
func WithLogger(logger *log.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver creates a resolver that consults trust before fetching any
// repository.
func NewResolver(trust TrustGate, fetcher RepoFetcher, opts ...Option) *Resolver {
	r := &Resolver{
		trust:    trust,
		fetcher:  fetcher,
		logger:   log.DefaultLogger(),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DirectoryTasks adds the tasks found in the script directories of dir.
// Scripts register under their file stem and config files are followed.
// Later entries replace earlier ones with the same name.
//
// A config file in dir itself that fails to parse is an error. Failures
// further down, in directories reached through selectors, only skip the
// offending entry.
func (r *Resolver) DirectoryTasks(ctx context.Context, dir string, tasks Tasks) error {
	return r.newWalk().directory(ctx, dir, tasks, 0)
}

// StandaloneConfigTasks adds the tasks contributed by cfg. fallbackName is
// used when the config does not name itself.
func (r *Resolver) StandaloneConfigTasks(ctx context.Context, cfg *StandaloneConfig, fallbackName string, tasks Tasks) error {
	return r.newWalk().standalone(ctx, cfg, fallbackName, tasks, 0)
}

// SelectorTasks adds the tasks sel picks from dir.
func (r *Resolver) SelectorTasks(ctx context.Context, dir, name string, sel Selector, tasks Tasks) error {
	return r.newWalk().selector(ctx, dir, name, sel, tasks, 0)
}

// FindScript looks for script in the single-script directories of dir, as
// is, then with a .luau and then a .lua extension. Directories never match.
func FindScript(dir, script string) (string, bool) {
	for _, sub := range SingleScriptDirs {
		for _, candidate := range []string{script, script + ".luau", script + ".lua"} {
			path := filepath.Join(dir, sub, candidate)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, true
			}
		}
	}
	return "", false
}

// walk carries the directories being resolved so that a selector leading
// back into one of them is cut off.
type walk struct {
	*Resolver
	active map[string]bool
}

func (r *Resolver) newWalk() *walk {
	return &walk{Resolver: r, active: make(map[string]bool)}
}

func (w *walk) directory(ctx context.Context, dir string, tasks Tasks, depth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key, err := filepath.Abs(dir)
	if err != nil {
		key = filepath.Clean(dir)
	}
	if depth > w.maxDepth {
		w.logger.Warn("Skipping directory nested too deeply", "dir", dir, "max_depth", w.maxDepth)
		return nil
	}
	if w.active[key] {
		w.logger.Warn("Skipping directory that refers back to itself", "dir", dir)
		return nil
	}
	w.active[key] = true
	defer delete(w.active, key)

	for _, sub := range ScriptDirs {
		scriptDir := filepath.Join(dir, sub)
		info, err := os.Stat(scriptDir)
		if err != nil || !info.IsDir() {
			continue
		}

		entries, err := os.ReadDir(scriptDir)
		if err != nil {
			if depth == 0 {
				return fmt.Errorf("reading %s: %w", scriptDir, err)
			}
			w.logger.WithError(err).Warn("Skipping unreadable script directory", "dir", scriptDir)
			continue
		}

		for _, entry := range entries {
			if err := w.entry(ctx, scriptDir, entry, tasks, depth); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *walk) entry(ctx context.Context, scriptDir string, entry fs.DirEntry, tasks Tasks, depth int) error {
	if entry.IsDir() {
		return nil
	}
	fileName := entry.Name()
	path := filepath.Join(scriptDir, fileName)

	switch ext := filepath.Ext(fileName); ext {
	case ".lua", ".luau":
		tasks[strings.TrimSuffix(fileName, ext)] = path
		return nil
	}

	fallback, ok := configName(fileName)
	if !ok {
		return nil
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		if depth == 0 {
			return lunarerrors.NewConfigParseError(path, err)
		}
		w.logger.WithError(err).Warn("Skipping task config that failed to parse", "path", path)
		return nil
	}
	return w.standalone(ctx, cfg, fallback, tasks, depth)
}

func (w *walk) standalone(ctx context.Context, cfg *StandaloneConfig, fallbackName string, tasks Tasks, depth int) error {
	name := cfg.Name
	if name == "" {
		name = fallbackName
	}

	if cfg.Script != nil {
		tasks[name] = *cfg.Script
	}

	if cfg.Repo != nil {
		if err := w.repo(ctx, cfg.Repo, name, tasks, depth); err != nil {
			return err
		}
	}

	if cfg.Directory != nil {
		if err := w.selector(ctx, cfg.Directory.Path, name, cfg.Directory.Selector, tasks, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (w *walk) repo(ctx context.Context, cfg *RepoConfig, name string, tasks Tasks, depth int) error {
	trusted, err := w.trust.PromptForTrust(cfg.URL, fmt.Sprintf("Do you want to download %s ?", cfg.URL))
	if err != nil {
		return err
	}
	if !trusted {
		w.logger.Warn("Skipping tasks because the repository is not trusted", "task", name, "repo", cfg.URL)
		return nil
	}

	dir, err := w.fetcher.Fetch(ctx, cfg.Reference())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		w.logger.WithError(err).Warn("Skipping tasks because the repository could not be fetched", "task", name, "repo", cfg.URL)
		return nil
	}

	return w.selector(ctx, dir, name, cfg.Selector, tasks, depth+1)
}

func (w *walk) selector(ctx context.Context, dir, name string, sel Selector, tasks Tasks, depth int) error {
	if sel.Script != nil {
		if path, ok := FindScript(dir, *sel.Script); ok {
			tasks[name] = path
		} else {
			w.logger.Debug("Selected script not found", "task", name, "dir", dir, "script", *sel.Script)
		}
		return nil
	}

	found := make(Tasks)
	if err := w.directory(ctx, dir, found, depth); err != nil {
		return err
	}

	var filter map[string]bool
	if sel.Tasks != nil {
		filter = make(map[string]bool, len(sel.Tasks))
		for _, t := range sel.Tasks {
			filter[t] = true
		}
	}

	names := make([]string, 0, len(found))
	for n := range found {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, n := range names {
		if filter != nil && !filter[n] {
			continue
		}
		tasks[sel.Prefix+n] = found[n]
	}
	return nil
}
