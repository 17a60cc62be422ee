package repo

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	lunarerrors "github.com/felixgeelhaar/lunar/internal/errors"
	"github.com/felixgeelhaar/lunar/internal/log"
)

// SetupScript is run once after a fresh clone when present at the root.
const SetupScript = "lunar-setup.luau"

// Cloner fills an empty directory with a clone of url pinned to hash.
type Cloner interface {
	CloneAt(ctx context.Context, dir, url, hash string) error
}

// SetupRunner runs a setup script with dir as its working directory.
type SetupRunner interface {
	RunSetup(ctx context.Context, dir, script string) error
}

// TrustGate asks whether a subject may be trusted.
type TrustGate interface {
	PromptForTrust(subject, query string) (bool, error)
}

// HashSource resolves a reference to a commit hash.
type HashSource interface {
	Resolve(ctx context.Context, ref Reference) (string, error)
}

// Fetcher keeps pinned clones under reposDir/<url dir>/<short hash>. A pinned
// directory that exists is never fetched or validated again.
type Fetcher struct {
	reposDir string
	hashes   HashSource
	cloner   Cloner
	setup    SetupRunner
	trust    TrustGate
	logger   *log.Logger
}

// NewFetcher creates a fetcher storing clones under reposDir.
func NewFetcher(reposDir string, hashes HashSource, cloner Cloner, setup SetupRunner, trust TrustGate, logger *log.Logger) *Fetcher {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Fetcher{
		reposDir: reposDir,
		hashes:   hashes,
		cloner:   cloner,
		setup:    setup,
		trust:    trust,
		logger:   logger,
	}
}

// PinnedPath returns where the clone of url at hash lives.
func (f *Fetcher) PinnedPath(url, hash string) string {
	return filepath.Join(f.reposDir, CacheDirName(url), ShortHash(hash))
}

// Fetch returns the local directory holding ref at its resolved commit,
// cloning it first if needed.
//
// Clones are made in a uniquely named sibling directory and renamed into
// place. When several processes clone the same commit at once, the first
// rename wins and the others discard their copy and use the winner's.
func (f *Fetcher) Fetch(ctx context.Context, ref Reference) (string, error) {
	hash, err := f.hashes.Resolve(ctx, ref)
	if err != nil {
		return "", err
	}

	pinned := f.PinnedPath(ref.URL, hash)
	if _, err := os.Stat(pinned); err == nil {
		return pinned, nil
	}

	tmp := pinned + ".tmp_" + tempToken()
	if err := os.MkdirAll(tmp, 0755); err != nil {
		return "", lunarerrors.Wrap(lunarerrors.ErrCodeRepoCloneFailed, "could not create cache directory", err)
	}

	f.logger.Info("Fetching repository", "repo", ref.URL, "ref", ref.Ref(), "hash", hash)

	if err := f.populate(ctx, tmp, ref.URL, hash); err != nil {
		f.discard(tmp)
		return "", err
	}

	if err := os.Rename(tmp, pinned); err != nil {
		if _, statErr := os.Stat(pinned); statErr == nil {
			f.logger.Debug("Concurrent fetch won the race, discarding local clone", "path", pinned)
			f.discard(tmp)
			return pinned, nil
		}
		f.discard(tmp)
		return "", lunarerrors.Wrap(lunarerrors.ErrCodeRepoRenameFailed, "failed to rename cache directory", err)
	}

	return pinned, nil
}

func (f *Fetcher) populate(ctx context.Context, dir, url, hash string) error {
	if err := f.cloner.CloneAt(ctx, dir, url, hash); err != nil {
		return lunarerrors.Wrap(lunarerrors.ErrCodeRepoCloneFailed,
			fmt.Sprintf("failed to clone %s at %s", url, hash), err)
	}

	setupFile := filepath.Join(dir, SetupScript)
	if _, err := os.Stat(setupFile); err != nil {
		return nil
	}

	trusted, err := f.trust.PromptForTrust(
		"lunar-setup for "+url,
		fmt.Sprintf("Do you want to run the setup script for %s ? It may make changes to your system!\nTemporary file location: %s", url, setupFile),
	)
	if err != nil {
		return err
	}
	if !trusted {
		return lunarerrors.New(lunarerrors.ErrCodeRepoSetupUntrusted, "Setup file was not trusted.")
	}

	if err := f.setup.RunSetup(ctx, dir, setupFile); err != nil {
		return lunarerrors.Wrap(lunarerrors.ErrCodeRepoSetupFailed,
			fmt.Sprintf("setup script for %s failed", url), err)
	}
	return nil
}

// discard removes a temporary clone. Failure leaves garbage behind but does
// not affect the result of the fetch.
func (f *Fetcher) discard(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		f.logger.WithError(err).Warn("Failed to remove cache directory (continuing anyways)", "path", dir)
	}
}

func tempToken() string {
	id := uuid.New()
	return base64.RawURLEncoding.EncodeToString(id[:])
}
