// Package trust records which subjects (repository URLs, setup scripts) the
// user approved, and gates remote content behind that record.
package trust

import (
	"fmt"
	"sort"
	"sync"

	"github.com/felixgeelhaar/lunar/internal/localdata"
	"github.com/felixgeelhaar/lunar/internal/log"
)

// Prompter asks the user a yes/no trust question.
type Prompter interface {
	Confirm(query string) (bool, error)
}

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(query string) (bool, error)

// Confirm calls f(query).
func (f PrompterFunc) Confirm(query string) (bool, error) {
	return f(query)
}

// trustFile is the on-disk shape of the trust cache.
type trustFile struct {
	Trusted []string `json:"trusted"`
}

// Store is the persistent set of trusted subjects. The file is re-read on
// every query so approvals made by concurrent runner processes are seen;
// concurrent approvals may still overwrite each other.
type Store struct {
	path     string
	trustNew bool
	prompter Prompter
	logger   *log.Logger

	mu       sync.Mutex
	declined map[string]bool
}

// Option configures a Store.
type Option func(*Store)

// WithTrustNew makes PromptForTrust approve new subjects without asking.
func WithTrustNew(trustNew bool) Option {
	return func(s *Store) { s.trustNew = trustNew }
}

// WithPrompter sets the prompter used for unknown subjects.
func WithPrompter(p Prompter) Option {
	return func(s *Store) { s.prompter = p }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore creates a store backed by the JSON file at path.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:     path,
		declined: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.DefaultLogger()
	}
	return s
}

func (s *Store) read() (map[string]bool, error) {
	var f trustFile
	if _, err := localdata.ReadJSON(s.path, &f); err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(f.Trusted))
	for _, subject := range f.Trusted {
		set[subject] = true
	}
	return set, nil
}

func (s *Store) write(set map[string]bool) error {
	f := trustFile{Trusted: make([]string, 0, len(set))}
	for subject := range set {
		f.Trusted = append(f.Trusted, subject)
	}
	sort.Strings(f.Trusted)
	return localdata.WriteJSON(s.path, f)
}

// IsTrusted reports whether subject was approved. Any read or parse failure
// counts as not trusted.
func (s *Store) IsTrusted(subject string) bool {
	set, err := s.read()
	if err != nil {
		return false
	}
	return set[subject]
}

// Trusted returns the approved subjects in sorted order.
func (s *Store) Trusted() ([]string, error) {
	set, err := s.read()
	if err != nil {
		return nil, err
	}
	subjects := make([]string, 0, len(set))
	for subject := range set {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)
	return subjects, nil
}

// Trust approves subject and persists the set before returning. A corrupt
// trust file is replaced.
func (s *Store) Trust(subject string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.read()
	if err != nil {
		s.logger.WithError(err).Warn("Trust cache unreadable, starting a new one", "path", s.path)
		set = make(map[string]bool)
	}
	if set[subject] {
		return nil
	}

	set[subject] = true
	if err := s.write(set); err != nil {
		return fmt.Errorf("persist trust for %q: %w", subject, err)
	}
	delete(s.declined, subject)
	return nil
}

// PromptForTrust returns true for an already trusted subject. Otherwise it
// approves automatically in trust-new mode, or asks query and persists the
// approval on an affirmative answer. A subject declined once is not asked
// about again by this Store.
func (s *Store) PromptForTrust(subject, query string) (bool, error) {
	if s.IsTrusted(subject) {
		return true, nil
	}

	if s.trustNew {
		if err := s.Trust(subject); err != nil {
			return false, err
		}
		s.logger.Debug("Trusted new subject", "subject", subject)
		return true, nil
	}

	s.mu.Lock()
	declined := s.declined[subject]
	s.mu.Unlock()
	if declined {
		return false, nil
	}

	if s.prompter == nil {
		return false, fmt.Errorf("cannot ask for trust of %q: no prompter configured", subject)
	}

	ok, err := s.prompter.Confirm(query)
	if err != nil {
		return false, fmt.Errorf("trust prompt: %w", err)
	}
	if !ok {
		s.mu.Lock()
		s.declined[subject] = true
		s.mu.Unlock()
		return false, nil
	}

	if err := s.Trust(subject); err != nil {
		return false, err
	}
	return true, nil
}
