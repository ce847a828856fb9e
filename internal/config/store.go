package config

import (
	"fmt"
	"sync"

	"github.com/abelbrown/signgen/internal/logging"
)

// StorageKey is the key the record is persisted under.
const StorageKey = "config"

// Persister is the durable key/value backend. *store.Store satisfies it.
type Persister interface {
	Get(key string) (string, bool, error)
	Put(key, value string) error
}

// Store owns the current record and its persistence.
type Store struct {
	mu      sync.Mutex
	p       Persister
	current Config
	loaded  bool
}

// NewStore creates a Store over p. Call Load before Current.
func NewStore(p Persister) *Store {
	return &Store{p: p, current: Defaults()}
}

// Load reads the persisted record. It never fails: a missing, unreadable or
// malformed record yields Defaults. When nothing is persisted yet the
// defaults are written through so the next session finds a record.
func (s *Store) Load() Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = s.read()
	s.loaded = true
	return s.current
}

func (s *Store) read() Config {
	raw, ok, err := s.p.Get(StorageKey)
	if err != nil {
		logging.Debug("config: read failed, using defaults", "error", err)
		return Defaults()
	}
	if !ok {
		defaults := Defaults()
		if err := s.write(defaults); err != nil {
			logging.Debug("config: write-through of defaults failed", "error", err)
		}
		return defaults
	}

	cfg, err := Decode([]byte(raw))
	if err != nil {
		logging.Debug("config: persisted record rejected, using defaults", "error", err)
		return Defaults()
	}
	return cfg
}

// Current returns the record as of the last Load or Apply.
func (s *Store) Current() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Apply overlays p onto the current record, persists the result and returns it.
// On a persist error the in-memory record is still updated and the error is
// returned so the caller can tell the user the change will not survive a restart.
// A result failing Validate is neither applied nor persisted; the error wraps
// ErrInvalid and the unchanged record is returned.
func (s *Store) Apply(p Partial) (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		s.current = s.read()
		s.loaded = true
	}

	next := s.current.Merge(p)
	if err := Validate(next); err != nil {
		return s.current, err
	}
	s.current = next

	if err := s.write(next); err != nil {
		return next, err
	}
	logging.Info("config: applied", "fingerprint", shortFingerprint(next), "base", next.BaseURL())
	return next, nil
}

// Reset overwrites the persisted record with Defaults.
func (s *Store) Reset() (Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = Defaults()
	s.loaded = true
	return s.current, s.write(s.current)
}

func (s *Store) write(c Config) error {
	data, err := Encode(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := s.p.Put(StorageKey, string(data)); err != nil {
		return fmt.Errorf("persist config: %w", err)
	}
	return nil
}

func shortFingerprint(c Config) string {
	fp := Fingerprint(c)
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
