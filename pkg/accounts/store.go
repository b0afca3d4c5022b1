package accounts

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Source loads an ordered account list from a configuration backend.
// Implementations must not retain references to the returned slice.
type Source interface {
	// Load reads and returns the ordered account list.
	// It returns a *ConfigError when the backend content is malformed.
	Load(ctx context.Context) ([]Account, error)

	// Describe returns a human-readable description of the source
	// for logs and error messages.
	Describe() string
}

// Store holds the loaded account set. It is read-only between loads:
// Reload atomically swaps the entire set, and individual accounts are
// never mutated in place.
type Store struct {
	source Source

	mu       sync.RWMutex
	accounts []Account
	byName   map[string]Account
}

// NewStore creates a new account store backed by the given source.
// The store is empty until Load is called.
func NewStore(source Source) *Store {
	return &Store{
		source: source,
		byName: make(map[string]Account),
	}
}

// Load reads the account list from the source, validates it, and installs
// it as the current set. It returns a *ConfigError when the source content
// is malformed, contains duplicate names, or is empty.
func (s *Store) Load(ctx context.Context) error {
	list, err := s.source.Load(ctx)
	if err != nil {
		return err
	}

	if err := validateAccounts(s.source.Describe(), list); err != nil {
		return err
	}

	byName := make(map[string]Account, len(list))
	for _, a := range list {
		byName[a.Name] = a
	}

	s.mu.Lock()
	s.accounts = list
	s.byName = byName
	s.mu.Unlock()

	slog.Info("accounts loaded",
		"source", s.source.Describe(),
		"count", len(list),
	)

	return nil
}

// Reload re-reads the account list from the source. It is the only way
// account identity or credentials change at runtime. On error the
// previously loaded set stays in place.
func (s *Store) Reload(ctx context.Context) error {
	return s.Load(ctx)
}

// Get returns the account with the given name.
// It returns a *NotFoundError when the name is not in the loaded set.
func (s *Store) Get(name string) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.byName[name]
	if !ok {
		return Account{}, &NotFoundError{Name: name}
	}
	return a, nil
}

// All returns the loaded accounts in configuration order.
// The returned slice is a copy and safe for the caller to retain.
func (s *Store) All() []Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Account, len(s.accounts))
	copy(out, s.accounts)
	return out
}

// Names returns the account names in configuration order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.accounts))
	for i, a := range s.accounts {
		names[i] = a.Name
	}
	return names
}

// Len returns the number of loaded accounts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}

// validateAccounts checks the loaded list for the Store invariants:
// non-empty list, non-empty names and keys, and unique names.
func validateAccounts(source string, list []Account) error {
	if len(list) == 0 {
		return &ConfigError{
			Source:  source,
			Message: "no accounts configured",
		}
	}

	seen := make(map[string]bool, len(list))
	for i, a := range list {
		if a.Name == "" {
			return &ConfigError{
				Source:  source,
				Message: fmt.Sprintf("account at index %d has an empty name", i),
			}
		}
		if a.APIKey == "" {
			return &ConfigError{
				Source:  source,
				Message: fmt.Sprintf("account %q has an empty api_key", a.Name),
			}
		}
		if seen[a.Name] {
			return &ConfigError{
				Source:  source,
				Message: fmt.Sprintf("duplicate account name %q", a.Name),
			}
		}
		seen[a.Name] = true
	}

	return nil
}
