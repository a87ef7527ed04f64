package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"domainmon/pkg/domain"
	"domainmon/pkg/logger"
	"domainmon/pkg/storage"
)

// LoadUsers returns all registered users. A missing users.json is initialized
// to an empty list. Corruption handling follows the same lenient/strict rule
// as the domain documents.
func (s *Store) LoadUsers(ctx context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.usersPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("could not read users: %w", err)
		}
		if err := writeFileAtomic(path, []byte("[]")); err != nil {
			return nil, fmt.Errorf("could not initialize users: %w", err)
		}

		return []domain.User{}, nil
	}

	var users []domain.User
	if err := json.Unmarshal(data, &users); err != nil || users == nil {
		if s.opts.Strict {
			return nil, fmt.Errorf("users document: %w", storage.ErrCorruptData)
		}
		logger.Warn(ctx, "treating unparsable users document as empty")
		users = []domain.User{}
	}

	return users, nil
}

// SaveUsers atomically replaces the whole credential list.
func (s *Store) SaveUsers(_ context.Context, users []domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if users == nil {
		users = []domain.User{}
	}

	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal users: %w", err)
	}

	if err := writeFileAtomic(s.usersPath(), data); err != nil {
		return fmt.Errorf("could not save users: %w", err)
	}

	return nil
}
