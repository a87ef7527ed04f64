// Package auth implements user registration, login and bearer token
// handling. The core monitoring engine performs no authentication itself; it
// only receives the account identifier this package extracts from a verified
// token.
package auth

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"domainmon/pkg/domain"
	"domainmon/pkg/logger"
	"domainmon/pkg/serrors"
	"domainmon/pkg/storage"

	"go.uber.org/zap"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 12
)

var (
	upperPattern = regexp.MustCompile(`[A-Z]`)
	lowerPattern = regexp.MustCompile(`[a-z]`)
	digitPattern = regexp.MustCompile(`[0-9]`)
	alnumPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)
)

// Service manages user accounts on top of the credential store. Registering
// a user also provisions the account's empty domain collection so the first
// dashboard load sees a valid backing unit.
type Service struct {
	storage storage.AllStorage
	tokens  *TokenIssuer

	// mu makes each load-mutate-save cycle on the credential list atomic.
	mu sync.Mutex
}

// New creates an auth Service backed by the given storage and token issuer.
func New(strg storage.AllStorage, tokens *TokenIssuer) *Service {
	return &Service{storage: strg, tokens: tokens}
}

// validatePassword enforces the registration password rules.
func validatePassword(password, confirmation string) error {
	switch {
	case password != confirmation:
		return serrors.With(serrors.ErrBadRequest, "Password and Password Confirmation are not the same.")
	case len(password) < minPasswordLength || len(password) > maxPasswordLength:
		return serrors.With(serrors.ErrBadRequest, "Password is not between 8 to 12 characters.")
	case !upperPattern.MatchString(password):
		return serrors.With(serrors.ErrBadRequest, "Password does not include at least one uppercase character.")
	case !lowerPattern.MatchString(password):
		return serrors.With(serrors.ErrBadRequest, "Password does not include at least one lowercase character.")
	case !digitPattern.MatchString(password):
		return serrors.With(serrors.ErrBadRequest, "Password does not include at least one digit.")
	case !alnumPattern.MatchString(password):
		return serrors.With(serrors.ErrBadRequest,
			"Password should include only uppercase characters, lowercase characters and digits!")
	default:
		return nil
	}
}

// Register validates and persists a new user, then provisions the account's
// empty domain collection.
func (s *Service) Register(ctx context.Context, username, password, confirmation string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return serrors.With(serrors.ErrBadRequest, "Username invalid.")
	}

	if err := validatePassword(password, confirmation); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.storage.LoadUsers(ctx)
	if err != nil {
		return fmt.Errorf("could not load users: %w", err)
	}

	for _, user := range users {
		if user.Username == username {
			return serrors.With(serrors.ErrConflict, "Username already taken.")
		}
	}

	users = append(users, domain.User{Username: username, Password: password})
	if err := s.storage.SaveUsers(ctx, users); err != nil {
		return fmt.Errorf("could not save users: %w", err)
	}

	// provision the account's domain collection
	if _, err := s.storage.LoadDomains(ctx, username); err != nil {
		return fmt.Errorf("could not provision domain collection: %w", err)
	}

	logger.Info(ctx, "user registered", zap.String("username", username))

	return nil
}

// Login verifies the credentials and returns a signed bearer token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)

	users, err := s.storage.LoadUsers(ctx)
	if err != nil {
		return "", fmt.Errorf("could not load users: %w", err)
	}

	for _, user := range users {
		if user.Username == username && user.Password == password {
			token, err := s.tokens.Issue(username)
			if err != nil {
				return "", err
			}

			logger.Info(ctx, "login successful", zap.String("username", username))

			return token, nil
		}
	}

	logger.Warn(ctx, "login failed", zap.String("username", username))

	return "", serrors.With(serrors.ErrUnauthorized, "Invalid username or password")
}

// VerifyToken returns the account a bearer token was issued for.
func (s *Service) VerifyToken(token string) (string, error) {
	return s.tokens.Verify(token)
}

// DeleteUser removes the user's credentials and the account's domain
// collection.
func (s *Service) DeleteUser(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.storage.LoadUsers(ctx)
	if err != nil {
		return fmt.Errorf("could not load users: %w", err)
	}

	kept := users[:0]
	for _, user := range users {
		if user.Username != username {
			kept = append(kept, user)
		}
	}
	if err := s.storage.SaveUsers(ctx, kept); err != nil {
		return fmt.Errorf("could not save users: %w", err)
	}

	if err := s.storage.DeleteDomains(ctx, username); err != nil {
		return fmt.Errorf("could not delete domain collection: %w", err)
	}

	logger.Info(ctx, "user removed", zap.String("username", username))

	return nil
}
