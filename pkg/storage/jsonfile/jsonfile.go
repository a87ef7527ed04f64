// Package jsonfile implements the storage interfaces on top of per-account
// JSON documents in a single data directory. One process-wide mutex guards
// every read-modify-write cycle; saves are atomic (temp file + rename) so a
// crash mid-write never leaves a half-written document behind.
package jsonfile

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
)

// Options configure the file store.
type Options struct {
	// DataDir is the directory holding users.json and the per-account
	// <account>_domains.json documents. Created on demand.
	DataDir string
	// Strict makes load operations fail with storage.ErrCorruptData when a
	// document cannot be parsed, instead of treating it as empty.
	Strict bool
}

// Store is the JSON file-backed implementation of storage.AllStorage.
type Store struct {
	opts Options

	// mu serializes all file I/O in the process, not per account. It covers
	// single operations only; callers hold their own lock across a
	// load-mutate-save cycle.
	mu sync.Mutex
}

// unsafeAccountChars matches characters that must not appear in file names
// derived from account identifiers.
var unsafeAccountChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// New creates a Store rooted at opts.DataDir, creating the directory if
// needed.
func New(opts Options) (*Store, error) {
	if opts.DataDir == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	if err := os.MkdirAll(opts.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create data directory: %w", err)
	}

	return &Store{opts: opts}, nil
}

// domainsPath returns the per-account document path, with the account
// identifier sanitized so it cannot escape the data directory.
func (s *Store) domainsPath(account string) string {
	safe := unsafeAccountChars.ReplaceAllString(account, "_")

	return filepath.Join(s.opts.DataDir, safe+"_domains.json")
}

// usersPath returns the credential document path.
func (s *Store) usersPath() string {
	return filepath.Join(s.opts.DataDir, "users.json")
}

// writeFileAtomic writes data to path by creating a temp file in the same
// directory and renaming it over the target.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("could not create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)

		return fmt.Errorf("could not write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("could not close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("could not replace %s: %w", filepath.Base(path), err)
	}

	return nil
}
