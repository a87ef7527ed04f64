package jsonfile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"domainmon/pkg/domain"
	"domainmon/pkg/storage"
	"domainmon/pkg/storage/jsonfile"

	"github.com/stretchr/testify/require"
)

func TestLoadUsersInitializesMissingDocument(t *testing.T) {
	s, dir := newTestStore(t, false)

	users, err := s.LoadUsers(context.Background())
	require.NoError(t, err)
	require.Empty(t, users)

	data, err := os.ReadFile(filepath.Join(dir, "users.json"))
	require.NoError(t, err)
	require.JSONEq(t, "[]", string(data))
}

func TestUsersRoundTrip(t *testing.T) {
	s, _ := newTestStore(t, false)
	ctx := context.Background()

	in := []domain.User{
		{Username: "alex", Password: "Passw0rd"},
		{Username: "sam", Password: "Secret99"},
	}
	require.NoError(t, s.SaveUsers(ctx, in))

	users, err := s.LoadUsers(ctx)
	require.NoError(t, err)
	require.Equal(t, in, users)
}

func TestLoadUsersCorruptContent(t *testing.T) {
	s, dir := newTestStore(t, false)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.json"), []byte("oops"), 0o644))

	users, err := s.LoadUsers(context.Background())
	require.NoError(t, err)
	require.Empty(t, users)

	strict, err := jsonfile.New(jsonfile.Options{DataDir: dir, Strict: true})
	require.NoError(t, err)
	_, err = strict.LoadUsers(context.Background())
	require.ErrorIs(t, err, storage.ErrCorruptData)
}
