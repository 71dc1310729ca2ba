// Package credentials keeps the bearer token (the Credential) in the durable
// key/value store, next to the username and logged-in hint the UI shows
// before the session has been re-established.
package credentials

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/goblog/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/goblog/internal/common"
)

// Store is the single owner of the persisted Credential.
type Store struct {
	repo metadata.Repository
}

func NewStore(repo metadata.Repository) *Store {
	return &Store{repo: repo}
}

// Token returns the stored token, or "" when there is none.
func (s *Store) Token(ctx context.Context) (string, error) {
	v, err := s.repo.Get(ctx, common.TokenKey)
	if err != nil {
		return "", fmt.Errorf("read credential: %w", err)
	}
	return string(v), nil
}

// Username returns the username saved alongside the token, or "".
func (s *Store) Username(ctx context.Context) (string, error) {
	v, err := s.repo.Get(ctx, common.UsernameKey)
	if err != nil {
		return "", fmt.Errorf("read username: %w", err)
	}
	return string(v), nil
}

// Save persists a freshly issued token together with its owner.
func (s *Store) Save(ctx context.Context, token, username string) error {
	err := s.repo.SetMany(ctx, map[string][]byte{
		common.TokenKey:      []byte(token),
		common.UsernameKey:   []byte(username),
		common.IsLoggedInKey: []byte("true"),
	})
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

// Clear removes the token and its companions. Clearing an empty store is fine.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.repo.Delete(ctx, common.TokenKey, common.UsernameKey, common.IsLoggedInKey); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}
