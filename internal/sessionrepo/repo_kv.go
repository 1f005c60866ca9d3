// Package sessionrepo manages repository layer of the session snapshot.
package sessionrepo

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/banco-acme/portal-api/internal/domain"
	"github.com/banco-acme/portal-api/internal/kvstore"
	"github.com/banco-acme/portal-api/pkg/errorspkg"
)

// RepoKV facilitates session repository layer logic on the key-value store.
// The session is a single snapshot of the authenticated user, replaced as a
// whole on every write.
type RepoKV struct {
	store kvstore.Store
}

// NewRepoKV returns session RepoKV.
func NewRepoKV(store kvstore.Store) *RepoKV {
	return &RepoKV{store: store}
}

// Get returns the current user snapshot.
func (r *RepoKV) Get(ctx context.Context) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	raw, err := r.store.Get(ctx, kvstore.SessionKey)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.User{}, errorspkg.ErrInternal
	}

	if raw == "" {
		return domain.User{}, domain.ErrSessionNotFound
	}

	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		l.Error().Err(err).Send()
		return domain.User{}, errorspkg.ErrInternal
	}

	return user, nil
}

// Set overwrites the snapshot with the given user.
func (r *RepoKV) Set(ctx context.Context, user domain.User) error {
	l := zerolog.Ctx(ctx)

	raw, err := json.Marshal(user)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if err := r.store.Set(ctx, kvstore.SessionKey, string(raw)); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	return nil
}

// Clear removes the snapshot.
func (r *RepoKV) Clear(ctx context.Context) error {
	l := zerolog.Ctx(ctx)

	if err := r.store.Del(ctx, kvstore.SessionKey); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	return nil
}
