// Package userrepo manages repository layer of users.
package userrepo

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/banco-acme/portal-api/internal/domain"
	"github.com/banco-acme/portal-api/internal/kvstore"
	"github.com/banco-acme/portal-api/pkg/errorspkg"
)

// RepoKV facilitates user repository layer logic on the key-value store.
//
// The whole user list lives under a single key as one JSON document and is
// rewritten on every mutation, mirroring how the portal persisted it.
type RepoKV struct {
	store kvstore.Store
}

// NewRepoKV returns user RepoKV.
func NewRepoKV(store kvstore.Store) *RepoKV {
	return &RepoKV{store: store}
}

func (r *RepoKV) load(ctx context.Context) ([]domain.User, error) {
	l := zerolog.Ctx(ctx)

	raw, err := r.store.Get(ctx, kvstore.UsersKey)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	if raw == "" {
		return []domain.User{}, nil
	}

	var users []domain.User
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return users, nil
}

func (r *RepoKV) save(ctx context.Context, users []domain.User) error {
	l := zerolog.Ctx(ctx)

	raw, err := json.Marshal(users)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	if err := r.store.Set(ctx, kvstore.UsersKey, string(raw)); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	return nil
}

// List returns all registered users.
func (r *RepoKV) List(ctx context.Context) ([]domain.User, error) {
	return r.load(ctx)
}

// Create appends the user and then returns it. It fails with
// domain.ErrDuplicateIdentity when the (idType, idNumber) pair is taken.
func (r *RepoKV) Create(ctx context.Context, user domain.User) (domain.User, error) {
	users, err := r.load(ctx)
	if err != nil {
		return domain.User{}, err
	}

	for _, u := range users {
		if u.IDType == user.IDType && u.IDNumber == user.IDNumber {
			return domain.User{}, domain.ErrDuplicateIdentity
		}
	}

	users = append(users, user)

	if err := r.save(ctx, users); err != nil {
		return domain.User{}, err
	}

	return user, nil
}

// Get returns the user with the given surrogate id.
func (r *RepoKV) Get(ctx context.Context, id int64) (domain.User, error) {
	users, err := r.load(ctx)
	if err != nil {
		return domain.User{}, err
	}

	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}

	return domain.User{}, domain.ErrUserNotFound
}

// GetByAccountNumber returns the user owning the given account number.
func (r *RepoKV) GetByAccountNumber(ctx context.Context, accountNumber string) (domain.User, error) {
	users, err := r.load(ctx)
	if err != nil {
		return domain.User{}, err
	}

	for _, u := range users {
		if u.AccountNumber == accountNumber {
			return u, nil
		}
	}

	return domain.User{}, domain.ErrAccountNotFound
}

// GetByLogin returns the user matching exactly the given login credentials.
func (r *RepoKV) GetByLogin(ctx context.Context, idType, idNumber, password string) (domain.User, error) {
	users, err := r.load(ctx)
	if err != nil {
		return domain.User{}, err
	}

	for _, u := range users {
		if u.IDType == idType && u.IDNumber == idNumber && u.Password == password {
			return u, nil
		}
	}

	return domain.User{}, domain.ErrInvalidCredentials
}

// GetByCredentials returns the user matching the recovery identity fields.
func (r *RepoKV) GetByCredentials(ctx context.Context, idType, idNumber, email string) (domain.User, error) {
	users, err := r.load(ctx)
	if err != nil {
		return domain.User{}, err
	}

	for _, u := range users {
		if u.IDType == idType && u.IDNumber == idNumber && u.Email == email {
			return u, nil
		}
	}

	return domain.User{}, domain.ErrUserNotFound
}

// UpdateBalance overwrites the stored balance for the given user and returns
// the updated record.
func (r *RepoKV) UpdateBalance(ctx context.Context, id int64, newBalance decimal.Decimal) (domain.User, error) {
	users, err := r.load(ctx)
	if err != nil {
		return domain.User{}, err
	}

	for i := range users {
		if users[i].ID == id {
			users[i].Balance = newBalance

			if err := r.save(ctx, users); err != nil {
				return domain.User{}, err
			}

			return users[i], nil
		}
	}

	return domain.User{}, domain.ErrUserNotFound
}

// UpdatePassword overwrites the password for the given user.
func (r *RepoKV) UpdatePassword(ctx context.Context, id int64, newPassword string) error {
	users, err := r.load(ctx)
	if err != nil {
		return err
	}

	for i := range users {
		if users[i].ID == id {
			users[i].Password = newPassword
			return r.save(ctx, users)
		}
	}

	return domain.ErrUserNotFound
}
