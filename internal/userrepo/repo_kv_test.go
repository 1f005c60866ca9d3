package userrepo

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/banco-acme/portal-api/internal/domain"
	"github.com/banco-acme/portal-api/internal/kvstore"
	"github.com/banco-acme/portal-api/pkg/randompkg"
)

func testRepo(t *testing.T) *RepoKV {
	t.Helper()

	mr := miniredis.RunT(t)

	store, err := kvstore.NewRedisStore(context.Background(), mr.Addr(), "")
	require.NoError(t, err)

	return NewRepoKV(store)
}

func randomUser() domain.User {
	now := time.Now().UTC()

	return domain.User{
		ID:            now.UnixNano(),
		IDType:        domain.IDTypeCitizen,
		IDNumber:      randompkg.IDNumber(),
		FirstName:     randompkg.Name(),
		LastName:      randompkg.Name(),
		Gender:        "F",
		Phone:         randompkg.Phone(),
		Email:         randompkg.Email(),
		Address:       "Calle 1 # 2-3",
		City:          "Bogotá",
		Password:      randompkg.String(10),
		AccountNumber: "4001" + randompkg.Digits(9),
		Balance:       decimal.Zero,
		CreatedAt:     now,
	}
}

func TestCreateAndGet(t *testing.T) {
	t.Parallel()

	repo := testRepo(t)
	ctx := context.Background()

	user := randomUser()

	created, err := repo.Create(ctx, user)
	require.NoError(t, err)
	require.Equal(t, user, created)

	got, err := repo.Get(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, user.IDNumber, got.IDNumber)
	require.True(t, got.Balance.Equal(decimal.Zero))

	_, err = repo.Get(ctx, user.ID+1)
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestCreateDuplicateIdentity(t *testing.T) {
	t.Parallel()

	repo := testRepo(t)
	ctx := context.Background()

	user := randomUser()

	_, err := repo.Create(ctx, user)
	require.NoError(t, err)

	duplicate := randomUser()
	duplicate.IDType = user.IDType
	duplicate.IDNumber = user.IDNumber

	_, err = repo.Create(ctx, duplicate)
	require.ErrorIs(t, err, domain.ErrDuplicateIdentity)

	// Same document number under another document type is a different identity.
	other := randomUser()
	other.IDType = domain.IDTypePassport
	other.IDNumber = user.IDNumber

	_, err = repo.Create(ctx, other)
	require.NoError(t, err)
}

func TestGetByLogin(t *testing.T) {
	t.Parallel()

	repo := testRepo(t)
	ctx := context.Background()

	user := randomUser()

	_, err := repo.Create(ctx, user)
	require.NoError(t, err)

	got, err := repo.GetByLogin(ctx, user.IDType, user.IDNumber, user.Password)
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	_, err = repo.GetByLogin(ctx, user.IDType, user.IDNumber, "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestGetByAccountNumber(t *testing.T) {
	t.Parallel()

	repo := testRepo(t)
	ctx := context.Background()

	user := randomUser()

	_, err := repo.Create(ctx, user)
	require.NoError(t, err)

	got, err := repo.GetByAccountNumber(ctx, user.AccountNumber)
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	_, err = repo.GetByAccountNumber(ctx, "4001000000000")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestUpdateBalance(t *testing.T) {
	t.Parallel()

	repo := testRepo(t)
	ctx := context.Background()

	user := randomUser()

	_, err := repo.Create(ctx, user)
	require.NoError(t, err)

	newBalance := decimal.NewFromInt(100000)

	updated, err := repo.UpdateBalance(ctx, user.ID, newBalance)
	require.NoError(t, err)
	require.True(t, updated.Balance.Equal(newBalance))

	got, err := repo.Get(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, got.Balance.Equal(newBalance))

	_, err = repo.UpdateBalance(ctx, user.ID+1, newBalance)
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUpdatePassword(t *testing.T) {
	t.Parallel()

	repo := testRepo(t)
	ctx := context.Background()

	user := randomUser()

	_, err := repo.Create(ctx, user)
	require.NoError(t, err)

	require.NoError(t, repo.UpdatePassword(ctx, user.ID, "newsecret"))

	_, err = repo.GetByLogin(ctx, user.IDType, user.IDNumber, user.Password)
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	got, err := repo.GetByLogin(ctx, user.IDType, user.IDNumber, "newsecret")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	require.ErrorIs(t, repo.UpdatePassword(ctx, user.ID+1, "x"), domain.ErrUserNotFound)
}

func TestGetByCredentials(t *testing.T) {
	t.Parallel()

	repo := testRepo(t)
	ctx := context.Background()

	user := randomUser()

	_, err := repo.Create(ctx, user)
	require.NoError(t, err)

	got, err := repo.GetByCredentials(ctx, user.IDType, user.IDNumber, user.Email)
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	_, err = repo.GetByCredentials(ctx, user.IDType, user.IDNumber, "other@email.com")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}
