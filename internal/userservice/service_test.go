package userservice

import (
	"context"
	"regexp"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/banco-acme/portal-api/internal/domain"
	"github.com/banco-acme/portal-api/internal/kvstore"
	"github.com/banco-acme/portal-api/internal/sessionrepo"
	"github.com/banco-acme/portal-api/internal/userrepo"
	"github.com/banco-acme/portal-api/pkg/randompkg"
)

var accountNumberPattern = regexp.MustCompile(`^4001\d{9}$`)

func testService(t *testing.T) (*Service, *sessionrepo.RepoKV) {
	t.Helper()

	mr := miniredis.RunT(t)

	store, err := kvstore.NewRedisStore(context.Background(), mr.Addr(), "")
	require.NoError(t, err)

	sessionRepo := sessionrepo.NewRepoKV(store)

	return New(userrepo.NewRepoKV(store), sessionRepo), sessionRepo
}

func createParams() domain.CreateUserParams {
	return domain.CreateUserParams{
		IDType:    domain.IDTypeCitizen,
		IDNumber:  randompkg.IDNumber(),
		FirstName: randompkg.Name(),
		LastName:  randompkg.Name(),
		Gender:    "M",
		Phone:     randompkg.Phone(),
		Email:     randompkg.Email(),
		Address:   "Carrera 7 # 12-34",
		City:      "Medellín",
		Password:  randompkg.String(10),
	}
}

func TestCreate(t *testing.T) {
	t.Parallel()

	service, _ := testService(t)
	ctx := context.Background()

	arg := createParams()

	user, err := service.Create(ctx, arg)
	require.NoError(t, err)
	require.Regexp(t, accountNumberPattern, user.AccountNumber)
	require.Len(t, user.AccountNumber, 13)
	require.True(t, user.Balance.Equal(decimal.Zero))
	require.NotZero(t, user.ID)
	require.False(t, user.CreatedAt.IsZero())
}

func TestCreateDuplicateIdentity(t *testing.T) {
	t.Parallel()

	service, _ := testService(t)
	ctx := context.Background()

	arg := createParams()

	_, err := service.Create(ctx, arg)
	require.NoError(t, err)

	arg.Email = randompkg.Email()

	_, err = service.Create(ctx, arg)
	require.ErrorIs(t, err, domain.ErrDuplicateIdentity)
}

func TestCreateAssignsDistinctAccountNumbers(t *testing.T) {
	t.Parallel()

	service, _ := testService(t)
	ctx := context.Background()

	seen := map[string]bool{}

	for i := 0; i < 10; i++ {
		user, err := service.Create(ctx, createParams())
		require.NoError(t, err)
		require.False(t, seen[user.AccountNumber], "account number %v assigned twice", user.AccountNumber)

		seen[user.AccountNumber] = true
	}
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	service, sessionRepo := testService(t)
	ctx := context.Background()

	arg := createParams()

	created, err := service.Create(ctx, arg)
	require.NoError(t, err)

	user, err := service.Authenticate(ctx, arg.IDType, arg.IDNumber, arg.Password)
	require.NoError(t, err)
	require.Equal(t, created.ID, user.ID)

	// Login stores the matched user as the session snapshot.
	current, err := sessionRepo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, created.ID, current.ID)

	_, err = service.Authenticate(ctx, arg.IDType, arg.IDNumber, "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = service.Authenticate(ctx, domain.IDTypePassport, arg.IDNumber, arg.Password)
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogout(t *testing.T) {
	t.Parallel()

	service, sessionRepo := testService(t)
	ctx := context.Background()

	arg := createParams()

	_, err := service.Create(ctx, arg)
	require.NoError(t, err)

	_, err = service.Authenticate(ctx, arg.IDType, arg.IDNumber, arg.Password)
	require.NoError(t, err)

	require.NoError(t, service.Logout(ctx))

	_, err = sessionRepo.Get(ctx)
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestUpdateBalanceSyncsSession(t *testing.T) {
	t.Parallel()

	service, sessionRepo := testService(t)
	ctx := context.Background()

	arg := createParams()

	created, err := service.Create(ctx, arg)
	require.NoError(t, err)

	_, err = service.Authenticate(ctx, arg.IDType, arg.IDNumber, arg.Password)
	require.NoError(t, err)

	newBalance := decimal.NewFromInt(70000)

	updated, err := service.UpdateBalance(ctx, created.ID, newBalance)
	require.NoError(t, err)
	require.True(t, updated.Balance.Equal(newBalance))

	current, err := sessionRepo.Get(ctx)
	require.NoError(t, err)
	require.True(t, current.Balance.Equal(newBalance))
}

func TestUpdateBalanceLeavesForeignSession(t *testing.T) {
	t.Parallel()

	service, sessionRepo := testService(t)
	ctx := context.Background()

	first := createParams()

	firstUser, err := service.Create(ctx, first)
	require.NoError(t, err)

	second := createParams()

	_, err = service.Create(ctx, second)
	require.NoError(t, err)

	_, err = service.Authenticate(ctx, second.IDType, second.IDNumber, second.Password)
	require.NoError(t, err)

	_, err = service.UpdateBalance(ctx, firstUser.ID, decimal.NewFromInt(500))
	require.NoError(t, err)

	current, err := sessionRepo.Get(ctx)
	require.NoError(t, err)
	require.True(t, current.Balance.Equal(decimal.Zero))
}

func TestFindByCredentialsAndUpdatePassword(t *testing.T) {
	t.Parallel()

	service, _ := testService(t)
	ctx := context.Background()

	arg := createParams()

	created, err := service.Create(ctx, arg)
	require.NoError(t, err)

	found, err := service.FindByCredentials(ctx, arg.IDType, arg.IDNumber, arg.Email)
	require.NoError(t, err)
	require.Equal(t, created.ID, found.ID)

	_, err = service.FindByCredentials(ctx, arg.IDType, arg.IDNumber, "nope@email.com")
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	require.NoError(t, service.UpdatePassword(ctx, created.ID, "brandnew"))

	_, err = service.Authenticate(ctx, arg.IDType, arg.IDNumber, arg.Password)
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	user, err := service.Authenticate(ctx, arg.IDType, arg.IDNumber, "brandnew")
	require.NoError(t, err)
	require.Equal(t, created.ID, user.ID)
}
