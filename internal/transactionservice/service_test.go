package transactionservice

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/banco-acme/portal-api/internal/domain"
	"github.com/banco-acme/portal-api/internal/kvstore"
	"github.com/banco-acme/portal-api/internal/sessionrepo"
	"github.com/banco-acme/portal-api/internal/transactionrepo"
	"github.com/banco-acme/portal-api/internal/userrepo"
	"github.com/banco-acme/portal-api/internal/userservice"
	"github.com/banco-acme/portal-api/pkg/randompkg"
)

func testService(t *testing.T) (*Service, int64) {
	t.Helper()

	mr := miniredis.RunT(t)

	store, err := kvstore.NewRedisStore(context.Background(), mr.Addr(), "")
	require.NoError(t, err)

	users := userservice.New(userrepo.NewRepoKV(store), sessionrepo.NewRepoKV(store))

	user, err := users.Create(context.Background(), domain.CreateUserParams{
		IDType:    domain.IDTypeCitizen,
		IDNumber:  randompkg.IDNumber(),
		FirstName: randompkg.Name(),
		LastName:  randompkg.Name(),
		Gender:    "F",
		Phone:     randompkg.Phone(),
		Email:     randompkg.Email(),
		Address:   "Calle 10 # 43-12",
		City:      "Bogotá",
		Password:  randompkg.String(10),
	})
	require.NoError(t, err)

	return New(transactionrepo.NewRepoKV(store), users), user.ID
}

func TestOperationsFlow(t *testing.T) {
	t.Parallel()

	service, userID := testService(t)
	ctx := context.Background()

	transaction, balance, err := service.Deposit(ctx, userID, decimal.NewFromInt(100000))
	require.NoError(t, err)
	require.True(t, balance.Equal(decimal.NewFromInt(100000)))
	require.Equal(t, domain.TransactionDeposit, transaction.Type)
	require.True(t, transaction.Amount.Equal(decimal.NewFromInt(100000)))
	require.Len(t, transaction.Reference, 9)

	transaction, balance, err = service.Withdraw(ctx, userID, decimal.NewFromInt(30000))
	require.NoError(t, err)
	require.True(t, balance.Equal(decimal.NewFromInt(70000)))
	require.Equal(t, domain.TransactionWithdrawal, transaction.Type)
	require.True(t, transaction.Amount.Equal(decimal.NewFromInt(-30000)))

	// Rejected withdrawal leaves balance and history untouched.
	_, _, err = service.Withdraw(ctx, userID, decimal.NewFromInt(80000))
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	history, err := service.List(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, domain.TransactionWithdrawal, history[0].Type)
	require.Equal(t, domain.TransactionDeposit, history[1].Type)
}

func TestInvalidAmounts(t *testing.T) {
	t.Parallel()

	service, userID := testService(t)
	ctx := context.Background()

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-100)} {
		_, _, err := service.Deposit(ctx, userID, amount)
		require.ErrorIs(t, err, domain.ErrInvalidAmount)

		_, _, err = service.Withdraw(ctx, userID, amount)
		require.ErrorIs(t, err, domain.ErrInvalidAmount)

		_, _, err = service.PayService(ctx, userID, "Energía", "12345", amount)
		require.ErrorIs(t, err, domain.ErrInvalidAmount)
	}
}

func TestPayService(t *testing.T) {
	t.Parallel()

	service, userID := testService(t)
	ctx := context.Background()

	_, _, err := service.Deposit(ctx, userID, decimal.NewFromInt(50000))
	require.NoError(t, err)

	transaction, balance, err := service.PayService(ctx, userID, "Energía", "FAC-991", decimal.NewFromInt(20000))
	require.NoError(t, err)
	require.True(t, balance.Equal(decimal.NewFromInt(30000)))
	require.Equal(t, domain.TransactionPayment, transaction.Type)
	require.Equal(t, "Pago de Energía - Ref: FAC-991", transaction.Concept)
	require.True(t, transaction.Amount.Equal(decimal.NewFromInt(-20000)))

	_, _, err = service.PayService(ctx, userID, "Agua", "FAC-992", decimal.NewFromInt(40000))
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)
}

func TestListLimit(t *testing.T) {
	t.Parallel()

	service, userID := testService(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		_, _, err := service.Deposit(ctx, userID, decimal.NewFromInt(1000))
		require.NoError(t, err)
	}

	history, err := service.List(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, history, 10)

	full, err := service.List(ctx, userID, 0)
	require.NoError(t, err)
	require.Len(t, full, 12)

	for i := 1; i < len(full); i++ {
		require.False(t, full[i].Date.After(full[i-1].Date))
	}
}

func TestListByMonth(t *testing.T) {
	t.Parallel()

	service, userID := testService(t)
	ctx := context.Background()

	_, _, err := service.Deposit(ctx, userID, decimal.NewFromInt(5000))
	require.NoError(t, err)

	now := transactionMonth(t, service, userID)

	current, err := service.ListByMonth(ctx, userID, now.year, now.month)
	require.NoError(t, err)
	require.Len(t, current, 1)

	empty, err := service.ListByMonth(ctx, userID, now.year-1, now.month)
	require.NoError(t, err)
	require.Empty(t, empty)
}

type yearMonth struct {
	year  int
	month int
}

func transactionMonth(t *testing.T, service *Service, userID int64) yearMonth {
	t.Helper()

	history, err := service.List(context.Background(), userID, 1)
	require.NoError(t, err)
	require.NotEmpty(t, history)

	date := history[0].Date

	return yearMonth{year: date.Year(), month: int(date.Month())}
}
