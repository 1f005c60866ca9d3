package transferservice

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/banco-acme/portal-api/internal/domain"
	"github.com/banco-acme/portal-api/internal/kvstore"
	"github.com/banco-acme/portal-api/internal/sessionrepo"
	"github.com/banco-acme/portal-api/internal/transactionrepo"
	"github.com/banco-acme/portal-api/internal/transactionservice"
	"github.com/banco-acme/portal-api/internal/userrepo"
	"github.com/banco-acme/portal-api/internal/userservice"
	"github.com/banco-acme/portal-api/pkg/randompkg"
)

type testEnv struct {
	service      *Service
	users        *userservice.Service
	transactions *transactionservice.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)

	store, err := kvstore.NewRedisStore(context.Background(), mr.Addr(), "")
	require.NoError(t, err)

	users := userservice.New(userrepo.NewRepoKV(store), sessionrepo.NewRepoKV(store))
	transactions := transactionservice.New(transactionrepo.NewRepoKV(store), users)

	return &testEnv{
		service:      New(users, transactions),
		users:        users,
		transactions: transactions,
	}
}

func (e *testEnv) createUser(t *testing.T, balance int64) domain.User {
	t.Helper()

	ctx := context.Background()

	created, err := e.users.Create(ctx, domain.CreateUserParams{
		IDType:    domain.IDTypeCitizen,
		IDNumber:  randompkg.IDNumber(),
		FirstName: randompkg.Name(),
		LastName:  randompkg.Name(),
		Gender:    "M",
		Phone:     randompkg.Phone(),
		Email:     randompkg.Email(),
		Address:   "Avenida 68 # 22-10",
		City:      "Cali",
		Password:  randompkg.String(10),
	})
	require.NoError(t, err)

	if balance > 0 {
		_, _, err = e.transactions.Deposit(ctx, created.ID, decimal.NewFromInt(balance))
		require.NoError(t, err)
	}

	user, err := e.users.Get(ctx, created.ID)
	require.NoError(t, err)

	return user
}

func TestBuildAccountPayload(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := env.createUser(t, 0)

	payload := env.service.BuildAccountPayload(user)
	require.Equal(t, domain.QRTagAccount, payload.Type)
	require.Equal(t, user.AccountNumber, payload.AccountNumber)
	require.Equal(t, user.FullName(), payload.AccountName)
	require.Nil(t, payload.Amount)
	require.False(t, payload.Timestamp.IsZero())
}

func TestBuildPaymentPayload(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := env.createUser(t, 0)

	payload, err := env.service.BuildPaymentPayload(user, decimal.NewFromInt(25000), "Almuerzo")
	require.NoError(t, err)
	require.Equal(t, domain.QRTagPayment, payload.Type)
	require.NotNil(t, payload.Amount)
	require.True(t, payload.Amount.Equal(decimal.NewFromInt(25000)))
	require.Equal(t, "Almuerzo", payload.Concept)

	_, err = env.service.BuildPaymentPayload(user, decimal.Zero, "Almuerzo")
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestValidatePayload(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := env.createUser(t, 0)
	ctx := context.Background()

	valid, err := json.Marshal(env.service.BuildAccountPayload(user))
	require.NoError(t, err)

	testCases := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{
			name: "OK",
			raw:  string(valid),
		},
		{
			name:    "NotJSON",
			raw:     "plain text, not a payload",
			wantErr: domain.ErrMalformedPayload,
		},
		{
			name:    "WrongTag",
			raw:     `{"type":"otro_banco","accountNumber":"4001123456789","accountName":"Ana Mora"}`,
			wantErr: domain.ErrInvalidTag,
		},
		{
			name:    "MissingFields",
			raw:     `{"type":"banco_acme_account","accountNumber":""}`,
			wantErr: domain.ErrIncompletePayload,
		},
		{
			name:    "UnknownAccount",
			raw:     `{"type":"banco_acme_account","accountNumber":"4001999999999","accountName":"Ana Mora"}`,
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name:    "NameMismatch",
			raw:     `{"type":"banco_acme_account","accountNumber":"` + user.AccountNumber + `","accountName":"Otra Persona"}`,
			wantErr: domain.ErrNameMismatch,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			payload, err := env.service.ValidatePayload(ctx, tc.raw)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, user.AccountNumber, payload.AccountNumber)
		})
	}
}

func TestTransfer(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	sender := env.createUser(t, 100000)
	recipient := env.createUser(t, 0)

	payload := env.service.BuildAccountPayload(recipient)

	result, err := env.service.Transfer(ctx, sender.ID, payload, decimal.NewFromInt(40000), "Arriendo")
	require.NoError(t, err)
	require.True(t, result.SenderBalance.Equal(decimal.NewFromInt(60000)))
	require.True(t, result.RecipientBalance.Equal(decimal.NewFromInt(40000)))
	require.True(t, result.SenderTransaction.Amount.Equal(decimal.NewFromInt(-40000)))
	require.True(t, result.RecipientTransaction.Amount.Equal(decimal.NewFromInt(40000)))
	require.Equal(t, result.SenderTransaction.Reference, result.RecipientTransaction.Reference)
	require.Contains(t, result.SenderTransaction.Concept, recipient.FullName())
	require.Contains(t, result.RecipientTransaction.Concept, sender.FullName())

	// Both sides see the movement in their QR history.
	senderHistory, err := env.service.History(ctx, sender.ID)
	require.NoError(t, err)
	require.Len(t, senderHistory, 1)

	recipientHistory, err := env.service.History(ctx, recipient.ID)
	require.NoError(t, err)
	require.Len(t, recipientHistory, 1)
}

func TestTransferRejections(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	sender := env.createUser(t, 10000)
	recipient := env.createUser(t, 0)

	payload := env.service.BuildAccountPayload(recipient)

	_, err := env.service.Transfer(ctx, sender.ID, payload, decimal.Zero, "Nada")
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = env.service.Transfer(ctx, sender.ID, payload, decimal.NewFromInt(20000), "Mucho")
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	self := env.service.BuildAccountPayload(sender)

	_, err = env.service.Transfer(ctx, sender.ID, self, decimal.NewFromInt(5000), "Yo mismo")
	require.ErrorIs(t, err, domain.ErrSelfTransfer)

	// Rejections leave balances untouched.
	current, err := env.users.Get(ctx, sender.ID)
	require.NoError(t, err)
	require.True(t, current.Balance.Equal(decimal.NewFromInt(10000)))
}

func TestHistoryFiltersNonQRMovements(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser(t, 50000)

	history, err := env.service.History(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, history)
}
