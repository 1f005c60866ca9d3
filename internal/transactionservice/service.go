// Package transactionservice manages business logic layer of transactions.
package transactionservice

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/banco-acme/portal-api/internal/domain"
	"github.com/banco-acme/portal-api/pkg/randompkg"
)

// Repo provides data access layer interface needed by transaction service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transactionservice
type Repo interface {
	Create(ctx context.Context, transaction domain.Transaction) (domain.Transaction, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Transaction, error)
	ListByMonth(ctx context.Context, userID int64, year, month int) ([]domain.Transaction, error)
}

// UserService provides the account operations needed by the financial operations.
type UserService interface {
	Get(ctx context.Context, id int64) (domain.User, error)
	UpdateBalance(ctx context.Context, id int64, newBalance decimal.Decimal) (domain.User, error)
}

// Service facilitates transaction service layer logic.
type Service struct {
	repo        Repo
	userService UserService
}

// New returns transaction service struct to manage transaction business logic.
func New(tr Repo, us UserService) *Service {
	return &Service{
		repo:        tr,
		userService: us,
	}
}

// Record appends a transaction for the user. A 9-digit numeric reference is
// generated when none is supplied. Record does not touch the balance;
// financial operations pair it with a separate balance update.
func (s *Service) Record(ctx context.Context, userID int64, kind, concept string, amount decimal.Decimal, reference string) (domain.Transaction, error) {
	if reference == "" {
		reference = randompkg.Reference()
	}

	now := time.Now().UTC()

	transaction := domain.Transaction{
		ID:        now.UnixNano(),
		UserID:    userID,
		Date:      now,
		Reference: reference,
		Type:      kind,
		Concept:   concept,
		Amount:    amount,
	}

	return s.repo.Create(ctx, transaction)
}

// List returns the user's most recent transactions, newest first. A limit of
// 0 or less returns the full history.
func (s *Service) List(ctx context.Context, userID int64, limit int) ([]domain.Transaction, error) {
	return s.repo.ListByUser(ctx, userID, limit)
}

// ListByMonth returns the user's transactions for the calendar year and
// 1-based month.
func (s *Service) ListByMonth(ctx context.Context, userID int64, year, month int) ([]domain.Transaction, error) {
	return s.repo.ListByMonth(ctx, userID, year, month)
}

// Deposit credits the amount to the user's account. The recorded transaction
// and the balance update are two sequential writes with no rollback between
// them.
func (s *Service) Deposit(ctx context.Context, userID int64, amount decimal.Decimal) (domain.Transaction, decimal.Decimal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.Transaction{}, decimal.Zero, domain.ErrInvalidAmount
	}

	user, err := s.userService.Get(ctx, userID)
	if err != nil {
		return domain.Transaction{}, decimal.Zero, err
	}

	transaction, err := s.Record(ctx, userID, domain.TransactionDeposit, "Consignación por canal electrónico", amount, "")
	if err != nil {
		return domain.Transaction{}, decimal.Zero, err
	}

	updated, err := s.userService.UpdateBalance(ctx, userID, user.Balance.Add(amount))
	if err != nil {
		return domain.Transaction{}, decimal.Zero, err
	}

	return transaction, updated.Balance, nil
}

// Withdraw debits the amount from the user's account after the
// insufficient-funds check. Same non-atomic write pair as Deposit.
func (s *Service) Withdraw(ctx context.Context, userID int64, amount decimal.Decimal) (domain.Transaction, decimal.Decimal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.Transaction{}, decimal.Zero, domain.ErrInvalidAmount
	}

	user, err := s.userService.Get(ctx, userID)
	if err != nil {
		return domain.Transaction{}, decimal.Zero, err
	}

	if amount.GreaterThan(user.Balance) {
		return domain.Transaction{}, decimal.Zero, domain.ErrInsufficientBalance
	}

	transaction, err := s.Record(ctx, userID, domain.TransactionWithdrawal, "Retiro de dinero", amount.Neg(), "")
	if err != nil {
		return domain.Transaction{}, decimal.Zero, err
	}

	updated, err := s.userService.UpdateBalance(ctx, userID, user.Balance.Sub(amount))
	if err != nil {
		return domain.Transaction{}, decimal.Zero, err
	}

	return transaction, updated.Balance, nil
}

// PayService debits a utility payment from the user's account. The service
// reference supplied by the biller goes into the concept, not the ledger
// reference.
func (s *Service) PayService(ctx context.Context, userID int64, serviceType, serviceReference string, amount decimal.Decimal) (domain.Transaction, decimal.Decimal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.Transaction{}, decimal.Zero, domain.ErrInvalidAmount
	}

	user, err := s.userService.Get(ctx, userID)
	if err != nil {
		return domain.Transaction{}, decimal.Zero, err
	}

	if amount.GreaterThan(user.Balance) {
		return domain.Transaction{}, decimal.Zero, domain.ErrInsufficientBalance
	}

	concept := fmt.Sprintf("Pago de %s - Ref: %s", serviceType, serviceReference)

	transaction, err := s.Record(ctx, userID, domain.TransactionPayment, concept, amount.Neg(), "")
	if err != nil {
		return domain.Transaction{}, decimal.Zero, err
	}

	updated, err := s.userService.UpdateBalance(ctx, userID, user.Balance.Sub(amount))
	if err != nil {
		return domain.Transaction{}, decimal.Zero, err
	}

	return transaction, updated.Balance, nil
}
