// Package transferservice manages business logic layer of QR transfers.
package transferservice

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/banco-acme/portal-api/internal/domain"
)

// UserService provides the account operations needed by the transfer service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transferservice
type UserService interface {
	Get(ctx context.Context, id int64) (domain.User, error)
	GetByAccountNumber(ctx context.Context, accountNumber string) (domain.User, error)
	UpdateBalance(ctx context.Context, id int64, newBalance decimal.Decimal) (domain.User, error)
}

// TransactionService provides the ledger operations needed by the transfer service layer.
type TransactionService interface {
	Record(ctx context.Context, userID int64, kind, concept string, amount decimal.Decimal, reference string) (domain.Transaction, error)
	List(ctx context.Context, userID int64, limit int) ([]domain.Transaction, error)
}

// Service facilitates QR transfer service layer logic.
type Service struct {
	userService        UserService
	transactionService TransactionService
}

// New returns transfer service struct to manage QR transfer business logic.
func New(us UserService, ts TransactionService) *Service {
	return &Service{
		userService:        us,
		transactionService: ts,
	}
}

// BuildAccountPayload produces the JSON document encoded into the user's
// account QR code.
func (s *Service) BuildAccountPayload(user domain.User) domain.QRPayload {
	return domain.QRPayload{
		Type:          domain.QRTagAccount,
		AccountNumber: user.AccountNumber,
		AccountName:   user.FullName(),
		Timestamp:     time.Now().UTC(),
	}
}

// BuildPaymentPayload produces a payment-request payload carrying the amount
// and concept alongside the account identity.
func (s *Service) BuildPaymentPayload(user domain.User, amount decimal.Decimal, concept string) (domain.QRPayload, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.QRPayload{}, domain.ErrInvalidAmount
	}

	return domain.QRPayload{
		Type:          domain.QRTagPayment,
		AccountNumber: user.AccountNumber,
		AccountName:   user.FullName(),
		Amount:        &amount,
		Concept:       concept,
		Timestamp:     time.Now().UTC(),
	}, nil
}

// ValidatePayload parses a scanned payload and checks it against the
// accounts of record. Checks run in a fixed order: JSON shape, type tag,
// required fields, account existence, holder name.
func (s *Service) ValidatePayload(ctx context.Context, raw string) (domain.QRPayload, error) {
	l := zerolog.Ctx(ctx)

	var payload domain.QRPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		l.Info().Err(err).Send()
		return domain.QRPayload{}, domain.ErrMalformedPayload
	}

	if payload.Type != domain.QRTagAccount {
		return domain.QRPayload{}, domain.ErrInvalidTag
	}

	if payload.AccountNumber == "" || payload.AccountName == "" {
		return domain.QRPayload{}, domain.ErrIncompletePayload
	}

	account, err := s.userService.GetByAccountNumber(ctx, payload.AccountNumber)
	if err != nil {
		return domain.QRPayload{}, err
	}

	if account.FullName() != payload.AccountName {
		return domain.QRPayload{}, domain.ErrNameMismatch
	}

	return payload, nil
}

// Transfer moves the amount from the sender to the account named by the
// recipient payload: one debit and one credit transaction with linked
// references, then both balance updates. The four writes are independent
// and there is no rollback; an error after a partial write leaves the
// ledger inconsistent.
func (s *Service) Transfer(ctx context.Context, senderID int64, recipient domain.QRPayload, amount decimal.Decimal, concept string) (domain.TransferResult, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.TransferResult{}, domain.ErrInvalidAmount
	}

	sender, err := s.userService.Get(ctx, senderID)
	if err != nil {
		return domain.TransferResult{}, err
	}

	if amount.GreaterThan(sender.Balance) {
		return domain.TransferResult{}, domain.ErrInsufficientBalance
	}

	if recipient.AccountNumber == sender.AccountNumber {
		return domain.TransferResult{}, domain.ErrSelfTransfer
	}

	recipientUser, err := s.userService.GetByAccountNumber(ctx, recipient.AccountNumber)
	if err != nil {
		return domain.TransferResult{}, err
	}

	reference := fmt.Sprintf("QR-%d", time.Now().UnixMilli())

	senderConcept := fmt.Sprintf("Pago QR: %s - A: %s", concept, recipientUser.FullName())

	senderTransaction, err := s.transactionService.Record(
		ctx, sender.ID, domain.TransactionQRTransfer, senderConcept, amount.Neg(), reference)
	if err != nil {
		return domain.TransferResult{}, err
	}

	recipientConcept := fmt.Sprintf("Pago QR recibido: %s - De: %s", concept, sender.FullName())

	recipientTransaction, err := s.transactionService.Record(
		ctx, recipientUser.ID, domain.TransactionQRTransfer, recipientConcept, amount, reference)
	if err != nil {
		return domain.TransferResult{}, err
	}

	updatedSender, err := s.userService.UpdateBalance(ctx, sender.ID, sender.Balance.Sub(amount))
	if err != nil {
		return domain.TransferResult{}, err
	}

	updatedRecipient, err := s.userService.UpdateBalance(ctx, recipientUser.ID, recipientUser.Balance.Add(amount))
	if err != nil {
		return domain.TransferResult{}, err
	}

	return domain.TransferResult{
		SenderTransaction:    senderTransaction,
		RecipientTransaction: recipientTransaction,
		SenderBalance:        updatedSender.Balance,
		RecipientBalance:     updatedRecipient.Balance,
	}, nil
}

// History returns the user's QR transfer transactions, newest first.
func (s *Service) History(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	transactions, err := s.transactionService.List(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	filtered := []domain.Transaction{}

	for _, t := range transactions {
		if t.Type == domain.TransactionQRTransfer {
			filtered = append(filtered, t)
		}
	}

	return filtered, nil
}
