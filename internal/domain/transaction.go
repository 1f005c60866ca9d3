package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount indicates a non-positive operation amount.
	ErrInvalidAmount = errors.New("el monto debe ser mayor a 0")
	// ErrInsufficientBalance indicates that the account balance does not cover the amount.
	ErrInsufficientBalance = errors.New("fondos insuficientes")
)

// Transaction kinds recorded by the ledger.
const (
	TransactionDeposit    = "Consignación"
	TransactionWithdrawal = "Retiro"
	TransactionPayment    = "Pago de servicios"
	TransactionQRTransfer = "Transferencia QR"
)

// Transaction holds a single append-only ledger movement for a user.
// Amount is signed: positive is a credit, negative is a debit.
type Transaction struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Date      time.Time       `json:"date"`
	Reference string          `json:"reference"`
	Type      string          `json:"type"`
	Concept   string          `json:"concept"`
	Amount    decimal.Decimal `json:"amount"`
}
