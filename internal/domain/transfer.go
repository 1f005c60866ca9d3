package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrMalformedPayload indicates that the scanned payload is not valid JSON.
	ErrMalformedPayload = errors.New("formato de código QR inválido")
	// ErrInvalidTag indicates that the payload type tag is not a Banco Acme account tag.
	ErrInvalidTag = errors.New("código QR no válido para Banco Acme")
	// ErrIncompletePayload indicates that required payload fields are absent.
	ErrIncompletePayload = errors.New("código QR incompleto")
	// ErrNameMismatch indicates that the claimed holder name does not match the account of record.
	ErrNameMismatch = errors.New("información de cuenta no coincide")
	// ErrSelfTransfer indicates a transfer whose sender and recipient accounts are equal.
	ErrSelfTransfer = errors.New("no puedes enviarte dinero a ti mismo")
)

// QR payload type tags.
const (
	QRTagAccount = "banco_acme_account"
	QRTagPayment = "banco_acme_payment"
)

// QRPayload is the JSON document encoded into account and payment QR codes.
// Amount and Concept are set for payment payloads only.
type QRPayload struct {
	Type          string           `json:"type"`
	AccountNumber string           `json:"accountNumber"`
	AccountName   string           `json:"accountName"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Concept       string           `json:"concept,omitempty"`
	Timestamp     time.Time        `json:"timestamp"`
}

// TransferResult reports both sides of a completed QR transfer.
type TransferResult struct {
	SenderTransaction    Transaction     `json:"sender_transaction"`
	RecipientTransaction Transaction     `json:"recipient_transaction"`
	SenderBalance        decimal.Decimal `json:"sender_balance"`
	RecipientBalance     decimal.Decimal `json:"recipient_balance"`
}
