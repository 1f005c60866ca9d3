// Package transactiondelivery manages delivery layer of transactions.
package transactiondelivery

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/banco-acme/portal-api/internal/domain"
	"github.com/banco-acme/portal-api/internal/middleware"
	"github.com/banco-acme/portal-api/pkg/errorspkg"
	"github.com/banco-acme/portal-api/pkg/moneypkg"
	"github.com/banco-acme/portal-api/pkg/tokenpkg"
	"github.com/banco-acme/portal-api/pkg/web"
)

// The dashboard shows this many transactions by default.
const defaultListLimit = 10

// Service provides service layer interface needed by transaction delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transactiondelivery
type Service interface {
	Deposit(ctx context.Context, userID int64, amount decimal.Decimal) (domain.Transaction, decimal.Decimal, error)
	Withdraw(ctx context.Context, userID int64, amount decimal.Decimal) (domain.Transaction, decimal.Decimal, error)
	PayService(ctx context.Context, userID int64, serviceType, serviceReference string, amount decimal.Decimal) (domain.Transaction, decimal.Decimal, error)
	List(ctx context.Context, userID int64, limit int) ([]domain.Transaction, error)
	ListByMonth(ctx context.Context, userID int64, year, month int) ([]domain.Transaction, error)
}

// Handler facilitates transaction delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transaction handler.
func NewHandler(ts Service) Handler {
	return Handler{service: ts}
}

func bindErrorMsg(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		field := ve[0]
		return field.Field() + web.GetErrorMsg(field)
	}

	return "por favor complete todos los campos con datos válidos"
}

type operationData struct {
	Transaction      domain.Transaction `json:"transaction"`
	Balance          string             `json:"balance"`
	BalanceFormatted string             `json:"balance_formatted"`
}

type operationResponse struct {
	Message string        `json:"message,omitempty"`
	Data    operationData `json:"data,omitempty"`
}

func operationError(gctx *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrInsufficientBalance):
		gctx.JSON(http.StatusBadRequest, web.Error(err))
	case errors.Is(err, domain.ErrUserNotFound):
		gctx.JSON(http.StatusNotFound, web.Error(err))
	default:
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
	}
}

type amountRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// Deposit handles http request to credit the account.
func (h *Handler) Deposit(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req amountRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(domain.ErrInvalidAmount))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	transaction, balance, err := h.service.Deposit(ctx, authPayload.UserID, amount)
	if err != nil {
		operationError(gctx, err)
		return
	}

	res := operationResponse{
		Message: fmt.Sprintf("Consignación realizada exitosamente. Nuevo saldo: %s", moneypkg.FormatCOP(balance)),
		Data: operationData{
			Transaction:      transaction,
			Balance:          balance.String(),
			BalanceFormatted: moneypkg.FormatCOP(balance),
		},
	}

	gctx.JSON(http.StatusOK, res)
}

// Withdraw handles http request to debit the account.
func (h *Handler) Withdraw(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req amountRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(domain.ErrInvalidAmount))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	transaction, balance, err := h.service.Withdraw(ctx, authPayload.UserID, amount)
	if err != nil {
		operationError(gctx, err)
		return
	}

	res := operationResponse{
		Message: fmt.Sprintf("Retiro realizado exitosamente. Nuevo saldo: %s", moneypkg.FormatCOP(balance)),
		Data: operationData{
			Transaction:      transaction,
			Balance:          balance.String(),
			BalanceFormatted: moneypkg.FormatCOP(balance),
		},
	}

	gctx.JSON(http.StatusOK, res)
}

type paymentRequest struct {
	ServiceType      string `json:"service_type" binding:"required"`
	ServiceReference string `json:"service_reference" binding:"required"`
	Amount           string `json:"amount" binding:"required"`
}

// Pay handles http request to pay a utility bill.
func (h *Handler) Pay(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req paymentRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(domain.ErrInvalidAmount))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	transaction, balance, err := h.service.PayService(ctx, authPayload.UserID, req.ServiceType, req.ServiceReference, amount)
	if err != nil {
		operationError(gctx, err)
		return
	}

	res := operationResponse{
		Message: fmt.Sprintf("Pago de %s realizado exitosamente. Nuevo saldo: %s",
			req.ServiceType, moneypkg.FormatCOP(balance)),
		Data: operationData{
			Transaction:      transaction,
			Balance:          balance.String(),
			BalanceFormatted: moneypkg.FormatCOP(balance),
		},
	}

	gctx.JSON(http.StatusOK, res)
}

type listRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

type transactionsData struct {
	Transactions []domain.Transaction `json:"transactions"`
}

type transactionsResponse struct {
	Data transactionsData `json:"data,omitempty"`
}

// List handles http request for the recent transactions table.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	if req.Limit == 0 {
		req.Limit = defaultListLimit
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	transactions, err := h.service.List(ctx, authPayload.UserID, req.Limit)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(http.StatusOK, transactionsResponse{Data: transactionsData{transactions}})
}

type statementRequest struct {
	Year  int `uri:"year" binding:"required,min=2000,max=2100"`
	Month int `uri:"month" binding:"required,min=1,max=12"`
}

// Statement handles http request for the monthly statement.
func (h *Handler) Statement(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req statementRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	transactions, err := h.service.ListByMonth(ctx, authPayload.UserID, req.Year, req.Month)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(http.StatusOK, transactionsResponse{Data: transactionsData{transactions}})
}
