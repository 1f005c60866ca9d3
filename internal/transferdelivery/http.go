// Package transferdelivery manages delivery layer of QR transfers.
package transferdelivery

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/banco-acme/portal-api/internal/domain"
	"github.com/banco-acme/portal-api/internal/middleware"
	"github.com/banco-acme/portal-api/pkg/errorspkg"
	"github.com/banco-acme/portal-api/pkg/tokenpkg"
	"github.com/banco-acme/portal-api/pkg/web"
)

const qrImageSize = 256

// Service provides service layer interface needed by transfer delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transferdelivery
type Service interface {
	BuildAccountPayload(user domain.User) domain.QRPayload
	BuildPaymentPayload(user domain.User, amount decimal.Decimal, concept string) (domain.QRPayload, error)
	ValidatePayload(ctx context.Context, raw string) (domain.QRPayload, error)
	Transfer(ctx context.Context, senderID int64, recipient domain.QRPayload, amount decimal.Decimal, concept string) (domain.TransferResult, error)
	History(ctx context.Context, userID int64) ([]domain.Transaction, error)
}

// UserService resolves the authenticated user for QR generation.
type UserService interface {
	Get(ctx context.Context, id int64) (domain.User, error)
}

// Handler facilitates transfer delivery layer logic.
type Handler struct {
	service     Service
	userService UserService
}

// NewHandler returns transfer handler.
func NewHandler(ts Service, us UserService) Handler {
	return Handler{
		service:     ts,
		userService: us,
	}
}

func bindErrorMsg(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		field := ve[0]
		return field.Field() + web.GetErrorMsg(field)
	}

	return "por favor complete todos los campos con datos válidos"
}

func transferError(gctx *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrMalformedPayload),
		errors.Is(err, domain.ErrInvalidTag),
		errors.Is(err, domain.ErrIncompletePayload),
		errors.Is(err, domain.ErrNameMismatch),
		errors.Is(err, domain.ErrSelfTransfer),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInsufficientBalance):
		gctx.JSON(http.StatusBadRequest, web.Error(err))
	case errors.Is(err, domain.ErrAccountNotFound), errors.Is(err, domain.ErrUserNotFound):
		gctx.JSON(http.StatusNotFound, web.Error(err))
	default:
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
	}
}

// QR handles http request for the account QR code PNG.
func (h *Handler) QR(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	user, err := h.userService.Get(ctx, authPayload.UserID)
	if err != nil {
		transferError(gctx, err)
		return
	}

	payload := h.service.BuildAccountPayload(user)

	raw, err := json.Marshal(payload)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	png, err := qrcode.Encode(string(raw), qrcode.Medium, qrImageSize)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.Data(http.StatusOK, "image/png", png)
}

type paymentQRRequest struct {
	Amount  string `json:"amount" binding:"required"`
	Concept string `json:"concept" binding:"required"`
}

type paymentQRData struct {
	Payload  domain.QRPayload `json:"payload"`
	ImageURL string           `json:"image_url"`
}

type paymentQRResponse struct {
	Data paymentQRData `json:"data,omitempty"`
}

// PaymentQR handles http request to build a payment-request QR code.
func (h *Handler) PaymentQR(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req paymentQRRequest
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

	user, err := h.userService.Get(ctx, authPayload.UserID)
	if err != nil {
		transferError(gctx, err)
		return
	}

	payload, err := h.service.BuildPaymentPayload(user, amount, req.Concept)
	if err != nil {
		transferError(gctx, err)
		return
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	png, err := qrcode.Encode(string(raw), qrcode.Medium, qrImageSize)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := paymentQRResponse{
		Data: paymentQRData{
			Payload:  payload,
			ImageURL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		},
	}

	gctx.JSON(http.StatusOK, res)
}

type createRequest struct {
	Payload string `json:"payload" binding:"required"`
	Amount  string `json:"amount" binding:"required"`
	Concept string `json:"concept" binding:"required"`
}

type transferData struct {
	Result domain.TransferResult `json:"result"`
}

type transferResponse struct {
	Message string       `json:"message,omitempty"`
	Data    transferData `json:"data,omitempty"`
}

// Create handles http request to execute a QR transfer.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req createRequest
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

	recipient, err := h.service.ValidatePayload(ctx, req.Payload)
	if err != nil {
		transferError(gctx, err)
		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	result, err := h.service.Transfer(ctx, authPayload.UserID, recipient, amount, req.Concept)
	if err != nil {
		transferError(gctx, err)
		return
	}

	res := transferResponse{
		Message: "Pago realizado exitosamente",
		Data:    transferData{Result: result},
	}

	gctx.JSON(http.StatusOK, res)
}

type historyData struct {
	Transactions []domain.Transaction `json:"transactions"`
}

type historyResponse struct {
	Data historyData `json:"data,omitempty"`
}

// History handles http request for the QR transfer history.
func (h *Handler) History(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	transactions, err := h.service.History(ctx, authPayload.UserID)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(http.StatusOK, historyResponse{Data: historyData{transactions}})
}
