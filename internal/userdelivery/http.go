// Package userdelivery manages delivery layer of users.
package userdelivery

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/banco-acme/portal-api/internal/domain"
	"github.com/banco-acme/portal-api/internal/middleware"
	"github.com/banco-acme/portal-api/pkg/configpkg"
	"github.com/banco-acme/portal-api/pkg/errorspkg"
	"github.com/banco-acme/portal-api/pkg/moneypkg"
	"github.com/banco-acme/portal-api/pkg/tokenpkg"
	"github.com/banco-acme/portal-api/pkg/web"
)

// Service provides service layer interface needed by user delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package userdelivery
type Service interface {
	Create(ctx context.Context, arg domain.CreateUserParams) (domain.UserWithoutPassword, error)
	Authenticate(ctx context.Context, idType, idNumber, password string) (domain.User, error)
	Logout(ctx context.Context) error
	Get(ctx context.Context, id int64) (domain.User, error)
	FindByCredentials(ctx context.Context, idType, idNumber, email string) (domain.UserWithoutPassword, error)
	UpdatePassword(ctx context.Context, id int64, newPassword string) error
}

// Handler facilitates user delivery layer logic.
type Handler struct {
	service    Service
	tokenMaker tokenpkg.Maker
	config     configpkg.Config
}

// NewHandler returns user handler.
func NewHandler(us Service, tm tokenpkg.Maker, config configpkg.Config) Handler {
	return Handler{
		service:    us,
		tokenMaker: tm,
		config:     config,
	}
}

func bindErrorMsg(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		field := ve[0]
		return field.Field() + web.GetErrorMsg(field)
	}

	return "por favor complete todos los campos obligatorios"
}

type userData struct {
	User domain.UserWithoutPassword `json:"user"`
}

type userResponse struct {
	Data userData `json:"data,omitempty"`
}

type createRequest struct {
	IDType    string `json:"id_type" binding:"required,idtype"`
	IDNumber  string `json:"id_number" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Gender    string `json:"gender" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Address   string `json:"address" binding:"required"`
	City      string `json:"city" binding:"required"`
	Password  string `json:"password" binding:"required,min=6"`
}

// Create handles http request to register a user.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	arg := domain.CreateUserParams{
		IDType:    req.IDType,
		IDNumber:  req.IDNumber,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Gender:    req.Gender,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
		City:      req.City,
		Password:  req.Password,
	}

	createdUser, err := h.service.Create(ctx, arg)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateIdentity) {
			gctx.JSON(http.StatusConflict, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, userResponse{Data: userData{createdUser}})
}

type loginRequest struct {
	IDType   string `json:"id_type" binding:"required,idtype"`
	IDNumber string `json:"id_number" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles http request to authenticate a user. On success it issues
// an access token; the matched user becomes the current session snapshot.
func (h *Handler) Login(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req loginRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	user, err := h.service.Authenticate(ctx, req.IDType, req.IDNumber, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			gctx.JSON(http.StatusUnauthorized, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	accessToken, payload, err := h.tokenMaker.CreateToken(user.ID, h.config.AccessTokenDuration)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := web.Response{
		AccessToken:          accessToken,
		AccessTokenExpiresAt: payload.ExpiredAt.Format(time.RFC3339),
		Data:                 userData{h.withoutPassword(user)},
	}

	gctx.JSON(http.StatusOK, res)
}

func (h *Handler) withoutPassword(u domain.User) domain.UserWithoutPassword {
	return domain.UserWithoutPassword{
		ID:            u.ID,
		IDType:        u.IDType,
		IDNumber:      u.IDNumber,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Gender:        u.Gender,
		Phone:         u.Phone,
		Email:         u.Email,
		Address:       u.Address,
		City:          u.City,
		AccountNumber: u.AccountNumber,
		Balance:       u.Balance,
		CreatedAt:     u.CreatedAt,
	}
}

// Logout handles http request to clear the session snapshot.
func (h *Handler) Logout(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	if err := h.service.Logout(ctx); err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Message: "sesión cerrada"})
}

type recoverRequest struct {
	IDType   string `json:"id_type" binding:"required,idtype"`
	IDNumber string `json:"id_number" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

type recoverData struct {
	UserID int64 `json:"user_id"`
}

type recoverResponse struct {
	Data recoverData `json:"data,omitempty"`
}

// Recover handles http request to verify identity for password recovery.
func (h *Handler) Recover(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req recoverRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	user, err := h.service.FindByCredentials(ctx, req.IDType, req.IDNumber, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			gctx.JSON(http.StatusNotFound,
				web.Response{Error: "los datos ingresados no coinciden con ninguna cuenta registrada"})

			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, recoverResponse{Data: recoverData{UserID: user.ID}})
}

type updatePasswordRequest struct {
	UserID          int64  `json:"user_id" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=NewPassword"`
}

// UpdatePassword handles http request to set a new password after recovery.
func (h *Handler) UpdatePassword(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req updatePasswordRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	if err := h.service.UpdatePassword(ctx, req.UserID, req.NewPassword); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Message: "contraseña actualizada exitosamente"})
}

type summaryData struct {
	AccountNumber    string    `json:"account_number"`
	Balance          string    `json:"balance"`
	BalanceFormatted string    `json:"balance_formatted"`
	CreatedAt        time.Time `json:"created_at"`
}

type summaryResponse struct {
	Data summaryData `json:"data,omitempty"`
}

// Account handles http request for the account summary.
func (h *Handler) Account(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	user, err := h.service.Get(ctx, authPayload.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := summaryResponse{
		Data: summaryData{
			AccountNumber:    user.AccountNumber,
			Balance:          user.Balance.String(),
			BalanceFormatted: moneypkg.FormatCOP(user.Balance),
			CreatedAt:        user.CreatedAt,
		},
	}

	gctx.JSON(http.StatusOK, res)
}

type certificateData struct {
	Certificate domain.Certificate `json:"certificate"`
}

type certificateResponse struct {
	Data certificateData `json:"data,omitempty"`
}

// Certificate handles http request for the bank certificate data.
func (h *Handler) Certificate(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	user, err := h.service.Get(ctx, authPayload.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	certificate := domain.Certificate{
		HolderName:       user.FullName(),
		IDTypeName:       domain.IDTypeNames[user.IDType],
		IDNumber:         user.IDNumber,
		AccountNumber:    user.AccountNumber,
		AccountCreatedAt: user.CreatedAt,
		IssuedAt:         time.Now().UTC(),
	}

	gctx.JSON(http.StatusOK, certificateResponse{Data: certificateData{certificate}})
}
