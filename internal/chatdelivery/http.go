// Package chatdelivery manages delivery layer of the virtual assistant.
package chatdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/banco-acme/portal-api/internal/domain"
	"github.com/banco-acme/portal-api/pkg/errorspkg"
	"github.com/banco-acme/portal-api/pkg/web"
)

// Service provides service layer interface needed by chat delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package chatdelivery
type Service interface {
	Respond(ctx context.Context, message string) (domain.ChatReply, error)
}

// Handler facilitates chat delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns chat handler.
func NewHandler(cs Service) Handler {
	return Handler{service: cs}
}

type messageRequest struct {
	Message string `json:"message" binding:"required"`
}

type replyData struct {
	Reply domain.ChatReply `json:"reply"`
}

type replyResponse struct {
	Data replyData `json:"data,omitempty"`
}

// Message handles http request for a chatbot reply.
func (h *Handler) Message(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req messageRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		var (
			ve     validator.ValidationErrors
			errMsg string
		)

		if errors.As(err, &ve) {
			field := ve[0]
			errMsg = field.Field() + web.GetErrorMsg(field)
		}

		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: errMsg})

		return
	}

	reply, err := h.service.Respond(ctx, req.Message)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(http.StatusOK, replyResponse{Data: replyData{reply}})
}
