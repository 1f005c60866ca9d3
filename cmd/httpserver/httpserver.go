// Package httpserver manages server creation and api routing.
package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/banco-acme/portal-api/internal/chatdelivery"
	"github.com/banco-acme/portal-api/internal/chatservice"
	"github.com/banco-acme/portal-api/internal/kvstore"
	"github.com/banco-acme/portal-api/internal/middleware"
	"github.com/banco-acme/portal-api/internal/sessionrepo"
	"github.com/banco-acme/portal-api/internal/transactiondelivery"
	"github.com/banco-acme/portal-api/internal/transactionrepo"
	"github.com/banco-acme/portal-api/internal/transactionservice"
	"github.com/banco-acme/portal-api/internal/transferdelivery"
	"github.com/banco-acme/portal-api/internal/transferservice"
	"github.com/banco-acme/portal-api/internal/userdelivery"
	"github.com/banco-acme/portal-api/internal/userrepo"
	"github.com/banco-acme/portal-api/internal/userservice"
	"github.com/banco-acme/portal-api/pkg/configpkg"
	"github.com/banco-acme/portal-api/pkg/tokenpkg"
)

// Server holds the store, handlers router and configuration.
type Server struct {
	Store  kvstore.Store
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(store kvstore.Store, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	userRepo := userrepo.NewRepoKV(store)
	transactionRepo := transactionrepo.NewRepoKV(store)
	sessionRepo := sessionrepo.NewRepoKV(store)

	tokenMaker, err := tokenpkg.NewPasetoMaker(config.TokenSymmetricKey)
	if err != nil {
		return nil, errors.New("cannot create token maker")
	}

	userService := userservice.New(userRepo, sessionRepo)
	transactionService := transactionservice.New(transactionRepo, userService)
	transferService := transferservice.New(userService, transactionService)
	chatService := chatservice.New(config.ChatTypingDelay)

	userHandler := userdelivery.NewHandler(userService, tokenMaker, config)
	transactionHandler := transactiondelivery.NewHandler(transactionService)
	transferHandler := transferdelivery.NewHandler(transferService, userService)
	chatHandler := chatdelivery.NewHandler(chatService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/users", userHandler.Create)
	engine.POST("/users/login", userHandler.Login)
	engine.POST("/users/recover", userHandler.Recover)
	engine.POST("/users/password", userHandler.UpdatePassword)

	authRoutes := engine.Group("/").Use(middleware.AuthMiddleware(tokenMaker))

	authRoutes.POST("/users/logout", userHandler.Logout)
	authRoutes.GET("/account", userHandler.Account)
	authRoutes.GET("/account/certificate", userHandler.Certificate)

	authRoutes.POST("/operations/deposits", transactionHandler.Deposit)
	authRoutes.POST("/operations/withdrawals", transactionHandler.Withdraw)
	authRoutes.POST("/operations/payments", transactionHandler.Pay)
	authRoutes.GET("/transactions", transactionHandler.List)
	authRoutes.GET("/statements/:year/:month", transactionHandler.Statement)

	authRoutes.GET("/qr", transferHandler.QR)
	authRoutes.POST("/qr/payments", transferHandler.PaymentQR)
	authRoutes.POST("/transfers", transferHandler.Create)
	authRoutes.GET("/transfers", transferHandler.History)

	authRoutes.POST("/chat", chatHandler.Message)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("idtype", userdelivery.ValidIDType)
		if err != nil {
			return nil, errors.New("cannot register idtype validator")
		}
	}

	server := &Server{
		Store:  store,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
