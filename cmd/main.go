// Package main runs the Banco Acme portal API.
package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/banco-acme/portal-api/cmd/httpserver"
	"github.com/banco-acme/portal-api/internal/kvstore"
	"github.com/banco-acme/portal-api/internal/middleware"
	"github.com/banco-acme/portal-api/pkg/configpkg"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	store, err := kvstore.NewRedisStore(context.Background(), config.RedisAddress, config.RedisPassword)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to store")
	}

	server, err := httpserver.New(store, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	logger.Info().Msg("PORTAL API SERVER HAS STARTED")

	err = server.Engine.Run(config.ServerAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
