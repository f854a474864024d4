package main

import (
	"os"

	"github.com/yigit/edudirectory/internal/pkg/logger"
	"github.com/yigit/edudirectory/internal/server"
)

// @title Education Directory Admin API
// @version 1.0
// @description Admin console API for the states, cities, universities, colleges and courses directory

// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until a shutdown signal arrives
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
