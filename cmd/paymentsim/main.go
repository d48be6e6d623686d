package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/merchkit/checkout/internal/checkout/paymentsim"
	"github.com/merchkit/checkout/pkg/slogx"
)

func main() {
	cfg := paymentsim.LoadConfig()

	logger := slogx.New(slogx.Config{
		Service: "paymentsim",
		Version: "v0.1.0",
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})

	server := paymentsim.Server(logger, fmt.Sprintf(":%d", cfg.Port))

	logger.Info("payment simulator starting", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
