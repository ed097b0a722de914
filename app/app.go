// File: app/app.go
package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"bank-ledger/auth"
	"bank-ledger/config"
	"bank-ledger/logger"
	"bank-ledger/menu"
	"bank-ledger/repository"
	"bank-ledger/service"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	// --- Wiring All Layers Together ---
	// Explicit construction, bottom up: hasher -> registry -> service -> menu.
	hasher := auth.NewBcryptHasher(config.AppConfig.Hasher.Cost)
	registry := repository.NewAccountRegistry(hasher)
	ledger := service.NewLedgerService(registry)
	m := menu.New(ledger, os.Stdin, os.Stdout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- m.Run(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Log.Warn("Shutdown signal received. Exiting...")
		cancel()
		<-done
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Log.WithError(err).Error("Menu loop ended with an error")
		}
	}

	logger.Log.Info("Ledger exited properly")
}
