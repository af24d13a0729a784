package main

import (
	"context"
	"errors"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"chemebot/internal/bootstrap"
	"chemebot/internal/transport/http"
)

func main() {
	ctx := context.Background()

	application, err := bootstrap.New(ctx)
	if err != nil {
		zap.NewExample().Fatal("bootstrap failed", zap.Error(err))
	}
	defer application.Close()

	router := http.NewRouter(application)
	server := &nethttp.Server{
		Addr:              application.Config.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		application.Logger.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			application.Logger.Fatal("server stopped unexpectedly", zap.Error(err))
		}
	}()

	waitForShutdown(server, application.Logger)
}

func waitForShutdown(server *nethttp.Server, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
