package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/capitalsapp/capitals/internal/common/constants"
	"github.com/capitalsapp/capitals/internal/common/logger"
)

// StartWithGracefulShutdown blocks until SIGINT/SIGTERM, then drains
// in-flight requests before returning.
func StartWithGracefulShutdown(server *http.Server, log *logger.Logger) {
	go func() {
		log.Infof("capitals service listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	server.SetKeepAlivesEnabled(false)
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("forced shutdown: %v", err)
	} else {
		log.Info("stopped gracefully")
	}
}
