package main

import (
	"context"
	"net/http"
	"time"

	"spendflix/internal/interfaces/jobs"
)

// StartServer creates the HTTP server and starts serving in the background.
func StartServer(addr string, handler http.Handler) *http.Server {
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("addr", addr).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	return srv
}

// GracefulShutdown stops the server first so no new imports get queued, then
// drains the worker pool.
func GracefulShutdown(srv *http.Server, pool *jobs.WorkerPool, timeout time.Duration) {
	log.Info("server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("error shutting down server")
	}

	pool.Shutdown(timeout)

	log.Info("server stopped")
}
