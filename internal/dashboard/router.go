// Package dashboard serves the interviewer's read and delete API over the candidate registry.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spigell/interview-trainer/internal/logger"
)

const (
	DefaultListen = ":8080"

	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// NewRouter constructs the gin engine with middleware and routes registered.
func NewRouter(reg Registry, log *zap.Logger) *gin.Engine {
	log = logger.WithFields(log, zap.String("component", "dashboard"))

	r := gin.New()
	r.Use(requestID(), logging(log), recovery(log))

	r.GET("/healthz", func(c *gin.Context) {
		respondOK(c, gin.H{"ok": true})
	})

	api := r.Group("/api/v1")
	NewHandler(reg, log).RegisterRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(listen string) string {
	if listen == "" {
		return DefaultListen
	}
	if strings.Contains(listen, ":") {
		return listen
	}
	return ":" + listen
}

// Serve runs handler on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, log *zap.Logger) error {
	log = logger.WithFields(log)

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("dashboard listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving dashboard: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("dashboard shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down dashboard: %w", err)
	}
	return nil
}
