// Package health serves the liveness endpoint hosting platforms probe.
package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/kambuka/storagebot/internal/logger"
)

// Handler returns the liveness router: a single GET / answering "alive".
func Handler() *echo.Echo {
	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "alive")
	})
	return e
}

// Serve runs the liveness endpoint until the context is cancelled.
func Serve(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: Handler(),
	}

	log := logger.L().With("component", "health", "port", port)

	errCh := make(chan error, 1)
	go func() {
		log.Info("liveness endpoint started")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
		log.Info("liveness endpoint stopped")
		return ctx.Err()

	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("liveness endpoint: %w", err)
		}
		return nil
	}
}
