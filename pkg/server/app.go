package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	xhttp "StockPredict/pkg/http"
	applogger "StockPredict/pkg/logger"
)

// App encapsulates the application lifecycle.
type App struct {
	httpServer *xhttp.Server
	publisher  io.Closer
	l          *applogger.Logger
}

// New creates a new App instance with all dependencies. publisher is closed
// after the HTTP server stops.
func New(httpServer *xhttp.Server, publisher io.Closer, l *applogger.Logger) *App {
	return &App{httpServer: httpServer, publisher: publisher, l: l}
}

// HTTPServer exposes the server, mainly for tests.
func (a *App) HTTPServer() *xhttp.Server { return a.httpServer }

// Run starts the application and blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the application and blocks until ctx is done.
func (a *App) RunContext(ctx context.Context) error {
	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}

	<-ctx.Done()
	a.l.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown stops the HTTP server first so no request publishes after the
// publisher is closed.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.httpServer.ShutdownTimeout())
	defer cancel()

	var firstErr error
	if err := a.httpServer.Stop(ctx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
		firstErr = err
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.l.Warn("publisher close error", applogger.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	a.l.Info("shutdown complete")
	return firstErr
}
