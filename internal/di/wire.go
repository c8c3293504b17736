//go:build wireinject
// +build wireinject

package di

import (
	"StockPredict/pkg/config"
	"StockPredict/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation in wire_gen.go.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Repositories
		ProvidePointStore,
		ProvidePredictionPublisher,

		// Use cases
		ProvideSampler,
		ProvidePredictor,
		ProvideMerger,

		// Transport
		ProvidePricesHandler,
		ProvideHTTPServer,

		ProvideApp,
	)
	return &server.App{}, nil
}
