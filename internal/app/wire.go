//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treb-create2/internal/adapters"
	"github.com/trebuchet-org/treb-create2/internal/config"
	"github.com/trebuchet-org/treb-create2/internal/logging"
	"github.com/trebuchet-org/treb-create2/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewHandleFactory,
		usecase.NewPredictAddress,
		usecase.NewDeployContract,
		usecase.NewCheckDeployment,
		usecase.NewInvokeContract,
		usecase.NewListMethods,

		// App
		NewApp,
	)
	return nil, nil
}
