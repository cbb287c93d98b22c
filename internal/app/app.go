package app

import (
	"log/slog"

	"github.com/trebuchet-org/treb-create2/internal/adapters/blockchain"
	"github.com/trebuchet-org/treb-create2/internal/domain/config"
	"github.com/trebuchet-org/treb-create2/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Use cases
	PredictAddress  *usecase.PredictAddress
	DeployContract  *usecase.DeployContract
	CheckDeployment *usecase.CheckDeployment
	InvokeContract  *usecase.InvokeContract
	ListMethods     *usecase.ListMethods

	// Shared connections, closed when the command finishes
	dialer *blockchain.Dialer
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	dialer *blockchain.Dialer,
	predictAddress *usecase.PredictAddress,
	deployContract *usecase.DeployContract,
	checkDeployment *usecase.CheckDeployment,
	invokeContract *usecase.InvokeContract,
	listMethods *usecase.ListMethods,
) (*App, error) {
	return &App{
		Config:          cfg,
		Log:             log,
		PredictAddress:  predictAddress,
		DeployContract:  deployContract,
		CheckDeployment: checkDeployment,
		InvokeContract:  invokeContract,
		ListMethods:     listMethods,
		dialer:          dialer,
	}, nil
}

// Close releases open RPC connections
func (a *App) Close() {
	if a.dialer != nil {
		a.dialer.Close()
	}
}
