// Package app wires configuration, storage, and services into the
// shared core used by cmd/satchel-server and the test harnesses.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/satchel/internal/auth"
	"github.com/bobmcallan/satchel/internal/common"
	"github.com/bobmcallan/satchel/internal/identity"
	"github.com/bobmcallan/satchel/internal/interfaces"
	"github.com/bobmcallan/satchel/internal/services/cart"
	"github.com/bobmcallan/satchel/internal/services/catalog"
	"github.com/bobmcallan/satchel/internal/services/order"
	"github.com/bobmcallan/satchel/internal/services/profile"
	"github.com/bobmcallan/satchel/internal/services/rating"
	"github.com/bobmcallan/satchel/internal/services/report"
	"github.com/bobmcallan/satchel/internal/storage"
)

// App holds all initialized services and storage.
type App struct {
	Config          *common.Config
	Logger          *common.Logger
	Storage         interfaces.StorageManager
	Gate            *auth.Gate
	IdentityService interfaces.IdentityService
	ProfileService  interfaces.ProfileService
	CatalogService  interfaces.CatalogService
	CartService     interfaces.CartService
	OrderService    interfaces.OrderService
	RatingService   interfaces.RatingService
	ReportService   interfaces.ReportService
	StartupTime     time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage and all services. configPath may be empty,
// in which case SATCHEL_CONFIG and the binary directory are tried.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	if configPath == "" {
		configPath = os.Getenv("SATCHEL_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "satchel.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/satchel.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	storageManager, err := storage.NewStorageManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	a, err := NewAppWithDeps(config, logger, storageManager)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("version", common.GetVersion()).
		Str("environment", config.Environment).
		Str("storage", config.Storage.Driver).
		Dur("startup", time.Since(startupStart)).
		Msg("Application initialized")
	return a, nil
}

// NewAppWithDeps builds the service graph on top of externally supplied
// config, logger, and storage. Tests use it to inject memory storage.
func NewAppWithDeps(config *common.Config, logger *common.Logger, storageManager interfaces.StorageManager) (*App, error) {
	gate := auth.NewGate()

	identitySvc := identity.NewService(storageManager, logger, config)
	profileSvc := profile.NewService(storageManager, gate, logger)
	catalogSvc := catalog.NewService(storageManager, gate, logger)
	cartSvc := cart.NewService(storageManager, logger)
	ratingSvc := rating.NewService(storageManager, logger)
	orderSvc := order.NewService(storageManager, catalogSvc, ratingSvc, gate, logger)
	reportSvc := report.NewService(storageManager, gate, logger)

	return &App{
		Config:          config,
		Logger:          logger,
		Storage:         storageManager,
		Gate:            gate,
		IdentityService: identitySvc,
		ProfileService:  profileSvc,
		CatalogService:  catalogSvc,
		CartService:     cartSvc,
		OrderService:    orderSvc,
		RatingService:   ratingSvc,
		ReportService:   reportSvc,
		StartupTime:     time.Now(),
	}, nil
}

// Close releases storage resources.
func (a *App) Close() {
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
		}
	}
	a.Logger.Info().Msg("Application closed")
}
