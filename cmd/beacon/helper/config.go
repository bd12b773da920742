package helper

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/lantern-labs/beacon-backend/dao/query"
	"github.com/lantern-labs/beacon-backend/internal/handler"
	"github.com/lantern-labs/beacon-backend/pkg/alert"
	"github.com/lantern-labs/beacon-backend/pkg/config"
	"github.com/lantern-labs/beacon-backend/pkg/cronjob"
	"github.com/lantern-labs/beacon-backend/pkg/probe"
)

// ConfigInitializer wires configuration into the shared dependencies.
type ConfigInitializer struct {
	backendConfig *config.Config
}

func NewConfigInitializer() *ConfigInitializer {
	return &ConfigInitializer{
		backendConfig: config.GetConfig(),
	}
}

func (ci *ConfigInitializer) GetBackendConfig() *config.Config {
	return ci.backendConfig
}

// LoadDebugEnvironment reads .debug.env in debug mode and overrides the
// listen address from it.
func (ci *ConfigInitializer) LoadDebugEnvironment() error {
	if gin.Mode() != gin.DebugMode {
		return nil
	}

	err := godotenv.Load(".debug.env")
	if err != nil {
		return err
	}

	be := os.Getenv("BEACON_BE_PORT")
	if be == "" {
		panic("BEACON_BE_PORT is not set")
	}

	ci.backendConfig.ServerAddr = ":" + be

	return nil
}

// InitializeRegisterConfig builds the dependencies handed to every handler
// manager: database, prober, alerter and the cron manager.
func (ci *ConfigInitializer) InitializeRegisterConfig() (*handler.RegisterConfig, error) {
	db := query.GetDB()
	if err := query.AutoMigrate(); err != nil {
		return nil, err
	}

	prober := probe.NewProber(probe.Options{
		Retries: ci.backendConfig.HealthCheck.Retries,
		Delay:   time.Duration(ci.backendConfig.HealthCheck.RetryDelayMs) * time.Millisecond,
		Timeout: time.Duration(ci.backendConfig.HealthCheck.TimeoutMs) * time.Millisecond,
	})

	return &handler.RegisterConfig{
		Config:  ci.backendConfig,
		DB:      db,
		CronMgr: cronjob.NewCronJobManager(prober, alert.GetAlertMgr()),
	}, nil
}
