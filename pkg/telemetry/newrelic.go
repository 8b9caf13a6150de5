package telemetry

import (
	"fmt"

	"github.com/goto/salt/log"
	"github.com/newrelic/go-agent/v3/newrelic"
)

type NewRelicConfig struct {
	Enabled    bool   `mapstructure:"enabled" default:"false"`
	AppName    string `mapstructure:"appname" default:"ninja"`
	LicenseKey string `mapstructure:"licensekey" default:""`
}

// InitNewRelic starts the New Relic agent. It returns a nil application
// when monitoring is disabled.
func InitNewRelic(cfg NewRelicConfig, logger log.Logger) (*newrelic.Application, error) {
	if !cfg.Enabled {
		logger.Info("New Relic monitoring is disabled.")
		return nil, nil
	}

	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.AppName),
		newrelic.ConfigLicense(cfg.LicenseKey),
		newrelic.ConfigEnabled(cfg.Enabled),
	)
	if err != nil {
		return nil, fmt.Errorf("init new relic monitor: %w", err)
	}

	logger.Info("NewRelic monitoring is enabled", "app", cfg.AppName)
	return app, nil
}
