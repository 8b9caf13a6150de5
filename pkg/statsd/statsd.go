package statsd

import (
	"time"

	std "github.com/DataDog/datadog-go/v5/statsd"
	"github.com/goto/salt/log"
)

// Client is the subset of the DataDog client the reporter publishes to.
type Client interface {
	Incr(name string, tags []string, rate float64) error
	Timing(name string, value time.Duration, tags []string, rate float64) error
	Gauge(name string, value float64, tags []string, rate float64) error
	Close() error
}

// Reporter provides functions for reporting metrics. A nil or disabled
// Reporter drops every metric.
type Reporter struct {
	client Client
	logger log.Logger
	config Config
}

// Init validates the config and initializes the statsD client.
func Init(logger log.Logger, cfg Config) (*Reporter, error) {
	reporter := &Reporter{logger: logger, config: cfg}
	if !cfg.Enabled {
		logger.Warn("statsd is disabled")
		return reporter, nil
	}

	client, err := std.New(cfg.Address,
		std.WithNamespace(cfg.Prefix+"."),
		std.WithoutTelemetry())
	if err != nil {
		return nil, err
	}

	reporter.client = client
	return reporter, nil
}

// NewWithClient builds a reporter publishing to client.
func NewWithClient(logger log.Logger, cfg Config, client Client) *Reporter {
	return &Reporter{client: client, logger: logger, config: cfg}
}

// Close closes statsd connection
func (sd *Reporter) Close() error {
	if sd != nil && sd.client != nil {
		return sd.client.Close()
	}
	return nil
}

// Incr returns a increment counter metric.
func (sd *Reporter) Incr(name string) *Metric {
	return sd.newMetric(name, func(c Client, name string, tags []string, rate float64) error {
		return c.Incr(name, tags, rate)
	})
}

// Timing returns a timer metric.
func (sd *Reporter) Timing(name string, value time.Duration) *Metric {
	return sd.newMetric(name, func(c Client, name string, tags []string, rate float64) error {
		return c.Timing(name, value, tags, rate)
	})
}

// Gauge creates and returns a new gauge metric.
func (sd *Reporter) Gauge(name string, value float64) *Metric {
	return sd.newMetric(name, func(c Client, name string, tags []string, rate float64) error {
		return c.Gauge(name, value, tags, rate)
	})
}

func (sd *Reporter) newMetric(name string, publish func(c Client, name string, tags []string, rate float64) error) *Metric {
	if sd == nil || sd.client == nil {
		return nil
	}
	return &Metric{
		rate:          sd.config.SamplingRate,
		logger:        sd.logger,
		name:          name,
		withInfluxTag: sd.config.WithInfluxTagFormat,
		publishFunc: func(name string, tags []string, rate float64) error {
			return publish(sd.client, name, tags, rate)
		},
	}
}
