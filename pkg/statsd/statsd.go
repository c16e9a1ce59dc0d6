package statsd

import (
	"time"

	std "github.com/DataDog/datadog-go/v5/statsd"
	"github.com/goto/salt/log"
)

// Reporter publishes operational metrics over statsd. A disabled
// reporter is fully usable: every metric it hands out turns into a
// no-op, so call sites never need to branch on whether metrics are on.
type Reporter struct {
	client *std.Client
	logger log.Logger
	config Config
}

// Init validates the config and initializes the statsd client.
func Init(logger log.Logger, cfg Config) (*Reporter, error) {
	reporter := &Reporter{}
	if !cfg.Enabled {
		logger.Warn("statsd is disabled")
		return reporter, nil
	}

	client, err := std.New(cfg.Address,
		std.WithNamespace(cfg.Prefix),
		std.WithoutTelemetry())
	if err != nil {
		return nil, err
	}

	reporter.client = client
	reporter.logger = logger
	reporter.config = cfg
	return reporter, nil
}

// Close flushes and closes the statsd connection.
func (sd *Reporter) Close() {
	if sd != nil && sd.client != nil {
		_ = sd.client.Close()
	}
}

// Incr returns an increment counter metric.
func (sd *Reporter) Incr(name string) *Metric {
	return sd.metric(name, func(name string, tags []string, rate float64) error {
		if sd == nil || sd.client == nil {
			return nil
		}
		return sd.client.Incr(name, tags, rate)
	})
}

// Timing returns a timer metric.
func (sd *Reporter) Timing(name string, value time.Duration) *Metric {
	return sd.metric(name, func(name string, tags []string, rate float64) error {
		if sd == nil || sd.client == nil {
			return nil
		}
		return sd.client.Timing(name, value, tags, rate)
	})
}

// Gauge returns a gauge metric.
func (sd *Reporter) Gauge(name string, value float64) *Metric {
	return sd.metric(name, func(name string, tags []string, rate float64) error {
		if sd == nil || sd.client == nil {
			return nil
		}
		return sd.client.Gauge(name, value, tags, rate)
	})
}

func (sd *Reporter) metric(name string, publish publishFunc) *Metric {
	m := &Metric{name: name, publishFunc: publish}
	if sd != nil {
		m.rate = sd.config.SamplingRate
		m.logger = sd.logger
		m.withInfluxTag = sd.config.WithInfluxTagFormat
	}
	return m
}
