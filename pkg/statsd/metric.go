package statsd

import (
	"fmt"

	"github.com/goto/salt/log"
)

type publishFunc func(name string, tags []string, rate float64) error

// Metric represents a statsd metric being assembled. Tags accumulate
// until Publish ships the metric; Publish is intended to be used with
// defer.
type Metric struct {
	logger        log.Logger
	name          string
	rate          float64
	tags          map[string]string
	withInfluxTag bool
	publishFunc   publishFunc
}

// Success tags the metric as successful.
func (m *Metric) Success() *Metric {
	return m.Tag("success", "true")
}

// Failure tags the metric as failed.
func (m *Metric) Failure(err error) *Metric {
	return m.Tag("success", "false")
}

// Tag adds a tag to the metric.
func (m *Metric) Tag(key, val string) *Metric {
	if m == nil {
		return nil
	}
	if m.tags == nil {
		m.tags = map[string]string{}
	}
	m.tags[key] = val
	return m
}

// Publish publishes the metric with the collected tags.
func (m *Metric) Publish() {
	if m == nil {
		return
	}

	name := m.name
	var ddTags []string
	if m.withInfluxTag {
		for k, v := range m.tags {
			name = fmt.Sprintf("%s,%s=%s", name, k, v)
		}
	} else {
		for k, v := range m.tags {
			ddTags = append(ddTags, fmt.Sprintf("%s:%s", k, v))
		}
	}

	go func() {
		if err := m.publishFunc(name, ddTags, m.rate); err != nil && m.logger != nil {
			m.logger.Warn("failed to publish metric", "name", m.name, "err", err)
		}
	}()
}
