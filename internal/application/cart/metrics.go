package cart

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Metric names
const (
	MetricPushSent      = "cart.push.sent"
	MetricPushFailed    = "cart.push.failed"
	MetricPushCoalesced = "cart.push.coalesced"
	MetricRefreshFailed = "cart.refresh.failed"
)

type syncMetrics struct {
	pushSent      metric.Int64Counter
	pushFailed    metric.Int64Counter
	pushCoalesced metric.Int64Counter
	refreshFailed metric.Int64Counter
}

func newSyncMetrics(meter metric.Meter) *syncMetrics {
	return &syncMetrics{
		pushSent:      counter(meter, MetricPushSent, "Cart states written to the server"),
		pushFailed:    counter(meter, MetricPushFailed, "Cart writes that failed and were dropped"),
		pushCoalesced: counter(meter, MetricPushCoalesced, "Mutations folded into an already scheduled push"),
		refreshFailed: counter(meter, MetricRefreshFailed, "Refreshes that left the local cart unchanged"),
	}
}

// counter never fails; an instrument that cannot be created records nothing
func counter(meter metric.Meter, name, description string) metric.Int64Counter {
	c, err := meter.Int64Counter(name,
		metric.WithDescription(description),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return noop.Int64Counter{}
	}
	return c
}
