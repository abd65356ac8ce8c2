package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"time"

	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"

	"github.com/benz9527/xtree/lib/infra"
)

// NewConsoleMeterProvider serves for test/dev environment.
// The caller decides whether to install it by otel.SetMeterProvider
// and has to call Shutdown.
func NewConsoleMeterProvider(interval, timeout time.Duration, opts ...stdoutmetric.Option) (*metric.MeterProvider, error) {
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "[observability] stdout exporter")
	}
	return metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(interval),
		metric.WithTimeout(timeout),
	))), nil
}

// NewPrometheusMeterProvider serves for the product environment and
// the stats are fetched by HTTP.
func NewPrometheusMeterProvider(opts ...prometheus.Option) (*metric.MeterProvider, error) {
	exporter, err := prometheus.New(opts...)
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "[observability] prometheus exporter")
	}
	return metric.NewMeterProvider(metric.WithReader(exporter)), nil
}
