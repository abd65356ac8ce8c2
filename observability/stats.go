package observability

import (
	"context"
	"strings"
	"sync"

	"github.com/samber/lo"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	once sync.Once
)

// Sizer has to be safe for the concurrent reads, the callbacks run
// in the metric reader goroutine.
type Sizer interface {
	Len() int64
}

type TreeStats struct {
	sizes        metric.Int64ObservableUpDownCounter
	registration metric.Registration
}

func (stats *TreeStats) Unregister() error {
	if stats == nil || stats.registration == nil {
		return nil
	}
	return stats.registration.Unregister()
}

// NewTreeStats observes the sizes of the named containers.
func NewTreeStats(meter metric.Meter, sizers map[string]Sizer) (*TreeStats, error) {
	sizes, err := meter.Int64ObservableUpDownCounter(
		"rbtree.size",
		metric.WithDescription(`The number of the elements in the container.`),
	)
	if err != nil {
		return nil, err
	}
	names := lo.Keys(sizers)
	reg, err := meter.RegisterCallback(func(ctx context.Context, ob metric.Observer) error {
		for _, name := range names {
			ob.ObserveInt64(sizes, sizers[name].Len(), metric.WithAttributes(attribute.String("tree", name)))
		}
		return nil
	}, sizes)
	if err != nil {
		return nil, err
	}
	return &TreeStats{sizes: sizes, registration: reg}, nil
}

// InitAppStats registers the containers sizes and the go runtime
// stats to the global meter provider. Runs once. The stats are
// unregistered once ctx is done.
func InitAppStats(ctx context.Context, name string, sizers map[string]Sizer) {
	once.Do(func() {
		builder := &strings.Builder{}
		builder.WriteString("xtree/app")
		builder.WriteString("/")
		if len(strings.TrimSpace(name)) > 0 {
			builder.WriteString(name)
		} else {
			builder.WriteString("default")
		}
		stats := lo.Must(NewTreeStats(otel.Meter(
			builder.String(),
			metric.WithInstrumentationVersion(otelruntime.Version()),
		), sizers))
		_ = otelruntime.Start()
		go func() {
			<-ctx.Done()
			_ = stats.Unregister()
		}()
	})
}
