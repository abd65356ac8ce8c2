package observability

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/benz9527/xtree/lib/tree"
)

func collectSums(t *testing.T, reader sdkmetric.Reader, name string) []metricdata.DataPoint[int64] {
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			return sum.DataPoints
		}
	}
	return nil
}

func attrOf(dp metricdata.DataPoint[int64], key string) string {
	v, ok := dp.Attributes.Value(attribute.Key(key))
	if !ok {
		return ""
	}
	return v.AsString()
}

func TestFixupRecorder(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() {
		require.NoError(t, mp.Shutdown(context.Background()))
	}()

	rec, err := NewFixupRecorder(mp.Meter("test"), "orders")
	require.NoError(t, err)
	rbtree := tree.NewRBTree[int, int](tree.WithRBTreeFixupObserver[int, int](rec))
	for i := 0; i < 5; i++ {
		_, ok, err := rbtree.Insert(i, i)
		require.NoError(t, err)
		require.True(t, ok)
	}

	fixups := map[string]int64{}
	for _, dp := range collectSums(t, reader, "rbtree.fixups") {
		require.Equal(t, "orders", attrOf(dp, "tree"))
		fixups[attrOf(dp, "case")] += dp.Value
	}
	require.Equal(t, map[string]int64{
		tree.InsertOuterGrandchild.String(): 2,
		tree.InsertRedUncle.String():        1,
	}, fixups)

	rotations := collectSums(t, reader, "rbtree.rotations")
	require.Len(t, rotations, 1)
	require.Equal(t, tree.Left.String(), attrOf(rotations[0], "direction"))
	require.Equal(t, int64(2), rotations[0].Value)
}

func TestTreeStats(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() {
		require.NoError(t, mp.Shutdown(context.Background()))
	}()

	small := tree.NewRBTree[int, struct{}]()
	large := tree.NewRBTree[int, struct{}]()
	for _, i := range lo.Range(100) {
		_, _, err := large.Insert(i, struct{}{})
		require.NoError(t, err)
		if i%10 == 0 {
			_, _, err = small.Insert(i, struct{}{})
			require.NoError(t, err)
		}
	}

	stats, err := NewTreeStats(mp.Meter("test"), map[string]Sizer{
		"small": small,
		"large": large,
	})
	require.NoError(t, err)

	sizes := map[string]int64{}
	for _, dp := range collectSums(t, reader, "rbtree.size") {
		sizes[attrOf(dp, "tree")] = dp.Value
	}
	require.Equal(t, map[string]int64{"small": 10, "large": 100}, sizes)

	require.NoError(t, stats.Unregister())
	require.Empty(t, collectSums(t, reader, "rbtree.size"))
	require.NoError(t, (*TreeStats)(nil).Unregister())
}

func TestConsoleMeterProvider(t *testing.T) {
	mp, err := NewConsoleMeterProvider(
		50*time.Millisecond,
		time.Second,
		stdoutmetric.WithWriter(io.Discard),
	)
	require.NoError(t, err)
	rec, err := NewFixupRecorder(mp.Meter("console"), "console")
	require.NoError(t, err)
	rbtree := tree.NewRBTree[int, int](tree.WithRBTreeFixupObserver[int, int](rec))
	for _, i := range lo.Range(64) {
		_, _, err = rbtree.Insert(i, i)
		require.NoError(t, err)
	}
	require.NoError(t, mp.ForceFlush(context.Background()))
	require.NoError(t, mp.Shutdown(context.Background()))
}

func TestPrometheusMeterProvider(t *testing.T) {
	registry := promclient.NewRegistry()
	mp, err := NewPrometheusMeterProvider(prometheus.WithRegisterer(registry))
	require.NoError(t, err)
	defer func() {
		require.NoError(t, mp.Shutdown(context.Background()))
	}()

	rec, err := NewFixupRecorder(mp.Meter("prom"), "prom")
	require.NoError(t, err)
	rbtree := tree.NewRBTree[int, int](tree.WithRBTreeFixupObserver[int, int](rec))
	for _, i := range lo.Range(64) {
		_, _, err = rbtree.Insert(i, i)
		require.NoError(t, err)
	}

	families, err := registry.Gather()
	require.NoError(t, err)
	names := lo.Map(families, func(f *dto.MetricFamily, _ int) string {
		return f.GetName()
	})
	require.True(t, lo.ContainsBy(names, func(name string) bool {
		return strings.HasPrefix(name, "rbtree_fixups")
	}))
	require.True(t, lo.ContainsBy(names, func(name string) bool {
		return strings.HasPrefix(name, "rbtree_rotations")
	}))
}
