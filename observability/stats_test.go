package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/benz9527/xtree/lib/kv"
)

func TestInitAppStats(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(mp)
	defer func() {
		require.NoError(t, mp.Shutdown(context.Background()))
	}()

	m := kv.NewThreadSafeMap[string, int]()
	for i, k := range []string{"a", "b", "c"} {
		require.NoError(t, m.AddOrUpdate(k, i))
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	InitAppStats(ctx, "", map[string]Sizer{"sessions": m})
	// Runs once.
	InitAppStats(ctx, "again", map[string]Sizer{"other": m})

	dps := collectSums(t, reader, "rbtree.size")
	require.Len(t, dps, 1)
	require.Equal(t, "sessions", attrOf(dps[0], "tree"))
	require.Equal(t, int64(3), dps[0].Value)

	require.NoError(t, m.AddOrUpdate("d", 3))
	dps = collectSums(t, reader, "rbtree.size")
	require.Equal(t, int64(4), dps[0].Value)
}
