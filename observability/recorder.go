package observability

import (
	"context"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/benz9527/xtree/lib/tree"
)

const meterName = "github.com/benz9527/xtree/rbtree"

var _ tree.FixupObserver = (*FixupRecorder)(nil)

// FixupRecorder counts the rebalance cases and the rotations of a
// named tree.
type FixupRecorder struct {
	fixups    metric.Int64Counter
	rotations metric.Int64Counter
	treeAttr  attribute.KeyValue
}

func (r *FixupRecorder) OnFixup(c tree.FixupCase) {
	r.fixups.Add(context.Background(), 1, metric.WithAttributes(
		r.treeAttr,
		attribute.String("case", c.String()),
	))
}

func (r *FixupRecorder) OnRotate(dir tree.RBDirection) {
	r.rotations.Add(context.Background(), 1, metric.WithAttributes(
		r.treeAttr,
		attribute.String("direction", dir.String()),
	))
}

func NewFixupRecorder(meter metric.Meter, name string) (*FixupRecorder, error) {
	fixups, err := meter.Int64Counter(
		"rbtree.fixups",
		metric.WithDescription("The rbtree rebalance states visited."),
	)
	if err != nil {
		return nil, err
	}
	rotations, err := meter.Int64Counter(
		"rbtree.rotations",
		metric.WithDescription("The rbtree rotations."),
	)
	if err != nil {
		return nil, err
	}
	return &FixupRecorder{
		fixups:    fixups,
		rotations: rotations,
		treeAttr:  attribute.String("tree", name),
	}, nil
}

// MustGlobalFixupRecorder uses the global meter provider.
func MustGlobalFixupRecorder(name string) *FixupRecorder {
	return lo.Must(NewFixupRecorder(otel.Meter(meterName), name))
}
