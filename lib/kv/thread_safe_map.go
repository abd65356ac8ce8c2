package kv

import (
	"io"
	"reflect"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/tree"
	"github.com/benz9527/xtree/lib/xlog"
)

// threadSafeMap guards an rbtree by a rw lock, the tree itself
// never locks.
type threadSafeMap[K infra.OrderedKey, V any] struct {
	lock           sync.RWMutex
	items          tree.RBTree[K, V]
	logger         xlog.XLogger
	isClosableItem bool
}

func (t *threadSafeMap[K, V]) AddOrUpdate(key K, obj V) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	_, _, err := t.items.InsertOrAssign(key, obj)
	return err
}

// Replace drops all the items, the dropped items are not closed.
func (t *threadSafeMap[K, V]) Replace(items map[K]V) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	fresh := tree.NewRBTreeFunc[K, V](t.items.Comparator())
	for key, obj := range items {
		if _, _, err := fresh.Insert(key, obj); err != nil {
			return err
		}
	}
	return t.items.Swap(fresh)
}

func (t *threadSafeMap[K, V]) Delete(key K) (obj V, err error) {
	t.lock.Lock()
	defer t.lock.Unlock()
	it := t.items.Find(key)
	if it.IsEnd() {
		return obj, ErrKeyNotFound
	}
	obj = it.Val()
	_, err = t.items.Erase(it)
	return obj, err
}

func (t *threadSafeMap[K, V]) Get(key K) (item V, exists bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	if it := t.items.Find(key); !it.IsEnd() {
		return it.Val(), true
	}
	return item, false
}

func (t *threadSafeMap[K, V]) Len() int64 {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.items.Len()
}

// ListKeys returns the sorted keys accepted by any filter.
func (t *threadSafeMap[K, V]) ListKeys(filters ...SafeStoreKeyFilterFunc[K]) []K {
	realFilters := lo.Filter(filters, func(filter SafeStoreKeyFilterFunc[K], _ int) bool {
		return filter != nil
	})
	if len(realFilters) == 0 {
		realFilters = append(realFilters, defaultAllKeysFilter[K])
	}

	t.lock.RLock()
	defer t.lock.RUnlock()

	keys := make([]K, 0, t.items.Len())
	t.items.Foreach(func(_ int64, _ tree.RBColor, key K, _ V) bool {
		if lo.ContainsBy(realFilters, func(filter SafeStoreKeyFilterFunc[K]) bool {
			return filter(key)
		}) {
			keys = append(keys, key)
		}
		return true
	})
	return keys
}

// ListValues returns the values sorted by keys. Only the values
// of the given keys if present.
func (t *threadSafeMap[K, V]) ListValues(keys ...K) (items []V) {
	realKeys := lo.Uniq(keys)

	t.lock.RLock()
	defer t.lock.RUnlock()

	if len(realKeys) == 0 {
		items = make([]V, 0, t.items.Len())
		t.items.Foreach(func(_ int64, _ tree.RBColor, _ K, val V) bool {
			items = append(items, val)
			return true
		})
		return items
	}

	items = make([]V, 0, len(realKeys))
	for _, key := range realKeys {
		if it := t.items.Find(key); !it.IsEnd() {
			items = append(items, it.Val())
		}
	}
	return items
}

// Purge closes the closable items and drops all the items.
func (t *threadSafeMap[K, V]) Purge() error {
	t.lock.Lock()
	defer t.lock.Unlock()

	var merr error
	if t.isClosableItem {
		t.items.Foreach(func(_ int64, _ tree.RBColor, key K, val V) bool {
			closer, ok := any(val).(io.Closer)
			if !ok || isNilItem(closer) {
				return true
			}
			if err := closer.Close(); err != nil {
				t.logger.Error(err, "[kv] purge close item", zap.Any("key", key))
				merr = multierr.Append(merr, err)
			}
			return true
		})
	}
	t.items.Clear()
	return merr
}

func isNilItem(item any) bool {
	if item == nil {
		return true
	}
	rv := reflect.ValueOf(item)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
	}
	return false
}

type threadSafeMapCfg struct {
	logger          xlog.XLogger
	closeableCheck  bool
	treeDescOrdered bool
}

type ThreadSafeMapOption func(*threadSafeMapCfg)

// WithThreadSafeMapCloseableItemCheck closes the io.Closer items
// on Purge.
func WithThreadSafeMapCloseableItemCheck() ThreadSafeMapOption {
	return func(cfg *threadSafeMapCfg) {
		cfg.closeableCheck = true
	}
}

func WithThreadSafeMapDesc() ThreadSafeMapOption {
	return func(cfg *threadSafeMapCfg) {
		cfg.treeDescOrdered = true
	}
}

func WithThreadSafeMapLogger(logger xlog.XLogger) ThreadSafeMapOption {
	return func(cfg *threadSafeMapCfg) {
		cfg.logger = logger
	}
}

func NewThreadSafeMap[K infra.OrderedKey, V any](opts ...ThreadSafeMapOption) ThreadSafeStorer[K, V] {
	cfg := &threadSafeMapCfg{}
	for _, o := range opts {
		if o != nil {
			o(cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = xlog.NewNopXLogger()
	}

	treeOpts := make([]tree.RBTreeOpt[K, V], 0, 2)
	treeOpts = append(treeOpts, tree.WithRBTreeLogger[K, V](cfg.logger))
	if cfg.treeDescOrdered {
		treeOpts = append(treeOpts, tree.WithRBTreeDesc[K, V]())
	}
	return &threadSafeMap[K, V]{
		items:          tree.NewRBTree[K, V](treeOpts...),
		logger:         cfg.logger,
		isClosableItem: cfg.closeableCheck,
	}
}
