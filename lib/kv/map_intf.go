package kv

import (
	"errors"
	"io"

	"github.com/benz9527/xtree/lib/infra"
)

var ErrKeyNotFound = errors.New("[kv] key not found")

type SafeStoreKeyFilterFunc[K infra.OrderedKey] func(key K) bool

func defaultAllKeysFilter[K infra.OrderedKey](key K) bool {
	return true
}

type Closable interface {
	io.Closer
}

// Entry is a key value pair in order.
type Entry[K any, V any] struct {
	Key K
	Val V
}

// ThreadSafeStorer keeps the keys in order. The listing results
// are sorted by the keys.
type ThreadSafeStorer[K infra.OrderedKey, V any] interface {
	Purge() error
	AddOrUpdate(key K, obj V) error
	Replace(items map[K]V) error
	Delete(key K) (V, error)
	Get(key K) (item V, exists bool)
	Len() int64
	ListKeys(filters ...SafeStoreKeyFilterFunc[K]) []K
	ListValues(keys ...K) (items []V)
}
