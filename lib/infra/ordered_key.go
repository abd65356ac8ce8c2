package infra

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integer is a constraint that permits any integer type.
type Integer interface {
	Signed | Unsigned
}

// Float is a constraint that permits any floating-point type.
type Float interface {
	~float32 | ~float64
}

// OrderedKey
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// Comparator
// Assume i is the new key.
//  1. i == j (return 0)
//  2. i > j (return 1), turn to right part.
//  3. i < j (return -1), turn to left part.
//
// A comparator must be a strict weak ordering. Two keys
// comparing 0 are treated as the same key.
type Comparator[K any] func(i, j K) int64

// OrderedComparator returns the natural ascending order
// comparator of the ordered key.
func OrderedComparator[K OrderedKey]() Comparator[K] {
	return func(i, j K) int64 {
		if i == j {
			return 0
		} else if i < j {
			return -1
		}
		return 1
	}
}

// ReverseComparator flips the result of cmp.
func ReverseComparator[K any](cmp Comparator[K]) Comparator[K] {
	return func(i, j K) int64 {
		return -cmp(i, j)
	}
}
