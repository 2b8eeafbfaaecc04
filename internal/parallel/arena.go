package parallel

import "sync"

// Arena hands out scratch slabs and takes them back for reuse. The zero
// value is ready to use. A nil *Arena is valid and simply allocates.
type Arena[T any] struct {
	pool sync.Pool
}

// Get returns a slice of length n. Contents are unspecified.
func (a *Arena[T]) Get(n int) []T {
	if a == nil {
		return make([]T, n)
	}
	if v, ok := a.pool.Get().(*[]T); ok && cap(*v) >= n {
		return (*v)[:n]
	}
	return make([]T, n)
}

// Put returns a slab obtained from Get. The caller must not use it
// afterwards.
func (a *Arena[T]) Put(s []T) {
	if a == nil || cap(s) == 0 {
		return
	}
	s = s[:cap(s)]
	a.pool.Put(&s)
}
