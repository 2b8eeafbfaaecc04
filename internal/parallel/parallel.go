// Package parallel splits rectangular pixel regions into row intervals and
// runs them concurrently, handing every task its own temporary buffer.
package parallel

import (
	"context"
	"errors"
	"fmt"
	"image"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// errTaskPanicked cancels the remaining tasks after a panic; the panic
// value itself is re-raised once the group has drained.
var errTaskPanicked = errors.New("parallel: task panicked")

// DefaultMinRowsPerTask is the smallest row interval worth a goroutine.
const DefaultMinRowsPerTask = 8

// Settings controls how a region is split.
type Settings struct {
	// MaxDegreeOfParallelism caps the number of concurrent tasks.
	// Values <= 0 mean runtime.GOMAXPROCS(0).
	MaxDegreeOfParallelism int
	// MinRowsPerTask is the minimum number of rows one task processes.
	// Regions shorter than this run serially. Values <= 0 mean
	// DefaultMinRowsPerTask.
	MinRowsPerTask int
}

// DefaultSettings uses every available CPU and DefaultMinRowsPerTask.
func DefaultSettings() Settings {
	return Settings{
		MaxDegreeOfParallelism: runtime.GOMAXPROCS(0),
		MinRowsPerTask:         DefaultMinRowsPerTask,
	}
}

// Normalize returns s with zero or negative fields replaced by defaults.
func (s Settings) Normalize() Settings {
	if s.MaxDegreeOfParallelism <= 0 {
		s.MaxDegreeOfParallelism = runtime.GOMAXPROCS(0)
	}
	if s.MinRowsPerTask <= 0 {
		s.MinRowsPerTask = DefaultMinRowsPerTask
	}
	return s
}

func (s Settings) String() string {
	return fmt.Sprintf("parallelism=%d min-rows=%d", s.MaxDegreeOfParallelism, s.MinRowsPerTask)
}

// RowInterval is the half-open row range [Min, Max).
type RowInterval struct {
	Min, Max int
}

// Height returns the number of rows in the interval.
func (r RowInterval) Height() int { return r.Max - r.Min }

// Partition splits [top, top+height) into contiguous, ordered, disjoint
// intervals. The number of intervals is at most
// min(MaxDegreeOfParallelism, height/MinRowsPerTask), and at least one
// when height > 0.
func Partition(top, height int, s Settings) []RowInterval {
	if height <= 0 {
		return nil
	}
	s = s.Normalize()

	steps := min(s.MaxDegreeOfParallelism, height/s.MinRowsPerTask)
	if steps <= 1 {
		return []RowInterval{{Min: top, Max: top + height}}
	}

	step := (height + steps - 1) / steps
	bottom := top + height
	out := make([]RowInterval, 0, steps)
	for y := top; y < bottom; y += step {
		out = append(out, RowInterval{Min: y, Max: min(y+step, bottom)})
	}
	return out
}

// RowFunc processes the rows of one interval using buf as scratch space.
// buf is owned by the task for the duration of the call and its contents
// are unspecified on entry.
type RowFunc[T any] func(rows RowInterval, buf []T) error

// IterateRowsWithTempBuffer runs body over the rows of rect. Each task gets
// a distinct buffer of rect.Dx() elements carved out of one slab taken
// from arena (a nil arena allocates). The call blocks until every started
// task has returned.
//
// The first error returned by any task is returned; tasks that have not
// started by then are skipped and tasks already running are waited for.
// Rows finished before the failure stay written. A panic in a task is
// treated the same way and then re-raised on the caller's goroutine with
// the first panic value, as on the serial path.
func IterateRowsWithTempBuffer[T any](rect image.Rectangle, s Settings, arena *Arena[T], body RowFunc[T]) error {
	width, height := rect.Dx(), rect.Dy()
	if width <= 0 || height <= 0 {
		return nil
	}
	s = s.Normalize()
	intervals := Partition(rect.Min.Y, height, s)

	slab := arena.Get(len(intervals) * width)
	defer arena.Put(slab)

	if len(intervals) == 1 {
		return body(intervals[0], slab[:width:width])
	}

	var (
		panicOnce sync.Once
		panicVal  any
	)
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(s.MaxDegreeOfParallelism)
	for i, rows := range intervals {
		buf := slab[i*width : (i+1)*width : (i+1)*width]
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					panicOnce.Do(func() { panicVal = r })
					err = errTaskPanicked
				}
			}()
			if ctx.Err() != nil {
				return nil
			}
			return body(rows, buf)
		})
	}
	err := g.Wait()
	if panicVal != nil {
		panic(panicVal)
	}
	return err
}
