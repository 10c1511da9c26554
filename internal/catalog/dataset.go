// Package catalog caches loaded datasets and coordinates their reloads.
//
// Each dataset is cached under a Key made of its name and the source it was
// loaded from. A snapshot stays cached, including a failed load with its
// notice, until Invalidate or Refresh is called. Concurrent callers of an
// uncached dataset share one load.
package catalog

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/lueurxax/media-dashboard/internal/dataset"
	"github.com/lueurxax/media-dashboard/internal/platform/observability"
	"github.com/lueurxax/media-dashboard/internal/platform/worker"
)

// Loader produces all rows of a dataset.
type Loader[R dataset.Record] interface {
	Load(ctx context.Context) ([]R, error)
	Describe() string
}

// Key identifies a cached dataset.
type Key struct {
	Name   string
	Source string
}

func (k Key) String() string {
	return k.Name + "@" + k.Source
}

// Snapshot is an immutable loaded view of a dataset. A failed load produces
// an empty table and a non-nil Notice.
type Snapshot[R dataset.Record] struct {
	Key      Key
	Table    *dataset.Table[R]
	LoadedAt time.Time
	Duration time.Duration
	Notice   error
}

// Dataset owns the cached snapshot of one dataset.
type Dataset[R dataset.Record] struct {
	key     Key
	loader  Loader[R]
	timeout time.Duration
	logger  *zerolog.Logger
	now     func() time.Time

	group singleflight.Group

	mu       sync.RWMutex
	snapshot *Snapshot[R]
	// generation is bumped by Invalidate and Refresh. A load only stores its
	// snapshot if the generation it started under is still current.
	generation uint64
}

// NewDataset creates an uncached dataset. Nothing is loaded until Get.
func NewDataset[R dataset.Record](name string, loader Loader[R], timeout time.Duration, logger *zerolog.Logger) *Dataset[R] {
	return &Dataset[R]{
		key:     Key{Name: name, Source: loader.Describe()},
		loader:  loader,
		timeout: timeout,
		logger:  logger,
		now:     time.Now,
	}
}

func (d *Dataset[R]) Name() string {
	return d.key.Name
}

func (d *Dataset[R]) Key() Key {
	return d.key
}

// Cached returns the current snapshot without loading.
func (d *Dataset[R]) Cached() (Snapshot[R], bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.snapshot == nil {
		return Snapshot[R]{}, false
	}

	return *d.snapshot, true
}

// Get returns the cached snapshot, loading it first if needed.
func (d *Dataset[R]) Get(ctx context.Context) Snapshot[R] {
	if snap, ok := d.Cached(); ok {
		return snap
	}

	return d.load(ctx)
}

// Invalidate drops the cached snapshot; the next Get reloads. A load that is
// still running is not joined by later callers and its result is discarded.
func (d *Dataset[R]) Invalidate() {
	d.mu.Lock()
	d.snapshot = nil
	d.generation++
	d.mu.Unlock()

	observability.DatasetInvalidations.WithLabelValues(d.key.Name).Inc()
	d.logger.Info().Str("dataset", d.key.Name).Msg("dataset cache invalidated")
}

// Refresh reloads the dataset. The previous snapshot keeps serving readers
// until the new one is stored.
func (d *Dataset[R]) Refresh(ctx context.Context) Snapshot[R] {
	d.mu.Lock()
	d.generation++
	d.mu.Unlock()

	return d.load(ctx)
}

func (d *Dataset[R]) load(ctx context.Context) Snapshot[R] {
	d.mu.RLock()
	gen := d.generation
	d.mu.RUnlock()

	v, _, _ := d.group.Do(d.flightKey(gen), func() (interface{}, error) {
		snap := d.loadSnapshot(ctx)

		d.mu.Lock()
		if d.generation == gen {
			d.snapshot = &snap
		}
		d.mu.Unlock()

		return snap, nil
	})

	return v.(Snapshot[R]) //nolint:forcetypeassert // only Snapshot[R] is stored under this key
}

func (d *Dataset[R]) flightKey(gen uint64) string {
	return d.key.String() + "#" + strconv.FormatUint(gen, 10)
}

func (d *Dataset[R]) loadSnapshot(ctx context.Context) Snapshot[R] {
	var rows []R

	start := d.now()
	// Shared loads must not be canceled by the request that happened to start them.
	err := worker.RunWithTimeout(context.WithoutCancel(ctx), d.timeout, func(loadCtx context.Context) error {
		var err error
		rows, err = d.loader.Load(loadCtx)

		return err
	})
	elapsed := d.now().Sub(start)

	observability.DatasetLoadDuration.WithLabelValues(d.key.Name).Observe(elapsed.Seconds())

	snap := Snapshot[R]{
		Key:      d.key,
		LoadedAt: d.now(),
		Duration: elapsed,
	}

	if err != nil {
		observability.DatasetLoads.WithLabelValues(d.key.Name, "error").Inc()
		observability.DatasetRows.WithLabelValues(d.key.Name).Set(0)
		d.logger.Error().Err(err).Str("dataset", d.key.Name).Str("source", d.key.Source).Msg("dataset load failed")

		snap.Table = dataset.Empty[R]()
		snap.Notice = err

		return snap
	}

	snap.Table = dataset.NewTable(rows)

	observability.DatasetLoads.WithLabelValues(d.key.Name, "ok").Inc()
	observability.DatasetRows.WithLabelValues(d.key.Name).Set(float64(snap.Table.Len()))
	observability.DatasetLastLoadTimestamp.WithLabelValues(d.key.Name).Set(float64(snap.LoadedAt.Unix()))
	d.logger.Info().
		Str("dataset", d.key.Name).
		Str("source", d.key.Source).
		Int("records", snap.Table.Len()).
		Dur("duration", elapsed).
		Msgf("loaded %d records", snap.Table.Len())

	return snap
}
