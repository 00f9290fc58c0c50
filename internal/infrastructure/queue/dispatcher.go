package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/strivezine/blog-system/internal/api/metrics"
	"github.com/strivezine/blog-system/internal/core/domain"
	"github.com/strivezine/blog-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// AuditDispatcher writes audit events to the repository from a fixed set of
// workers. Events of one author hash to the same worker, so they are stored
// in the order they were recorded.
type AuditDispatcher struct {
	workers []chan domain.AuditEvent
	repo    ports.AuditRepository
	log     zerolog.Logger
	dropped atomic.Uint64
	wg      sync.WaitGroup
}

// NewAuditDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.AuditEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, channelBuffer)
	}
	return d
}

// Run launches the workers and blocks until ctx is cancelled and every
// buffered event has been written.
func (d *AuditDispatcher) Run(ctx context.Context) error {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
	d.wg.Wait()
	return nil
}

// Record enqueues an event. It never blocks: when the worker's buffer is
// full the event is dropped and counted.
func (d *AuditDispatcher) Record(event domain.AuditEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	idx := d.shardIndex(event)
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.dropped.Add(1)
		metrics.AuditEventsDroppedTotal.Inc()
		d.log.Warn().Str("type", string(event.Type)).Msg("audit buffer full, event dropped")
	}
}

// Dropped returns how many events were discarded because a buffer was full.
func (d *AuditDispatcher) Dropped() uint64 {
	return d.dropped.Load()
}

// shardIndex maps an event deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(event domain.AuditEvent) int {
	key := event.AuthorID
	if key == "" {
		key = event.Email
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEvent) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case event := <-ch:
			d.write(context.Background(), id, event)
		}
	}
}

// drain flushes what is left in the buffer after shutdown was requested.
func (d *AuditDispatcher) drain(id int, ch <-chan domain.AuditEvent) {
	for {
		select {
		case event := <-ch:
			d.write(context.Background(), id, event)
		default:
			return
		}
	}
}

func (d *AuditDispatcher) write(ctx context.Context, id int, event domain.AuditEvent) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(d.workers[id])))
	if err := d.repo.InsertEvent(ctx, &event); err != nil {
		d.log.Error().Err(err).
			Str("type", string(event.Type)).
			Str("author_id", event.AuthorID).
			Int("worker_id", id).
			Msg("audit event write failed")
	}
}

var _ ports.AuditRecorder = (*AuditDispatcher)(nil)
