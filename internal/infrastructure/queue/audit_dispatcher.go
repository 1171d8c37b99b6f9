package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/core/ports"
	"github.com/99minutos/user-admin/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// AuditDispatcher routes audit entries to a fixed set of workers using
// consistent hashing on the record id, so the entries of one record are
// persisted in the order they were produced.
//
// Record never blocks: an entry whose shard is full is dropped and counted.
type AuditDispatcher struct {
	workers []chan domain.AuditEntry
	repo    ports.AuditRepository
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

var _ ports.AuditRecorder = (*AuditDispatcher)(nil)

// NewAuditDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *AuditDispatcher {
	return newAuditDispatcher(numWorkers, channelBuffer, repo, log)
}

func newAuditDispatcher(numWorkers, buffer int, repo ports.AuditRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.AuditEntry, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEntry, buffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled
// or after Stop has drained their channels.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues entry on the worker responsible for its record id.
func (d *AuditDispatcher) Record(entry domain.AuditEntry) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		metrics.AuditDroppedTotal.Inc()
		return
	}

	idx := d.shardIndex(entry.RecordID)
	select {
	case d.workers[idx] <- entry:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.AuditDroppedTotal.Inc()
		d.log.Warn().
			Str("audit_id", entry.ID).
			Str("op", string(entry.Op)).
			Int64("record_id", entry.RecordID).
			Int("worker_id", idx).
			Msg("audit queue full, entry dropped")
	}
}

// Stop refuses new entries and waits until the workers have drained what is
// already queued.
func (d *AuditDispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// shardIndex maps a record id deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(recordID int64) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatInt(recordID, 10)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEntry) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case entry, ok := <-ch:
			if !ok {
				return
			}
			metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			if err := d.repo.Insert(ctx, &entry); err != nil {
				metrics.AuditErrorsTotal.Inc()
				d.log.Error().Err(err).
					Str("audit_id", entry.ID).
					Int64("record_id", entry.RecordID).
					Int("worker_id", id).
					Msg("audit entry persistence failed")
			}
		}
	}
}
