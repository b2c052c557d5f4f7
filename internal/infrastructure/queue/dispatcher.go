package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventdesk/reservations/internal/core/domain"
	"github.com/eventdesk/reservations/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

var _ ports.AuditRecorder = (*Dispatcher)(nil)

// Dispatcher writes audit records in the background. Records for the same
// (actor, event) pair hash to the same worker, so they are persisted in the
// order they were recorded.
type Dispatcher struct {
	workers []chan domain.ReservationAudit
	repo    ports.AuditRepository
	log     zerolog.Logger
	onDrop  func()

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers shards. onDrop, when
// set, is called for every record discarded because its shard was full.
func NewDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger, onDrop func()) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if onDrop == nil {
		onDrop = func() {}
	}
	d := &Dispatcher{
		workers: make([]chan domain.ReservationAudit, numWorkers),
		repo:    repo,
		log:     log,
		onDrop:  onDrop,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.ReservationAudit, channelBuffer)
	}
	return d
}

// Start launches the workers. They run until Close.
func (d *Dispatcher) Start() {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
}

// Record never blocks. A full shard drops the record with a warning.
func (d *Dispatcher) Record(entry domain.ReservationAudit) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	select {
	case d.workers[d.shardIndex(entry.ActorID, entry.EventID)] <- entry:
	default:
		d.onDrop()
		d.log.Warn().
			Int64("actor_id", entry.ActorID).
			Int64("event_id", entry.EventID).
			Msg("audit queue full, record dropped")
	}
}

// Close stops intake and waits for queued records to be written, or for ctx
// to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) shardIndex(actorID, eventID int64) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatInt(actorID, 10)))
	_, _ = h.Write([]byte{':'})
	_, _ = h.Write([]byte(strconv.FormatInt(eventID, 10)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(id int, ch <-chan domain.ReservationAudit) {
	defer d.wg.Done()
	for entry := range ch {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := d.repo.Insert(ctx, &entry); err != nil {
			d.log.Error().Err(err).
				Int64("actor_id", entry.ActorID).
				Int64("event_id", entry.EventID).
				Int("worker_id", id).
				Msg("audit write failed")
		}
		cancel()
	}
}
