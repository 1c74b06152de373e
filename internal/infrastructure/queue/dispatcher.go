package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ThalesFiorin/HelpDeskDelta/internal/api/metrics"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/domain"
	"github.com/ThalesFiorin/HelpDeskDelta/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
	sendTimeout    = 15 * time.Second
)

// Dispatcher delivers notifications on a fixed set of workers sharded by
// recipient, so mail to one address is sent in enqueue order. Each
// notification is attempted once.
type Dispatcher struct {
	workers []chan domain.Notification
	mailer  ports.Mailer
	dedup   ports.DedupChecker
	sink    ports.DeliveryLog
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// dedup and sink may be nil. If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, mailer ports.Mailer, dedup ports.DedupChecker, sink ports.DeliveryLog, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.Notification, numWorkers),
		mailer:  mailer,
		dedup:   dedup,
		sink:    sink,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Notification, channelBuffer)
	}
	return d
}

// Start launches the workers. They drain and stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() { d.wg.Wait() }

// Enqueue hands n to its recipient's worker. It never blocks: when the
// worker's buffer is full the notification is dropped and logged.
func (d *Dispatcher) Enqueue(n domain.Notification) {
	idx := d.shardIndex(n.Email.To)
	select {
	case d.workers[idx] <- n:
		metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.NotificationsTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().
			Str("ticket_id", n.TicketID).
			Str("to", n.Email.To).
			Int("worker_id", idx).
			Msg("notification queue full, dropping")
	}
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(to string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(to))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Notification) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			d.drain(context.WithoutCancel(ctx), id, ch)
			return
		case n := <-ch:
			metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
			d.deliver(ctx, id, n)
		}
	}
}

// drain delivers whatever is still buffered, without blocking for more.
func (d *Dispatcher) drain(ctx context.Context, id int, ch <-chan domain.Notification) {
	for {
		select {
		case n := <-ch:
			d.deliver(ctx, id, n)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, workerID int, n domain.Notification) {
	rec := domain.Delivery{
		Key:      n.Key,
		TicketID: n.TicketID,
		To:       n.Email.To,
		Subject:  n.Email.Subject,
	}

	if d.dedup != nil && n.Key != "" {
		first, err := d.dedup.Claim(ctx, n.Key)
		if err != nil {
			d.log.Warn().Err(err).Str("key", n.Key).Msg("dedup claim failed, sending anyway")
		} else if !first {
			rec.Result = domain.DeliveryDuplicate
			d.record(ctx, rec)
			return
		}
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	start := time.Now()
	_, err := d.mailer.Send(sendCtx, n.Email)
	metrics.NotificationDuration.Observe(time.Since(start).Seconds())

	rec.Result = domain.DeliverySent
	if err != nil {
		rec.Result = domain.DeliveryFailed
		rec.Error = err.Error()
		d.log.Error().Err(err).
			Str("ticket_id", n.TicketID).
			Str("to", n.Email.To).
			Int("worker_id", workerID).
			Msg("notification delivery failed")
	}
	d.record(ctx, rec)
}

func (d *Dispatcher) record(ctx context.Context, rec domain.Delivery) {
	rec.Attempted = time.Now().UTC()
	metrics.NotificationsTotal.WithLabelValues(rec.Result).Inc()
	d.log.Info().
		Str("ticket_id", rec.TicketID).
		Str("to", rec.To).
		Str("result", rec.Result).
		Msg("notification processed")

	if d.sink == nil {
		return
	}
	if err := d.sink.Record(ctx, rec); err != nil {
		d.log.Warn().Err(err).Str("key", rec.Key).Msg("delivery log write failed")
	}
}
