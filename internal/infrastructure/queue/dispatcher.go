package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/handyhub/marketplace-system/internal/api/metrics"
	"github.com/handyhub/marketplace-system/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Dispatcher fans lifecycle events out to a fixed set of workers using
// consistent hashing on the service request id, guaranteeing that
// notifications for one request are recorded in the order its transitions
// happened.
type Dispatcher struct {
	workers []chan ports.RequestEvent
	service ports.NotificationService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.NotificationService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.RequestEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.RequestEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an event to the worker responsible for its service request.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(event ports.RequestEvent) {
	idx := d.shardIndex(event.RequestID)
	d.workers[idx] <- event
	metrics.NotificationsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps a service request id deterministically to a worker index.
func (d *Dispatcher) shardIndex(requestID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(requestID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.RequestEvent) {
	gauge := metrics.NotificationsQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			gauge.Set(float64(len(ch)))
			if err := d.service.Record(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("request_id", event.RequestID).
					Int("worker_id", id).
					Msg("notification recording failed")
			}
		}
	}
}
