package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecolimpio/booking-system/internal/api/metrics"
	"github.com/ecolimpio/booking-system/internal/core/ports"
)

const (
	defaultWorkers     = 4
	defaultSendTimeout = 8 * time.Second
	channelBuffer      = 128
)

// Dispatcher delivers SMS in the background through a fixed set of workers.
// Messages are sharded by recipient so texts to one phone keep their order.
type Dispatcher struct {
	workers     []chan ports.SMSMessage
	sender      ports.SMSSender
	sendTimeout time.Duration
	log         zerolog.Logger
	wg          sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers, each
// provider call bounded by sendTimeout (SMS_TIMEOUT). Non-positive values fall
// back to defaultWorkers and defaultSendTimeout.
func NewDispatcher(numWorkers int, sendTimeout time.Duration, sender ports.SMSSender, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if sendTimeout <= 0 {
		sendTimeout = defaultSendTimeout
	}
	d := &Dispatcher{
		workers:     make([]chan ports.SMSMessage, numWorkers),
		sender:      sender,
		sendTimeout: sendTimeout,
		log:         log.With().Str("component", "sms_dispatcher").Logger(),
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.SMSMessage, channelBuffer)
	}
	return d
}

// Start launches the workers. They drain their queue and exit once ctx is
// cancelled; Wait blocks until they have.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Dispatch never blocks. When the worker queue is full the message is
// dropped and logged with its code so support can relay it by hand.
func (d *Dispatcher) Dispatch(msg ports.SMSMessage) {
	idx := d.shardIndex(msg.To)
	select {
	case d.workers[idx] <- msg:
		metrics.SMSQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		metrics.SMSDispatchedTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().
			Str("phone", msg.To).
			Str("code", msg.Code).
			Int("worker_id", idx).
			Msg("sms queue full, message dropped")
	}
}

func (d *Dispatcher) shardIndex(phone string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(phone))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.SMSMessage) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case msg := <-ch:
			metrics.SMSQueueDepth.WithLabelValues(label).Dec()
			d.deliver(context.WithoutCancel(ctx), id, msg)
		}
	}
}

// drain sends whatever is still queued at shutdown.
func (d *Dispatcher) drain(id int, ch <-chan ports.SMSMessage) {
	label := strconv.Itoa(id)
	for {
		select {
		case msg := <-ch:
			metrics.SMSQueueDepth.WithLabelValues(label).Dec()
			d.deliver(context.Background(), id, msg)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, id int, msg ports.SMSMessage) {
	ctx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	start := time.Now()
	res, err := d.sender.Send(ctx, msg.To, msg.Body)
	if err != nil {
		metrics.SMSSendDuration.WithLabelValues("failed").Observe(time.Since(start).Seconds())
		metrics.SMSDispatchedTotal.WithLabelValues("failed").Inc()
		d.log.Warn().Err(err).
			Str("phone", msg.To).
			Str("code", msg.Code).
			Int("worker_id", id).
			Msg("sms delivery failed")
		return
	}
	metrics.SMSSendDuration.WithLabelValues("sent").Observe(time.Since(start).Seconds())
	metrics.SMSDispatchedTotal.WithLabelValues("sent").Inc()
	d.log.Debug().Str("phone", msg.To).Str("message_id", res.MessageID).Int("worker_id", id).Msg("sms sent")
}
