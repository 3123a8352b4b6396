package generation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"folio/pkg/imagegen"
	"folio/pkg/queue"
	"folio/pkg/utils"
)

const Capacity = 100

var ErrQueueFull = errors.New("queue is full")

var _ queue.Queue = (*Queue)(nil)

// Queue feeds image requests to a single Generator one at a time.
type Queue struct {
	gen     imagegen.Generator
	limiter *rate.Limiter
	stop    chan struct{}
	items   chan *Item

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
	wg     sync.WaitGroup

	// mu orders Add against Stop so nothing is buffered after the drain.
	mu      sync.Mutex
	stopped bool
}

type Item struct {
	Ctx      context.Context
	Request  imagegen.Request
	Response chan imagegen.Image
	Error    chan error
}

// New creates a queue that starts at most one generation per interval.
// An interval <= 0 disables pacing.
func New(gen imagegen.Generator, interval time.Duration) *Queue {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{
		gen:     gen,
		limiter: rate.NewLimiter(limit, 1),
		items:   make(chan *Item, Capacity),
		stop:    make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (q *Queue) Start() {
	q.wg.Add(1)
	go q.processLoop()
}

// Stop ends the worker and waits for the item in progress to return.
// Items still buffered are failed with context.Canceled.
func (q *Queue) Stop() {
	q.once.Do(func() {
		q.mu.Lock()
		q.stopped = true
		q.mu.Unlock()
		close(q.stop)
		q.cancel()
	})
	q.wg.Wait()
	for {
		select {
		case item := <-q.items:
			item.Error <- context.Canceled
			close(item.Response)
		default:
			return
		}
	}
}

func (q *Queue) Add(ctx context.Context, req imagegen.Request) (chan imagegen.Image, chan error, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	respCh := make(chan imagegen.Image, 1)
	errCh := make(chan error, 1)

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stopped {
		return nil, nil, context.Canceled
	}

	select {
	case q.items <- &Item{
		Ctx:      ctx,
		Request:  req,
		Response: respCh,
		Error:    errCh,
	}:
		return respCh, errCh, nil
	default:
		return nil, nil, ErrQueueFull
	}
}

// Len reports how many items are waiting.
func (q *Queue) Len() int {
	return len(q.items)
}

func (q *Queue) processLoop() {
	defer q.wg.Done()
	log.Info("generation queue started")
	for {
		select {
		case <-q.stop:
			log.Info("generation queue stopped")
			return
		case item := <-q.items:
			q.processItem(item)
		}
	}
}

func (q *Queue) processItem(item *Item) {
	ctx, cancel := mergeCancel(item.Ctx, q.ctx)
	defer cancel()

	if err := q.limiter.Wait(ctx); err != nil {
		item.Error <- err
		close(item.Response)
		return
	}

	log.Info("processing generation", "prompt", utils.LimitStr(item.Request.Prompt, 50), "reference", item.Request.Reference != nil)

	start := time.Now()
	img, err := q.gen.Generate(ctx, item.Request)
	if err != nil {
		log.Warn("generation failed", "err", err, "took", time.Since(start))
		item.Error <- err
		close(item.Response)
		return
	}

	log.Info("generation finished", "bytes", len(img.Data), "took", time.Since(start))
	item.Response <- img
	close(item.Error)
}

// mergeCancel returns a context derived from a that is also cancelled when b is.
func mergeCancel(a, b context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(a)
	stop := context.AfterFunc(b, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
