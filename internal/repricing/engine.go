package repricing

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Simplici0/marginguard/internal/advisory"
	"github.com/Simplici0/marginguard/internal/pricing"
)

const defaultBatchWorkers = 8

// Engine binds Reprice to a clock for callers that do not track the hour
// themselves.
type Engine struct {
	now     func() time.Time
	loc     *time.Location
	workers int
}

type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLocation sets the timezone of the night-test window.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) { e.loc = loc }
}

// WithWorkers bounds concurrent decisions in RepriceBatch.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now, loc: time.Local, workers: defaultBatchWorkers}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers <= 0 {
		e.workers = defaultBatchWorkers
	}
	return e
}

// Hour is the current local hour of day.
func (e *Engine) Hour() int {
	return e.now().In(e.loc).Hour()
}

func (e *Engine) Reprice(fin pricing.Financials, offers []Offer, policy pricing.Policy) Decision {
	return Reprice(fin, NormalizeOffers(offers), policy, e.Hour())
}

func (e *Engine) Execute(fin pricing.Financials, offers []Offer, policy pricing.Policy, s advisory.Suggestion) Execution {
	return Execute(fin, NormalizeOffers(offers), policy, e.Hour(), s)
}

// Item is one product of a batch.
type Item struct {
	SKU        string             `json:"sku"`
	Financials pricing.Financials `json:"product"`
	Offers     []Offer            `json:"competitors"`
}

// BatchResult pairs a decision with the SKU it was computed for.
type BatchResult struct {
	SKU string `json:"sku"`
	Decision
}

// RepriceBatch decides every item concurrently. All items share one hour
// reading; results keep input order.
func (e *Engine) RepriceBatch(ctx context.Context, items []Item, policy pricing.Policy) ([]BatchResult, error) {
	hour := e.Hour()
	out := make([]BatchResult, len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = BatchResult{
				SKU:      item.SKU,
				Decision: Reprice(item.Financials, NormalizeOffers(item.Offers), policy, hour),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
