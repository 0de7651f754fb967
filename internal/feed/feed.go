// Package feed runs the network side of the two-stage pipeline: a
// single worker goroutine drains a bounded request queue, performs one
// blocking API call per request, and emits tagged results on a bounded
// result queue. Both queues have a small fixed depth; enqueueing past
// capacity blocks the caller, which is the accepted backpressure.
package feed

import (
	"context"
	"fmt"
	"time"

	"finnterm/internal/directory"
	"finnterm/internal/finnhub"
)

// QueueDepth is the capacity of the request and result queues.
const QueueDepth = 2

// Kind tags a request (and its matching result) with the query type.
type Kind int

const (
	KindProfile     Kind = iota // company profile by symbol
	KindListing                 // exchange symbol listing
	KindMarketNews              // general news by category
	KindCompanyNews             // company news by symbol
)

// Request is one queued, not-yet-executed fetch intent.
type Request struct {
	Kind     Kind
	Symbol   string // KindProfile, KindCompanyNews
	Exchange string // KindListing
	Category string // KindMarketNews
}

// Result is the outcome of one request. Exactly one of Text or Err is
// meaningful; a successful listing additionally carries the replacement
// Directory so the owner can swap it in and rewrite its cache.
type Result struct {
	Kind      Kind
	Text      string
	Err       error
	Exchange  string
	Directory *directory.Directory
}

// Fetcher is the slice of the API client the worker needs.
type Fetcher interface {
	CompanyProfile(ctx context.Context, symbol string) (finnhub.Profile, error)
	StockSymbols(ctx context.Context, exchange string) ([]finnhub.StockSymbol, error)
	MarketNews(ctx context.Context, category string) ([]finnhub.NewsItem, error)
	CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]finnhub.NewsItem, error)
}

// Worker consumes requests one at a time. A request fully completes,
// including body read, parse, and formatting, before the next dequeue.
type Worker struct {
	fetcher  Fetcher
	requests chan Request
	results  chan Result
	lookback time.Duration
	now      func() time.Time
}

// Option configures a Worker.
type Option func(*Worker)

// WithLookback sets the company-news date window ending at now.
func WithLookback(d time.Duration) Option {
	return func(w *Worker) { w.lookback = d }
}

// WithClock overrides the time source for the company-news window.
func WithClock(now func() time.Time) Option {
	return func(w *Worker) { w.now = now }
}

// NewWorker creates a Worker around fetcher. Run must be started for
// requests to be drained.
func NewWorker(fetcher Fetcher, opts ...Option) *Worker {
	w := &Worker{
		fetcher:  fetcher,
		requests: make(chan Request, QueueDepth),
		results:  make(chan Result, QueueDepth),
		lookback: 7 * 24 * time.Hour,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Enqueue submits a request. It blocks when the queue is full until
// the worker drains a slot.
func (w *Worker) Enqueue(req Request) {
	w.requests <- req
}

// Results returns the channel results are delivered on, in request order.
func (w *Worker) Results() <-chan Result {
	return w.results
}

// Run drains the request queue until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-w.requests:
			res := w.process(ctx, req)
			select {
			case <-ctx.Done():
				return
			case w.results <- res:
			}
		}
	}
}

// process performs the API call for one request and formats the outcome.
// Transport failures, bad statuses, and schema mismatches all land in
// Result.Err; the owner renders them as text like any other result.
func (w *Worker) process(ctx context.Context, req Request) Result {
	switch req.Kind {
	case KindProfile:
		p, err := w.fetcher.CompanyProfile(ctx, req.Symbol)
		if err != nil {
			return Result{Kind: req.Kind, Err: err}
		}
		return Result{Kind: req.Kind, Text: finnhub.FormatProfile(p)}

	case KindListing:
		symbols, err := w.fetcher.StockSymbols(ctx, req.Exchange)
		if err != nil {
			return Result{Kind: req.Kind, Exchange: req.Exchange, Err: err}
		}
		entries := make([]directory.Entry, 0, len(symbols))
		for _, s := range symbols {
			entries = append(entries, directory.Entry{
				Symbol:      s.DisplaySymbol,
				Description: s.Description,
			})
		}
		d := directory.New(entries)
		return Result{
			Kind:      req.Kind,
			Exchange:  req.Exchange,
			Directory: d,
			Text:      fmt.Sprintf("Loaded %d symbols for exchange %s", d.Len(), req.Exchange),
		}

	case KindMarketNews:
		items, err := w.fetcher.MarketNews(ctx, req.Category)
		if err != nil {
			return Result{Kind: req.Kind, Err: err}
		}
		text, err := finnhub.FormatNews(items)
		if err != nil {
			return Result{Kind: req.Kind, Err: err}
		}
		return Result{Kind: req.Kind, Text: text}

	case KindCompanyNews:
		to := w.now()
		from := to.Add(-w.lookback)
		items, err := w.fetcher.CompanyNews(ctx, req.Symbol, from, to)
		if err != nil {
			return Result{Kind: req.Kind, Err: err}
		}
		text, err := finnhub.FormatNews(items)
		if err != nil {
			return Result{Kind: req.Kind, Err: err}
		}
		return Result{Kind: req.Kind, Text: text}

	default:
		return Result{Kind: req.Kind, Err: fmt.Errorf("feed: unknown request kind %d", req.Kind)}
	}
}
