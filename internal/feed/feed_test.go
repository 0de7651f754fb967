package feed

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"finnterm/internal/finnhub"
)

// fakeFetcher is a scriptable Fetcher for worker tests.
type fakeFetcher struct {
	profile     finnhub.Profile
	profileErr  error
	symbols     []finnhub.StockSymbol
	symbolsErr  error
	news        []finnhub.NewsItem
	newsErr     error
	gotCategory string
	gotFrom     time.Time
	gotTo       time.Time
	block       chan struct{} // when non-nil, calls wait here first
}

func (f *fakeFetcher) CompanyProfile(ctx context.Context, symbol string) (finnhub.Profile, error) {
	f.wait()
	return f.profile, f.profileErr
}

func (f *fakeFetcher) StockSymbols(ctx context.Context, exchange string) ([]finnhub.StockSymbol, error) {
	f.wait()
	return f.symbols, f.symbolsErr
}

func (f *fakeFetcher) MarketNews(ctx context.Context, category string) ([]finnhub.NewsItem, error) {
	f.wait()
	f.gotCategory = category
	return f.news, f.newsErr
}

func (f *fakeFetcher) CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]finnhub.NewsItem, error) {
	f.wait()
	f.gotFrom, f.gotTo = from, to
	return f.news, f.newsErr
}

func (f *fakeFetcher) wait() {
	if f.block != nil {
		<-f.block
	}
}

// runWorker starts w.Run in the background and cancels it on cleanup.
func runWorker(t *testing.T, w *Worker) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go w.Run(ctx)
}

// awaitResult receives one result or fails the test after a timeout.
func awaitResult(t *testing.T, w *Worker) Result {
	t.Helper()
	select {
	case res := <-w.Results():
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a result")
		return Result{}
	}
}

func TestWorker_ProfileSuccess(t *testing.T) {
	f := &fakeFetcher{profile: finnhub.Profile{Name: "Apple Inc", Ticker: "AAPL"}}
	w := NewWorker(f)
	runWorker(t, w)

	w.Enqueue(Request{Kind: KindProfile, Symbol: "AAPL"})

	res := awaitResult(t, w)
	if res.Err != nil {
		t.Fatalf("Err = %v, want nil", res.Err)
	}
	if !strings.Contains(res.Text, "Company name: Apple Inc") {
		t.Errorf("Text = %q, want formatted profile block", res.Text)
	}
}

func TestWorker_ProfileErrorIsTagged(t *testing.T) {
	f := &fakeFetcher{profileErr: errors.New("boom")}
	w := NewWorker(f)
	runWorker(t, w)

	w.Enqueue(Request{Kind: KindProfile, Symbol: "AAPL"})

	res := awaitResult(t, w)
	if res.Err == nil {
		t.Fatal("Err = nil, want tagged error")
	}
	if res.Text != "" {
		t.Errorf("Text = %q, want empty on error", res.Text)
	}
}

func TestWorker_ListingBuildsDirectory(t *testing.T) {
	f := &fakeFetcher{symbols: []finnhub.StockSymbol{
		{DisplaySymbol: "AAPL", Description: "APPLE INC"},
		{DisplaySymbol: "MSFT", Description: "MICROSOFT CORP"},
	}}
	w := NewWorker(f)
	runWorker(t, w)

	w.Enqueue(Request{Kind: KindListing, Exchange: "US"})

	res := awaitResult(t, w)
	if res.Err != nil {
		t.Fatalf("Err = %v", res.Err)
	}
	if res.Directory == nil || res.Directory.Len() != 2 {
		t.Fatalf("Directory = %v, want 2 entries", res.Directory)
	}
	if res.Exchange != "US" {
		t.Errorf("Exchange = %q, want US", res.Exchange)
	}
	if res.Text != "Loaded 2 symbols for exchange US" {
		t.Errorf("Text = %q", res.Text)
	}
}

func TestWorker_MarketNewsPassesCategory(t *testing.T) {
	f := &fakeFetcher{news: []finnhub.NewsItem{{Datetime: 1596589501, Headline: "h", Source: "s"}}}
	w := NewWorker(f)
	runWorker(t, w)

	w.Enqueue(Request{Kind: KindMarketNews, Category: "forex"})

	res := awaitResult(t, w)
	if res.Err != nil {
		t.Fatalf("Err = %v", res.Err)
	}
	if f.gotCategory != "forex" {
		t.Errorf("category = %q, want forex", f.gotCategory)
	}
}

func TestWorker_CompanyNewsWindow(t *testing.T) {
	now := time.Date(2022, 3, 15, 12, 0, 0, 0, time.UTC)
	f := &fakeFetcher{news: []finnhub.NewsItem{{Datetime: 1647000000, Headline: "h", Source: "s"}}}
	w := NewWorker(f, WithLookback(7*24*time.Hour), WithClock(func() time.Time { return now }))
	runWorker(t, w)

	w.Enqueue(Request{Kind: KindCompanyNews, Symbol: "AAPL"})

	if res := awaitResult(t, w); res.Err != nil {
		t.Fatalf("Err = %v", res.Err)
	}
	if !f.gotTo.Equal(now) {
		t.Errorf("to = %v, want %v", f.gotTo, now)
	}
	if want := now.Add(-7 * 24 * time.Hour); !f.gotFrom.Equal(want) {
		t.Errorf("from = %v, want %v", f.gotFrom, want)
	}
}

func TestWorker_EmptyNewsIsError(t *testing.T) {
	f := &fakeFetcher{news: nil}
	w := NewWorker(f)
	runWorker(t, w)

	w.Enqueue(Request{Kind: KindCompanyNews, Symbol: "AAPL"})

	res := awaitResult(t, w)
	if !errors.Is(res.Err, finnhub.ErrNoNews) {
		t.Errorf("Err = %v, want ErrNoNews", res.Err)
	}
}

func TestWorker_ResultsArriveInRequestOrder(t *testing.T) {
	f := &fakeFetcher{
		profile: finnhub.Profile{Name: "Apple Inc", Ticker: "AAPL"},
		news:    []finnhub.NewsItem{{Datetime: 1596589501, Headline: "h", Source: "s"}},
	}
	w := NewWorker(f)
	runWorker(t, w)

	w.Enqueue(Request{Kind: KindProfile, Symbol: "AAPL"})
	w.Enqueue(Request{Kind: KindMarketNews, Category: "general"})

	if res := awaitResult(t, w); res.Kind != KindProfile {
		t.Errorf("first result Kind = %d, want KindProfile", res.Kind)
	}
	if res := awaitResult(t, w); res.Kind != KindMarketNews {
		t.Errorf("second result Kind = %d, want KindMarketNews", res.Kind)
	}
}

// TestWorker_Backpressure exercises the bounded queue: with the worker
// parked inside a request, the queue holds QueueDepth entries and the
// next Enqueue blocks until a slot drains.
func TestWorker_Backpressure(t *testing.T) {
	gate := make(chan struct{})
	f := &fakeFetcher{
		profile: finnhub.Profile{Name: "X", Ticker: "X"},
		block:   gate,
	}
	w := NewWorker(f)
	runWorker(t, w)

	// First request is dequeued immediately and parks in the fetcher.
	w.Enqueue(Request{Kind: KindProfile, Symbol: "1"})
	// These two fill the queue.
	w.Enqueue(Request{Kind: KindProfile, Symbol: "2"})
	w.Enqueue(Request{Kind: KindProfile, Symbol: "3"})

	blocked := make(chan struct{})
	go func() {
		w.Enqueue(Request{Kind: KindProfile, Symbol: "4"})
		close(blocked)
	}()

	select {
	case <-blocked:
		t.Fatal("Enqueue past capacity should block while the worker is busy")
	case <-time.After(50 * time.Millisecond):
		// still blocked, as expected
	}

	// Release one request; the worker drains a slot and exactly one
	// pending enqueue proceeds.
	gate <- struct{}{}
	select {
	case <-blocked:
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue should unblock after the worker drains a slot")
	}

	// Unpark the remaining requests so the worker can finish.
	go func() {
		for i := 0; i < 3; i++ {
			gate <- struct{}{}
		}
	}()
	for i := 0; i < 4; i++ {
		awaitResult(t, w)
	}
}

func TestWorker_RunStopsOnCancel(t *testing.T) {
	f := &fakeFetcher{profile: finnhub.Profile{Name: "X", Ticker: "X"}}
	w := NewWorker(f)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run should return once the context is cancelled")
	}
}
