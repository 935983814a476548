package quotedetail

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"

	"quotedetail/internal/broadcast"
	"quotedetail/internal/coordinator"
	"quotedetail/internal/fetcher"
	"quotedetail/internal/market"
)

// Deps are the gateway capabilities a Session is built from
type Deps struct {
	Quotes    fetcher.QuoteSource
	History   fetcher.HistorySource
	News      fetcher.NewsSource
	Portfolio fetcher.PortfolioStore
}

func (d Deps) validate() error {
	var errs []error
	if d.Quotes == nil {
		errs = append(errs, errors.New("quote source is required"))
	}
	if d.History == nil {
		errs = append(errs, errors.New("history source is required"))
	}
	if d.News == nil {
		errs = append(errs, errors.New("news source is required"))
	}
	if d.Portfolio == nil {
		errs = append(errs, errors.New("portfolio store is required"))
	}
	return errors.Join(errs...)
}

// taskGroup tracks fetch tasks. Once closed it refuses new tasks, so no
// task is added while close is waiting.
type taskGroup struct {
	mu     sync.Mutex
	closed bool
	wg     *conc.WaitGroup
}

// Go starts f unless the group is closed
func (g *taskGroup) Go(f func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return
	}
	g.wg.Go(f)
}

// close refuses further tasks and waits for the running ones
func (g *taskGroup) close() *panics.Recovered {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()

	return g.wg.WaitAndRecover()
}

// Session backs one quote detail view. Quote, history and news are each
// fetched at most once successfully for the lifetime of the session and
// broadcast to observers of the matching channel.
type Session struct {
	id     uuid.UUID
	ctx    context.Context
	cancel context.CancelFunc
	tasks  *taskGroup
	logger zerolog.Logger

	portfolio fetcher.PortfolioStore

	quote           *broadcast.Channel[market.Quote]
	quoteFetchError *broadcast.Channel[error]
	data            *broadcast.Channel[[]market.DataPoint]
	dataFetchError  *broadcast.Channel[error]
	newsData        *broadcast.Channel[[]market.NewsArticle]
	newsError       *broadcast.Channel[error]
	unauthorized    *broadcast.Channel[struct{}]

	quotes  *coordinator.Coordinator[market.Quote]
	history *coordinator.Coordinator[[]market.DataPoint]
	news    *coordinator.Coordinator[[]market.NewsArticle]

	closeOnce sync.Once
}

// New creates a session. Its tasks stop when parent is cancelled or Close is called.
func New(parent context.Context, deps Deps) (*Session, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		id:        uuid.New(),
		ctx:       ctx,
		cancel:    cancel,
		tasks:     &taskGroup{wg: conc.NewWaitGroup()},
		portfolio: deps.Portfolio,

		quote:           broadcast.New[market.Quote]("quote"),
		quoteFetchError: broadcast.New[error]("quoteFetchError"),
		data:            broadcast.New[[]market.DataPoint]("data"),
		dataFetchError:  broadcast.New[error]("dataFetchError"),
		newsData:        broadcast.New[[]market.NewsArticle]("newsData"),
		newsError:       broadcast.New[error]("newsError"),
		unauthorized:    broadcast.New[struct{}]("unauthorized"),
	}
	s.logger = log.With().Str("session", s.id.String()).Logger()

	s.quotes = coordinator.New(ctx, s.tasks, coordinator.Config[market.Quote]{
		Name:   "quote",
		Fetch:  deps.Quotes.FetchQuote,
		Data:   s.quote,
		Errors: s.quoteFetchError,
		Logger: &s.logger,
	})
	s.history = coordinator.New(ctx, s.tasks, coordinator.Config[[]market.DataPoint]{
		Name:   "history",
		Fetch:  deps.History.FetchHistoryShort,
		Data:   s.data,
		Errors: s.dataFetchError,
		Clone:  slices.Clone[[]market.DataPoint],
		Logger: &s.logger,
	})
	s.news = coordinator.New(ctx, s.tasks, coordinator.Config[[]market.NewsArticle]{
		Name:         "news",
		Fetch:        deps.News.FetchNews,
		Data:         s.newsData,
		Errors:       s.newsError,
		Unauthorized: s.unauthorized,
		Clone:        slices.Clone[[]market.NewsArticle],
		Logger:       &s.logger,
	})

	s.logger.Debug().Msg("Session opened")
	return s, nil
}

// ID identifies the session in logs
func (s *Session) ID() uuid.UUID {
	return s.id
}

// FetchQuote requests the quote for ticker.
// The result is published on Quote or QuoteFetchError.
func (s *Session) FetchQuote(ticker string) {
	s.quotes.Request(ticker)
}

// FetchHistoricalDataShort requests the short price history for symbol.
// The result is published on Data or DataFetchError.
func (s *Session) FetchHistoricalDataShort(symbol string) {
	s.history.Request(symbol)
}

// FetchNews requests news for the query derived from quote.
// The result is published on NewsData, NewsError or Unauthorized.
func (s *Session) FetchNews(quote market.Quote) {
	s.news.Request(quote.NewsQuery())
}

// IsInPortfolio reports whether ticker is held in the portfolio
func (s *Session) IsInPortfolio(ticker string) bool {
	return s.portfolio.HasTicker(ticker)
}

// HasTicker is IsInPortfolio under the name used by the watchlist views
func (s *Session) HasTicker(ticker string) bool {
	return s.portfolio.HasTicker(ticker)
}

// RemoveStock removes ticker from the portfolio
func (s *Session) RemoveStock(ticker string) {
	s.portfolio.RemoveStock(ticker)
}

// Quote carries the fetched quote
func (s *Session) Quote() *broadcast.Channel[market.Quote] {
	return s.quote
}

// QuoteFetchError carries quote failures
func (s *Session) QuoteFetchError() *broadcast.Channel[error] {
	return s.quoteFetchError
}

// Data carries the short price history
func (s *Session) Data() *broadcast.Channel[[]market.DataPoint] {
	return s.data
}

// DataFetchError carries history failures
func (s *Session) DataFetchError() *broadcast.Channel[error] {
	return s.dataFetchError
}

// NewsData carries the fetched articles
func (s *Session) NewsData() *broadcast.Channel[[]market.NewsArticle] {
	return s.newsData
}

// NewsError carries news failures other than rejected credentials
func (s *Session) NewsError() *broadcast.Channel[error] {
	return s.newsError
}

// Unauthorized signals that the news provider rejected the credentials
func (s *Session) Unauthorized() *broadcast.Channel[struct{}] {
	return s.unauthorized
}

// Done is closed once the session is torn down
func (s *Session) Done() <-chan struct{} {
	return s.ctx.Done()
}

// States reports the cache slot state of each entity kind
func (s *Session) States() map[string]coordinator.State {
	return map[string]coordinator.State{
		"quote":   s.quotes.State(),
		"history": s.history.State(),
		"news":    s.news.State(),
	}
}

// Close tears the session down. In-flight fetches are cancelled and their
// results discarded; every channel is closed. Close blocks until all
// fetch tasks have returned and is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()

		s.quote.Close()
		s.quoteFetchError.Close()
		s.data.Close()
		s.dataFetchError.Close()
		s.newsData.Close()
		s.newsError.Close()
		s.unauthorized.Close()

		if r := s.tasks.close(); r != nil {
			s.logger.Error().Interface("panic", r.Value).Msg("Fetch task panicked")
		}

		s.logger.Debug().
			Int64("quote_calls", s.quotes.Calls()).
			Int64("history_calls", s.history.Calls()).
			Int64("news_calls", s.news.Calls()).
			Msg("Session closed")
	})
}
