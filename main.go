package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"quotedetail/internal/alphavantage"
	"quotedetail/internal/broadcast"
	"quotedetail/internal/config"
	"quotedetail/internal/coordinator"
	"quotedetail/internal/logger"
	"quotedetail/internal/market"
	"quotedetail/internal/newsapi"
	"quotedetail/internal/portfolio"
	"quotedetail/internal/quotedetail"
	"quotedetail/internal/ratelimit"
)

var (
	withHistory bool
	withNews    bool
	timeout     time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "quotedetail <TICKER>",
	Short: "Show the detail view of a stock quote",
	Long: `Opens a quote detail session for TICKER, fetches the quote and optionally
its short price history and related news, then requests everything a second
time to show that successful results are served from the session cache.

Examples:
  quotedetail AAPL
  quotedetail MSFT --history --news --timeout 1m`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDetail,
}

func init() {
	rootCmd.Flags().BoolVar(&withHistory, "history", false, "also fetch the short price history")
	rootCmd.Flags().BoolVar(&withNews, "news", false, "also fetch news once the quote arrives")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall time limit")
}

func main() {
	// Handle interrupt signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runDetail(cmd *cobra.Command, args []string) error {
	ticker := strings.ToUpper(strings.TrimSpace(args[0]))
	if ticker == "" {
		return errors.New("ticker must not be empty")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.Init(logger.Config{
		Level:         cfg.Log.Level,
		Format:        cfg.Log.Format,
		FilePath:      cfg.Log.FilePath,
		RotationSize:  cfg.Log.RotationSizeMB,
		RetentionDays: cfg.Log.RetentionDays,
		ServiceName:   "quotedetail",
	}); err != nil {
		return err
	}

	session, err := quotedetail.New(cmd.Context(), newDeps(cfg))
	if err != nil {
		return err
	}
	defer session.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	v := newView(session, cmd.OutOrStdout())
	defer v.detach()

	log.Info().Str("ticker", ticker).Str("session", session.ID().String()).Msg("Opening quote detail")

	if session.IsInPortfolio(ticker) {
		fmt.Fprintf(v.out, "%s is in your portfolio\n", ticker)
	}

	fmt.Fprintln(v.out, "Fetching quote detail...")
	fmt.Fprintln(v.out, "================================================")
	if err := v.load(ctx, ticker, withHistory, withNews); err != nil {
		return err
	}

	fmt.Fprintln(v.out, "================================================")
	fmt.Fprintln(v.out, "Requesting again (served from the session cache)...")
	return v.replay(ctx, ticker)
}

func newDeps(cfg *config.Config) quotedetail.Deps {
	limiter := ratelimit.New(ratelimit.Limits{
		ratelimit.APIAlphaVantage: cfg.AlphavantageRPS,
		ratelimit.APINews:         cfg.NewsRPS,
	})

	av := alphavantage.NewClient(
		cfg.AlphavantageAPIKey,
		cfg.AlphavantageBaseURL,
		alphavantage.WithLimiter(limiter),
		alphavantage.WithHistoryPoints(cfg.HistoryShortPoints),
		alphavantage.WithRetryCount(cfg.HTTPRetryCount),
	)

	news := newsapi.NewNewsFetcher(
		cfg.NewsAPIKey,
		cfg.NewsBaseURL,
		cfg.HTTPRetryCount,
		newsapi.WithLimiter(limiter),
		newsapi.WithPageSize(cfg.NewsPageSize),
		newsapi.WithLanguage(cfg.NewsLanguage),
	)

	return quotedetail.Deps{
		Quotes:    av,
		History:   av,
		News:      news,
		Portfolio: portfolio.NewMemoryStore(cfg.Portfolio...),
	}
}

// view renders session channels to out
type view struct {
	session *quotedetail.Session
	out     io.Writer

	quote        *broadcast.Subscription[market.Quote]
	quoteErr     *broadcast.Subscription[error]
	history      *broadcast.Subscription[[]market.DataPoint]
	historyErr   *broadcast.Subscription[error]
	news         *broadcast.Subscription[[]market.NewsArticle]
	newsErr      *broadcast.Subscription[error]
	unauthorized *broadcast.Subscription[struct{}]
}

func newView(s *quotedetail.Session, out io.Writer) *view {
	return &view{
		session:      s,
		out:          out,
		quote:        s.Quote().Subscribe(),
		quoteErr:     s.QuoteFetchError().Subscribe(),
		history:      s.Data().Subscribe(),
		historyErr:   s.DataFetchError().Subscribe(),
		news:         s.NewsData().Subscribe(),
		newsErr:      s.NewsError().Subscribe(),
		unauthorized: s.Unauthorized().Subscribe(),
	}
}

func (v *view) detach() {
	v.session.Quote().Unsubscribe(v.quote)
	v.session.QuoteFetchError().Unsubscribe(v.quoteErr)
	v.session.Data().Unsubscribe(v.history)
	v.session.DataFetchError().Unsubscribe(v.historyErr)
	v.session.NewsData().Unsubscribe(v.news)
	v.session.NewsError().Unsubscribe(v.newsErr)
	v.session.Unauthorized().Unsubscribe(v.unauthorized)
}

// load triggers the fetches and prints one outcome per requested kind.
// News is requested once the quote is known, since its query is built from it.
func (v *view) load(ctx context.Context, ticker string, history, news bool) error {
	pending := 1
	if history {
		pending++
		v.session.FetchHistoricalDataShort(ticker)
	}
	if news {
		pending++
	}
	v.session.FetchQuote(ticker)

	for pending > 0 {
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %s: %w", ticker, ctx.Err())

		case q := <-v.quote.C:
			pending--
			v.printQuote(q)
			if news {
				v.session.FetchNews(q)
			}
		case err := <-v.quoteErr.C:
			pending--
			fmt.Fprintf(v.out, "[quote] error: %v\n", err)
			if news {
				// no quote, no news query
				pending--
			}

		case points := <-v.history.C:
			pending--
			v.printHistory(points)
		case err := <-v.historyErr.C:
			pending--
			fmt.Fprintf(v.out, "[history] error: %v\n", err)

		case articles := <-v.news.C:
			pending--
			v.printNews(articles)
		case err := <-v.newsErr.C:
			pending--
			fmt.Fprintf(v.out, "[news] error: %v\n", err)
		case <-v.unauthorized.C:
			pending--
			fmt.Fprintln(v.out, "[news] unauthorized: check NEWS_API_KEY")
		}
	}
	return nil
}

// replay requests every cached kind again; each answer comes from the cache
func (v *view) replay(ctx context.Context, ticker string) error {
	states := v.session.States()

	if states["quote"] == coordinator.StateCached {
		v.session.FetchQuote(ticker)
		q, err := next(ctx, v.quote)
		if err != nil {
			return err
		}
		fmt.Fprint(v.out, "(cached) ")
		v.printQuote(q)
	}

	if states["history"] == coordinator.StateCached {
		v.session.FetchHistoricalDataShort(ticker)
		points, err := next(ctx, v.history)
		if err != nil {
			return err
		}
		fmt.Fprint(v.out, "(cached) ")
		v.printHistory(points)
	}

	if states["news"] == coordinator.StateCached {
		if q, ok := v.session.Quote().Observe(); ok {
			v.session.FetchNews(q)
			articles, err := next(ctx, v.news)
			if err != nil {
				return err
			}
			fmt.Fprint(v.out, "(cached) ")
			v.printNews(articles)
		}
	}

	return nil
}

func next[T any](ctx context.Context, sub *broadcast.Subscription[T]) (T, error) {
	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case v, ok := <-sub.C:
		if !ok {
			return zero, errors.New("session closed")
		}
		return v, nil
	}
}

func (v *view) printQuote(q market.Quote) {
	price := q.Price.StringFixed(2)
	if q.Currency != "" {
		price += " " + q.Currency
	}
	fmt.Fprintf(v.out, "[quote] %s %s (%s, %s%%)\n",
		q.Symbol, price, q.Change.StringFixed(2), q.ChangePercent.StringFixed(2))
}

func (v *view) printHistory(points []market.DataPoint) {
	if len(points) == 0 {
		fmt.Fprintln(v.out, "[history] no data points")
		return
	}
	first, last := points[0], points[len(points)-1]
	fmt.Fprintf(v.out, "[history] %d points, %s %s -> %s %s\n",
		len(points),
		first.Time.Format(time.DateOnly), first.Close.StringFixed(2),
		last.Time.Format(time.DateOnly), last.Close.StringFixed(2))
}

func (v *view) printNews(articles []market.NewsArticle) {
	fmt.Fprintf(v.out, "[news] %d articles\n", len(articles))
	for i, a := range articles {
		if i == 5 {
			fmt.Fprintf(v.out, "  ... and %d more\n", len(articles)-i)
			break
		}
		fmt.Fprintf(v.out, "  - %s (%s)\n", a.Title, a.Source)
	}
}
