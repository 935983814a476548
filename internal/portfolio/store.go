package portfolio

import (
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// MemoryStore is an in-process portfolio membership store.
// Tickers are compared case-insensitively.
type MemoryStore struct {
	mu      sync.RWMutex
	tickers map[string]struct{}
}

// NewMemoryStore creates a store seeded with tickers
func NewMemoryStore(tickers ...string) *MemoryStore {
	s := &MemoryStore{
		tickers: make(map[string]struct{}, len(tickers)),
	}
	for _, t := range tickers {
		s.AddStock(t)
	}
	return s
}

// AddStock adds ticker to the portfolio. Blank tickers are ignored.
func (s *MemoryStore) AddStock(ticker string) {
	key := normalize(ticker)
	if key == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tickers[key] = struct{}{}
}

// HasTicker reports whether ticker is in the portfolio
func (s *MemoryStore) HasTicker(ticker string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.tickers[normalize(ticker)]
	return ok
}

// RemoveStock removes ticker. Removing an absent ticker is a no-op.
func (s *MemoryStore) RemoveStock(ticker string) {
	key := normalize(ticker)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tickers[key]; !ok {
		return
	}
	delete(s.tickers, key)

	log.Debug().Str("ticker", key).Int("remaining", len(s.tickers)).Msg("Removed stock from portfolio")
}

// Tickers returns the portfolio contents in sorted order
func (s *MemoryStore) Tickers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.tickers))
	for t := range s.tickers {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func normalize(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
