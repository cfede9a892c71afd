package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/YukichiOhno/expense-tracker/src/currency"
	sqldb "github.com/YukichiOhno/expense-tracker/src/db/sql"
	"github.com/YukichiOhno/expense-tracker/src/models"
	"github.com/dgraph-io/ristretto"
)

// CurrencyLoader fetches one currency row from the store.
type CurrencyLoader func(ctx context.Context, code string) (*models.Currency, error)

// CurrencyCache is a read-through cache over the currency reference table.
// Unknown codes are never cached so a newly seeded currency shows up on the
// next request.
type CurrencyCache struct {
	cache *ristretto.Cache
	load  CurrencyLoader
	ttl   time.Duration
}

func NewCurrencyCache(load CurrencyLoader, ttl time.Duration) (*CurrencyCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1000, // number of keys to track frequency of
		MaxCost:     100,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize currency cache: %w", err)
	}
	return &CurrencyCache{cache: cache, load: load, ttl: ttl}, nil
}

func currencyCacheKey(code string) string {
	return "currency:" + code
}

// Currency implements currency.RateSource.
func (c *CurrencyCache) Currency(ctx context.Context, code string) (*models.Currency, error) {
	key := currencyCacheKey(code)
	if v, ok := c.cache.Get(key); ok {
		if cur, ok := v.(*models.Currency); ok {
			return cur, nil
		}
	}

	cur, err := c.load(ctx, code)
	if err != nil {
		if errors.Is(err, sqldb.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", currency.ErrUnknownCurrency, code)
		}
		return nil, err
	}

	if !c.cache.SetWithTTL(key, cur, 1, c.ttl) {
		slog.DebugContext(ctx, "Currency cache rejected entry", "curr_code", code)
	}
	return cur, nil
}

// Wait blocks until buffered writes are applied.
func (c *CurrencyCache) Wait() {
	c.cache.Wait()
}

func (c *CurrencyCache) Clear() {
	c.cache.Clear()
}

func (c *CurrencyCache) Close() {
	c.cache.Close()
}
