// Package currency converts between user-entered amounts and the USD amounts
// persisted by the ledger store.
//
// Stored amounts are always USD. A display amount is the USD amount times the
// currency's dollar_to_curr rate, rounded to two places; an entered amount is
// divided by the same rate before it is written.
package currency

import (
	"context"
	"errors"

	"github.com/YukichiOhno/expense-tracker/src/models"
	"github.com/shopspring/decimal"
)

// ErrUnknownCurrency is returned when a currency code has no reference row.
var ErrUnknownCurrency = errors.New("unknown currency")

// storagePlaces matches the NUMERIC(18,6) amount columns.
const storagePlaces = 6

const displayPlaces = 2

// MaxStorable is the exclusive upper bound of a NUMERIC(18,6) amount.
var MaxStorable = decimal.New(1, 18-storagePlaces)

// RateSource looks up a currency reference row by code.
type RateSource interface {
	Currency(ctx context.Context, code string) (*models.Currency, error)
}

// Normalizer moves amounts across the API boundary.
type Normalizer interface {
	ToStorage(ctx context.Context, amount decimal.Decimal, code string) (decimal.Decimal, error)
	ToDisplay(ctx context.Context, amountUSD decimal.Decimal, code string) (decimal.Decimal, error)
}

// ToStorage divides an entered amount by the rate.
func ToStorage(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.DivRound(rate, storagePlaces)
}

// ToDisplay multiplies a USD amount by the rate and rounds to cents.
func ToDisplay(amountUSD, rate decimal.Decimal) decimal.Decimal {
	return amountUSD.Mul(rate).Round(displayPlaces)
}

// Converter applies the per-currency rate from a RateSource.
type Converter struct {
	rates RateSource
}

func NewConverter(rates RateSource) *Converter {
	return &Converter{rates: rates}
}

func (c *Converter) rate(ctx context.Context, code string) (decimal.Decimal, error) {
	cur, err := c.rates.Currency(ctx, code)
	if err != nil {
		return decimal.Zero, err
	}
	if !cur.DollarToCurr.IsPositive() {
		return decimal.Zero, ErrUnknownCurrency
	}
	return cur.DollarToCurr, nil
}

func (c *Converter) ToStorage(ctx context.Context, amount decimal.Decimal, code string) (decimal.Decimal, error) {
	r, err := c.rate(ctx, code)
	if err != nil {
		return decimal.Zero, err
	}
	return ToStorage(amount, r), nil
}

func (c *Converter) ToDisplay(ctx context.Context, amountUSD decimal.Decimal, code string) (decimal.Decimal, error) {
	r, err := c.rate(ctx, code)
	if err != nil {
		return decimal.Zero, err
	}
	return ToDisplay(amountUSD, r), nil
}

// Passthrough stores and displays amounts as entered. It backs deployments
// running with currency conversion switched off.
type Passthrough struct{}

func (Passthrough) ToStorage(_ context.Context, amount decimal.Decimal, _ string) (decimal.Decimal, error) {
	return amount.Round(storagePlaces), nil
}

func (Passthrough) ToDisplay(_ context.Context, amountUSD decimal.Decimal, _ string) (decimal.Decimal, error) {
	return amountUSD.Round(displayPlaces), nil
}
