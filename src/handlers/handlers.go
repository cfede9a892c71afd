package handlers

import (
	"context"

	"github.com/YukichiOhno/expense-tracker/src/auth"
	"github.com/YukichiOhno/expense-tracker/src/currency"
	db "github.com/YukichiOhno/expense-tracker/src/db/sql"
)

// Deps is what every handler closes over. It is assembled once in main.
type Deps struct {
	DB           db.DBTX
	Tokens       *auth.Issuer
	Rates        currency.RateSource
	Money        currency.Normalizer
	SecureCookie bool
	// Ping reports store liveness for /health. Nil means always healthy.
	Ping func(ctx context.Context) error
}
