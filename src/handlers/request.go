package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/YukichiOhno/expense-tracker/src/auth"
	"github.com/YukichiOhno/expense-tracker/src/currency"
	db "github.com/YukichiOhno/expense-tracker/src/db/sql"
	"github.com/YukichiOhno/expense-tracker/src/middleware"
	"github.com/YukichiOhno/expense-tracker/src/util"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &Error{Kind: KindValidation, Message: errInvalidBody.Message, Err: err}
	}
	return nil
}

func requireClaims(r *http.Request) (*auth.Claims, error) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return nil, newError(KindUnauthenticated, "unauthorized: no token provided")
	}
	return claims, nil
}

// requireOwner checks the :user_number path parameter against the session.
// It runs before the body is read.
func requireOwner(r *http.Request) (*auth.Claims, error) {
	claims, err := requireClaims(r)
	if err != nil {
		return nil, err
	}
	if chi.URLParam(r, "user_number") != claims.UserNumber {
		return nil, errForbidden
	}
	return claims, nil
}

func pathSeq(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	seq, err := strconv.Atoi(raw)
	if err != nil || seq < 1 {
		return 0, validationError("invalid " + strings.ReplaceAll(name, "_", " "))
	}
	return seq, nil
}

// positiveAmount reports a missing or non-positive amount as a validation error.
func positiveAmount(amount decimal.NullDecimal) (decimal.Decimal, error) {
	if !amount.Valid {
		return decimal.Zero, validationError("amount is required")
	}
	if !amount.Decimal.IsPositive() {
		return decimal.Zero, validationError("amount must be greater than zero")
	}
	return amount.Decimal, nil
}

// optionalDescription normalizes a free-text description; blank becomes nil.
func optionalDescription(raw string) (*string, error) {
	desc := util.NormalizeOptional(&raw)
	if desc != nil && !util.ValidateLength(*desc, util.MaxDescriptionLength) {
		return nil, errDescriptionTooLong
	}
	return desc, nil
}

func (d *Deps) toStorage(ctx context.Context, amount decimal.Decimal, code string) (decimal.Decimal, error) {
	stored, err := d.Money.ToStorage(ctx, amount, code)
	if err != nil {
		return decimal.Zero, storeError("failed to convert amount", err)
	}
	if stored.Abs().GreaterThanOrEqual(currency.MaxStorable) {
		return decimal.Zero, validationError("amount is too large")
	}
	return stored, nil
}

func (d *Deps) toDisplay(ctx context.Context, amountUSD decimal.Decimal, code string) (float64, error) {
	shown, err := d.Money.ToDisplay(ctx, amountUSD, code)
	if err != nil {
		return 0, storeError("failed to convert amount", err)
	}
	return shown.InexactFloat64(), nil
}

// reissueSession re-reads the profile and replaces the session cookie,
// keeping the original expiry.
func (d *Deps) reissueSession(w http.ResponseWriter, r *http.Request, prev *auth.Claims) (*auth.Claims, error) {
	profile, err := db.GetProfileByNumber(r.Context(), d.DB, prev.UserNumber)
	if err != nil {
		return nil, storeError("failed to reload user profile", err)
	}

	next := auth.ClaimsFromProfile(profile)
	token, expires, err := d.Tokens.Reissue(prev, next)
	if err != nil {
		return nil, internalError("failed to reissue session", err)
	}
	auth.SetSessionCookie(w, token, expires, d.SecureCookie)
	return &next, nil
}
