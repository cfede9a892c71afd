package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/YukichiOhno/expense-tracker/src/currency"
	db "github.com/YukichiOhno/expense-tracker/src/db/sql"
	"github.com/YukichiOhno/expense-tracker/src/models"
	"github.com/YukichiOhno/expense-tracker/src/util"
)

// GetSetting reads the stored setting, which may be newer than the session.
func GetSetting(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := requireOwner(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		setting, err := db.GetSettingByNumber(r.Context(), d.DB, claims.UserNumber)
		if err != nil {
			writeError(w, r, notFoundOr(err, "setting not found", "an error occurred while retrieving user settings"))
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"message":          "successfully retrieved user settings",
			"user_information": setting,
		})
	}
}

func UpdateSetting(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := requireOwner(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		var req models.UpdateSettingRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		pageMode := util.NormalizeLower(req.PageMode)
		code := util.NormalizeUpper(req.CurrencyCode)
		if pageMode == "" || code == "" {
			writeError(w, r, validationError("required setting information missing"))
			return
		}
		if !util.ValidatePageMode(pageMode) {
			writeError(w, r, validationError("invalid page mode values, only light or dark are acceptable"))
			return
		}
		if _, err := d.Rates.Currency(r.Context(), code); err != nil {
			writeError(w, r, storeError("failed to look up currency", err))
			return
		}

		if err := db.UpdateSetting(r.Context(), d.DB, claims.UserNumber, pageMode, code); err != nil {
			if ce, ok := db.AsConstraint(err); ok && ce.Kind == db.ForeignKeyViolation {
				writeError(w, r, &Error{Kind: KindUnknownCurrency, Message: errUnknownCurrency.Message, Err: errors.Join(currency.ErrUnknownCurrency, err)})
				return
			}
			writeError(w, r, notFoundOr(err, "setting not found", "an error occurred while updating user settings"))
			return
		}

		next, err := d.reissueSession(w, r, claims)
		if err != nil {
			writeError(w, r, err)
			return
		}

		slog.InfoContext(r.Context(), "Updated settings", "user_number", claims.UserNumber, "page_mode", next.PageMode, "curr_code", next.CurrencyCode)
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "user settings successfully updated",
			"user_information": models.SettingInformation{
				PageMode:     next.PageMode,
				CurrencyCode: next.CurrencyCode,
				CurrencySign: next.CurrencySign,
			},
		})
	}
}
