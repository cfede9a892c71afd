package handlers

import (
	"net/http"

	db "github.com/YukichiOhno/expense-tracker/src/db/sql"
)

func GetAllCurrencies(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currencies, err := db.GetAllCurrencies(r.Context(), d.DB)
		if err != nil {
			writeError(w, r, storeError("an error occurred while retrieving currencies", err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message":    "successfully retrieved currency table",
			"currencies": currencies,
		})
	}
}

func Health(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Ping != nil {
			if err := d.Ping(r.Context()); err != nil {
				writeError(w, r, internalError("database unavailable", err))
				return
			}
		}
		writeMessage(w, http.StatusOK, "ok")
	}
}
