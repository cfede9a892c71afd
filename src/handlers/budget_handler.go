package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	db "github.com/YukichiOhno/expense-tracker/src/db/sql"
	"github.com/YukichiOhno/expense-tracker/src/models"
	"github.com/YukichiOhno/expense-tracker/src/util"
)

var errBudgetDateRange = newError(KindDateRangeConflict,
	"an existing budget falls within your range of date; you must delete that budget first to continue")

func budgetConflict(err error) *Error {
	ce, ok := db.AsConstraint(err)
	if !ok {
		return nil
	}
	switch ce.Constraint {
	case db.ConstraintBudgetRange:
		return errBudgetDateRange
	case db.ConstraintBudgetDates:
		return validationError("start date must not be greater than the end date")
	case db.ConstraintBudgetAmount:
		return validationError("amount must be greater than zero")
	}
	return nil
}

func parseBudgetDates(start, end string) (time.Time, time.Time, error) {
	startDate, err := util.ParseDate(util.NormalizeSpace(start))
	if err != nil {
		return time.Time{}, time.Time{}, validationError("start_date must use the YYYY-MM-DD format")
	}
	endDate, err := util.ParseDate(util.NormalizeSpace(end))
	if err != nil {
		return time.Time{}, time.Time{}, validationError("end_date must use the YYYY-MM-DD format")
	}
	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, validationError("start date must not be greater than the end date")
	}
	return startDate, endDate, nil
}

func CreateBudget(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := requireClaims(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		var req models.CreateBudgetRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if req.StartDate == "" || req.EndDate == "" {
			writeError(w, r, validationError("required budget information missing"))
			return
		}
		amount, err := positiveAmount(req.Amount)
		if err != nil {
			writeError(w, r, err)
			return
		}
		description, err := optionalDescription(req.Description)
		if err != nil {
			writeError(w, r, err)
			return
		}
		startDate, endDate, err := parseBudgetDates(req.StartDate, req.EndDate)
		if err != nil {
			writeError(w, r, err)
			return
		}
		stored, err := d.toStorage(r.Context(), amount, claims.CurrencyCode)
		if err != nil {
			writeError(w, r, err)
			return
		}

		created, err := db.CreateBudget(r.Context(), d.DB, claims.UserNumber, &models.Budget{
			Amount:      stored,
			Description: description,
			StartDate:   startDate,
			EndDate:     endDate,
		})
		if err != nil {
			if he := budgetConflict(err); he != nil {
				writeError(w, r, he)
				return
			}
			writeError(w, r, storeError("an error occurred while adding a budget", err))
			return
		}

		slog.InfoContext(r.Context(), "Created budget", "user_number", claims.UserNumber, "budget_number", created.Seq)
		writeJSON(w, http.StatusCreated, map[string]any{
			"message":       "successfully added the budget for the user",
			"budget_number": created.Seq,
		})
	}
}

func (d *Deps) budgetResponse(ctx context.Context, b models.Budget, code string) (models.BudgetResponse, error) {
	amount, err := d.toDisplay(ctx, b.Amount, code)
	if err != nil {
		return models.BudgetResponse{}, err
	}
	return models.BudgetResponse{
		BudgetNumber: b.Seq,
		Amount:       amount,
		Description:  b.Description,
		StartDate:    util.FormatDate(b.StartDate),
		EndDate:      util.FormatDate(b.EndDate),
		Active:       b.Active,
	}, nil
}

func GetAllBudgetsForUser(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := requireOwner(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		budgets, err := db.GetAllBudgetsForUser(r.Context(), d.DB, claims.UserNumber)
		if err != nil {
			writeError(w, r, storeError("an error occurred while retrieving budgets", err))
			return
		}

		var resp []models.BudgetResponse
		for _, b := range budgets {
			br, err := d.budgetResponse(r.Context(), b, claims.CurrencyCode)
			if err != nil {
				writeError(w, r, err)
				return
			}
			resp = append(resp, br)
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"message":       "successfully retrieved all budgets for the user",
			"budgets":       resp,
			"currency_sign": claims.CurrencySign,
		})
	}
}

func UpdateBudget(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := requireOwner(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		seq, err := pathSeq(r, "budget_number")
		if err != nil {
			writeError(w, r, err)
			return
		}

		var req models.UpdateBudgetRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if req.StartDate == "" || req.EndDate == "" || req.Active == nil {
			writeError(w, r, validationError("missing required information for updating the budget"))
			return
		}
		if !util.ValidateActive(*req.Active) {
			writeError(w, r, validationError("active must be 0 or 1"))
			return
		}
		amount, err := positiveAmount(req.Amount)
		if err != nil {
			writeError(w, r, err)
			return
		}
		description, err := optionalDescription(req.Description)
		if err != nil {
			writeError(w, r, err)
			return
		}
		startDate, endDate, err := parseBudgetDates(req.StartDate, req.EndDate)
		if err != nil {
			writeError(w, r, err)
			return
		}
		stored, err := d.toStorage(r.Context(), amount, claims.CurrencyCode)
		if err != nil {
			writeError(w, r, err)
			return
		}

		err = db.UpdateBudget(r.Context(), d.DB, claims.UserNumber, &models.Budget{
			Seq:         seq,
			Amount:      stored,
			Description: description,
			StartDate:   startDate,
			EndDate:     endDate,
			Active:      *req.Active,
		})
		if err != nil {
			if he := budgetConflict(err); he != nil {
				writeError(w, r, he)
				return
			}
			writeError(w, r, notFoundOr(err, "budget not found", "an error occurred while updating the budget"))
			return
		}

		slog.InfoContext(r.Context(), "Updated budget", "user_number", claims.UserNumber, "budget_number", seq)
		writeMessage(w, http.StatusOK, "successfully updated the budget")
	}
}

func DeleteBudget(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := requireOwner(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		seq, err := pathSeq(r, "budget_number")
		if err != nil {
			writeError(w, r, err)
			return
		}

		if err := db.DeleteBudget(r.Context(), d.DB, claims.UserNumber, seq); err != nil {
			writeError(w, r, notFoundOr(err, "budget not found", "an error occurred while deleting the budget"))
			return
		}

		slog.InfoContext(r.Context(), "Deleted budget", "user_number", claims.UserNumber, "budget_number", seq)
		writeMessage(w, http.StatusOK, "successfully deleted the budget")
	}
}
