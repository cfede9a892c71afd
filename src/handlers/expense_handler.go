package handlers

import (
	"context"
	"log/slog"
	"net/http"

	db "github.com/YukichiOhno/expense-tracker/src/db/sql"
	"github.com/YukichiOhno/expense-tracker/src/models"
	"github.com/YukichiOhno/expense-tracker/src/util"
)

var errInvalidCategory = validationError("invalid category value")

func expenseConflict(err error) *Error {
	ce, ok := db.AsConstraint(err)
	if !ok {
		return nil
	}
	switch ce.Constraint {
	case db.ConstraintCategory:
		return errInvalidCategory
	case db.ConstraintExpenseAmt:
		return validationError("amount must be greater than zero")
	}
	return nil
}

func CreateExpense(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := requireClaims(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		var req models.CreateExpenseRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		category := util.NormalizeLower(req.Category)
		if req.Date == "" || category == "" {
			writeError(w, r, validationError("missing required expense information"))
			return
		}
		if !util.ValidateCategory(category) {
			writeError(w, r, errInvalidCategory)
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
		date, err := util.ParseDate(util.NormalizeSpace(req.Date))
		if err != nil {
			writeError(w, r, validationError("date must use the YYYY-MM-DD format"))
			return
		}
		stored, err := d.toStorage(r.Context(), amount, claims.CurrencyCode)
		if err != nil {
			writeError(w, r, err)
			return
		}

		created, err := db.CreateExpense(r.Context(), d.DB, claims.UserNumber, &models.Expense{
			Amount:      stored,
			Description: description,
			Date:        date,
			Category:    category,
		})
		if err != nil {
			if he := expenseConflict(err); he != nil {
				writeError(w, r, he)
				return
			}
			writeError(w, r, storeError("an error occurred while adding an expense for the user", err))
			return
		}

		slog.InfoContext(r.Context(), "Created expense", "user_number", claims.UserNumber, "expense_number", created.Seq)
		writeJSON(w, http.StatusCreated, map[string]any{
			"message":        "successfully added the expense for the user",
			"expense_number": created.Seq,
		})
	}
}

func (d *Deps) expenseResponse(ctx context.Context, e models.Expense, code string) (models.ExpenseResponse, error) {
	amount, err := d.toDisplay(ctx, e.Amount, code)
	if err != nil {
		return models.ExpenseResponse{}, err
	}
	return models.ExpenseResponse{
		ExpenseNumber: e.Seq,
		Amount:        amount,
		Description:   e.Description,
		Date:          util.FormatDate(e.Date),
		Category:      e.Category,
		Active:        e.Active,
	}, nil
}

func GetAllExpensesForUser(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := requireOwner(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		expenses, err := db.GetAllExpensesForUser(r.Context(), d.DB, claims.UserNumber)
		if err != nil {
			writeError(w, r, storeError("an error occurred while retrieving expense information", err))
			return
		}

		var resp []models.ExpenseResponse
		for _, e := range expenses {
			er, err := d.expenseResponse(r.Context(), e, claims.CurrencyCode)
			if err != nil {
				writeError(w, r, err)
				return
			}
			resp = append(resp, er)
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"message":       "successfully retrieved all expenses for the user",
			"expenses":      resp,
			"currency_sign": claims.CurrencySign,
		})
	}
}

// GetExpenseSummary aggregates in the store and converts the aggregates, so
// rounding happens once per figure.
func GetExpenseSummary(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := requireOwner(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		active := 1
		switch r.URL.Query().Get("active") {
		case "", "1":
		case "0":
			active = 0
		default:
			writeError(w, r, validationError("active must be 0 or 1"))
			return
		}

		summary, err := db.GetExpenseSummary(r.Context(), d.DB, claims.UserNumber, active)
		if err != nil {
			writeError(w, r, storeError("an error occurred while retrieving expense summary information", err))
			return
		}

		ctx := r.Context()
		code := claims.CurrencyCode
		resp := models.ExpenseSummaryResponse{
			Message:      "successfully retrieved expense information",
			CurrencySign: claims.CurrencySign,
		}
		if summary.Total != nil {
			total, err := d.toDisplay(ctx, *summary.Total, code)
			if err != nil {
				writeError(w, r, err)
				return
			}
			resp.TotalExpenseAmount = &total
		}
		if summary.Count > 0 {
			resp.TotalExpenseCount = &summary.Count
		}
		for _, c := range summary.ByCategory {
			total, err := d.toDisplay(ctx, c.Total, code)
			if err != nil {
				writeError(w, r, err)
				return
			}
			resp.ExpenseByCategory = append(resp.ExpenseByCategory, models.CategoryTotalResponse{
				Category:     c.Category,
				TotalExpense: total,
			})
		}
		for _, t := range summary.ByDate {
			total, err := d.toDisplay(ctx, t.Total, code)
			if err != nil {
				writeError(w, r, err)
				return
			}
			resp.ExpenseByDate = append(resp.ExpenseByDate, models.DateTotalResponse{
				Date:         util.FormatDate(t.Date),
				TotalExpense: total,
			})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// UpdateExpense replaces every field of an expense, including its active flag.
func UpdateExpense(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := requireOwner(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		seq, err := pathSeq(r, "expense_number")
		if err != nil {
			writeError(w, r, err)
			return
		}

		var req models.UpdateExpenseRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		description := util.NormalizeLower(req.Description)
		category := util.NormalizeLower(req.Category)
		if description == "" || req.Date == "" || category == "" || req.Active == nil {
			writeError(w, r, validationError("missing required information for updating the expense"))
			return
		}
		if !util.ValidateLength(description, util.MaxDescriptionLength) {
			writeError(w, r, errDescriptionTooLong)
			return
		}
		if !util.ValidateActive(*req.Active) {
			writeError(w, r, validationError("active must be 0 or 1"))
			return
		}
		if !util.ValidateCategory(category) {
			writeError(w, r, errInvalidCategory)
			return
		}
		amount, err := positiveAmount(req.Amount)
		if err != nil {
			writeError(w, r, err)
			return
		}
		date, err := util.ParseDate(util.NormalizeSpace(req.Date))
		if err != nil {
			writeError(w, r, validationError("date must use the YYYY-MM-DD format"))
			return
		}
		stored, err := d.toStorage(r.Context(), amount, claims.CurrencyCode)
		if err != nil {
			writeError(w, r, err)
			return
		}

		err = db.UpdateExpense(r.Context(), d.DB, claims.UserNumber, &models.Expense{
			Seq:         seq,
			Amount:      stored,
			Description: &description,
			Date:        date,
			Category:    category,
			Active:      *req.Active,
		})
		if err != nil {
			if he := expenseConflict(err); he != nil {
				writeError(w, r, he)
				return
			}
			writeError(w, r, notFoundOr(err, "expense not found", "an error occurred while updating an expense of the user"))
			return
		}

		slog.InfoContext(r.Context(), "Updated expense", "user_number", claims.UserNumber, "expense_number", seq)
		writeMessage(w, http.StatusOK, "successfully updated the expense")
	}
}
