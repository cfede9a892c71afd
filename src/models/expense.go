package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseCategories mirrors the exp_cat_allowed_values check constraint.
var ExpenseCategories = []string{
	"food",
	"transportation",
	"housing",
	"utilities",
	"healthcare",
	"insurance",
	"entertainment",
	"education",
	"shopping",
	"personal care",
	"travel",
	"savings",
	"debt",
	"gifts",
	"other",
}

// Expense is a stored expense row. Amount is in USD.
type Expense struct {
	UserID      int64
	Seq         int
	Amount      decimal.Decimal
	Description *string
	Date        time.Time
	Category    string
	Active      int
}

type CreateExpenseRequest struct {
	Amount      decimal.NullDecimal `json:"amount"`
	Description string              `json:"description"`
	Date        string              `json:"date"`
	Category    string              `json:"category"`
}

type UpdateExpenseRequest struct {
	Amount      decimal.NullDecimal `json:"amount"`
	Description string              `json:"description"`
	Date        string              `json:"date"`
	Category    string              `json:"category"`
	Active      *int                `json:"active"`
}

type ExpenseResponse struct {
	ExpenseNumber int     `json:"expense_number"`
	Amount        float64 `json:"amount"`
	Description   *string `json:"description"`
	Date          string  `json:"date"`
	Category      string  `json:"category"`
	Active        int     `json:"active"`
}

// CategoryTotal and DateTotal are grouped aggregates, still in USD when
// returned from the store.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

type DateTotal struct {
	Date  time.Time
	Total decimal.Decimal
}

// ExpenseSummary is the raw aggregate set for one user. A nil field means
// the store returned no rows for that breakdown.
type ExpenseSummary struct {
	Total      *decimal.Decimal
	Count      int64
	ByCategory []CategoryTotal
	ByDate     []DateTotal
}

type CategoryTotalResponse struct {
	Category     string  `json:"category"`
	TotalExpense float64 `json:"total_expense"`
}

type DateTotalResponse struct {
	Date         string  `json:"date"`
	TotalExpense float64 `json:"total_expense"`
}

type ExpenseSummaryResponse struct {
	Message            string                  `json:"message"`
	TotalExpenseAmount *float64                `json:"total_expense_amount"`
	TotalExpenseCount  *int64                  `json:"total_expense_count"`
	ExpenseByCategory  []CategoryTotalResponse `json:"expense_by_category"`
	ExpenseByDate      []DateTotalResponse     `json:"expense_by_date"`
	CurrencySign       string                  `json:"currency_sign"`
}
