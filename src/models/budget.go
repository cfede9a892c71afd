package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a stored budget row. Amount is in USD.
type Budget struct {
	UserID      int64
	Seq         int
	Amount      decimal.Decimal
	Description *string
	StartDate   time.Time
	EndDate     time.Time
	Active      int
}

type CreateBudgetRequest struct {
	Amount      decimal.NullDecimal `json:"amount"`
	Description string              `json:"description"`
	StartDate   string              `json:"start_date"`
	EndDate     string              `json:"end_date"`
}

type UpdateBudgetRequest struct {
	Amount      decimal.NullDecimal `json:"amount"`
	Description string              `json:"description"`
	StartDate   string              `json:"start_date"`
	EndDate     string              `json:"end_date"`
	Active      *int                `json:"active"`
}

type BudgetResponse struct {
	BudgetNumber int     `json:"budget_number"`
	Amount       float64 `json:"amount"`
	Description  *string `json:"description"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	Active       int     `json:"active"`
}
