package models

import "github.com/shopspring/decimal"

const (
	PageModeLight = "light"
	PageModeDark  = "dark"
)

type Setting struct {
	UserID       int64
	PageMode     string
	CurrencyCode string
}

type Currency struct {
	Code         string          `json:"curr_code"`
	Name         string          `json:"curr_name"`
	Sign         string          `json:"curr_sign"`
	DollarToCurr decimal.Decimal `json:"-"`
}

type UpdateSettingRequest struct {
	PageMode     string `json:"page_mode"`
	CurrencyCode string `json:"curr_code"`
}

type SettingInformation struct {
	PageMode     string `json:"page_mode"`
	CurrencyCode string `json:"currency_code"`
	CurrencySign string `json:"currency_sign"`
}
