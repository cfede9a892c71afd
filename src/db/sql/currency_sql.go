package db

import (
	"context"

	"github.com/YukichiOhno/expense-tracker/src/models"
)

func GetCurrencyByCode(ctx context.Context, q DBTX, code string) (*models.Currency, error) {
	query := `
		SELECT curr_code, curr_name, curr_sign, dollar_to_curr
		FROM currency
		WHERE curr_code = $1
	`
	var c models.Currency
	err := q.QueryRow(ctx, query, code).Scan(&c.Code, &c.Name, &c.Sign, &c.DollarToCurr)
	if err != nil {
		return nil, classify(err)
	}
	return &c, nil
}

func GetAllCurrencies(ctx context.Context, q DBTX) ([]models.Currency, error) {
	query := `
		SELECT curr_code, curr_name, curr_sign, dollar_to_curr
		FROM currency
		ORDER BY curr_code
	`
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var currencies []models.Currency
	for rows.Next() {
		var c models.Currency
		if err := rows.Scan(&c.Code, &c.Name, &c.Sign, &c.DollarToCurr); err != nil {
			return nil, classify(err)
		}
		currencies = append(currencies, c)
	}
	return currencies, classify(rows.Err())
}
