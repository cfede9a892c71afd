package db

import (
	"context"

	"github.com/YukichiOhno/expense-tracker/src/models"
)

func GetSettingByNumber(ctx context.Context, q DBTX, number string) (*models.SettingInformation, error) {
	query := `
		SELECT s.page_mode, s.curr_code, c.curr_sign
		FROM setting s
		JOIN users u ON u.user_id = s.user_id
		JOIN currency c ON c.curr_code = s.curr_code
		WHERE u.user_number = $1
	`
	var s models.SettingInformation
	err := q.QueryRow(ctx, query, number).Scan(&s.PageMode, &s.CurrencyCode, &s.CurrencySign)
	if err != nil {
		return nil, classify(err)
	}
	return &s, nil
}

func UpdateSetting(ctx context.Context, q DBTX, number, pageMode, currencyCode string) error {
	query := `
		UPDATE setting s
		SET page_mode = $1, curr_code = $2
		FROM users u
		WHERE s.user_id = u.user_id AND u.user_number = $3
	`
	return execOne(ctx, q, query, pageMode, currencyCode, number)
}
