package db

import (
	"context"

	"github.com/YukichiOhno/expense-tracker/src/models"
	"github.com/jackc/pgx/v5"
)

const budgetColumns = `user_id, bud_seq, bud_amt, bud_desc, bud_start_date, bud_end_date, bud_active`

func scanBudget(row pgx.Row) (models.Budget, error) {
	var b models.Budget
	err := row.Scan(&b.UserID, &b.Seq, &b.Amount, &b.Description, &b.StartDate, &b.EndDate, &b.Active)
	return b, err
}

// CreateBudget bumps the owner's budget counter and inserts the row under the
// new sequence number. Both statements share one transaction, so the counter
// row lock serializes concurrent creators and a rejected insert leaves the
// counter untouched.
func CreateBudget(ctx context.Context, q DBTX, number string, budget *models.Budget) (*models.Budget, error) {
	var created models.Budget
	err := WithTx(ctx, q, func(tx pgx.Tx) error {
		var userID int64
		var seq int
		err := tx.QueryRow(ctx, `
			UPDATE users SET last_bud_seq = last_bud_seq + 1
			WHERE user_number = $1
			RETURNING user_id, last_bud_seq
		`, number).Scan(&userID, &seq)
		if err != nil {
			return err
		}

		query := `
			INSERT INTO budget (user_id, bud_seq, bud_amt, bud_desc, bud_start_date, bud_end_date)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING ` + budgetColumns
		created, err = scanBudget(tx.QueryRow(ctx, query,
			userID,
			seq,
			budget.Amount,
			budget.Description,
			budget.StartDate,
			budget.EndDate,
		))
		return err
	})
	if err != nil {
		return nil, classify(err)
	}
	return &created, nil
}

func GetAllBudgetsForUser(ctx context.Context, q DBTX, number string) ([]models.Budget, error) {
	query := `
		SELECT b.user_id, b.bud_seq, b.bud_amt, b.bud_desc, b.bud_start_date, b.bud_end_date, b.bud_active
		FROM budget b
		JOIN users u ON u.user_id = b.user_id
		WHERE u.user_number = $1
		ORDER BY b.bud_start_date, b.bud_seq
	`
	rows, err := q.Query(ctx, query, number)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, classify(err)
		}
		budgets = append(budgets, b)
	}
	return budgets, classify(rows.Err())
}

func UpdateBudget(ctx context.Context, q DBTX, number string, budget *models.Budget) error {
	query := `
		UPDATE budget b
		SET bud_amt = $1, bud_desc = $2, bud_start_date = $3, bud_end_date = $4, bud_active = $5
		FROM users u
		WHERE b.user_id = u.user_id AND u.user_number = $6 AND b.bud_seq = $7
	`
	return execOne(ctx, q, query,
		budget.Amount,
		budget.Description,
		budget.StartDate,
		budget.EndDate,
		budget.Active,
		number,
		budget.Seq,
	)
}

func DeleteBudget(ctx context.Context, q DBTX, number string, seq int) error {
	query := `
		DELETE FROM budget b
		USING users u
		WHERE b.user_id = u.user_id AND u.user_number = $1 AND b.bud_seq = $2
	`
	return execOne(ctx, q, query, number, seq)
}
