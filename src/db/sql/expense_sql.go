package db

import (
	"context"

	"github.com/YukichiOhno/expense-tracker/src/models"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const expenseColumns = `user_id, exp_seq, exp_amt, exp_desc, exp_date, exp_cat, exp_active`

func scanExpense(row pgx.Row) (models.Expense, error) {
	var e models.Expense
	err := row.Scan(&e.UserID, &e.Seq, &e.Amount, &e.Description, &e.Date, &e.Category, &e.Active)
	return e, err
}

// CreateExpense assigns the next expense sequence number and inserts the row
// in one transaction.
func CreateExpense(ctx context.Context, q DBTX, number string, expense *models.Expense) (*models.Expense, error) {
	var created models.Expense
	err := WithTx(ctx, q, func(tx pgx.Tx) error {
		var userID int64
		var seq int
		err := tx.QueryRow(ctx, `
			UPDATE users SET last_exp_seq = last_exp_seq + 1
			WHERE user_number = $1
			RETURNING user_id, last_exp_seq
		`, number).Scan(&userID, &seq)
		if err != nil {
			return err
		}

		query := `
			INSERT INTO expense (user_id, exp_seq, exp_amt, exp_desc, exp_date, exp_cat)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING ` + expenseColumns
		created, err = scanExpense(tx.QueryRow(ctx, query,
			userID,
			seq,
			expense.Amount,
			expense.Description,
			expense.Date,
			expense.Category,
		))
		return err
	})
	if err != nil {
		return nil, classify(err)
	}
	return &created, nil
}

func GetAllExpensesForUser(ctx context.Context, q DBTX, number string) ([]models.Expense, error) {
	query := `
		SELECT e.user_id, e.exp_seq, e.exp_amt, e.exp_desc, e.exp_date, e.exp_cat, e.exp_active
		FROM expense e
		JOIN users u ON u.user_id = e.user_id
		WHERE u.user_number = $1
		ORDER BY e.exp_date DESC, e.exp_seq DESC
	`
	rows, err := q.Query(ctx, query, number)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, classify(err)
		}
		expenses = append(expenses, e)
	}
	return expenses, classify(rows.Err())
}

func UpdateExpense(ctx context.Context, q DBTX, number string, expense *models.Expense) error {
	query := `
		UPDATE expense e
		SET exp_amt = $1, exp_desc = $2, exp_date = $3, exp_cat = $4, exp_active = $5
		FROM users u
		WHERE e.user_id = u.user_id AND u.user_number = $6 AND e.exp_seq = $7
	`
	return execOne(ctx, q, query,
		expense.Amount,
		expense.Description,
		expense.Date,
		expense.Category,
		expense.Active,
		number,
		expense.Seq,
	)
}

// GetExpenseTotal returns nil when the user has no matching expenses.
func GetExpenseTotal(ctx context.Context, q DBTX, number string, active int) (*decimal.Decimal, error) {
	query := `
		SELECT SUM(e.exp_amt)
		FROM expense e
		JOIN users u ON u.user_id = e.user_id
		WHERE u.user_number = $1 AND e.exp_active = $2
	`
	var total decimal.NullDecimal
	if err := q.QueryRow(ctx, query, number, active).Scan(&total); err != nil {
		return nil, classify(err)
	}
	if !total.Valid {
		return nil, nil
	}
	return &total.Decimal, nil
}

func GetExpenseCount(ctx context.Context, q DBTX, number string, active int) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM expense e
		JOIN users u ON u.user_id = e.user_id
		WHERE u.user_number = $1 AND e.exp_active = $2
	`
	var count int64
	if err := q.QueryRow(ctx, query, number, active).Scan(&count); err != nil {
		return 0, classify(err)
	}
	return count, nil
}

func GetExpenseTotalsByCategory(ctx context.Context, q DBTX, number string, active int) ([]models.CategoryTotal, error) {
	query := `
		SELECT e.exp_cat, SUM(e.exp_amt)
		FROM expense e
		JOIN users u ON u.user_id = e.user_id
		WHERE u.user_number = $1 AND e.exp_active = $2
		GROUP BY e.exp_cat
		ORDER BY e.exp_cat
	`
	rows, err := q.Query(ctx, query, number, active)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var totals []models.CategoryTotal
	for rows.Next() {
		var t models.CategoryTotal
		if err := rows.Scan(&t.Category, &t.Total); err != nil {
			return nil, classify(err)
		}
		totals = append(totals, t)
	}
	return totals, classify(rows.Err())
}

func GetExpenseTotalsByDate(ctx context.Context, q DBTX, number string, active int) ([]models.DateTotal, error) {
	query := `
		SELECT e.exp_date, SUM(e.exp_amt)
		FROM expense e
		JOIN users u ON u.user_id = e.user_id
		WHERE u.user_number = $1 AND e.exp_active = $2
		GROUP BY e.exp_date
		ORDER BY e.exp_date
	`
	rows, err := q.Query(ctx, query, number, active)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var totals []models.DateTotal
	for rows.Next() {
		var t models.DateTotal
		if err := rows.Scan(&t.Date, &t.Total); err != nil {
			return nil, classify(err)
		}
		totals = append(totals, t)
	}
	return totals, classify(rows.Err())
}

// GetExpenseSummary runs the four aggregates concurrently. Each query takes
// its own pool connection; the first failure cancels the rest.
func GetExpenseSummary(ctx context.Context, q DBTX, number string, active int) (*models.ExpenseSummary, error) {
	var summary models.ExpenseSummary
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		total, err := GetExpenseTotal(gctx, q, number, active)
		summary.Total = total
		return err
	})
	g.Go(func() error {
		count, err := GetExpenseCount(gctx, q, number, active)
		summary.Count = count
		return err
	})
	g.Go(func() error {
		byCategory, err := GetExpenseTotalsByCategory(gctx, q, number, active)
		summary.ByCategory = byCategory
		return err
	})
	g.Go(func() error {
		byDate, err := GetExpenseTotalsByDate(gctx, q, number, active)
		summary.ByDate = byDate
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &summary, nil
}
