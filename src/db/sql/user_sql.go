package db

import (
	"context"

	"github.com/YukichiOhno/expense-tracker/src/models"
	"github.com/jackc/pgx/v5"
)

const profileColumns = `
	u.user_id, u.user_number, u.user_username, u.user_password,
	u.user_first, u.user_initial, u.user_last, u.user_email, u.user_phone,
	u.user_active, u.user_created, s.page_mode, s.curr_code, c.curr_sign
`

const profileFrom = `
	FROM users u
	JOIN setting s ON s.user_id = u.user_id
	JOIN currency c ON c.curr_code = s.curr_code
`

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(
		&p.ID,
		&p.Number,
		&p.Username,
		&p.PasswordHash,
		&p.FirstName,
		&p.Initial,
		&p.LastName,
		&p.Email,
		&p.Phone,
		&p.Active,
		&p.CreatedAt,
		&p.PageMode,
		&p.CurrencyCode,
		&p.CurrencySign,
	)
	if err != nil {
		return nil, classify(err)
	}
	return &p, nil
}

// CreateUser inserts the user and its default setting row in one transaction.
func CreateUser(ctx context.Context, q DBTX, user *models.User) (*models.User, error) {
	created := *user
	err := WithTx(ctx, q, func(tx pgx.Tx) error {
		query := `
			INSERT INTO users (user_number, user_username, user_password, user_first,
				user_initial, user_last, user_email, user_phone)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING user_id, user_active, user_created
		`
		err := tx.QueryRow(ctx, query,
			user.Number,
			user.Username,
			string(user.PasswordHash),
			user.FirstName,
			user.Initial,
			user.LastName,
			user.Email,
			user.Phone,
		).Scan(&created.ID, &created.Active, &created.CreatedAt)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `INSERT INTO setting (user_id) VALUES ($1)`, created.ID)
		return err
	})
	if err != nil {
		return nil, classify(err)
	}
	return &created, nil
}

// GetProfileByUsername loads a user with its setting and currency sign.
func GetProfileByUsername(ctx context.Context, q DBTX, username string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + profileFrom + `WHERE u.user_username = $1`
	return scanProfile(q.QueryRow(ctx, query, username))
}

func GetProfileByNumber(ctx context.Context, q DBTX, number string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + profileFrom + `WHERE u.user_number = $1`
	return scanProfile(q.QueryRow(ctx, query, number))
}

// ResolveUserNumber accepts either a user number or a username, in any case.
func ResolveUserNumber(ctx context.Context, q DBTX, ident string) (string, error) {
	query := `
		SELECT user_number FROM users
		WHERE user_number = UPPER($1) OR user_username = LOWER($1)
	`
	var number string
	if err := q.QueryRow(ctx, query, ident).Scan(&number); err != nil {
		return "", classify(err)
	}
	return number, nil
}

func execOne(ctx context.Context, q DBTX, query string, args ...any) error {
	cmd, err := q.Exec(ctx, query, args...)
	if err != nil {
		return classify(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func UpdatePassword(ctx context.Context, q DBTX, number string, hash []byte) error {
	query := `UPDATE users SET user_password = $1 WHERE user_number = $2`
	return execOne(ctx, q, query, string(hash), number)
}

func UpdateUsername(ctx context.Context, q DBTX, number, username string) error {
	query := `UPDATE users SET user_username = $1 WHERE user_number = $2`
	return execOne(ctx, q, query, username, number)
}

// UpdateUserInformation rewrites the name, email and phone fields.
func UpdateUserInformation(ctx context.Context, q DBTX, number string, user *models.User) error {
	query := `
		UPDATE users
		SET user_first = $1, user_initial = $2, user_last = $3, user_email = $4, user_phone = $5
		WHERE user_number = $6
	`
	return execOne(ctx, q, query,
		user.FirstName,
		user.Initial,
		user.LastName,
		user.Email,
		user.Phone,
		number,
	)
}

func SetUserActive(ctx context.Context, q DBTX, number string, active int) error {
	query := `UPDATE users SET user_active = $1 WHERE user_number = $2`
	return execOne(ctx, q, query, active, number)
}
