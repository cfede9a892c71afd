package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/YukichiOhno/expense-tracker/src/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserNumber = "USERABCDE12345"

// decimalArg matches a decimal argument by value rather than representation.
type decimalArg string

func (d decimalArg) Match(v any) bool {
	got, ok := v.(decimal.Decimal)
	return ok && got.Equal(decimal.RequireFromString(string(d)))
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func budgetRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"user_id", "bud_seq", "bud_amt", "bud_desc", "bud_start_date", "bud_end_date", "bud_active",
	})
}

func TestCreateBudget_AssignsNextSequence(t *testing.T) {
	mock := newMock(t)
	desc := "groceries"

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE users SET last_bud_seq = last_bud_seq \+ 1`).
		WithArgs(testUserNumber).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "last_bud_seq"}).AddRow(int64(7), 3))
	mock.ExpectQuery(`INSERT INTO budget`).
		WithArgs(int64(7), 3, decimalArg("108.695652"), &desc, date("2024-01-01"), date("2024-01-31")).
		WillReturnRows(budgetRows().AddRow(
			int64(7), 3, decimal.RequireFromString("108.695652"), &desc, date("2024-01-01"), date("2024-01-31"), 1,
		))
	mock.ExpectCommit()

	got, err := CreateBudget(context.Background(), mock, testUserNumber, &models.Budget{
		Amount:      decimal.RequireFromString("108.695652"),
		Description: &desc,
		StartDate:   date("2024-01-01"),
		EndDate:     date("2024-01-31"),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, got.Seq)
	assert.Equal(t, 1, got.Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBudget_OverlapIsTaggedAndRolledBack(t *testing.T) {
	mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE users SET last_bud_seq`).
		WithArgs(testUserNumber).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "last_bud_seq"}).AddRow(int64(7), 2))
	mock.ExpectQuery(`INSERT INTO budget`).
		WithArgs(int64(7), 2, pgxmock.AnyArg(), pgxmock.AnyArg(), date("2024-01-31"), date("2024-02-28")).
		WillReturnError(&pgconn.PgError{Code: "23P01", ConstraintName: ConstraintBudgetRange})
	mock.ExpectRollback()

	_, err := CreateBudget(context.Background(), mock, testUserNumber, &models.Budget{
		Amount:    decimal.NewFromInt(50),
		StartDate: date("2024-01-31"),
		EndDate:   date("2024-02-28"),
	})
	ce, ok := AsConstraint(err)
	require.True(t, ok, "expected constraint error, got %v", err)
	assert.Equal(t, ExclusionViolation, ce.Kind)
	assert.Equal(t, ConstraintBudgetRange, ce.Constraint)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBudget_UnknownUser(t *testing.T) {
	mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE users SET last_bud_seq`).
		WithArgs(testUserNumber).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := CreateBudget(context.Background(), mock, testUserNumber, &models.Budget{Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteBudget_NothingDeleted(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec(`DELETE FROM budget`).
		WithArgs(testUserNumber, 4).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := DeleteBudget(context.Background(), mock, testUserNumber, 4)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteBudget_Deleted(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec(`DELETE FROM budget`).
		WithArgs(testUserNumber, 1).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, DeleteBudget(context.Background(), mock, testUserNumber, 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_InsertsSettingInSameTx(t *testing.T) {
	mock := newMock(t)
	created := date("2024-03-01")

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(testUserNumber, "jdoe", "hash", "john", (*string)(nil), "doe", "j@doe.io", (*string)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "user_active", "user_created"}).AddRow(int64(11), 1, created))
	mock.ExpectExec(`INSERT INTO setting`).
		WithArgs(int64(11)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	u, err := CreateUser(context.Background(), mock, &models.User{
		Number:       testUserNumber,
		Username:     "jdoe",
		PasswordHash: []byte("hash"),
		FirstName:    "john",
		LastName:     "doe",
		Email:        "j@doe.io",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), u.ID)
	assert.Equal(t, created, u.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(testUserNumber, "taken", "", "", (*string)(nil), "", "", (*string)(nil)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: ConstraintUsername})
	mock.ExpectRollback()

	_, err := CreateUser(context.Background(), mock, &models.User{Number: testUserNumber, Username: "taken"})
	ce, ok := AsConstraint(err)
	require.True(t, ok)
	assert.Equal(t, UniqueViolation, ce.Kind)
	assert.Equal(t, ConstraintUsername, ce.Constraint)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProfileByUsername(t *testing.T) {
	mock := newMock(t)
	cols := []string{
		"user_id", "user_number", "user_username", "user_password", "user_first", "user_initial",
		"user_last", "user_email", "user_phone", "user_active", "user_created", "page_mode", "curr_code", "curr_sign",
	}

	mock.ExpectQuery(`FROM users u\s+JOIN setting s`).
		WithArgs("jdoe").
		WillReturnRows(pgxmock.NewRows(cols).AddRow(
			int64(11), testUserNumber, "jdoe", []byte("hash"), "john", nil,
			"doe", "j@doe.io", nil, 1, date("2024-03-01"), "dark", "EUR", "€",
		))

	p, err := GetProfileByUsername(context.Background(), mock, "jdoe")
	require.NoError(t, err)
	assert.Equal(t, testUserNumber, p.Number)
	assert.Equal(t, "EUR", p.CurrencyCode)
	assert.Equal(t, "€", p.CurrencySign)
	assert.Nil(t, p.Initial)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProfileByUsername_NotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`FROM users u`).WithArgs("ghost").WillReturnError(pgx.ErrNoRows)

	_, err := GetProfileByUsername(context.Background(), mock, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateExpense_Missing(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec(`UPDATE expense e`).
		WithArgs(decimalArg("5"), (*string)(nil), date("2024-05-05"), "food", 0, testUserNumber, 9).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := UpdateExpense(context.Background(), mock, testUserNumber, &models.Expense{
		Seq:      9,
		Amount:   decimal.NewFromInt(5),
		Date:     date("2024-05-05"),
		Category: "food",
		Active:   0,
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetExpenseSummary_Empty(t *testing.T) {
	mock := newMock(t)
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery(`SELECT SUM\(e\.exp_amt\)`).
		WithArgs(testUserNumber, 1).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(nil))
	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs(testUserNumber, 1).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery(`GROUP BY e\.exp_cat`).
		WithArgs(testUserNumber, 1).
		WillReturnRows(pgxmock.NewRows([]string{"exp_cat", "sum"}))
	mock.ExpectQuery(`GROUP BY e\.exp_date`).
		WithArgs(testUserNumber, 1).
		WillReturnRows(pgxmock.NewRows([]string{"exp_date", "sum"}))

	s, err := GetExpenseSummary(context.Background(), mock, testUserNumber, 1)
	require.NoError(t, err)
	assert.Nil(t, s.Total)
	assert.Zero(t, s.Count)
	assert.Nil(t, s.ByCategory)
	assert.Nil(t, s.ByDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetExpenseSummary_FailsWhenAnyQueryFails(t *testing.T) {
	mock := newMock(t)
	mock.MatchExpectationsInOrder(false)
	boom := errors.New("connection reset")

	mock.ExpectQuery(`SELECT SUM\(e\.exp_amt\)`).
		WithArgs(testUserNumber, 1).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow("12.5"))
	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs(testUserNumber, 1).
		WillReturnError(boom)
	mock.ExpectQuery(`GROUP BY e\.exp_cat`).
		WithArgs(testUserNumber, 1).
		WillReturnRows(pgxmock.NewRows([]string{"exp_cat", "sum"}))
	mock.ExpectQuery(`GROUP BY e\.exp_date`).
		WithArgs(testUserNumber, 1).
		WillReturnRows(pgxmock.NewRows([]string{"exp_date", "sum"}))

	_, err := GetExpenseSummary(context.Background(), mock, testUserNumber, 1)
	assert.ErrorIs(t, err, boom)
}

func TestClassify(t *testing.T) {
	assert.Nil(t, classify(nil))
	assert.ErrorIs(t, classify(pgx.ErrNoRows), ErrNotFound)

	err := classify(&pgconn.PgError{Code: "23514", ConstraintName: ConstraintPhoneFormat})
	ce, ok := AsConstraint(err)
	require.True(t, ok)
	assert.Equal(t, CheckViolation, ce.Kind)

	err = classify(&pgconn.PgError{Code: "42P01"})
	_, ok = AsConstraint(err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "db error")

	err = classify(&pgconn.PgError{Code: "22001", ColumnName: "exp_desc"})
	assert.ErrorIs(t, err, ErrValueTooLong)
	var pgErr *pgconn.PgError
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, "exp_desc", pgErr.ColumnName)

	assert.ErrorIs(t, classify(&pgconn.PgError{Code: "22003"}), ErrValueOutOfRange)
}
