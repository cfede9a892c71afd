package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a query matched no row.
var ErrNotFound = errors.New("not found")

// ErrValueTooLong and ErrValueOutOfRange report input wider than its column.
var (
	ErrValueTooLong    = errors.New("value too long")
	ErrValueOutOfRange = errors.New("value out of range")
)

// Constraint names declared by the migrations. Handlers switch on these.
const (
	ConstraintUserNumber   = "users_user_number_key"
	ConstraintUsername     = "users_username_key"
	ConstraintEmail        = "users_email_key"
	ConstraintPhone        = "users_phone_key"
	ConstraintEmailFormat  = "user_email_check"
	ConstraintPhoneFormat  = "user_phone_check"
	ConstraintPageMode     = "setting_page_mode_check"
	ConstraintBudgetDates  = "bud_date_check"
	ConstraintBudgetAmount = "bud_amt_check"
	ConstraintBudgetRange  = "bud_date_overlap"
	ConstraintExpenseAmt   = "exp_amt_check"
	ConstraintCategory     = "exp_cat_allowed_values"
	ConstraintSettingCurr  = "setting_curr_code_fkey"
)

type ConstraintKind int

const (
	UniqueViolation ConstraintKind = iota + 1
	CheckViolation
	ExclusionViolation
	ForeignKeyViolation
	NotNullViolation
)

func (k ConstraintKind) String() string {
	switch k {
	case UniqueViolation:
		return "unique violation"
	case CheckViolation:
		return "check violation"
	case ExclusionViolation:
		return "exclusion violation"
	case ForeignKeyViolation:
		return "foreign key violation"
	case NotNullViolation:
		return "not null violation"
	default:
		return "constraint violation"
	}
}

// ConstraintError is a store-side integrity failure, tagged by kind and the
// name of the violated constraint.
type ConstraintError struct {
	Kind       ConstraintKind
	Constraint string
	Column     string
	Err        error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s on %s: %v", e.Kind, e.Constraint, e.Err)
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// AsConstraint reports whether err carries a ConstraintError.
func AsConstraint(err error) (*ConstraintError, bool) {
	var ce *ConstraintError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

var constraintKinds = map[string]ConstraintKind{
	"23505": UniqueViolation,
	"23514": CheckViolation,
	"23P01": ExclusionViolation,
	"23503": ForeignKeyViolation,
	"23502": NotNullViolation,
}

var dataErrors = map[string]error{
	"22001": ErrValueTooLong,
	"22003": ErrValueOutOfRange,
}

// classify maps driver errors onto ErrNotFound, *ConstraintError or a
// wrapped db error.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	if _, ok := AsConstraint(err); ok {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if kind, ok := constraintKinds[pgErr.Code]; ok {
			return &ConstraintError{
				Kind:       kind,
				Constraint: pgErr.ConstraintName,
				Column:     pgErr.ColumnName,
				Err:        err,
			}
		}
		if sentinel, ok := dataErrors[pgErr.Code]; ok {
			return fmt.Errorf("%w: %w", sentinel, err)
		}
	}
	return fmt.Errorf("db error: %w", err)
}
