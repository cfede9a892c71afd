package util

import (
	"regexp"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/YukichiOhno/expense-tracker/src/models"
)

// DateLayout is the wire format for budget and expense dates.
const DateLayout = "2006-01-02"

// Column widths of the free-text fields, in characters.
const (
	MaxNameLength        = 64
	MaxInitialLength     = 8
	MaxDescriptionLength = 255
)

var (
	emailPattern    = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)
	usernamePattern = regexp.MustCompile(`^[a-z0-9._\-]{3,30}$`)
	phonePattern    = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	hasLower        = regexp.MustCompile(`[a-z]`)
	hasUpper        = regexp.MustCompile(`[A-Z]`)
	hasDigit        = regexp.MustCompile(`[0-9]`)
	hasSpecial      = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// ValidateEmail expects an already lower-cased address.
func ValidateEmail(email string) bool {
	return len(email) <= 255 && emailPattern.MatchString(email)
}

func ValidateUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// ValidatePassword requires 8 to 72 bytes (the bcrypt input limit) with
// lower, upper, digit and special characters.
func ValidatePassword(password string) bool {
	if len(password) < 8 || len(password) > 72 {
		return false
	}
	return hasLower.MatchString(password) &&
		hasUpper.MatchString(password) &&
		hasDigit.MatchString(password) &&
		hasSpecial.MatchString(password)
}

func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// ValidateLength reports whether s fits a column of limit characters.
func ValidateLength(s string, limit int) bool {
	return utf8.RuneCountInString(s) <= limit
}

func ValidateCategory(category string) bool {
	return slices.Contains(models.ExpenseCategories, category)
}

func ValidatePageMode(mode string) bool {
	return mode == models.PageModeLight || mode == models.PageModeDark
}

// ValidateActive accepts the boolean-as-integer flag values.
func ValidateActive(active int) bool {
	return active == 0 || active == 1
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
