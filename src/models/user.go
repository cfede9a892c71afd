package models

import "time"

type User struct {
	ID           int64
	Number       string
	Username     string
	PasswordHash []byte
	FirstName    string
	Initial      *string
	LastName     string
	Email        string
	Phone        *string
	Active       int
	CreatedAt    time.Time
}

// Profile is a user joined with their setting and currency sign; it is the
// source of the session claims.
type Profile struct {
	User
	PageMode     string
	CurrencyCode string
	CurrencySign string
}

type SignUpRequest struct {
	FirstName string  `json:"first_name"`
	Initial   *string `json:"initial"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
	Username  string  `json:"username"`
	Password  string  `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type ChangeUsernameRequest struct {
	Username string `json:"username"`
}

type ChangeInformationRequest struct {
	FirstName string  `json:"first_name"`
	Initial   *string `json:"initial"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
}

type DisableUserRequest struct {
	Password string `json:"password"`
}

type LoginUserInformation struct {
	Username  string `json:"username"`
	Number    string `json:"number"`
	FirstName string `json:"first_name"`
}
