package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/YukichiOhno/expense-tracker/src/auth"
	db "github.com/YukichiOhno/expense-tracker/src/db/sql"
	"github.com/YukichiOhno/expense-tracker/src/middleware"
	"github.com/YukichiOhno/expense-tracker/src/models"
	"github.com/YukichiOhno/expense-tracker/src/util"
)

// userConflict maps the users table constraints to client messages.
func userConflict(err error) *Error {
	ce, ok := db.AsConstraint(err)
	if !ok {
		return nil
	}
	switch ce.Constraint {
	case db.ConstraintUsername:
		return newError(KindConflict, "username is already taken")
	case db.ConstraintEmail:
		return newError(KindConflict, "email is already taken")
	case db.ConstraintPhone:
		return newError(KindConflict, "phone number is already taken")
	case db.ConstraintEmailFormat:
		return validationError("invalid email format")
	case db.ConstraintPhoneFormat:
		return validationError("invalid phone number format")
	}
	return nil
}

func SignUp(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth.HasSessionCookie(r) {
			writeError(w, r, newError(KindForbidden, "user must not be logged in while signing up"))
			return
		}

		var req models.SignUpRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}

		user := &models.User{
			Username:  util.NormalizeLower(req.Username),
			FirstName: util.NormalizeLower(req.FirstName),
			Initial:   util.NormalizeOptional(req.Initial),
			LastName:  util.NormalizeLower(req.LastName),
			Email:     util.NormalizeLower(req.Email),
			Phone:     util.NormalizePhone(req.Phone),
		}
		if user.FirstName == "" || user.LastName == "" || user.Email == "" || user.Username == "" || req.Password == "" {
			writeError(w, r, validationError("required information are missing while signing up"))
			return
		}
		if err := validateIdentity(user); err != nil {
			writeError(w, r, err)
			return
		}
		if !util.ValidateUsername(user.Username) {
			writeError(w, r, validationError("username must be 3 to 30 letters, digits, '.', '_' or '-'"))
			return
		}
		if !util.ValidatePassword(req.Password) {
			writeError(w, r, validationError(passwordRules))
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			writeError(w, r, internalError("failed to hash password", err))
			return
		}
		user.PasswordHash = hash

		number, err := util.NewUserNumber()
		if err != nil {
			writeError(w, r, internalError("failed to generate user number", err))
			return
		}
		user.Number = number

		created, err := db.CreateUser(r.Context(), d.DB, user)
		if err != nil {
			if he := userConflict(err); he != nil {
				writeError(w, r, he)
				return
			}
			writeError(w, r, storeError("a server error occurred while signing up, please try again", err))
			return
		}

		slog.InfoContext(r.Context(), "Successful registration", "user_number", created.Number, "username", created.Username)
		writeMessage(w, http.StatusCreated, "successfully created user account")
	}
}

const passwordRules = "password must be 8 to 72 characters with uppercase, lowercase, digit, and special character"

func validateIdentity(user *models.User) error {
	if user.FirstName == "" || user.LastName == "" || user.Email == "" {
		return validationError("first name, last name and email are required")
	}
	if !util.ValidateLength(user.FirstName, util.MaxNameLength) || !util.ValidateLength(user.LastName, util.MaxNameLength) {
		return validationError("first and last name must be at most 64 characters")
	}
	if user.Initial != nil && !util.ValidateLength(*user.Initial, util.MaxInitialLength) {
		return validationError("initial must be at most 8 characters")
	}
	if !util.ValidateEmail(user.Email) {
		return validationError("invalid email format")
	}
	if user.Phone != nil && !util.ValidatePhone(*user.Phone) {
		return validationError("invalid phone number format")
	}
	return nil
}

func Login(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth.HasSessionCookie(r) {
			writeError(w, r, newError(KindForbidden, "user must be logged out before logging in"))
			return
		}

		var req models.LoginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		username := util.NormalizeLower(req.Username)
		if username == "" || req.Password == "" {
			writeError(w, r, validationError("username and password must be provided to continue"))
			return
		}

		badCredentials := validationError("unable to login; incorrect credentials")
		profile, err := db.GetProfileByUsername(r.Context(), d.DB, username)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				writeError(w, r, badCredentials)
				return
			}
			writeError(w, r, storeError("a server error occurred while logging in", err))
			return
		}

		if !auth.CheckPassword(profile.PasswordHash, req.Password) {
			slog.WarnContext(r.Context(), "Invalid password attempt", "username", username, "remote_addr", r.RemoteAddr)
			writeError(w, r, badCredentials)
			return
		}
		if profile.Active == 0 {
			writeError(w, r, validationError("disabled account, unable to log in; contact the administrator to enable the account"))
			return
		}

		token, expires, err := d.Tokens.Issue(auth.ClaimsFromProfile(profile))
		if err != nil {
			writeError(w, r, internalError("failed to issue session", err))
			return
		}
		auth.SetSessionCookie(w, token, expires, d.SecureCookie)

		slog.InfoContext(r.Context(), "Successful login", "user_number", profile.Number)
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "login success",
			"user_information": models.LoginUserInformation{
				Username:  profile.Username,
				Number:    profile.Number,
				FirstName: profile.FirstName,
			},
		})
	}
}

func Logout(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth.ClearSessionCookie(w, d.SecureCookie)
		writeMessage(w, http.StatusOK, "logout success")
	}
}

// VerifyToken lets the client gate navigation on a live session.
func VerifyToken(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, err := middleware.ParseTokenFromRequest(r, d.Tokens)
		switch {
		case errors.Is(err, auth.ErrMissingToken):
			writeMessage(w, http.StatusUnauthorized, "unauthorized: no token provided")
		case err != nil:
			writeMessage(w, http.StatusUnauthorized, "unauthorized: invalid token")
		default:
			writeMessage(w, http.StatusOK, "token is valid")
		}
	}
}

// NoToken succeeds only for visitors without a session cookie; the login
// page uses it to bounce signed-in users.
func NoToken(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth.HasSessionCookie(r) {
			writeMessage(w, http.StatusUnauthorized, "token is provided")
			return
		}
		writeMessage(w, http.StatusOK, "no token provided")
	}
}
