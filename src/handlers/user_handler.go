package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/YukichiOhno/expense-tracker/src/auth"
	db "github.com/YukichiOhno/expense-tracker/src/db/sql"
	"github.com/YukichiOhno/expense-tracker/src/models"
	"github.com/YukichiOhno/expense-tracker/src/util"
	"github.com/golang-jwt/jwt/v5"
)

// GetUserInformation returns the session identity without token metadata.
func GetUserInformation(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := requireOwner(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		info := *claims
		info.RegisteredClaims = jwt.RegisteredClaims{}
		writeJSON(w, http.StatusOK, map[string]any{
			"message":          fmt.Sprintf("successfully retrieved %s's account information", claims.FirstName),
			"user_information": info,
		})
	}
}

// confirmPassword loads the account and checks password against it.
func (d *Deps) confirmPassword(r *http.Request, number, password string) error {
	profile, err := db.GetProfileByNumber(r.Context(), d.DB, number)
	if err != nil {
		return storeError("failed to load user", err)
	}
	if !auth.CheckPassword(profile.PasswordHash, password) {
		return validationError("invalid password")
	}
	return nil
}

func ChangePassword(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := requireOwner(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		var req models.ChangePasswordRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if req.CurrentPassword == "" || req.NewPassword == "" {
			writeError(w, r, validationError("current and new passwords are required"))
			return
		}
		if !util.ValidatePassword(req.NewPassword) {
			writeError(w, r, validationError(passwordRules))
			return
		}
		if err := d.confirmPassword(r, claims.UserNumber, req.CurrentPassword); err != nil {
			writeError(w, r, err)
			return
		}

		hash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			writeError(w, r, internalError("failed to hash password", err))
			return
		}
		if err := db.UpdatePassword(r.Context(), d.DB, claims.UserNumber, hash); err != nil {
			writeError(w, r, storeError("failed to update password", err))
			return
		}

		slog.InfoContext(r.Context(), "Updated password", "user_number", claims.UserNumber)
		writeMessage(w, http.StatusOK, "password successfully updated")
	}
}

func ChangeUsername(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := requireOwner(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		var req models.ChangeUsernameRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		username := util.NormalizeLower(req.Username)
		if !util.ValidateUsername(username) {
			writeError(w, r, validationError("username must be 3 to 30 letters, digits, '.', '_' or '-'"))
			return
		}

		if err := db.UpdateUsername(r.Context(), d.DB, claims.UserNumber, username); err != nil {
			if he := userConflict(err); he != nil {
				writeError(w, r, he)
				return
			}
			writeError(w, r, storeError("failed to update username", err))
			return
		}
		if _, err := d.reissueSession(w, r, claims); err != nil {
			writeError(w, r, err)
			return
		}

		slog.InfoContext(r.Context(), "Updated username", "user_number", claims.UserNumber, "username", username)
		writeMessage(w, http.StatusOK, "username successfully updated")
	}
}

func ChangeInformation(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := requireOwner(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		var req models.ChangeInformationRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		user := &models.User{
			FirstName: util.NormalizeLower(req.FirstName),
			Initial:   util.NormalizeOptional(req.Initial),
			LastName:  util.NormalizeLower(req.LastName),
			Email:     util.NormalizeLower(req.Email),
			Phone:     util.NormalizePhone(req.Phone),
		}
		if err := validateIdentity(user); err != nil {
			writeError(w, r, err)
			return
		}

		if err := db.UpdateUserInformation(r.Context(), d.DB, claims.UserNumber, user); err != nil {
			if he := userConflict(err); he != nil {
				writeError(w, r, he)
				return
			}
			writeError(w, r, storeError("failed to update account information", err))
			return
		}
		if _, err := d.reissueSession(w, r, claims); err != nil {
			writeError(w, r, err)
			return
		}

		slog.InfoContext(r.Context(), "Updated account information", "user_number", claims.UserNumber)
		writeMessage(w, http.StatusOK, "account information successfully updated")
	}
}

// DisableUser deactivates the account after a password confirmation and ends
// the session. Only an operator can re-enable it.
func DisableUser(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := requireOwner(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		var req models.DisableUserRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if req.Password == "" {
			writeError(w, r, validationError("password is required to disable the account"))
			return
		}
		if err := d.confirmPassword(r, claims.UserNumber, req.Password); err != nil {
			writeError(w, r, err)
			return
		}

		if err := db.SetUserActive(r.Context(), d.DB, claims.UserNumber, 0); err != nil {
			writeError(w, r, storeError("failed to disable account", err))
			return
		}
		auth.ClearSessionCookie(w, d.SecureCookie)

		slog.InfoContext(r.Context(), "Disabled account", "user_number", claims.UserNumber)
		writeMessage(w, http.StatusOK, "account successfully disabled")
	}
}
