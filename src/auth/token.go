package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/YukichiOhno/expense-tracker/src/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

// SessionTTL is the absolute lifetime of a session issued at login.
const SessionTTL = time.Hour

// Claims is the identity carried by a session token. Display preferences
// ride along and are refreshed by Reissue when they change.
type Claims struct {
	UserNumber   string  `json:"user_number"`
	Username     string  `json:"user_username"`
	FirstName    string  `json:"user_first"`
	Initial      *string `json:"user_initial"`
	LastName     string  `json:"user_last"`
	Email        string  `json:"user_email"`
	Phone        *string `json:"user_phone"`
	PageMode     string  `json:"page_mode"`
	CurrencyCode string  `json:"curr_code"`
	CurrencySign string  `json:"curr_sign"`
	jwt.RegisteredClaims
}

// ClaimsFromProfile copies the session fields of a joined user profile.
func ClaimsFromProfile(p *models.Profile) Claims {
	return Claims{
		UserNumber:   p.Number,
		Username:     p.Username,
		FirstName:    p.FirstName,
		Initial:      p.Initial,
		LastName:     p.LastName,
		Email:        p.Email,
		Phone:        p.Phone,
		PageMode:     p.PageMode,
		CurrencyCode: p.CurrencyCode,
		CurrencySign: p.CurrencySign,
	}
}

// Issuer signs and verifies HS256 session tokens with a single secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Issuer)

// WithClock overrides the time source used for iat, exp and validation.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		i.now = now
	}
}

func WithTTL(ttl time.Duration) Option {
	return func(i *Issuer) {
		i.ttl = ttl
	}
}

func NewIssuer(secret string, opts ...Option) *Issuer {
	i := &Issuer{
		secret: []byte(secret),
		ttl:    SessionTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Issue signs a fresh token expiring one TTL from now.
func (i *Issuer) Issue(c Claims) (string, time.Time, error) {
	return i.sign(c, i.now().Add(i.ttl))
}

// Reissue signs next with the expiry of prev, so a mutation never extends
// the session.
func (i *Issuer) Reissue(prev *Claims, next Claims) (string, time.Time, error) {
	if prev == nil || prev.ExpiresAt == nil {
		return "", time.Time{}, ErrInvalidToken
	}
	return i.sign(next, prev.ExpiresAt.Time)
}

func (i *Issuer) sign(c Claims, expiresAt time.Time) (string, time.Time, error) {
	expiresAt = expiresAt.Truncate(time.Second)
	c.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(i.now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies signature and expiry and returns the decoded claims.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserNumber == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
