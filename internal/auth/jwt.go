package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Principal is the authenticated identity reconstructed from token claims,
// with no database round-trip.
type Principal struct {
	Username string
	Role     string
	Email    string
	UserID   uint
}

func (p Principal) IsAdmin() bool { return p.Role == "ADMIN" }

type claims struct {
	Role   string `json:"role"`
	Email  string `json:"email"`
	UserID uint   `json:"uid"`
	jwt.RegisteredClaims
}

// Tokens mints and validates the bearer tokens. The secret comes from
// configuration at process startup.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

func (t *Tokens) Mint(username, role, email string, userID uint) (string, error) {
	now := time.Now()
	c := claims{
		Role:   role,
		Email:  email,
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
}

// Parse validates signature and expiry and returns the embedded principal.
func (t *Tokens) Parse(token string) (*Principal, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return &Principal{
		Username: c.Subject,
		Role:     c.Role,
		Email:    c.Email,
		UserID:   c.UserID,
	}, nil
}
