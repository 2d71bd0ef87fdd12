package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for missing, malformed, expired or forged tokens.
var ErrInvalidToken = errors.New("invalid token")

const issuer = "agritrace360"

// TokenManager mints and verifies HS256 bearer tokens for portal accounts.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for accountID and its expiry.
func (m *TokenManager) Issue(accountID string) (string, time.Time, error) {
	if accountID == "" {
		return "", time.Time{}, fmt.Errorf("account ID is empty")
	}
	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := jwt.MapClaims{
		"sub": accountID,
		"iss": issuer,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies tokenString and returns the account id and expiry.
func (m *TokenManager) Parse(tokenString string) (string, time.Time, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", time.Time{}, ErrInvalidToken
	}
	accountID, err := claims.GetSubject()
	if err != nil || accountID == "" {
		return "", time.Time{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return "", time.Time{}, fmt.Errorf("%w: missing expiry", ErrInvalidToken)
	}
	return accountID, exp.Time, nil
}

// FromHeader extracts and verifies the token of an "Authorization: Bearer" header.
func (m *TokenManager) FromHeader(header string) (string, time.Time, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", time.Time{}, fmt.Errorf("%w: expected bearer token", ErrInvalidToken)
	}
	return m.Parse(strings.TrimSpace(token))
}
