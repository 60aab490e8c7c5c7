package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTManager handles generation and validation of access tokens
type JWTManager struct {
	Secret []byte
	TTL    time.Duration
	// Now is the clock used for issuing and validating; defaults to time.Now.
	Now func() time.Time
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{Secret: []byte(secret), TTL: ttl, Now: time.Now}
}

type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

func (m *JWTManager) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

// Generate signs a token for userID. The returned times carry the second
// precision that is embedded in the token.
func (m *JWTManager) Generate(userID string) (token string, issuedAt, expiresAt time.Time, err error) {
	iat := jwt.NewNumericDate(m.now())
	exp := jwt.NewNumericDate(iat.Time.Add(m.TTL))
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  iat,
			ExpiresAt: exp,
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	if err != nil {
		return "", time.Time{}, time.Time{}, err
	}
	return s, iat.Time, exp.Time, nil
}

// Parse verifies the signature and expiry of tokenStr. Expired tokens fail
// with an error matching jwt.ErrTokenExpired.
func (m *JWTManager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired(), jwt.WithIssuedAt())
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.UserID == "" || claims.IssuedAt == nil {
		return nil, errors.New("token is missing required claims")
	}
	return claims, nil
}
