package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type sessionClaims struct {
	AccountId int64 `json:"account_id"`
	jwt.RegisteredClaims
}

// Signer issues and verifies the HMAC signed session tokens attached to authenticated requests.
type Signer struct {
	secret []byte
	ttl    time.Duration
}

func NewSigner(secret string, ttl time.Duration) Signer {
	return Signer{[]byte(secret), ttl}
}

// Sign mints a session token for the given account id.
func (s Signer) Sign(accountId int64) (string, error) {
	var claims = sessionClaims{
		AccountId: accountId,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// parse verifies a token's signature and expiry, returning the embedded account id.
func (s Signer) parse(tokenString string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected token signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return 0, err
	}
	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return 0, jwt.ErrTokenInvalidClaims
	}
	return claims.AccountId, nil
}
