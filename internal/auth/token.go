package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// SessionSigner binds a stored session to its account with an HS256 token,
// so an edited session record is detected on read.
type SessionSigner struct {
	secret []byte
}

// NewSessionSigner builds a signer.
func NewSessionSigner(secret string) *SessionSigner {
	return &SessionSigner{secret: []byte(secret)}
}

// SessionClaims describes the token payload. Sessions end only on logout,
// so no expiry is set.
type SessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Sign issues a token for the account.
func (s *SessionSigner) Sign(accountID, email string, issuedAt time.Time) (string, error) {
	claims := &SessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  accountID,
			IssuedAt: jwt.NewNumericDate(issuedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks the token signature and that it was issued for accountID.
func (s *SessionSigner) Verify(tokenStr, accountID string) error {
	parsed, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return err
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		return errors.New("invalid token claims")
	}
	if claims.Subject != accountID {
		return errors.New("token issued for another account")
	}
	return nil
}
