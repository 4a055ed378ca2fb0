// Package auth verifies bearer credentials on inbound upload requests
package auth

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any credential that fails verification:
// missing, malformed, expired, wrong signature or wrong subject. Callers get
// no more detail than that.
var ErrInvalidToken = errors.New("invalid token")

// Verifier validates JWT bearer tokens. A token is accepted when its
// signature checks out under the configured secret and algorithm and its
// subject equals the expected service identifier.
type Verifier struct {
	secret    []byte
	algorithm string
	serviceID string
}

// NewVerifier creates a verifier for the given signing secret, algorithm
// name (e.g. "HS256") and expected subject.
func NewVerifier(secret, algorithm, serviceID string) *Verifier {
	return &Verifier{
		secret:    []byte(secret),
		algorithm: algorithm,
		serviceID: serviceID,
	}
}

// Verify checks a raw token string.
func (v *Verifier) Verify(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{v.algorithm}))
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" || subject != v.serviceID {
		return ErrInvalidToken
	}
	return nil
}

// FromHeader extracts the token from an Authorization header value.
func FromHeader(header string) (string, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", ErrInvalidToken
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if token == "" {
		return "", ErrInvalidToken
	}
	return token, nil
}
