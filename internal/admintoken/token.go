package admintoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenInvalid covers every verification failure: bad signature, wrong
// algorithm, malformed input, expired claim. Callers get no hint which one
// it was.
var ErrTokenInvalid = errors.New("admintoken: invalid token")

const DefaultTTL = 7 * 24 * time.Hour

// Service issues and verifies the stateless admin credential. There is no
// server-side session row, so a token cannot be revoked before it expires.
type Service struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func NewService(secret []byte) *Service {
	return &Service{Secret: secret, TTL: DefaultTTL, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultTTL
}

func (s *Service) Issue(username string) (string, time.Time, error) {
	issued := s.now()
	exp := issued.Add(s.ttl())
	claims := jwt.MapClaims{
		"sub": username,
		"iat": issued.Unix(),
		"exp": exp.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("admintoken: sign failed: %w", err)
	}
	return signed, exp, nil
}

func (s *Service) Verify(raw string) (string, error) {
	t, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signature method: %v", t.Header["alg"])
		}
		return s.Secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !t.Valid {
		return "", ErrTokenInvalid
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrTokenInvalid
	}
	username, ok := claims["sub"].(string)
	if !ok || username == "" {
		return "", ErrTokenInvalid
	}
	if _, ok := claims["exp"]; !ok {
		return "", ErrTokenInvalid
	}

	return username, nil
}
