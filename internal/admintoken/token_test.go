package admintoken

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	svc := NewService([]byte("test_secret"))

	for _, username := range []string{"root", "moderator", "a.b-c_d"} {
		token, exp, err := svc.Issue(username)
		require.NoError(t, err)
		require.NotEmpty(t, token)
		require.WithinDuration(t, time.Now().Add(DefaultTTL), exp, time.Minute)

		got, err := svc.Verify(token)
		require.NoError(t, err)
		require.Equal(t, username, got)
	}
}

func TestVerifyExpired(t *testing.T) {
	now := time.Now()
	svc := &Service{
		Secret: []byte("test_secret"),
		TTL:    DefaultTTL,
		Now:    func() time.Time { return now },
	}

	token, _, err := svc.Issue("root")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.NoError(t, err)

	svc.Now = func() time.Time { return now.Add(DefaultTTL + time.Minute) }
	_, err = svc.Verify(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyTampered(t *testing.T) {
	svc := NewService([]byte("test_secret"))
	token, _, err := svc.Issue("root")
	require.NoError(t, err)

	// flip a character in the payload segment
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = svc.Verify(tampered)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyWrongSecret(t *testing.T) {
	token, _, err := NewService([]byte("secret_one")).Issue("root")
	require.NoError(t, err)

	_, err = NewService([]byte("secret_two")).Verify(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyWrongAlgorithm(t *testing.T) {
	secret := []byte("test_secret")
	claims := jwt.MapClaims{
		"sub": "root",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = NewService(secret).Verify(signed)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyMalformed(t *testing.T) {
	svc := NewService([]byte("test_secret"))
	for _, raw := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		_, err := svc.Verify(raw)
		require.ErrorIs(t, err, ErrTokenInvalid)
	}
}
