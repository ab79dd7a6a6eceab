package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.Issue(42, "a@x.com")

	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := m.Verify(token)

	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	if claims.UserID != 42 {
		t.Fatalf("got user id %d, want 42", claims.UserID)
	}

	if claims.Email != "a@x.com" {
		t.Fatalf("got email %q, want a@x.com", claims.Email)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)

	token, err := m.Issue(42, "a@x.com")

	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	_, err = m.Verify(token)

	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("got %v, want ErrTokenExpired", err)
	}
}

func TestVerifyInvalidTokens(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	good, err := m.Issue(42, "a@x.com")

	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	otherSecret := NewManager("other-secret", time.Hour)
	forged, err := otherSecret.Issue(42, "a@x.com")

	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "malformed", token: "not.a.token"},
		{name: "empty", token: ""},
		{name: "tampered signature", token: good + "x"},
		{name: "wrong secret", token: forged},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := m.Verify(tc.token)

			if !errors.Is(err, ErrTokenInvalid) {
				t.Fatalf("got %v, want ErrTokenInvalid", err)
			}
		})
	}
}

func TestVerifyRejectsUnsignedToken(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: 42,
		Email:  "a@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)

	if err != nil {
		t.Fatalf("signing failed: %v", err)
	}

	_, err = m.Verify(raw)

	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("got %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyRejectsMissingUserID(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: "a@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	raw, err := token.SignedString([]byte("test-secret"))

	if err != nil {
		t.Fatalf("signing failed: %v", err)
	}

	_, err = m.Verify(raw)

	if !errors.Is(err, ErrTokenPayload) {
		t.Fatalf("got %v, want ErrTokenPayload", err)
	}
}
