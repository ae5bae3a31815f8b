package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndParseToken(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")

	token, err := GenerateToken(secret, 7, "alice", "USER", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "alice" || claims.Role != "USER" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := GenerateToken([]byte("one"), 7, "alice", "USER", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseToken([]byte("two"), token); err == nil {
		t.Fatal("expected verification failure")
	}
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")
	token, err := GenerateToken(secret, 7, "alice", "USER", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseToken(secret, token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestParseToken_WrongAlgorithm(t *testing.T) {
	t.Parallel()

	// An unsigned token must not pass HMAC validation.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 7})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseToken([]byte("test-secret"), token); err == nil {
		t.Fatal("expected alg=none token to be rejected")
	}
}
