package utils

import (
	"errors"
	"os"
	"testing"
	"time"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")

	// The config singleton loads once per process; point the upload dir at a
	// scratch location before anything touches it.
	dir, err := os.MkdirTemp("", "voxdrop-uploads")
	if err != nil {
		panic(err)
	}
	os.Setenv("UPLOAD_DIR", dir)

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("a@x.com", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	subject, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if subject != "a@x.com" {
		t.Fatalf("subject = %q, want a@x.com", subject)
	}
}

func TestExpiredToken(t *testing.T) {
	token, err := GenerateToken("a@x.com", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	_, err = ParseToken(token)
	if !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("err = %v, want ErrExpiredToken", err)
	}
}

func TestMalformedToken(t *testing.T) {
	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := ParseToken(tok); !errors.Is(err, ErrMalformedToken) {
			t.Fatalf("ParseToken(%q) err = %v, want ErrMalformedToken", tok, err)
		}
	}
}

func TestTamperedToken(t *testing.T) {
	token, err := GenerateToken("a@x.com", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := ParseToken(tampered); !errors.Is(err, ErrMalformedToken) {
		t.Fatalf("err = %v, want ErrMalformedToken", err)
	}
}
