package util

import (
	"errors"
	"testing"
	"time"

	"exam_platform_backend/internal/model"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{Email: "s@example.com", Role: model.Student}
	user.ID = 7

	token, err := GenerateJWT(user, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	claims, err := ParseJWT(token, "test-secret")
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != 7 || claims.Role != model.Student || claims.Email != "s@example.com" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestJWTRejectsWrongSecretAndExpiry(t *testing.T) {
	user := &model.User{Role: model.Admin}

	token, _ := GenerateJWT(user, "secret-a", time.Hour)
	if _, err := ParseJWT(token, "secret-b"); err == nil {
		t.Fatal("token signed with another secret accepted")
	}

	expired, _ := GenerateJWT(user, "secret-a", -time.Minute)
	if _, err := ParseJWT(expired, "secret-a"); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestParseObjectID(t *testing.T) {
	if _, err := ParseObjectID(" 64b7f0c2a1b2c3d4e5f60718 "); err != nil {
		t.Fatalf("valid id rejected: %v", err)
	}
	for _, bad := range []string{"", "123", "zzzzzzzzzzzzzzzzzzzzzzzz"} {
		if _, err := ParseObjectID(bad); !errors.Is(err, ErrInvalidObjectID) {
			t.Errorf("ParseObjectID(%q) err = %v", bad, err)
		}
	}
}
