package service

import (
	"errors"
	"testing"
	"time"

	"exam_platform_backend/internal/config"
	"exam_platform_backend/internal/model"
	"exam_platform_backend/internal/service/servicetest"
	"exam_platform_backend/internal/util"
)

func newAuthService() (*AuthService, *servicetest.UserStore) {
	users := servicetest.NewUserStore()
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "unit-test-secret", ExpireTime: time.Hour}}
	return NewAuthService(users, cfg), users
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService()

	user, err := svc.Register(RegisterRequest{Name: "Asha", Email: " Asha@Example.com ", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != model.Student || user.Email != "asha@example.com" {
		t.Fatalf("user = %+v", user)
	}
	if user.Password == "correct horse" {
		t.Fatal("password stored in clear text")
	}

	if _, err := svc.Register(RegisterRequest{Name: "Again", Email: "asha@example.com", Password: "whatever1"}); !errors.Is(err, util.ErrEmailRegistered) {
		t.Fatalf("duplicate: err = %v", err)
	}

	resp, err := svc.Login(LoginRequest{Email: "ASHA@example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := util.ParseJWT(resp.Token, "unit-test-secret")
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != model.Student {
		t.Fatalf("claims = %+v", claims)
	}
	if resp.User.LastLogin == nil {
		t.Fatal("last login not recorded")
	}

	if _, err := svc.Login(LoginRequest{Email: "asha@example.com", Password: "wrong"}); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Fatalf("wrong password: err = %v", err)
	}
	if _, err := svc.Login(LoginRequest{Email: "nobody@example.com", Password: "x"}); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Fatalf("unknown user: err = %v", err)
	}
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	svc, users := newAuthService()
	user, err := svc.Register(RegisterRequest{Name: "T", Email: "t@example.com", Password: "password1", Role: model.Teacher})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	stored, _ := users.FindByID(user.ID)
	stored.Disabled = true

	if _, err := svc.Login(LoginRequest{Email: "t@example.com", Password: "password1"}); !errors.Is(err, util.ErrAccountDisabled) {
		t.Fatalf("err = %v, want ErrAccountDisabled", err)
	}
}

func TestProfile(t *testing.T) {
	svc, _ := newAuthService()
	if _, err := svc.Profile(99); !errors.Is(err, util.ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}
