package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/artmart-next/internal/constants"
	"github.com/artmart-next/internal/models"
	"github.com/artmart-next/internal/repository"

	"gorm.io/gorm"
)

func setupAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	db := setupServiceTestDB(t)
	svc := NewAuthService(testConfig(), repository.NewUserRepository(db), repository.NewSessionRepository(db))
	return svc, db
}

func TestSignUpValidation(t *testing.T) {
	svc, _ := setupAuthService(t)
	cases := []struct {
		name  string
		field string
		input SignUpInput
	}{
		{"single name", "name", SignUpInput{Name: "Adaeze", Email: "a@example.com", Password: "password1", ConfirmPassword: "password1"}},
		{"short name", "name", SignUpInput{Name: "Al", Email: "a@example.com", Password: "password1", ConfirmPassword: "password1"}},
		{"bad email", "email", SignUpInput{Name: "Ada Obi", Email: "not-an-email", Password: "password1", ConfirmPassword: "password1"}},
		{"short password", "password", SignUpInput{Name: "Ada Obi", Email: "a@example.com", Password: "short", ConfirmPassword: "short"}},
		{"mismatch", "confirmPassword", SignUpInput{Name: "Ada Obi", Email: "a@example.com", Password: "password1", ConfirmPassword: "password2"}},
	}
	for _, tc := range cases {
		_, err := svc.SignUp(context.Background(), tc.input, "", "")
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: want ValidationError got %v", tc.name, err)
		}
		if _, ok := verr.Fields[tc.field]; !ok {
			t.Fatalf("%s: want field %s in %v", tc.name, tc.field, verr.Fields)
		}
	}
}

func TestSignUpSignInAndResolveSession(t *testing.T) {
	svc, db := setupAuthService(t)
	ctx := context.Background()

	signedUp, err := svc.SignUp(ctx, SignUpInput{
		Name:            "Ada  Obi",
		Email:           "Ada@Example.com",
		Password:        "password1",
		ConfirmPassword: "password1",
	}, "127.0.0.1", "go-test")
	if err != nil {
		t.Fatalf("sign up failed: %v", err)
	}
	if signedUp.User.Email != "ada@example.com" || signedUp.User.Name != "Ada Obi" {
		t.Fatalf("normalized user want ada@example.com/Ada Obi got %s/%s", signedUp.User.Email, signedUp.User.Name)
	}

	if _, err := svc.SignUp(ctx, SignUpInput{Name: "Ada Obi", Email: "ada@example.com", Password: "password1", ConfirmPassword: "password1"}, "", ""); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("duplicate sign up want ErrEmailExists got %v", err)
	}

	if _, err := svc.SignIn(ctx, SignInInput{Email: "ada@example.com", Password: "wrong-pass"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password want ErrInvalidCredentials got %v", err)
	}
	signedIn, err := svc.SignIn(ctx, SignInInput{Email: "ADA@example.com", Password: "password1"})
	if err != nil {
		t.Fatalf("sign in failed: %v", err)
	}

	identity, err := svc.ResolveSession(ctx, signedIn.Token)
	if err != nil {
		t.Fatalf("resolve session failed: %v", err)
	}
	if identity.UserID != signedUp.User.ID {
		t.Fatalf("user id want %d got %d", signedUp.User.ID, identity.UserID)
	}

	if err := svc.SignOut(ctx, identity.SessionID); err != nil {
		t.Fatalf("sign out failed: %v", err)
	}
	if _, err := svc.ResolveSession(ctx, signedIn.Token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("signed out token want ErrUnauthenticated got %v", err)
	}

	var sessions int64
	if err := db.Model(&models.Session{}).Count(&sessions).Error; err != nil {
		t.Fatalf("count sessions failed: %v", err)
	}
	if sessions != 1 {
		t.Fatalf("sessions want 1 (sign up) got %d", sessions)
	}
}

func TestResolveSessionRejectsBadTokens(t *testing.T) {
	svc, db := setupAuthService(t)
	ctx := context.Background()
	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.ResolveSession(ctx, token); !errors.Is(err, ErrUnauthenticated) {
			t.Fatalf("token %q want ErrUnauthenticated got %v", token, err)
		}
	}

	res, err := svc.SignUp(ctx, SignUpInput{Name: "Ada Obi", Email: "ada@example.com", Password: "password1", ConfirmPassword: "password1"}, "", "")
	if err != nil {
		t.Fatalf("sign up failed: %v", err)
	}

	other := NewAuthService(testConfig(), repository.NewUserRepository(db), repository.NewSessionRepository(db))
	other.cfg.UserJWT.SecretKey = "different-secret"
	if _, err := other.ResolveSession(ctx, res.Token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("foreign signature want ErrUnauthenticated got %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	if _, err := svc.ResolveSession(ctx, res.Token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expired session want ErrUnauthenticated got %v", err)
	}
}

func TestResolveSessionRejectsDisabledUser(t *testing.T) {
	svc, db := setupAuthService(t)
	ctx := context.Background()
	res, err := svc.SignUp(ctx, SignUpInput{Name: "Ada Obi", Email: "ada@example.com", Password: "password1", ConfirmPassword: "password1"}, "", "")
	if err != nil {
		t.Fatalf("sign up failed: %v", err)
	}
	if err := db.Model(&models.User{}).Where("id = ?", res.User.ID).Update("status", constants.UserStatusDisabled).Error; err != nil {
		t.Fatalf("disable user failed: %v", err)
	}
	if _, err := svc.ResolveSession(ctx, res.Token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("disabled user want ErrUnauthenticated got %v", err)
	}
	if _, err := svc.SignIn(ctx, SignInInput{Email: "ada@example.com", Password: "password1"}); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("disabled sign in want ErrUserDisabled got %v", err)
	}
}
