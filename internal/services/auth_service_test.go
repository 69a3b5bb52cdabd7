package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jojuma-project/backend/internal/config"
	"github.com/jojuma-project/backend/internal/models"
)

const testSecret = "test-secret"

func newTestAuth(t *testing.T) *AuthService {
	t.Helper()
	svc := NewAuthService(NewMemoryUserRepository(), config.AuthConfig{
		JWTSecret:       testSecret,
		TokenTTL:        time.Hour,
		AllowedProjects: []string{"herviz", "jojuma"},
	})
	ctx := context.Background()
	if err := svc.Register(ctx, &models.User{Username: "ana", Project: "jojuma"}, "s3cret"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := svc.Register(ctx, &models.User{Username: "otro", Project: "acme"}, "s3cret"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	return svc
}

func TestLoginIssuesToken(t *testing.T) {
	svc := newTestAuth(t)

	res, err := svc.Login(context.Background(), "ana", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	var claims SessionClaims
	token, err := jwt.ParseWithClaims(res.Token, &claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !token.Valid {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.Username != "ana" || claims.Project != "jojuma" || claims.Subject != "1" {
		t.Errorf("unexpected claims %+v", claims)
	}
	if res.User.Password == "s3cret" {
		t.Error("password stored in plain text")
	}
}

func TestLoginRejections(t *testing.T) {
	svc := newTestAuth(t)

	tests := []struct {
		name     string
		username string
		password string
		want     error
	}{
		{"wrong password", "ana", "nope", ErrInvalidCredentials},
		{"unknown user", "nadie", "s3cret", ErrInvalidCredentials},
		{"empty password", "ana", "", ErrInvalidCredentials},
		{"project not allowed", "otro", "s3cret", ErrProjectNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Login(context.Background(), tt.username, tt.password); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	svc := newTestAuth(t)
	if err := svc.Register(context.Background(), &models.User{Username: "ana"}, "x"); !errors.Is(err, ErrUserExists) {
		t.Errorf("expected ErrUserExists, got %v", err)
	}
}
