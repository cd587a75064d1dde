package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/harwick/wip-reporting/internal/auth"
	"github.com/harwick/wip-reporting/internal/model"
)

func storedUser(t *testing.T, password string, active bool) *model.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &model.User{
		ID:           uuid.New(),
		Username:     "controller",
		PasswordHash: hash,
		FirstName:    "Dana",
		LastName:     "Whitfield",
		Role:         model.RoleAdmin,
		IsActive:     active,
	}
}

func TestAuthService_Login(t *testing.T) {
	user := storedUser(t, "correct horse", true)
	users := &mockUserStore{
		getByUsernameFunc: func(ctx context.Context, username string) (*model.User, error) {
			return user, nil
		},
	}
	svc := NewAuthService(users, &mockTokenIssuer{})

	result, err := svc.Login(context.Background(), LoginInput{Username: "controller", Password: "correct horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token == "" {
		t.Errorf("expected a token")
	}
	if result.User.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, result.User.ID)
	}
	if result.ExpiresAt.IsZero() {
		t.Errorf("expected an expiry")
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	user := storedUser(t, "correct horse", true)
	users := &mockUserStore{
		getByUsernameFunc: func(ctx context.Context, username string) (*model.User, error) {
			return user, nil
		},
	}
	svc := NewAuthService(users, &mockTokenIssuer{})

	_, err := svc.Login(context.Background(), LoginInput{Username: "controller", Password: "battery staple"})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc := NewAuthService(&mockUserStore{}, &mockTokenIssuer{})

	_, err := svc.Login(context.Background(), LoginInput{Username: "nobody", Password: "whatever"})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	user := storedUser(t, "correct horse", false)
	users := &mockUserStore{
		getByUsernameFunc: func(ctx context.Context, username string) (*model.User, error) {
			return user, nil
		},
	}
	svc := NewAuthService(users, &mockTokenIssuer{})

	_, err := svc.Login(context.Background(), LoginInput{Username: "controller", Password: "correct horse"})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_Login_MissingCredentials(t *testing.T) {
	svc := NewAuthService(&mockUserStore{}, &mockTokenIssuer{})

	for _, input := range []LoginInput{
		{Username: "", Password: "secret"},
		{Username: "controller", Password: ""},
	} {
		if _, err := svc.Login(context.Background(), input); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%+v: expected ErrInvalidInput, got %v", input, err)
		}
	}
}

func TestAuthService_CurrentUser_Gone(t *testing.T) {
	svc := NewAuthService(&mockUserStore{}, &mockTokenIssuer{})

	_, err := svc.CurrentUser(context.Background(), adminPrincipal())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAuthService_ListUsers(t *testing.T) {
	users := &mockUserStore{
		listFunc: func(ctx context.Context) ([]model.User, error) {
			return []model.User{{Username: "controller"}, {Username: "pm"}}, nil
		},
	}
	svc := NewAuthService(users, &mockTokenIssuer{})

	got, err := svc.ListUsers(context.Background(), adminPrincipal())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 users, got %d", len(got))
	}

	if _, err := svc.ListUsers(context.Background(), viewerPrincipal()); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied for viewer, got %v", err)
	}
}
