package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	domainauth "stayhub/internal/domain/auth"
	domainuser "stayhub/internal/domain/user"
	"stayhub/internal/infra/security"
	"stayhub/internal/infra/storage/memory"
)

func newService(t *testing.T) *Service {
	t.Helper()
	return &Service{
		Users:      memory.NewUserRepository(),
		Sessions:   memory.NewSessionStore(),
		Passwords:  security.BcryptHasher{Cost: bcrypt.MinCost},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: time.Hour,
	}
}

func TestRegisterIssuesSession(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterParams{Email: "Ann@Example.com", Name: "Ann", Password: "correct horse"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.Token == "" {
		t.Fatal("empty token")
	}
	if res.User.Email != "ann@example.com" {
		t.Fatalf("email = %s", res.User.Email)
	}
	if !res.User.HasRole(domainuser.RoleGuest) || res.User.HasRole(domainuser.RoleOwner) {
		t.Fatalf("roles = %v", res.User.Roles)
	}

	u, err := svc.Resolve(ctx, res.Token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if u.ID != res.User.ID {
		t.Fatalf("resolved %s, want %s", u.ID, res.User.ID)
	}
}

func TestRegisterHostGetsOwnerRole(t *testing.T) {
	svc := newService(t)

	res, err := svc.Register(context.Background(), RegisterParams{Email: "host@example.com", Name: "Bo", Password: "password1", WantsHost: true})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !res.User.HasRole(domainuser.RoleOwner) {
		t.Fatalf("roles = %v", res.User.Roles)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterParams{Email: "a@b.c", Password: "short"}); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("short password: got %v", err)
	}
	if _, err := svc.Register(ctx, RegisterParams{Email: "  ", Password: "long enough"}); !errors.Is(err, domainuser.ErrEmailRequired) {
		t.Errorf("blank email: got %v", err)
	}

	if _, err := svc.Register(ctx, RegisterParams{Email: "a@b.c", Password: "long enough"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, RegisterParams{Email: "A@B.C", Password: "long enough"}); !errors.Is(err, domainuser.ErrEmailAlreadyUsed) {
		t.Errorf("duplicate email: got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterParams{Email: "ann@example.com", Password: "correct horse"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	res, err := svc.Login(ctx, LoginParams{Email: "ann@example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Token == "" {
		t.Fatal("empty token")
	}

	if _, err := svc.Login(ctx, LoginParams{Email: "ann@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v", err)
	}
	// Unknown email fails the same way as a wrong password.
	if _, err := svc.Login(ctx, LoginParams{Email: "ghost@example.com", Password: "correct horse"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v", err)
	}
}

func TestLogoutInvalidatesToken(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterParams{Email: "ann@example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.Logout(ctx, res.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Resolve(ctx, res.Token); !errors.Is(err, domainauth.ErrSessionNotFound) {
		t.Fatalf("resolve after logout: got %v", err)
	}
}

func TestResolveRejectsExpiredSession(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterParams{Email: "ann@example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// Backdate a session so it expired an hour ago.
	session, err := domainauth.NewSession(domainauth.CreateSessionParams{
		Token:  "stale-token",
		UserID: res.User.ID,
		Roles:  res.User.Roles,
		TTL:    time.Hour,
		Now:    time.Now().Add(-2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if err := svc.Sessions.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := svc.Resolve(ctx, "stale-token"); !errors.Is(err, domainauth.ErrSessionNotFound) {
		t.Fatalf("expired resolve: got %v", err)
	}
}
