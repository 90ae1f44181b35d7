package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/marketbay/order-system/internal/core/domain"
	"github.com/marketbay/order-system/internal/core/ports"
	"github.com/marketbay/order-system/internal/infrastructure/db/memory"
	"github.com/marketbay/order-system/internal/token"
)

func newIdentityService(limiter LoginLimiter) (*IdentityService, *memory.UserRepository, *token.Authority) {
	repo := memory.NewUserRepository()
	authority := token.New("test-secret", time.Hour)
	svc := NewIdentityService(repo, authority, limiter, zerolog.Nop())
	return svc, repo, authority
}

func TestIdentityService_RegisterThenLogin(t *testing.T) {
	svc, _, authority := newIdentityService(nil)
	ctx := context.Background()

	user, err := svc.Register(ctx, ports.RegisterInput{
		Email:    "alice@example.com",
		Password: "correct-horse",
		Name:     "Alice",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.PasswordHash == "correct-horse" {
		t.Fatalf("password stored in plaintext")
	}
	if len(user.Roles) != 1 || user.Roles[0] != domain.RoleClient {
		t.Fatalf("roles should default to {client}, got %v", user.Roles)
	}

	signed, loggedIn, err := svc.Login(ctx, "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Fatalf("login returned wrong user")
	}

	claims, err := authority.Verify(signed)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if claims.Subject != user.ID {
		t.Fatalf("token subject = %q, want %q", claims.Subject, user.ID)
	}
}

func TestIdentityService_Register_DuplicateEmail(t *testing.T) {
	svc, _, _ := newIdentityService(nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, ports.RegisterInput{Email: "bob@example.com", Password: "password1", Name: "Bob"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, ports.RegisterInput{Email: "bob@example.com", Password: "password2", Name: "Robert"}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestIdentityService_Register_InvalidRole(t *testing.T) {
	svc, _, _ := newIdentityService(nil)
	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Email: "eve@example.com", Password: "password1", Name: "Eve",
		Roles: []string{"superuser"},
	})
	if !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

// Unknown email and wrong password must fail with the same error so account
// existence is not leaked.
func TestIdentityService_Login_ConstantFailure(t *testing.T) {
	svc, _, _ := newIdentityService(nil)
	ctx := context.Background()

	_, _ = svc.Register(ctx, ports.RegisterInput{Email: "carol@example.com", Password: "password1", Name: "Carol"})

	_, _, errGhost := svc.Login(ctx, "ghost@example.com", "whatever")
	_, _, errWrong := svc.Login(ctx, "carol@example.com", "wrongpass")

	if !errors.Is(errGhost, domain.ErrInvalidCredentials) || !errors.Is(errWrong, domain.ErrInvalidCredentials) {
		t.Fatalf("expected identical ErrInvalidCredentials, got %v / %v", errGhost, errWrong)
	}
}

type stubLimiter struct {
	blocked  bool
	failures int
	resets   int
}

func (l *stubLimiter) TooManyAttempts(context.Context, string) (bool, error) { return l.blocked, nil }
func (l *stubLimiter) RecordFailure(context.Context, string) error           { l.failures++; return nil }
func (l *stubLimiter) Reset(context.Context, string) error                   { l.resets++; return nil }

func TestIdentityService_Login_Throttled(t *testing.T) {
	limiter := &stubLimiter{}
	svc, _, _ := newIdentityService(limiter)
	ctx := context.Background()

	_, _ = svc.Register(ctx, ports.RegisterInput{Email: "dan@example.com", Password: "password1", Name: "Dan"})

	if _, _, err := svc.Login(ctx, "dan@example.com", "bad"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if limiter.failures != 1 {
		t.Fatalf("failure not recorded")
	}

	limiter.blocked = true
	if _, _, err := svc.Login(ctx, "dan@example.com", "password1"); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}

	limiter.blocked = false
	if _, _, err := svc.Login(ctx, "dan@example.com", "password1"); err != nil {
		t.Fatalf("login after unblock: %v", err)
	}
	if limiter.resets != 1 {
		t.Fatalf("counter not reset on success")
	}
}

func TestIdentityService_UpdateProfile(t *testing.T) {
	svc, _, _ := newIdentityService(nil)
	ctx := context.Background()

	u1, _ := svc.Register(ctx, ports.RegisterInput{Email: "u1@example.com", Password: "password1", Name: "One"})
	u2, _ := svc.Register(ctx, ports.RegisterInput{Email: "u2@example.com", Password: "password1", Name: "Two"})

	// re-asserting the current email is a no-op, not a conflict
	same := "u1@example.com"
	if _, err := svc.UpdateProfile(ctx, u1.ID, ports.ProfileUpdate{Email: &same}); err != nil {
		t.Fatalf("no-op email update: %v", err)
	}

	taken := "u2@example.com"
	if _, err := svc.UpdateProfile(ctx, u1.ID, ports.ProfileUpdate{Email: &taken}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	name := "Renamed"
	updated, err := svc.UpdateProfile(ctx, u2.ID, ports.ProfileUpdate{Name: &name})
	if err != nil {
		t.Fatalf("name update: %v", err)
	}
	if updated.Name != "Renamed" || updated.Email != "u2@example.com" {
		t.Fatalf("unexpected profile after update: %+v", updated)
	}
}

func TestIdentityService_ListUsers_AdminOnly(t *testing.T) {
	svc, repo, _ := newIdentityService(nil)
	ctx := context.Background()

	admin, _ := svc.Register(ctx, ports.RegisterInput{
		Email: "root@example.com", Password: "password1", Name: "Root",
		Roles: []string{domain.RoleAdmin},
	})
	client, _ := svc.Register(ctx, ports.RegisterInput{Email: "user@example.com", Password: "password1", Name: "User"})

	if _, err := svc.ListUsers(ctx, client.ID, ports.ListUsersInput{}); !errors.Is(err, domain.ErrAdminRequired) {
		t.Fatalf("expected ErrAdminRequired, got %v", err)
	}

	page, err := svc.ListUsers(ctx, admin.ID, ports.ListUsersInput{})
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected total 2, got %d", page.Total)
	}

	// search matches name or email, case-insensitive
	page, err = svc.ListUsers(ctx, admin.ID, ports.ListUsersInput{Search: "ROOT"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if page.Total != 1 || page.Items[0].ID != admin.ID {
		t.Fatalf("search miss: %+v", page)
	}

	// role revocation is effective on the next request: strip admin directly
	// in the store and the same caller is refused.
	admin.Roles = []string{domain.RoleClient}
	if _, err := repo.Update(ctx, admin); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := svc.ListUsers(ctx, admin.ID, ports.ListUsersInput{}); !errors.Is(err, domain.ErrAdminRequired) {
		t.Fatalf("expected ErrAdminRequired after revocation, got %v", err)
	}
}

func TestIdentityService_ListUsers_UnknownCaller(t *testing.T) {
	svc, _, _ := newIdentityService(nil)
	if _, err := svc.ListUsers(context.Background(), "no-such-user", ports.ListUsersInput{}); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
