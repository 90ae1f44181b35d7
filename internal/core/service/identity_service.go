package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/marketbay/order-system/internal/core/domain"
	"github.com/marketbay/order-system/internal/core/ports"
	"github.com/marketbay/order-system/internal/listing"
	"github.com/marketbay/order-system/internal/token"
)

// userSortFields is the allow-list for the admin user listing; anything else
// silently falls back to created_at.
var userSortFields = []string{"created_at", "updated_at", "name", "email"}

// LoginLimiter abstracts the failed-login throttle (Redis).
type LoginLimiter interface {
	// TooManyAttempts reports whether the email has exhausted its window.
	TooManyAttempts(ctx context.Context, email string) (bool, error)
	// RecordFailure counts one failed attempt against the email.
	RecordFailure(ctx context.Context, email string) error
	// Reset clears the counter after a successful login.
	Reset(ctx context.Context, email string) error
}

// IdentityService implements registration, login, profile management, and the
// admin-only user listing.
type IdentityService struct {
	repo      ports.UserRepository
	authority *token.Authority
	limiter   LoginLimiter // optional, nil disables throttling
	logger    zerolog.Logger
}

func NewIdentityService(repo ports.UserRepository, authority *token.Authority, limiter LoginLimiter, logger zerolog.Logger) *IdentityService {
	return &IdentityService{repo: repo, authority: authority, limiter: limiter, logger: logger}
}

// Register creates a new account. The plaintext password is bcrypt-hashed and
// discarded; it is never persisted or logged.
func (s *IdentityService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	roles := in.Roles
	if len(roles) == 0 {
		roles = []string{domain.RoleClient}
	}
	for _, r := range roles {
		if !domain.ValidRole(r) {
			return nil, domain.ErrInvalidRole
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         in.Name,
		Roles:        roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Msg("user registered")
	return created, nil
}

// Login authenticates by email and password and returns a signed bearer token
// whose subject is the user id. Unknown email and wrong password produce the
// same ErrInvalidCredentials so account existence is not leaked.
func (s *IdentityService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if s.limiter != nil {
		blocked, err := s.limiter.TooManyAttempts(ctx, email)
		if err != nil {
			// fail open: throttling must not take logins down with Redis
			s.logger.Warn().Err(err).Msg("login limiter check failed, proceeding")
		} else if blocked {
			return "", nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, email)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, email)
		return "", nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, email); err != nil {
			s.logger.Warn().Err(err).Msg("login limiter reset failed")
		}
	}

	signed, err := s.authority.Issue(user.ID, user.Email)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")
	return signed, user, nil
}

func (s *IdentityService) recordFailure(ctx context.Context, email string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, email); err != nil {
		s.logger.Warn().Err(err).Msg("login limiter record failed")
	}
}

func (s *IdentityService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

// UpdateProfile applies optional name/email changes. An email change re-checks
// uniqueness against other users; re-asserting the current email is a no-op
// and never trips the duplicate check.
func (s *IdentityService) UpdateProfile(ctx context.Context, userID string, upd ports.ProfileUpdate) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	changed := false
	if upd.Name != nil && *upd.Name != user.Name {
		user.Name = *upd.Name
		changed = true
	}
	if upd.Email != nil && *upd.Email != user.Email {
		user.Email = *upd.Email
		changed = true
	}
	if !changed {
		return user, nil
	}

	user.UpdatedAt = time.Now().UTC()
	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", userID).Msg("profile updated")
	return updated, nil
}

// ListUsers returns a page of users. The caller's roles are re-read from the
// store before the admin check; a token whose subject no longer resolves to a
// user is treated as invalid.
func (s *IdentityService) ListUsers(ctx context.Context, callerID string, in ports.ListUsersInput) (*listing.Page[*domain.User], error) {
	caller, err := s.repo.FindByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	if err := requireRole(caller, domain.RoleAdmin); err != nil {
		return nil, err
	}

	q := listing.Normalize(in.Page, in.PageSize, in.SortBy, in.SortOrder, userSortFields, "created_at")
	users, total, err := s.repo.List(ctx, ports.ListUsersFilter{
		Search: in.Search,
		Role:   in.Role,
		Query:  q,
	})
	if err != nil {
		return nil, err
	}

	page := listing.NewPage(users, total, q)
	return &page, nil
}
