package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/life-lessons/api-go/models"
	"github.com/life-lessons/api-go/store"
)

type UserInput struct {
	Email    string
	Name     string
	PhotoURL string
}

type ProfileUpdate struct {
	Name     *string
	PhotoURL *string
}

type UserService struct {
	users store.UserStore
	now   func() time.Time
}

func NewUserService(users store.UserStore) *UserService {
	return &UserService{users: users, now: time.Now}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.users.Get(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.users.GetByEmail(ctx, email)
}

// Role returns the stored role for email.
func (s *UserService) Role(ctx context.Context, email string) (string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

// Create registers the principal's account. It is idempotent on email: when
// the account exists it is returned with inserted=false.
func (s *UserService) Create(ctx context.Context, principal string, in UserInput) (user *models.User, inserted bool, err error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, false, fmt.Errorf("%w: email is required", models.ErrInvalidInput)
	}
	if !strings.EqualFold(email, principal) {
		return nil, false, fmt.Errorf("%w: can only register your own account", models.ErrForbidden)
	}
	email = principal

	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, false, err
	}

	user = &models.User{
		Email:     email,
		Name:      strings.TrimSpace(in.Name),
		PhotoURL:  strings.TrimSpace(in.PhotoURL),
		Role:      models.RoleUser,
		IsPremium: false,
		CreatedAt: s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, models.ErrAlreadyExists) {
			// Lost a race with a concurrent registration.
			existing, err := s.users.GetByEmail(ctx, email)
			if err != nil {
				return nil, false, err
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("create user: %w", err)
	}
	return user, true, nil
}

// UpdateProfile edits the principal's display fields. Role and premium
// state are not reachable from here.
func (s *UserService) UpdateProfile(ctx context.Context, principal string, in ProfileUpdate) (*models.User, error) {
	current, err := s.users.GetByEmail(ctx, principal)
	if err != nil {
		return nil, err
	}
	name, photo := current.Name, current.PhotoURL
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", models.ErrInvalidInput)
		}
	}
	if in.PhotoURL != nil {
		photo = strings.TrimSpace(*in.PhotoURL)
	}
	return s.users.UpdateProfile(ctx, principal, name, photo)
}

func (s *UserService) PromoteToAdmin(ctx context.Context, email string) (*models.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("%w: email is required", models.ErrInvalidInput)
	}
	return s.users.SetRole(ctx, email, models.RoleAdmin)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}

// MarkPremium records a confirmed payment. Callers must have verified the
// checkout session as paid with the provider first.
func (s *UserService) MarkPremium(ctx context.Context, email, sessionRef string) (*models.User, error) {
	return s.users.MarkPremium(ctx, email, models.PremiumGrant{
		SessionID: sessionRef,
		PaidAt:    s.now().UTC(),
	})
}
