package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/life-lessons/api-go/models"
)

type userStore struct {
	db *gorm.DB
}

func (s *userStore) List(ctx context.Context) ([]models.User, error) {
	var rows []userRow
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := make([]models.User, 0, len(rows))
	for i := range rows {
		users = append(users, rows[i].toDomain())
	}
	return users, nil
}

func (s *userStore) Get(ctx context.Context, id string) (*models.User, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var row userRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", uid).Error; err != nil {
		return nil, notFound(err)
	}
	user := row.toDomain()
	return &user, nil
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var row userRow
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&row).Error; err != nil {
		return nil, notFound(err)
	}
	user := row.toDomain()
	return &user, nil
}

func (s *userStore) Create(ctx context.Context, user *models.User) error {
	row := &userRow{
		ID:               uuid.New(),
		Email:            user.Email,
		Name:             user.Name,
		PhotoURL:         user.PhotoURL,
		Role:             user.Role,
		IsPremium:        user.IsPremium,
		PaymentStatus:    user.PaymentStatus,
		PaidAt:           user.PaidAt,
		PaymentSessionID: user.PaymentSessionID,
		CreatedAt:        user.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.ErrAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	user.ID = row.ID.String()
	return nil
}

func (s *userStore) updateByEmail(ctx context.Context, email string, values map[string]any) (*models.User, error) {
	var row userRow
	res := s.db.WithContext(ctx).Model(&row).
		Clauses(clause.Returning{}).
		Where("email = ?", email).
		Updates(values)
	if res.Error != nil {
		return nil, fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.ErrNotFound
	}
	user := row.toDomain()
	return &user, nil
}

func (s *userStore) UpdateProfile(ctx context.Context, email, name, photoURL string) (*models.User, error) {
	return s.updateByEmail(ctx, email, map[string]any{"name": name, "photo_url": photoURL})
}

func (s *userStore) SetRole(ctx context.Context, email, role string) (*models.User, error) {
	return s.updateByEmail(ctx, email, map[string]any{"role": role})
}

func (s *userStore) MarkPremium(ctx context.Context, email string, g models.PremiumGrant) (*models.User, error) {
	return s.updateByEmail(ctx, email, map[string]any{
		"is_premium":         true,
		"payment_status":     models.PaymentStatusPaid,
		"paid_at":            g.PaidAt,
		"payment_session_id": g.SessionID,
	})
}

func (s *userStore) Delete(ctx context.Context, id string) error {
	uid, err := parseID(id)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Delete(&userRow{}, "id = ?", uid)
	if res.Error != nil {
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *userStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&userRow{}).Count(&n).Error
	return n, err
}

func (s *userStore) CountPremium(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&userRow{}).Where("is_premium = ?", true).Count(&n).Error
	return n, err
}
