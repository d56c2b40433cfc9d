package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/life-lessons/api-go/models"
)

type reportStore struct {
	db *gorm.DB
}

func (s *reportStore) List(ctx context.Context) ([]models.Report, error) {
	var rows []reportRow
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	reports := make([]models.Report, 0, len(rows))
	for i := range rows {
		reports = append(reports, rows[i].toDomain())
	}
	return reports, nil
}

func (s *reportStore) FindByLessonAndReporter(ctx context.Context, lessonID, reporterUserID string) (*models.Report, error) {
	var row reportRow
	err := s.db.WithContext(ctx).
		Where("lesson_id = ? AND reporter_user_id = ?", lessonID, reporterUserID).
		First(&row).Error
	if err != nil {
		return nil, notFound(err)
	}
	report := row.toDomain()
	return &report, nil
}

func (s *reportStore) Create(ctx context.Context, report *models.Report) error {
	row := &reportRow{
		ID:             uuid.New(),
		LessonID:       report.LessonID,
		ReporterUserID: report.ReporterUserID,
		ReporterEmail:  report.ReporterEmail,
		Reason:         report.Reason,
		Status:         report.Status,
		CreatedAt:      report.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.ErrAlreadyExists
		}
		return fmt.Errorf("insert report: %w", err)
	}
	report.ID = row.ID.String()
	return nil
}

func (s *reportStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&reportRow{}).Count(&n).Error
	return n, err
}
