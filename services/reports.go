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

// ReportInput is a report as the client sends it. An empty ReporterUserID
// means the caller.
type ReportInput struct {
	LessonID       string
	ReporterUserID string
	Reason         string
}

type ReportService struct {
	reports store.ReportStore
	lessons store.LessonStore
	users   store.UserStore
	now     func() time.Time
}

func NewReportService(reports store.ReportStore, lessons store.LessonStore, users store.UserStore) *ReportService {
	return &ReportService{reports: reports, lessons: lessons, users: users, now: time.Now}
}

func (s *ReportService) List(ctx context.Context) ([]models.Report, error) {
	reports, err := s.reports.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// Create files a report by principal against a lesson. A second report for
// the same (lesson, reporter) pair is not an error: the existing report comes
// back with created=false.
func (s *ReportService) Create(ctx context.Context, principal string, in ReportInput) (report *models.Report, created bool, err error) {
	reporter, err := s.users.GetByEmail(ctx, principal)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, false, fmt.Errorf("%w: no account for %s", models.ErrUnauthorized, principal)
		}
		return nil, false, err
	}

	in.LessonID = strings.TrimSpace(in.LessonID)
	in.ReporterUserID = strings.TrimSpace(in.ReporterUserID)
	in.Reason = strings.TrimSpace(in.Reason)
	if in.ReporterUserID == "" {
		in.ReporterUserID = reporter.ID
	}
	if in.ReporterUserID != reporter.ID {
		return nil, false, fmt.Errorf("%w: cannot report on behalf of another user", models.ErrForbidden)
	}

	var missing []string
	if in.LessonID == "" {
		missing = append(missing, "lessonId")
	}
	if in.Reason == "" {
		missing = append(missing, "reason")
	}
	if len(missing) > 0 {
		return nil, false, fmt.Errorf("%w: missing %s", models.ErrInvalidInput, strings.Join(missing, ", "))
	}

	if _, err := s.lessons.Get(ctx, in.LessonID); err != nil {
		return nil, false, err
	}

	existing, err := s.reports.FindByLessonAndReporter(ctx, in.LessonID, in.ReporterUserID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, false, fmt.Errorf("find report: %w", err)
	}

	if !models.IsValidReportReason(in.Reason) {
		return nil, false, fmt.Errorf("%w: unknown report reason %q", models.ErrInvalidInput, in.Reason)
	}

	report = &models.Report{
		LessonID:       in.LessonID,
		ReporterUserID: in.ReporterUserID,
		ReporterEmail:  reporter.Email,
		Reason:         in.Reason,
		Status:         models.ReportStatusPending,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.reports.Create(ctx, report); err != nil {
		if errors.Is(err, models.ErrAlreadyExists) {
			existing, err := s.reports.FindByLessonAndReporter(ctx, in.LessonID, in.ReporterUserID)
			if err != nil {
				return nil, false, err
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("create report: %w", err)
	}
	return report, true, nil
}
