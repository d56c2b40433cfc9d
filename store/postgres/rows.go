package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/life-lessons/api-go/models"
)

type lessonRow struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Email           string         `gorm:"not null;size:255;index:idx_lessons_email_created,priority:1"`
	Title           string         `gorm:"not null;type:text"`
	Category        string         `gorm:"type:varchar(100)"`
	Emotion         string         `gorm:"type:varchar(100)"`
	AccessLevel     string         `gorm:"not null;type:varchar(10);default:'free'"`
	Visibility      string         `gorm:"not null;type:varchar(10);default:'public'"`
	Content         string         `gorm:"type:text"`
	Image           string         `gorm:"type:text"`
	CreatorEmail    string         `gorm:"size:255"`
	CreatorName     string         `gorm:"size:255"`
	CreatorPhotoURL string         `gorm:"type:text"`
	Reactions       int            `gorm:"not null;default:0"`
	Saves           int            `gorm:"not null;default:0"`
	ReactedBy       pq.StringArray `gorm:"type:text[];not null;default:'{}'"`
	SavedBy         pq.StringArray `gorm:"type:text[];not null;default:'{}'"`
	IsFeatured      bool           `gorm:"not null;default:false"`
	IsReviewed      bool           `gorm:"not null;default:false"`
	CreatedAt       time.Time      `gorm:"index:idx_lessons_email_created,priority:2,sort:desc"`
	UpdatedAt       time.Time
}

func (lessonRow) TableName() string {
	return "lessons"
}

func toLessonRow(l *models.Lesson) *lessonRow {
	return &lessonRow{
		Email:           l.Email,
		Title:           l.Title,
		Category:        l.Category,
		Emotion:         l.Emotion,
		AccessLevel:     l.AccessLevel,
		Visibility:      l.Visibility,
		Content:         l.Content,
		Image:           l.Image,
		CreatorEmail:    l.Creator.Email,
		CreatorName:     l.Creator.Name,
		CreatorPhotoURL: l.Creator.PhotoURL,
		Reactions:       l.Reactions,
		Saves:           l.Saves,
		// A nil pq.StringArray is written as NULL, which ANY() never matches.
		ReactedBy:  append(pq.StringArray{}, l.ReactedBy...),
		SavedBy:    append(pq.StringArray{}, l.SavedBy...),
		IsFeatured: l.IsFeatured,
		IsReviewed: l.IsReviewed,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}

func (r *lessonRow) toDomain() models.Lesson {
	return models.Lesson{
		ID:          r.ID.String(),
		Email:       r.Email,
		Title:       r.Title,
		Category:    r.Category,
		Emotion:     r.Emotion,
		AccessLevel: r.AccessLevel,
		Visibility:  r.Visibility,
		Content:     r.Content,
		Image:       r.Image,
		Creator: models.Creator{
			Email:    r.CreatorEmail,
			Name:     r.CreatorName,
			PhotoURL: r.CreatorPhotoURL,
		},
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
		Reactions:  r.Reactions,
		Saves:      r.Saves,
		ReactedBy:  append([]string{}, r.ReactedBy...),
		SavedBy:    append([]string{}, r.SavedBy...),
		IsFeatured: r.IsFeatured,
		IsReviewed: r.IsReviewed,
	}
}

type userRow struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email            string    `gorm:"uniqueIndex;not null;size:255"`
	Name             string    `gorm:"size:255"`
	PhotoURL         string    `gorm:"type:text"`
	Role             string    `gorm:"not null;type:varchar(10);default:'user'"`
	IsPremium        bool      `gorm:"not null;default:false;index"`
	PaymentStatus    string    `gorm:"type:varchar(20)"`
	PaidAt           *time.Time
	PaymentSessionID string `gorm:"size:255"`
	CreatedAt        time.Time
}

func (userRow) TableName() string {
	return "users"
}

func (r *userRow) toDomain() models.User {
	return models.User{
		ID:               r.ID.String(),
		Email:            r.Email,
		Name:             r.Name,
		PhotoURL:         r.PhotoURL,
		Role:             r.Role,
		IsPremium:        r.IsPremium,
		PaymentStatus:    r.PaymentStatus,
		PaidAt:           r.PaidAt,
		PaymentSessionID: r.PaymentSessionID,
		CreatedAt:        r.CreatedAt,
	}
}

type reportRow struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	LessonID       string    `gorm:"not null;size:64;uniqueIndex:idx_reports_lesson_reporter"`
	ReporterUserID string    `gorm:"not null;size:64;uniqueIndex:idx_reports_lesson_reporter"`
	ReporterEmail  string    `gorm:"size:255"`
	Reason         string    `gorm:"not null;type:text"`
	Status         string    `gorm:"not null;type:varchar(20);default:'pending'"`
	CreatedAt      time.Time
}

func (reportRow) TableName() string {
	return "reports"
}

func (r *reportRow) toDomain() models.Report {
	return models.Report{
		ID:             r.ID.String(),
		LessonID:       r.LessonID,
		ReporterUserID: r.ReporterUserID,
		ReporterEmail:  r.ReporterEmail,
		Reason:         r.Reason,
		Status:         r.Status,
		CreatedAt:      r.CreatedAt,
	}
}
