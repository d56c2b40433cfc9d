// Package store declares the persistence contracts the services depend on.
// Backends live in the mongo, postgres and memory subpackages.
package store

import (
	"context"

	"github.com/life-lessons/api-go/models"
)

type LessonStore interface {
	List(ctx context.Context, filter models.LessonFilter) ([]models.Lesson, error)
	Get(ctx context.Context, id string) (*models.Lesson, error)
	Create(ctx context.Context, lesson *models.Lesson) error
	Update(ctx context.Context, id string, patch models.LessonPatch) (*models.Lesson, error)
	// AddMember adds member to the set and bumps its counter in one atomic
	// update, only if member is absent. ok is false when nothing matched.
	AddMember(ctx context.Context, id string, set models.EngagementSet, member string) (count int, ok bool, err error)
	// RemoveMember is the inverse of AddMember, applied only if member is present.
	RemoveMember(ctx context.Context, id string, set models.EngagementSet, member string) (count int, ok bool, err error)
	SetFlag(ctx context.Context, id string, flag models.ModerationFlag, value bool) (*models.Lesson, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type UserStore interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Create returns models.ErrAlreadyExists when the email is taken.
	Create(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, email, name, photoURL string) (*models.User, error)
	SetRole(ctx context.Context, email, role string) (*models.User, error)
	MarkPremium(ctx context.Context, email string, grant models.PremiumGrant) (*models.User, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	CountPremium(ctx context.Context) (int64, error)
}

type ReportStore interface {
	List(ctx context.Context) ([]models.Report, error)
	FindByLessonAndReporter(ctx context.Context, lessonID, reporterUserID string) (*models.Report, error)
	// Create returns models.ErrAlreadyExists when the (lesson, reporter)
	// pair is already recorded.
	Create(ctx context.Context, report *models.Report) error
	Count(ctx context.Context) (int64, error)
}

// Store is a connected backend. Close releases the underlying client.
type Store interface {
	Lessons() LessonStore
	Users() UserStore
	Reports() ReportStore
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
