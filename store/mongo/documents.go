package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/life-lessons/api-go/models"
)

type creatorDocument struct {
	Email    string `bson:"email"`
	Name     string `bson:"name"`
	PhotoURL string `bson:"photoURL"`
}

type lessonDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Email       string             `bson:"email"`
	Title       string             `bson:"title"`
	Category    string             `bson:"category"`
	Emotion     string             `bson:"emotion"`
	AccessLevel string             `bson:"accessLevel"`
	Visibility  string             `bson:"visibility"`
	Content     string             `bson:"content"`
	Image       string             `bson:"image,omitempty"`
	Creator     creatorDocument    `bson:"creator"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
	Reactions   int                `bson:"reactions"`
	Saves       int                `bson:"saves"`
	ReactedBy   []string           `bson:"reactedBy"`
	SavedBy     []string           `bson:"savedBy"`
	IsFeatured  bool               `bson:"isFeatured"`
	IsReviewed  bool               `bson:"isReviewed"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func toLessonDocument(l *models.Lesson) *lessonDocument {
	return &lessonDocument{
		Email:       l.Email,
		Title:       l.Title,
		Category:    l.Category,
		Emotion:     l.Emotion,
		AccessLevel: l.AccessLevel,
		Visibility:  l.Visibility,
		Content:     l.Content,
		Image:       l.Image,
		Creator: creatorDocument{
			Email:    l.Creator.Email,
			Name:     l.Creator.Name,
			PhotoURL: l.Creator.PhotoURL,
		},
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
		Reactions: l.Reactions,
		Saves:     l.Saves,
		// $addToSet refuses to operate on a null field.
		ReactedBy:  nonNil(l.ReactedBy),
		SavedBy:    nonNil(l.SavedBy),
		IsFeatured: l.IsFeatured,
		IsReviewed: l.IsReviewed,
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (d *lessonDocument) toDomain() models.Lesson {
	return models.Lesson{
		ID:          d.ID.Hex(),
		Email:       d.Email,
		Title:       d.Title,
		Category:    d.Category,
		Emotion:     d.Emotion,
		AccessLevel: orDefault(d.AccessLevel, models.AccessFree),
		Visibility:  orDefault(d.Visibility, models.VisibilityPublic),
		Content:     d.Content,
		Image:       d.Image,
		Creator: models.Creator{
			Email:    d.Creator.Email,
			Name:     d.Creator.Name,
			PhotoURL: d.Creator.PhotoURL,
		},
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
		Reactions:  d.Reactions,
		Saves:      d.Saves,
		ReactedBy:  nonNil(d.ReactedBy),
		SavedBy:    nonNil(d.SavedBy),
		IsFeatured: d.IsFeatured,
		IsReviewed: d.IsReviewed,
	}
}

type userDocument struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Email            string             `bson:"email"`
	Name             string             `bson:"name"`
	PhotoURL         string             `bson:"photoURL"`
	Role             string             `bson:"role"`
	IsPremium        bool               `bson:"isPremium"`
	PaymentStatus    string             `bson:"paymentStatus,omitempty"`
	PaidAt           *time.Time         `bson:"paidAt,omitempty"`
	PaymentSessionID string             `bson:"paymentSessionId,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt"`
}

func toUserDocument(u *models.User) *userDocument {
	return &userDocument{
		Email:            u.Email,
		Name:             u.Name,
		PhotoURL:         u.PhotoURL,
		Role:             u.Role,
		IsPremium:        u.IsPremium,
		PaymentStatus:    u.PaymentStatus,
		PaidAt:           u.PaidAt,
		PaymentSessionID: u.PaymentSessionID,
		CreatedAt:        u.CreatedAt,
	}
}

func (d *userDocument) toDomain() models.User {
	return models.User{
		ID:               d.ID.Hex(),
		Email:            d.Email,
		Name:             d.Name,
		PhotoURL:         d.PhotoURL,
		Role:             d.Role,
		IsPremium:        d.IsPremium,
		PaymentStatus:    d.PaymentStatus,
		PaidAt:           d.PaidAt,
		PaymentSessionID: d.PaymentSessionID,
		CreatedAt:        d.CreatedAt,
	}
}

type reportDocument struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	LessonID       string             `bson:"lessonId"`
	ReporterUserID string             `bson:"reporterUserId"`
	ReporterEmail  string             `bson:"reporterEmail,omitempty"`
	Reason         string             `bson:"reason"`
	Status         string             `bson:"status"`
	CreatedAt      time.Time          `bson:"createdAt"`
}

func (d *reportDocument) toDomain() models.Report {
	return models.Report{
		ID:             d.ID.Hex(),
		LessonID:       d.LessonID,
		ReporterUserID: d.ReporterUserID,
		ReporterEmail:  d.ReporterEmail,
		Reason:         d.Reason,
		Status:         d.Status,
		CreatedAt:      d.CreatedAt,
	}
}
