package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/life-lessons/api-go/models"
)

func TestLessonQueryPublicMatchesDocumentsWithoutVisibility(t *testing.T) {
	q := lessonQuery(models.LessonFilter{Visibility: models.VisibilityPublic})
	assert.Equal(t, bson.M{"$in": bson.A{models.VisibilityPublic, nil}}, q["visibility"])

	q = lessonQuery(models.LessonFilter{Visibility: models.VisibilityPrivate})
	assert.Equal(t, models.VisibilityPrivate, q["visibility"])

	q = lessonQuery(models.LessonFilter{})
	assert.NotContains(t, q, "visibility")
}

func TestLessonQueryFilters(t *testing.T) {
	q := lessonQuery(models.LessonFilter{
		Email:    "a@example.com",
		Title:    "a.b",
		SavedBy:  "b@example.com",
		Featured: true,
	})
	assert.Equal(t, "a@example.com", q["email"])
	assert.Equal(t, primitive.Regex{Pattern: `a\.b`, Options: "i"}, q["title"])
	assert.Equal(t, "b@example.com", q["savedBy"])
	assert.Equal(t, true, q["isFeatured"])
	assert.NotContains(t, q, "category")
}

func TestLegacyLessonDocumentDefaults(t *testing.T) {
	d := lessonDocument{ID: primitive.NewObjectID(), Email: "a@example.com", Title: "old"}
	l := d.toDomain()
	assert.Equal(t, models.VisibilityPublic, l.Visibility)
	assert.Equal(t, models.AccessFree, l.AccessLevel)
	assert.Equal(t, []string{}, l.ReactedBy)
	assert.Equal(t, []string{}, l.SavedBy)

	d.Visibility = models.VisibilityPrivate
	d.AccessLevel = models.AccessPremium
	l = d.toDomain()
	assert.Equal(t, models.VisibilityPrivate, l.Visibility)
	assert.Equal(t, models.AccessPremium, l.AccessLevel)
}
