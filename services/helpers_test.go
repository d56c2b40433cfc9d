package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/life-lessons/api-go/models"
	"github.com/life-lessons/api-go/store/memory"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store   *memory.Store
	users   *UserService
	lessons *LessonService
	reports *ReportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.New()
	f := &fixture{
		store:   st,
		users:   NewUserService(st.Users()),
		lessons: NewLessonService(st.Lessons(), st.Users()),
		reports: NewReportService(st.Reports(), st.Lessons(), st.Users()),
	}
	clock := func() time.Time { return fixedNow }
	f.users.now = clock
	f.lessons.now = clock
	f.reports.now = clock
	return f
}

func (f *fixture) user(t *testing.T, email string) *models.User {
	t.Helper()
	u, inserted, err := f.users.Create(context.Background(), email, UserInput{Email: email, Name: "Name of " + email})
	require.NoError(t, err)
	require.True(t, inserted)
	return u
}

func (f *fixture) premiumUser(t *testing.T, email string) *models.User {
	t.Helper()
	f.user(t, email)
	u, err := f.users.MarkPremium(context.Background(), email, "cs_test")
	require.NoError(t, err)
	return u
}

func (f *fixture) admin(t *testing.T, email string) *models.User {
	t.Helper()
	f.user(t, email)
	u, err := f.users.PromoteToAdmin(context.Background(), email)
	require.NoError(t, err)
	return u
}

func (f *fixture) lesson(t *testing.T, owner string, in LessonInput) *models.Lesson {
	t.Helper()
	if in.Title == "" {
		in.Title = "A lesson"
	}
	if in.Content == "" {
		in.Content = "Something learned"
	}
	if in.Category == "" {
		in.Category = "Career"
	}
	if in.Emotion == "" {
		in.Emotion = "Gratitude"
	}
	l, err := f.lessons.Create(context.Background(), owner, in)
	require.NoError(t, err)
	return l
}

func strPtr(s string) *string { return &s }
