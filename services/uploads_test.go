package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/life-lessons/api-go/models"
)

type fakePresigner struct {
	lastKey string
	lastTTL time.Duration
}

func (p *fakePresigner) PresignPut(_ context.Context, key, _ string, ttl time.Duration) (string, error) {
	p.lastKey, p.lastTTL = key, ttl
	return "https://upload.example/" + key + "?sig=1", nil
}

func (p *fakePresigner) PublicURL(key string) string {
	return "https://cdn.example/" + key
}

func TestPresignBuildsScopedKey(t *testing.T) {
	p := &fakePresigner{}
	svc := NewUploadService(p)

	out, err := svc.Presign(context.Background(), "Ann.Lee+x@Example.com", UploadRequest{
		Kind: UploadKindAvatar, FileName: "me.PNG", ContentType: "image/png", FileSize: 1024,
	})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^avatars/ann.lee_x_example.com/[0-9a-f-]{36}\.png$`), out.Key)
	assert.Equal(t, "https://cdn.example/"+out.Key, out.FileURL)
	assert.Equal(t, 900, out.ExpiresIn)
	assert.Equal(t, 15*time.Minute, p.lastTTL)
}

func TestPresignValidation(t *testing.T) {
	svc := NewUploadService(&fakePresigner{})
	ctx := context.Background()

	cases := []UploadRequest{
		{Kind: "video", FileName: "a.png", ContentType: "image/png", FileSize: 10},
		{Kind: UploadKindLesson, FileName: "a.svg", ContentType: "image/svg+xml", FileSize: 10},
		{Kind: UploadKindLesson, FileName: "a.png", ContentType: "image/png", FileSize: 6 * 1024 * 1024},
		{Kind: UploadKindLesson, FileName: "a.png", ContentType: "image/png", FileSize: 0},
	}
	for _, c := range cases {
		_, err := svc.Presign(ctx, "a@example.com", c)
		assert.ErrorIs(t, err, models.ErrInvalidInput, "%+v", c)
	}
}

func TestPresignWithoutStorage(t *testing.T) {
	svc := NewUploadService(nil)
	_, err := svc.Presign(context.Background(), "a@example.com", UploadRequest{
		Kind: UploadKindLesson, FileName: "a.png", ContentType: "image/png", FileSize: 10,
	})
	assert.ErrorIs(t, err, models.ErrStorageDisabled)
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "a@example.com")
	f.premiumUser(t, "p@example.com")
	l := f.lesson(t, "a@example.com", LessonInput{})
	_, _, err := f.reports.Create(context.Background(), u.Email, ReportInput{LessonID: l.ID, ReporterUserID: u.ID, Reason: "Other"})
	require.NoError(t, err)

	stats, err := NewStatsService(f.store).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.Stats{TotalUsers: 2, PremiumUsers: 1, TotalLessons: 1, TotalReports: 1}, *stats)
}
