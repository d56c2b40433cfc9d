package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() R2Config {
	return R2Config{
		AccountID:       "acct",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		BucketName:      "lessons",
		PublicURL:       "https://cdn.example.com/",
	}
}

func TestR2ConfigEnabled(t *testing.T) {
	assert.True(t, testConfig().Enabled())

	cfg := testConfig()
	cfg.BucketName = ""
	assert.False(t, cfg.Enabled())
	assert.False(t, R2Config{}.Enabled())
}

func TestR2PresignerPublicURL(t *testing.T) {
	p := NewR2Presigner(testConfig())
	assert.Equal(t, "https://cdn.example.com/lessons/a/b.png", p.PublicURL("lessons/a/b.png"))
}

// Presigning is a local signing operation; no request leaves the process.
func TestR2PresignerPresignPut(t *testing.T) {
	p := NewR2Presigner(testConfig())
	raw, err := p.PresignPut(context.Background(), "avatars/a/x.png", "image/png", 15*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(u.Host, "acct.r2.cloudflarestorage.com"), u.Host)
	assert.True(t, strings.HasSuffix(u.Path, "/avatars/a/x.png"), u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}
