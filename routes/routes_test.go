package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/life-lessons/api-go/identity"
	"github.com/life-lessons/api-go/metrics"
	"github.com/life-lessons/api-go/middleware"
	"github.com/life-lessons/api-go/models"
	"github.com/life-lessons/api-go/payments"
	"github.com/life-lessons/api-go/services"
	"github.com/life-lessons/api-go/store/memory"
)

type fakeProvider struct {
	sessions map[string]*payments.CheckoutSession
}

func (p *fakeProvider) CreateCheckoutSession(_ context.Context, req payments.CheckoutRequest) (*payments.CheckoutSession, error) {
	s := &payments.CheckoutSession{
		ID:            "cs_test_1",
		URL:           "https://checkout.example/cs_test_1",
		CustomerEmail: req.CustomerEmail,
		Metadata:      req.Metadata,
	}
	p.sessions[s.ID] = s
	return s, nil
}

func (p *fakeProvider) GetCheckoutSession(_ context.Context, id string) (*payments.CheckoutSession, error) {
	s, ok := p.sessions[id]
	if !ok {
		return nil, models.ErrInvalidInput
	}
	return s, nil
}

type testServer struct {
	router   *gin.Engine
	store    *memory.Store
	verifier *identity.JWTVerifier
	provider *fakeProvider
}

func newTestServer(t *testing.T, reportsPerMinute int) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := memory.New()
	verifier := identity.NewJWTVerifier("routes-secret")
	provider := &fakeProvider{sessions: map[string]*payments.CheckoutSession{}}
	users := services.NewUserService(st.Users())

	r := gin.New()
	m := metrics.New()
	r.Use(m.Middleware())
	SetupRoutes(r, Deps{
		Store:   st,
		Guards:  middleware.NewGuards(verifier, st.Users()),
		Limiter: middleware.NewMemoryRateLimiter(reportsPerMinute, time.Minute),
		Metrics: m,
		Lessons: services.NewLessonService(st.Lessons(), st.Users()),
		Users:   users,
		Reports: services.NewReportService(st.Reports(), st.Lessons(), st.Users()),
		Payments: services.NewPaymentService(provider, users, services.CheckoutConfig{
			ClientURL:   "https://app.example",
			ProductName: "Premium",
			UnitAmount:  1500,
			Currency:    "usd",
		}),
		Uploads: services.NewUploadService(nil),
		Stats:   services.NewStatsService(st),
	})
	return &testServer{router: r, store: st, verifier: verifier, provider: provider}
}

func (s *testServer) token(t *testing.T, email string) string {
	t.Helper()
	tok, err := s.verifier.Issue(email, time.Hour)
	require.NoError(t, err)
	return tok
}

func (s *testServer) do(t *testing.T, method, path, email string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if email != "" {
		req.Header.Set("Authorization", "Bearer "+s.token(t, email))
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func (s *testServer) register(t *testing.T, email string) map[string]interface{} {
	t.Helper()
	w, out := s.do(t, http.MethodPost, "/users", email, gin.H{"email": email, "name": "N"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return out["data"].(map[string]interface{})
}

func (s *testServer) createLesson(t *testing.T, email string, body gin.H) string {
	t.Helper()
	w, out := s.do(t, http.MethodPost, "/lessons", email, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return out["data"].(map[string]interface{})["id"].(string)
}

func TestBannerAndHealth(t *testing.T) {
	s := newTestServer(t, 10)

	w, _ := s.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Digital life lesson server running!", w.Body.String())

	w, out := s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", out["status"])

	w, _ = s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "life_lessons_http_requests_total")
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t, 10)

	w, out := s.do(t, http.MethodGet, "/lessons/mine", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "unauthorized", out["error"])

	s.register(t, "u@example.com")
	w, out = s.do(t, http.MethodGet, "/admin/stats", "u@example.com", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "forbidden", out["error"])
}

func TestCreateUserIsIdempotent(t *testing.T) {
	s := newTestServer(t, 10)
	s.register(t, "a@example.com")

	w, out := s.do(t, http.MethodPost, "/users", "a@example.com", gin.H{"email": "a@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user already exists", out["message"])
	assert.Equal(t, false, out["inserted"])

	w, _ = s.do(t, http.MethodPost, "/users", "a@example.com", gin.H{"email": "b@example.com"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, out = s.do(t, http.MethodGet, "/users/by-email/a@example.com/role", "a@example.com", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.RoleUser, out["role"])
}

func TestLessonEngagementFlow(t *testing.T) {
	s := newTestServer(t, 10)
	author := s.register(t, "author@example.com")
	s.register(t, "reader@example.com")
	id := s.createLesson(t, "author@example.com", gin.H{
		"title": "Patience", "content": "Wait", "category": "Growth", "emotion": "Calm",
	})

	w, out := s.do(t, http.MethodGet, "/lessons?searchText=pati", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, out["data"], 1)

	w, out = s.do(t, http.MethodPatch, "/lessons/"+id+"/reaction", "author@example.com", gin.H{"userId": author["id"]})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "liked", out["action"])
	assert.EqualValues(t, 1, out["reactions"])

	w, out = s.do(t, http.MethodPatch, "/lessons/"+id+"/reaction", "author@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "disliked", out["action"])
	assert.EqualValues(t, 0, out["reactions"])

	w, _ = s.do(t, http.MethodPatch, "/lessons/"+id+"/save", "reader@example.com", gin.H{"userEmail": "author@example.com"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, out = s.do(t, http.MethodPatch, "/lessons/"+id+"/save", "reader@example.com", gin.H{})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "saved", out["action"])
	assert.EqualValues(t, 1, out["saves"])

	w, out = s.do(t, http.MethodGet, "/lessons/saved", "reader@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, out["data"], 1)

	w, _ = s.do(t, http.MethodDelete, "/lessons/"+id, "reader@example.com", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = s.do(t, http.MethodDelete, "/lessons/"+id, "author@example.com", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, out = s.do(t, http.MethodGet, "/lessons/"+id, "author@example.com", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", out["error"])
}

func TestPremiumLessonFromFreeAccountIsForbidden(t *testing.T) {
	s := newTestServer(t, 10)
	s.register(t, "free@example.com")

	w, out := s.do(t, http.MethodPost, "/lessons", "free@example.com", gin.H{"title": "X", "accessLevel": "premium"})
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	assert.Equal(t, "forbidden", out["error"])

	n, err := s.store.Lessons().Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestListingsHideMembershipSets(t *testing.T) {
	s := newTestServer(t, 10)
	s.register(t, "author@example.com")
	s.register(t, "reader@example.com")
	id := s.createLesson(t, "author@example.com", gin.H{"title": "t", "content": "c", "category": "c", "emotion": "e"})

	w, _ := s.do(t, http.MethodPatch, "/lessons/"+id+"/save", "reader@example.com", gin.H{})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, out := s.do(t, http.MethodGet, "/lessons", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	l := out["data"].([]interface{})[0].(map[string]interface{})
	assert.NotContains(t, l, "savedBy")
	assert.NotContains(t, l, "reactedBy")
	assert.Equal(t, false, l["saved"])
	assert.EqualValues(t, 1, l["saves"])

	w, out = s.do(t, http.MethodGet, "/lessons", "reader@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	l = out["data"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, true, l["saved"])
	assert.Equal(t, false, l["reacted"])
}

func TestSavedListingDropsLessonsMadePrivate(t *testing.T) {
	s := newTestServer(t, 10)
	s.register(t, "author@example.com")
	s.register(t, "reader@example.com")
	id := s.createLesson(t, "author@example.com", gin.H{"title": "t", "content": "c", "category": "c", "emotion": "e"})

	w, _ := s.do(t, http.MethodPatch, "/lessons/"+id+"/save", "reader@example.com", gin.H{})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w, _ = s.do(t, http.MethodPatch, "/lessons/"+id, "author@example.com", gin.H{"visibility": models.VisibilityPrivate})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, out := s.do(t, http.MethodGet, "/lessons/saved", "reader@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, out["data"])
}

func TestMalformedLessonID(t *testing.T) {
	s := newTestServer(t, 10)
	s.register(t, "a@example.com")

	w, out := s.do(t, http.MethodGet, "/lessons/not-an-id", "a@example.com", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_id", out["error"])
}

func TestPremiumLessonIsLockedForAnonymousList(t *testing.T) {
	s := newTestServer(t, 10)
	s.register(t, "p@example.com")
	_, err := s.store.Users().MarkPremium(context.Background(), "p@example.com", models.PremiumGrant{SessionID: "cs", PaidAt: time.Now()})
	require.NoError(t, err)
	s.createLesson(t, "p@example.com", gin.H{
		"title": "Secret", "content": "Hidden", "category": "c", "emotion": "e", "accessLevel": "premium",
	})

	w, out := s.do(t, http.MethodGet, "/lessons", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	lessons := out["data"].([]interface{})
	require.Len(t, lessons, 1)
	l := lessons[0].(map[string]interface{})
	assert.Equal(t, true, l["locked"])
	assert.Equal(t, "", l["content"])

	w, out = s.do(t, http.MethodGet, "/lessons", "p@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	l = out["data"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Hidden", l["content"])
}

func TestReportsDedupAndRateLimit(t *testing.T) {
	s := newTestServer(t, 2)
	reader := s.register(t, "reader@example.com")
	s.register(t, "author@example.com")
	id := s.createLesson(t, "author@example.com", gin.H{"title": "t", "content": "c", "category": "c", "emotion": "e"})

	body := gin.H{"lessonId": id, "reporterUserId": reader["id"], "reason": models.ReportReasons[0]}
	w, out := s.do(t, http.MethodPost, "/reports", "reader@example.com", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "reader@example.com", out["data"].(map[string]interface{})["reporterEmail"])

	w, out = s.do(t, http.MethodPost, "/reports", "reader@example.com", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "already-reported", out["message"])

	w, out = s.do(t, http.MethodPost, "/reports", "reader@example.com", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate_limited", out["error"])
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestReportOnBehalfOfAnotherUserIsForbidden(t *testing.T) {
	s := newTestServer(t, 10)
	s.register(t, "reader@example.com")
	author := s.register(t, "author@example.com")
	id := s.createLesson(t, "author@example.com", gin.H{"title": "t", "content": "c", "category": "c", "emotion": "e"})

	body := gin.H{"lessonId": id, "reporterUserId": author["id"], "reason": models.ReportReasons[0]}
	w, out := s.do(t, http.MethodPost, "/reports", "reader@example.com", body)
	assert.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	assert.Equal(t, "forbidden", out["error"])

	w, out = s.do(t, http.MethodPost, "/reports", "reader@example.com", gin.H{"lessonId": id, "reason": models.ReportReasons[0]})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "reader@example.com", out["data"].(map[string]interface{})["reporterEmail"])
}

func TestAdminEndpoints(t *testing.T) {
	s := newTestServer(t, 10)
	s.register(t, "boss@example.com")
	s.register(t, "u@example.com")
	_, err := s.store.Users().SetRole(context.Background(), "boss@example.com", models.RoleAdmin)
	require.NoError(t, err)
	id := s.createLesson(t, "u@example.com", gin.H{"title": "t", "content": "c", "category": "c", "emotion": "e"})

	w, out := s.do(t, http.MethodPatch, "/lessons/"+id+"/feature", "boss@example.com", gin.H{"isFeatured": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, out["data"].(map[string]interface{})["isFeatured"])

	w, _ = s.do(t, http.MethodPatch, "/lessons/"+id+"/review", "boss@example.com", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, out = s.do(t, http.MethodGet, "/lessons/featured", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, out["data"], 1)

	w, out = s.do(t, http.MethodGet, "/admin/stats", "boss@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := out["data"].(map[string]interface{})
	assert.EqualValues(t, 2, stats["totalUsers"])
	assert.EqualValues(t, 1, stats["totalLessons"])

	w, out = s.do(t, http.MethodPatch, "/users/by-email/u@example.com/admin", "boss@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.RoleAdmin, out["data"].(map[string]interface{})["role"])

	w, out = s.do(t, http.MethodGet, "/users", "boss@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, out["data"], 2)
}

func TestCheckoutFlow(t *testing.T) {
	s := newTestServer(t, 10)
	s.register(t, "buyer@example.com")

	w, out := s.do(t, http.MethodPost, "/create-checkout-session", "buyer@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "https://checkout.example/cs_test_1", out["url"])

	w, out = s.do(t, http.MethodPatch, "/payment-success?session_id=cs_test_1", "buyer@example.com", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "payment_incomplete", out["error"])

	s.provider.sessions["cs_test_1"].Paid = true
	for i := 0; i < 2; i++ {
		w, out = s.do(t, http.MethodPatch, "/payment-success?session_id=cs_test_1", "buyer@example.com", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		user := out["data"].(map[string]interface{})
		assert.Equal(t, true, user["isPremium"])
		assert.Equal(t, "cs_test_1", user["paymentSessionId"])
	}

	w, _ = s.do(t, http.MethodPost, "/create-checkout-session", "buyer@example.com", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, out = s.do(t, http.MethodPatch, "/payment-success?session_id=cs_bogus", "buyer@example.com", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "bad_request", out["error"])
}

func TestUploadsUnavailableWithoutStorage(t *testing.T) {
	s := newTestServer(t, 10)
	s.register(t, "a@example.com")

	w, out := s.do(t, http.MethodPost, "/uploads/presigned-url", "a@example.com", gin.H{
		"kind": "avatar", "fileName": "me.png", "contentType": "image/png", "fileSize": 100,
	})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "unavailable", out["error"])
}
