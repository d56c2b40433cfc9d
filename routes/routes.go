package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/life-lessons/api-go/controllers"
	"github.com/life-lessons/api-go/metrics"
	"github.com/life-lessons/api-go/middleware"
	"github.com/life-lessons/api-go/services"
	"github.com/life-lessons/api-go/store"
)

// Deps is everything the HTTP surface needs. Metrics is optional.
type Deps struct {
	Store    store.Store
	Guards   *middleware.Guards
	Limiter  middleware.RateLimiter
	Metrics  *metrics.Metrics
	Lessons  *services.LessonService
	Users    *services.UserService
	Reports  *services.ReportService
	Payments *services.PaymentService
	Uploads  *services.UploadService
	Stats    *services.StatsService
}

func SetupRoutes(r *gin.Engine, d Deps) {
	health := controllers.NewHealthController(d.Store)
	r.GET("/", health.Banner)
	r.GET("/healthz", health.Healthz)
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	SetupLessonRoutes(r, d.Guards, controllers.NewLessonController(d.Lessons))
	SetupUserRoutes(r, d.Guards, controllers.NewUserController(d.Users))
	SetupReportRoutes(r, d.Guards, d.Limiter, controllers.NewReportController(d.Reports))
	SetupPaymentRoutes(r, d.Guards, d.Limiter, controllers.NewPaymentController(d.Payments))
	SetupUploadRoutes(r, d.Guards, controllers.NewUploadController(d.Uploads))
	SetupAdminRoutes(r, d.Guards, controllers.NewAdminController(d.Stats))
}
