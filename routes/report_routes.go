package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/life-lessons/api-go/controllers"
	"github.com/life-lessons/api-go/middleware"
)

func SetupReportRoutes(r *gin.Engine, g *middleware.Guards, limiter middleware.RateLimiter, rc *controllers.ReportController) {
	reports := r.Group("/reports", g.RequireAuth())
	{
		reports.GET("", g.RequireAdmin(), rc.ListReports)
		reports.POST("", middleware.Limit(limiter, "reports"), rc.CreateReport)
	}
}
