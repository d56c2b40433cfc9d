package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/life-lessons/api-go/controllers"
	"github.com/life-lessons/api-go/middleware"
)

func SetupAdminRoutes(r *gin.Engine, g *middleware.Guards, ac *controllers.AdminController) {
	admin := r.Group("/admin", g.RequireAuth(), g.RequireAdmin())
	{
		admin.GET("/stats", ac.Stats)
	}
}
