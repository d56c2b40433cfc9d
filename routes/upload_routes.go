package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/life-lessons/api-go/controllers"
	"github.com/life-lessons/api-go/middleware"
)

func SetupUploadRoutes(r *gin.Engine, g *middleware.Guards, uc *controllers.UploadController) {
	upload := r.Group("/uploads", g.RequireAuth())
	{
		upload.POST("/presigned-url", uc.GetPresignedURL)
	}
}
