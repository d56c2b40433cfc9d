package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/life-lessons/api-go/controllers"
	"github.com/life-lessons/api-go/middleware"
)

func SetupLessonRoutes(r *gin.Engine, g *middleware.Guards, lc *controllers.LessonController) {
	lessons := r.Group("/lessons")
	{
		// Anonymous callers see the listings with premium content locked.
		lessons.GET("", g.OptionalAuth(), lc.ListLessons)
		lessons.GET("/featured", g.OptionalAuth(), lc.FeaturedLessons)
		lessons.GET("/user/public", g.OptionalAuth(), lc.ListPublicByOwner)
	}

	auth := lessons.Group("", g.RequireAuth())
	{
		auth.GET("/new", g.RequireAdmin(), lc.NewestLessons)
		auth.GET("/mine", lc.MyLessons)
		auth.GET("/saved", lc.SavedLessons)
		auth.GET("/:id", lc.GetLesson)
		auth.POST("", lc.CreateLesson)
		auth.PATCH("/:id", lc.UpdateLesson)
		auth.PATCH("/:id/reaction", lc.ToggleReaction)
		auth.PATCH("/:id/save", lc.ToggleSave)
		auth.PATCH("/:id/feature", g.RequireAdmin(), lc.SetFeatured)
		auth.PATCH("/:id/review", g.RequireAdmin(), lc.SetReviewed)
		auth.DELETE("/:id", lc.DeleteLesson)
	}
}
