package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/life-lessons/api-go/controllers"
	"github.com/life-lessons/api-go/middleware"
)

func SetupUserRoutes(r *gin.Engine, g *middleware.Guards, uc *controllers.UserController) {
	users := r.Group("/users", g.RequireAuth())
	{
		users.GET("", g.RequireAdmin(), uc.ListUsers)
		users.POST("", uc.CreateUser)
		users.GET("/me", uc.GetMe)
		users.PATCH("/me", uc.UpdateMe)
		users.GET("/by-email/:email", uc.GetUserByEmail)
		users.GET("/by-email/:email/role", uc.GetRole)
		users.PATCH("/by-email/:email/admin", g.RequireAdmin(), uc.PromoteToAdmin)
		users.GET("/:id", uc.GetUser)
		users.DELETE("/:id", g.RequireAdmin(), uc.DeleteUser)
	}
}
