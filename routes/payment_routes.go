package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/life-lessons/api-go/controllers"
	"github.com/life-lessons/api-go/middleware"
)

func SetupPaymentRoutes(r *gin.Engine, g *middleware.Guards, limiter middleware.RateLimiter, pc *controllers.PaymentController) {
	r.POST("/create-checkout-session", g.RequireAuth(), middleware.Limit(limiter, "checkout"), pc.CreateCheckoutSession)
	r.PATCH("/payment-success", g.RequireAuth(), pc.PaymentSuccess)
}
