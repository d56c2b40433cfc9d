package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/life-lessons/api-go/services"
	"github.com/life-lessons/api-go/utils"
)

type PaymentController struct {
	payments *services.PaymentService
}

func NewPaymentController(payments *services.PaymentService) *PaymentController {
	return &PaymentController{payments: payments}
}

// CreateCheckoutSession godoc
// @Summary Start the premium checkout
// @Tags payments
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /create-checkout-session [post]
func (pc *PaymentController) CreateCheckoutSession(c *gin.Context) {
	url, err := pc.payments.StartCheckout(c.Request.Context(), utils.GetPrincipal(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "url": url})
}

// PaymentSuccess godoc
// @Summary Confirm a checkout session and grant premium
// @Tags payments
// @Produce json
// @Param session_id query string true "Checkout session ID"
// @Success 200 {object} StandardResponse
// @Router /payment-success [patch]
func (pc *PaymentController) PaymentSuccess(c *gin.Context) {
	user, err := pc.payments.CompleteCheckout(c.Request.Context(), c.Query("session_id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: user, Message: "payment verified"})
}
