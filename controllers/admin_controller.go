package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/life-lessons/api-go/services"
	"github.com/life-lessons/api-go/store"
	"github.com/life-lessons/api-go/utils"
)

type AdminController struct {
	stats *services.StatsService
}

func NewAdminController(stats *services.StatsService) *AdminController {
	return &AdminController{stats: stats}
}

func (ac *AdminController) Stats(c *gin.Context) {
	stats, err := ac.stats.Stats(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ok(c, stats)
}

type HealthController struct {
	store store.Store
}

func NewHealthController(s store.Store) *HealthController {
	return &HealthController{store: s}
}

func (hc *HealthController) Banner(c *gin.Context) {
	c.String(http.StatusOK, "Digital life lesson server running!")
}

func (hc *HealthController) Healthz(c *gin.Context) {
	if err := hc.store.Ping(c.Request.Context()); err != nil {
		l := utils.Logger(c)
		l.Warn().Err(err).Msg("store ping failed")
		utils.RespondStatus(c, http.StatusServiceUnavailable, "unavailable", "store unreachable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
