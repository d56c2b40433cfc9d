package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/life-lessons/api-go/services"
	"github.com/life-lessons/api-go/utils"
)

type ReportController struct {
	reports *services.ReportService
}

func NewReportController(reports *services.ReportService) *ReportController {
	return &ReportController{reports: reports}
}

type CreateReportRequest struct {
	LessonID       string `json:"lessonId"`
	ReporterUserID string `json:"reporterUserId"`
	Reason         string `json:"reason"`
}

func (rc *ReportController) ListReports(c *gin.Context) {
	reports, err := rc.reports.List(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ok(c, reports)
}

// CreateReport godoc
// @Summary Report a lesson
// @Description A second report of the same lesson by the same user is answered with already-reported
// @Tags reports
// @Accept json
// @Produce json
// @Param report body CreateReportRequest true "Report"
// @Success 201 {object} StandardResponse
// @Success 200 {object} StandardResponse
// @Router /reports [post]
func (rc *ReportController) CreateReport(c *gin.Context) {
	var req CreateReportRequest
	if !bindJSON(c, &req, false) {
		return
	}
	report, created, err := rc.reports.Create(c.Request.Context(), utils.GetPrincipal(c), services.ReportInput(req))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if !created {
		c.JSON(http.StatusOK, StandardResponse{Success: true, Data: report, Message: "already-reported"})
		return
	}
	c.JSON(http.StatusCreated, StandardResponse{Success: true, Data: report, Message: "report submitted"})
}
