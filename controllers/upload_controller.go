package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/life-lessons/api-go/services"
	"github.com/life-lessons/api-go/utils"
)

type UploadController struct {
	uploads *services.UploadService
}

func NewUploadController(uploads *services.UploadService) *UploadController {
	return &UploadController{uploads: uploads}
}

type PresignedURLRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=lesson avatar"`
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	FileSize    int64  `json:"fileSize" binding:"required"`
}

// GetPresignedURL godoc
// @Summary Get a direct upload URL for an image
// @Tags uploads
// @Accept json
// @Produce json
// @Param request body PresignedURLRequest true "Upload"
// @Success 200 {object} StandardResponse
// @Router /uploads/presigned-url [post]
func (uc *UploadController) GetPresignedURL(c *gin.Context) {
	var req PresignedURLRequest
	if !bindJSON(c, &req, false) {
		return
	}
	upload, err := uc.uploads.Presign(c.Request.Context(), utils.GetPrincipal(c), services.UploadRequest(req))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    upload,
		Message: "Presigned URL generated successfully",
	})
}
