package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/life-lessons/api-go/services"
	"github.com/life-lessons/api-go/utils"
)

type LessonController struct {
	lessons *services.LessonService
}

func NewLessonController(lessons *services.LessonService) *LessonController {
	return &LessonController{lessons: lessons}
}

type CreateLessonRequest struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Category    string `json:"category"`
	Emotion     string `json:"emotion"`
	AccessLevel string `json:"accessLevel"`
	Visibility  string `json:"visibility"`
	Image       string `json:"image"`
}

type UpdateLessonRequest struct {
	Title       *string `json:"title"`
	Content     *string `json:"content"`
	Category    *string `json:"category"`
	Emotion     *string `json:"emotion"`
	AccessLevel *string `json:"accessLevel"`
	Visibility  *string `json:"visibility"`
	Image       *string `json:"image"`
}

type ToggleReactionRequest struct {
	UserID string `json:"userId"`
}

type ToggleSaveRequest struct {
	UserEmail string `json:"userEmail"`
}

type FeatureRequest struct {
	IsFeatured *bool `json:"isFeatured" binding:"required"`
}

type ReviewRequest struct {
	IsReviewed *bool `json:"isReviewed" binding:"required"`
}

// ListLessons godoc
// @Summary List public lessons
// @Description Public lessons newest first, filtered by title, category, emotion and owner
// @Tags lessons
// @Produce json
// @Param searchText query string false "Title substring"
// @Param category query string false "Category substring"
// @Param emotion query string false "Emotion substring"
// @Param email query string false "Owner email"
// @Success 200 {object} StandardResponse
// @Router /lessons [get]
func (lc *LessonController) ListLessons(c *gin.Context) {
	lessons, err := lc.lessons.List(c.Request.Context(), services.LessonQuery{
		SearchText: c.Query("searchText"),
		Category:   c.Query("category"),
		Emotion:    c.Query("emotion"),
		Email:      c.Query("email"),
	}, utils.GetPrincipal(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ok(c, lessons)
}

// ListPublicByOwner godoc
// @Summary Public lessons of one author
// @Tags lessons
// @Produce json
// @Param email query string true "Author email"
// @Success 200 {object} StandardResponse
// @Router /lessons/user/public [get]
func (lc *LessonController) ListPublicByOwner(c *gin.Context) {
	lessons, err := lc.lessons.ListPublicByOwner(c.Request.Context(), c.Query("email"), utils.GetPrincipal(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ok(c, lessons)
}

// NewestLessons godoc
// @Summary Six newest lessons (admin)
// @Tags lessons
// @Produce json
// @Success 200 {object} StandardResponse
// @Router /lessons/new [get]
func (lc *LessonController) NewestLessons(c *gin.Context) {
	lessons, err := lc.lessons.Newest(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ok(c, lessons)
}

func (lc *LessonController) FeaturedLessons(c *gin.Context) {
	lessons, err := lc.lessons.Featured(c.Request.Context(), utils.GetPrincipal(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ok(c, lessons)
}

func (lc *LessonController) MyLessons(c *gin.Context) {
	lessons, err := lc.lessons.Mine(c.Request.Context(), utils.GetPrincipal(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ok(c, lessons)
}

func (lc *LessonController) SavedLessons(c *gin.Context) {
	lessons, err := lc.lessons.Saved(c.Request.Context(), utils.GetPrincipal(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ok(c, lessons)
}

// GetLesson godoc
// @Summary Get a lesson
// @Description Premium content is locked for viewers without premium access
// @Tags lessons
// @Produce json
// @Param id path string true "Lesson ID"
// @Success 200 {object} StandardResponse
// @Router /lessons/{id} [get]
func (lc *LessonController) GetLesson(c *gin.Context) {
	lesson, err := lc.lessons.Get(c.Request.Context(), c.Param("id"), utils.GetPrincipal(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ok(c, lesson)
}

// CreateLesson godoc
// @Summary Create a lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Param lesson body CreateLessonRequest true "Lesson"
// @Success 201 {object} StandardResponse
// @Router /lessons [post]
func (lc *LessonController) CreateLesson(c *gin.Context) {
	var req CreateLessonRequest
	if !bindJSON(c, &req, false) {
		return
	}
	lesson, err := lc.lessons.Create(c.Request.Context(), utils.GetPrincipal(c), services.LessonInput(req))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, StandardResponse{Success: true, Data: lesson, Message: "lesson created"})
}

// UpdateLesson godoc
// @Summary Update a lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Param id path string true "Lesson ID"
// @Param lesson body UpdateLessonRequest true "Changed fields"
// @Success 200 {object} StandardResponse
// @Router /lessons/{id} [patch]
func (lc *LessonController) UpdateLesson(c *gin.Context) {
	var req UpdateLessonRequest
	if !bindJSON(c, &req, false) {
		return
	}
	lesson, err := lc.lessons.Update(c.Request.Context(), c.Param("id"), utils.GetPrincipal(c), services.LessonUpdate(req))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: lesson, Message: "lesson updated"})
}

// ToggleReaction godoc
// @Summary Like or unlike a lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Param id path string true "Lesson ID"
// @Success 200 {object} map[string]interface{}
// @Router /lessons/{id}/reaction [patch]
func (lc *LessonController) ToggleReaction(c *gin.Context) {
	var req ToggleReactionRequest
	if !bindJSON(c, &req, true) {
		return
	}
	res, err := lc.lessons.ToggleReaction(c.Request.Context(), c.Param("id"), utils.GetPrincipal(c), req.UserID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	action := "disliked"
	if res.Added {
		action = "liked"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "action": action, "reactions": res.Count})
}

// ToggleSave godoc
// @Summary Save or unsave a lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Param id path string true "Lesson ID"
// @Success 200 {object} map[string]interface{}
// @Router /lessons/{id}/save [patch]
func (lc *LessonController) ToggleSave(c *gin.Context) {
	var req ToggleSaveRequest
	if !bindJSON(c, &req, true) {
		return
	}
	res, err := lc.lessons.ToggleSave(c.Request.Context(), c.Param("id"), utils.GetPrincipal(c), req.UserEmail)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	action := "unsaved"
	if res.Added {
		action = "saved"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "action": action, "saves": res.Count})
}

func (lc *LessonController) SetFeatured(c *gin.Context) {
	var req FeatureRequest
	if !bindJSON(c, &req, false) {
		return
	}
	lesson, err := lc.lessons.SetFeatured(c.Request.Context(), c.Param("id"), *req.IsFeatured)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ok(c, lesson)
}

func (lc *LessonController) SetReviewed(c *gin.Context) {
	var req ReviewRequest
	if !bindJSON(c, &req, false) {
		return
	}
	lesson, err := lc.lessons.SetReviewed(c.Request.Context(), c.Param("id"), *req.IsReviewed)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ok(c, lesson)
}

// DeleteLesson godoc
// @Summary Delete a lesson
// @Description Allowed for the author and for admins
// @Tags lessons
// @Produce json
// @Param id path string true "Lesson ID"
// @Success 200 {object} StandardResponse
// @Router /lessons/{id} [delete]
func (lc *LessonController) DeleteLesson(c *gin.Context) {
	if err := lc.lessons.Delete(c.Request.Context(), c.Param("id"), utils.GetPrincipal(c)); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "lesson deleted"})
}
