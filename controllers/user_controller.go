package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/life-lessons/api-go/services"
	"github.com/life-lessons/api-go/utils"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

type CreateUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	PhotoURL *string `json:"photoURL"`
}

func (uc *UserController) ListUsers(c *gin.Context) {
	users, err := uc.users.List(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ok(c, users)
}

// CreateUser godoc
// @Summary Register the signed-in user
// @Description Idempotent on email. An existing account is answered with 200 and inserted=false
// @Tags users
// @Accept json
// @Produce json
// @Param user body CreateUserRequest true "User"
// @Success 201 {object} map[string]interface{}
// @Success 200 {object} map[string]interface{}
// @Router /users [post]
func (uc *UserController) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !bindJSON(c, &req, false) {
		return
	}
	user, inserted, err := uc.users.Create(c.Request.Context(), utils.GetPrincipal(c), services.UserInput(req))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if !inserted {
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"message":  "user already exists",
			"inserted": false,
			"data":     user,
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "inserted": true, "data": user})
}

func (uc *UserController) GetMe(c *gin.Context) {
	user, err := uc.users.GetByEmail(c.Request.Context(), utils.GetPrincipal(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ok(c, user)
}

func (uc *UserController) UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if !bindJSON(c, &req, false) {
		return
	}
	user, err := uc.users.UpdateProfile(c.Request.Context(), utils.GetPrincipal(c), services.ProfileUpdate(req))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: user, Message: "profile updated"})
}

func (uc *UserController) GetUser(c *gin.Context) {
	user, err := uc.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ok(c, user)
}

func (uc *UserController) GetUserByEmail(c *gin.Context) {
	user, err := uc.users.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ok(c, user)
}

// GetRole godoc
// @Summary Role of a user
// @Tags users
// @Produce json
// @Param email path string true "User email"
// @Success 200 {object} map[string]interface{}
// @Router /users/by-email/{email}/role [get]
func (uc *UserController) GetRole(c *gin.Context) {
	role, err := uc.users.Role(c.Request.Context(), c.Param("email"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "role": role})
}

func (uc *UserController) PromoteToAdmin(c *gin.Context) {
	user, err := uc.users.PromoteToAdmin(c.Request.Context(), c.Param("email"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: user, Message: "user promoted to admin"})
}

func (uc *UserController) DeleteUser(c *gin.Context) {
	if err := uc.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "user deleted"})
}
