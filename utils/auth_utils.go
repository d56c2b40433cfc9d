package utils

import (
	"github.com/gin-gonic/gin"

	"github.com/life-lessons/api-go/models"
)

type contextKey string

const (
	PrincipalContextKey contextKey = "principal"
	AccountContextKey   contextKey = "account"
)

// SetPrincipal records the verified email of the caller.
func SetPrincipal(c *gin.Context, email string) {
	c.Set(string(PrincipalContextKey), email)
}

// GetPrincipal returns the verified email of the caller, or "" for
// anonymous requests.
func GetPrincipal(c *gin.Context) string {
	return c.GetString(string(PrincipalContextKey))
}

// SetAccount stores the caller's user record once a guard has loaded it.
func SetAccount(c *gin.Context, user *models.User) {
	c.Set(string(AccountContextKey), user)
}

func GetAccount(c *gin.Context) *models.User {
	v, exists := c.Get(string(AccountContextKey))
	if !exists {
		return nil
	}
	if user, ok := v.(*models.User); ok {
		return user
	}
	return nil
}
