package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/life-lessons/api-go/identity"
	"github.com/life-lessons/api-go/models"
	"github.com/life-lessons/api-go/store"
	"github.com/life-lessons/api-go/utils"
)

// Guards resolves callers and their roles. The plain methods return a value
// or a domain error; the gin adapters turn that into an aborted response.
type Guards struct {
	verifier identity.Verifier
	users    store.UserStore
}

func NewGuards(verifier identity.Verifier, users store.UserStore) *Guards {
	return &Guards{verifier: verifier, users: users}
}

// Authenticate maps an Authorization header to the caller's email.
func (g *Guards) Authenticate(ctx context.Context, header string) (string, error) {
	token, err := identity.BearerToken(header)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrUnauthorized, err)
	}
	email, err := g.verifier.VerifyToken(ctx, token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrUnauthorized, err)
	}
	return email, nil
}

// AuthorizeAdmin loads the stored account for email and requires the admin
// role.
func (g *Guards) AuthorizeAdmin(ctx context.Context, email string) (*models.User, error) {
	if email == "" {
		return nil, models.ErrUnauthorized
	}
	user, err := g.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: admin only", models.ErrForbidden)
		}
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, fmt.Errorf("%w: admin only", models.ErrForbidden)
	}
	return user, nil
}

func (g *Guards) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		email, err := g.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.SetPrincipal(c, email)
		c.Next()
	}
}

// OptionalAuth records the principal when a valid token is present and lets
// anonymous requests through untouched.
func (g *Guards) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			if email, err := g.Authenticate(c.Request.Context(), header); err == nil {
				utils.SetPrincipal(c, email)
			}
		}
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func (g *Guards) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := g.AuthorizeAdmin(c.Request.Context(), utils.GetPrincipal(c))
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		utils.SetAccount(c, user)
		c.Next()
	}
}
