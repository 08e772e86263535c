package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Quokka/internal/dto"
	"github.com/lshigami/Quokka/internal/model"
	"github.com/lshigami/Quokka/internal/repository"
	"github.com/lshigami/Quokka/internal/service"
)

const (
	// CtxUser is the gin context key holding the authenticated *model.User.
	CtxUser = "currentUser"
)

// RequireAuth validates the Bearer access token and loads the account behind
// it. Deleted accounts fail even with a token that still verifies.
func RequireAuth(tokens service.TokenService, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abort(c, http.StatusUnauthorized, "Missing Authorization header")
			return
		}
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			abort(c, http.StatusUnauthorized, "Authorization header must be a Bearer token")
			return
		}

		claims, err := tokens.ParseAccess(tokenString)
		if err != nil {
			abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			abort(c, http.StatusUnauthorized, "Account no longer exists")
			return
		}

		c.Set(CtxUser, user)
		c.Next()
	}
}

// RequireAdmin sits behind RequireAuth on admin routes.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentUser(c).IsAdmin {
			abort(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user attached by RequireAuth. Calling it on a route
// without RequireAuth is a programming error and panics.
func CurrentUser(c *gin.Context) *model.User {
	return c.MustGet(CtxUser).(*model.User)
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Message: message})
}
