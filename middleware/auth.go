package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/voxdrop/voxdrop/models"
	"github.com/voxdrop/voxdrop/utils"
)

// ContextUserKey is the key used to store the authenticated user in the Gin context.
const ContextUserKey = "current_user"

// AuthRequired ensures the request carries a valid bearer token whose subject
// resolves to an existing user, and stashes that user in the context. Every
// failure mode reports the same 401 category so that account existence never
// leaks through auth errors; the application codes only vary for server logs.
func AuthRequired(db *gorm.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "authorization header missing")
			ctx.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Error(ctx, http.StatusUnauthorized, 40102, "invalid authorization header format")
			ctx.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40103, "empty bearer token")
			ctx.Abort()
			return
		}

		subject, err := utils.ParseToken(tokenString)
		if err != nil {
			if errors.Is(err, utils.ErrExpiredToken) {
				utils.Error(ctx, http.StatusUnauthorized, 40104, "token expired")
			} else {
				utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
			}
			ctx.Abort()
			return
		}

		var user models.User
		if err := db.Where("email = ?", subject).First(&user).Error; err != nil {
			utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid token")
			ctx.Abort()
			return
		}

		ctx.Set(ContextUserKey, &user)
		ctx.Next()
	}
}

// CurrentUser returns the user resolved by AuthRequired.
func CurrentUser(ctx *gin.Context) (*models.User, bool) {
	v, ok := ctx.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
