package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lunchpass/lunchpass-api/internal/domain"
	"github.com/lunchpass/lunchpass-api/internal/pkg/jwthelper"
)

// ContextKeyUser is where the authenticated user is stored on the gin
// context.
const ContextKeyUser = "user"

type AuthUserService interface {
	GetUser(ctx context.Context, id string) (domain.User, error)
}

// Authenticator validates bearer tokens and loads the authenticated user
// onto the request context.
type Authenticator struct {
	signingKey []byte
	userSvc    AuthUserService
}

func NewAuthenticator(signingKey string, userSvc AuthUserService) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
		userSvc:    userSvc,
	}
}

func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		segments := strings.SplitN(header, " ", 2)
		if len(segments) != 2 || segments[0] != "Bearer" {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, segments[1])
		if err != nil {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		if claims.UserAgent != ctx.Request.UserAgent() {
			// Token was minted for a different client.
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		user, err := a.userSvc.GetUser(ctx.Request.Context(), claims.UserID)
		if err != nil {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		ctx.Set(ContextKeyUser, user)
		ctx.Next()
	}
}

// RequireRoles rejects requests whose authenticated user holds none of
// the given roles. Must run after VerifyJWT.
func RequireRoles(roles ...domain.UserRole) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		value, ok := ctx.Get(ContextKeyUser)
		if !ok {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		user, ok := value.(domain.User)
		if !ok {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		for _, role := range roles {
			if user.Role == role {
				ctx.Next()
				return
			}
		}

		ctx.AbortWithStatus(http.StatusForbidden)
	}
}
