package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lunchpass/lunchpass-api/internal/api/middleware"
	"github.com/lunchpass/lunchpass-api/internal/domain"
)

var errMissingUser = errors.New("no authenticated user on request")

// HandleHealthcheck godoc
// @Summary      Healthcheck
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// getUserFromContext returns the user loaded by the JWT middleware.
func getUserFromContext(ctx *gin.Context) (domain.User, error) {
	value, ok := ctx.Get(middleware.ContextKeyUser)
	if !ok {
		return domain.User{}, errMissingUser
	}

	user, ok := value.(domain.User)
	if !ok {
		return domain.User{}, errMissingUser
	}

	return user, nil
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// getPagination reads limit/offset query params, clamped to sane bounds.
func getPagination(ctx *gin.Context) (limit, offset int) {
	limit, err := strconv.Atoi(ctx.Query("limit"))
	if err != nil || limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	offset, err = strconv.Atoi(ctx.Query("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	return limit, offset
}
