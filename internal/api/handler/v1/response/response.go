package response

import (
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Err struct {
	StatusCode int    `json:"-"`
	Msg        string `json:"error"`
	RequestID  string `json:"request_id,omitempty"`

	err error
}

func RenderErr(ctx *gin.Context, e *Err) {
	e.RequestID = requestid.Get(ctx)

	if e.StatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.Int("status", e.StatusCode),
			zap.String("request_id", e.RequestID),
			zap.Error(e.err),
		)
	}

	ctx.AbortWithStatusJSON(e.StatusCode, e)
}

func ErrBadRequest(err error) *Err {
	return &Err{
		StatusCode: http.StatusBadRequest,
		Msg:        err.Error(),
		err:        err,
	}
}

func ErrWrongCredentials(err error) *Err {
	return &Err{
		StatusCode: http.StatusUnauthorized,
		Msg:        "wrong credentials",
		err:        err,
	}
}

func ErrPermissionDenied(err error) *Err {
	return &Err{
		StatusCode: http.StatusForbidden,
		Msg:        err.Error(),
		err:        err,
	}
}

func ErrNotFound(err error) *Err {
	return &Err{
		StatusCode: http.StatusNotFound,
		Msg:        err.Error(),
		err:        err,
	}
}

func ErrConflict(err error) *Err {
	return &Err{
		StatusCode: http.StatusConflict,
		Msg:        err.Error(),
		err:        err,
	}
}

// ErrUnprocessable rejects a request that is well formed but fails a
// business rule, such as the monthly spending limit.
func ErrUnprocessable(err error) *Err {
	return &Err{
		StatusCode: http.StatusUnprocessableEntity,
		Msg:        err.Error(),
		err:        err,
	}
}

func ErrInternalServerError(err error) *Err {
	return &Err{
		StatusCode: http.StatusInternalServerError,
		Msg:        "internal server error",
		err:        err,
	}
}
