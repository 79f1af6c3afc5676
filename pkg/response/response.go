package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bath-journal/pkg/contract"
)

// JSON writes data as the bare response body.
func JSON[T any](ctx *gin.Context, status int, data T) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, data)
}

// NoContent writes an empty 204 response.
func NoContent(ctx *gin.Context) {
	ctx.Status(http.StatusNoContent)
}

// Error aborts the request with a contract error body.
func Error(ctx *gin.Context, status int, message string) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.AbortWithStatusJSON(status, contract.ErrorBody{Message: message})
}

// Invalid aborts the request with a 400 naming the offending field.
func Invalid(ctx *gin.Context, verr *contract.ValidationError) {
	ctx.AbortWithStatusJSON(http.StatusBadRequest, verr.Body())
}

// NotFound aborts the request with the bath 404 body.
func NotFound(ctx *gin.Context) {
	Error(ctx, http.StatusNotFound, contract.MsgBathNotFound)
}

// Internal aborts the request with a generic 500 body.
func Internal(ctx *gin.Context) {
	Error(ctx, http.StatusInternalServerError, contract.MsgInternalError)
}
