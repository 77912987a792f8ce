package app

import (
	"context"
	"errors"
	"net/http"

	"plog/internal/service"
	"plog/internal/util"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP statuses. NotFound and
// validation errors pass through unchanged; anything unrecognized is
// reported as a store failure without leaking internals.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrParentCommentNotFound),
		errors.Is(err, service.ErrMemberNotFound),
		errors.Is(err, service.ErrImageNotFound):
		util.NotFound(c, err.Error())
	case errors.Is(err, service.ErrContentEmpty),
		errors.Is(err, service.ErrContentTooLong),
		errors.Is(err, service.ErrParentPostMismatch),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrNicknameTaken),
		errors.Is(err, service.ErrEmptyFile),
		errors.Is(err, service.ErrInvalidExtension):
		util.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		util.Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrNotOwner):
		util.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrUploadsDisabled):
		util.ErrorResponse(c, http.StatusServiceUnavailable, err.Error(), nil)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		util.ErrorResponse(c, http.StatusServiceUnavailable, "store temporarily unavailable", nil)
	default:
		util.ErrorResponse(c, http.StatusInternalServerError, "internal server error", nil)
	}
}
