package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/lipsync/errors"
)

// DataResponse is the success envelope. Error is set only when data is
// returned alongside a failure, as for a transcript that missed the quality
// gate.
type DataResponse struct {
	Data  any                  `json:"data"`
	Error *apperrors.ErrorBody `json:"error,omitempty"`
}

// RespondWithError writes err as an error envelope. Errors that are not
// AppErrors are reported as internal errors.
func RespondWithError(c *gin.Context, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.Internal(err)
	}
	c.JSON(appErr.HTTPStatus, appErr.ToResponse())
}

// RespondOK sends a 200 response wrapping data.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, DataResponse{Data: data})
}

// RespondResult writes non-nil data together with err, if any, using the
// error's status.
func RespondResult(c *gin.Context, data any, err error) {
	if err == nil {
		RespondOK(c, data)
		return
	}
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		RespondWithError(c, err)
		return
	}
	body := appErr.ToResponse().Error
	c.JSON(appErr.HTTPStatus, DataResponse{Data: data, Error: &body})
}
