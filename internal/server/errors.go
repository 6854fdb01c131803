package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/topclip/tikfetch/internal/download"
	"github.com/topclip/tikfetch/internal/extractor"
	"github.com/topclip/tikfetch/internal/tiktok"
)

// ErrorResponse is the uniform non-2xx body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// errorBody maps the pipeline error taxonomy to a response. Upstream
// error text never reaches the client; every code has a fixed message.
func errorBody(err error) ErrorResponse {
	switch {
	case errors.Is(err, tiktok.ErrInvalidURL):
		return ErrorResponse{
			Error:   "invalid_url",
			Message: "The submitted URL is not a recognized TikTok video URL",
			Code:    http.StatusBadRequest,
		}
	case errors.Is(err, extractor.ErrExtractionTimeout):
		return ErrorResponse{
			Error:   "extraction_timeout",
			Message: "The extraction engine did not respond in time",
			Code:    http.StatusGatewayTimeout,
		}
	case errors.Is(err, extractor.ErrContentUnavailable):
		return ErrorResponse{
			Error:   "content_unavailable",
			Message: "The requested content does not exist or is unavailable",
			Code:    http.StatusNotFound,
		}
	case errors.Is(err, extractor.ErrExtraction):
		return ErrorResponse{
			Error:   "extraction_error",
			Message: "The extraction engine returned unusable data",
			Code:    http.StatusBadGateway,
		}
	case errors.Is(err, download.ErrFormatNotFound):
		return ErrorResponse{
			Error:   "format_not_found",
			Message: "No rendition matches the requested format_id",
			Code:    http.StatusNotFound,
		}
	case errors.Is(err, download.ErrDownloadFailed):
		return ErrorResponse{
			Error:   "download_failed",
			Message: "The transfer could not be completed",
			Code:    http.StatusInternalServerError,
		}
	case errors.Is(err, context.Canceled):
		return ErrorResponse{
			Error:   "request_cancelled",
			Message: "The request was cancelled",
			Code:    499, // client closed request
		}
	default:
		return ErrorResponse{
			Error:   "internal_error",
			Message: "An unexpected error occurred",
			Code:    http.StatusInternalServerError,
		}
	}
}

func abortWithError(c *gin.Context, err error) {
	body := errorBody(err)
	c.AbortWithStatusJSON(body.Code, body)
}
