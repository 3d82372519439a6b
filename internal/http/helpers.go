package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/h2o/internal/formatter"
	"github.com/mrlokans/h2o/internal/obsidian"
	"github.com/mrlokans/h2o/internal/sender"
	"github.com/mrlokans/h2o/internal/settingsstore"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (partial results, etc.)
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// PaginatedResponse wraps paginated data with metadata.
type PaginatedResponse struct {
	Data    any   `json:"data"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondSuccess sends a 200 OK response with a message and optional data.
func respondSuccess(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message, Data: data})
}

// respondSendError maps send failures to responses. Errors the user can fix
// (templates, limits, vault setup) are reported with their message; the
// partial result tells how many notes were already delivered.
func respondSendError(c *gin.Context, err error, result *sender.Result) {
	var (
		tsErr     *formatter.TimestampError
		locErr    *formatter.LocationError
		sizeErr   *formatter.NoteTooLargeError
		uriErr    *obsidian.URITooLongError
		response  = ErrorResponse{Error: err.Error()}
		errStatus = http.StatusUnprocessableEntity
	)
	if result != nil {
		response.Details = result
	}

	switch {
	case errors.Is(err, sender.ErrNoBooksSelected):
		respondBadRequest(c, err.Error())
		return
	case errors.Is(err, sender.ErrNothingToResend):
		response.Code = "nothing_to_resend"
		errStatus = http.StatusConflict
	case errors.As(err, &sizeErr):
		response.Code = "note_too_large"
	case errors.As(err, &uriErr):
		response.Code = "uri_too_long"
	case errors.As(err, &tsErr):
		response.Code = "bad_timestamp"
	case errors.As(err, &locErr):
		response.Code = "bad_location"
	case errors.Is(err, obsidian.ErrVaultNotFound):
		response.Code = "vault_not_found"
	default:
		respondInternalError(c, err, "send")
		return
	}
	c.JSON(errStatus, response)
}

// respondSettingsError reports rejected settings as bad requests.
func respondSettingsError(c *gin.Context, err error, context string) {
	if errors.Is(err, settingsstore.ErrUnknownSetting) || errors.Is(err, settingsstore.ErrInvalidSetting) {
		respondBadRequest(c, err.Error())
		return
	}
	respondInternalError(c, err, context)
}

// --- Parameter Parsing ---

// parseIntQuery reads an optional non-negative integer query parameter.
// Responds with a 400 error and returns false when it is malformed.
func parseIntQuery(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return value, true
}
