// internal/utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mapstore/store-backend/internal/i18n"
)

// ErrorCode is the machine readable half of a failed response. Clients
// branch on it, so values never change once shipped.
type ErrorCode string

const (
	CodeBadRequest   ErrorCode = "BAD_REQUEST"
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeConflict     ErrorCode = "CONFLICT"
	CodeRateLimited  ErrorCode = "RATE_LIMITED"
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
)

// Envelope wraps every JSON body the store returns. Exactly one of Data and
// Error is set.
type Envelope struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Error   *Failure `json:"error,omitempty"`
	Meta    *Meta    `json:"meta,omitempty"`
}

type Failure struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
}

type Meta struct {
	Pagination *PageMeta `json:"pagination,omitempty"`
}

type PageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func SuccessResponse(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func CreatedResponse(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// PaginatedResponse sends one page of a listing with its position in both
// the body and the X-Total-* headers.
func PaginatedResponse(c *gin.Context, result PaginationResult) {
	SetPaginationHeaders(c, result)
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    result.Data,
		Meta: &Meta{Pagination: &PageMeta{
			Page:       result.Page,
			Limit:      result.Limit,
			Total:      result.Total,
			TotalPages: result.TotalPages,
		}},
	})
}

// ErrorResponse is the single exit for failures; the helpers below only
// pick a status, a code and a fallback message.
func ErrorResponse(c *gin.Context, status int, code ErrorCode, message string, details any) {
	c.JSON(status, Envelope{Error: &Failure{Code: code, Message: message, Details: details}})
}

// translated returns message, or the catalog text for key in the caller's
// language when message is empty.
func translated(c *gin.Context, message, key string, args ...interface{}) string {
	if message != "" {
		return message
	}
	return i18n.T(GetLangFromContext(c), key, args...)
}

func BadRequestResponse(c *gin.Context, message string, details any) {
	message = translated(c, message, i18n.KeyValidationInvalid, "request")
	ErrorResponse(c, http.StatusBadRequest, CodeBadRequest, message, details)
}

// ValidationErrorResponse lists every rejected field so a checkout form can
// mark them all at once.
func ValidationErrorResponse(c *gin.Context, fields []ValidationError) {
	message := translated(c, "", i18n.KeyValidationInvalid, "input")
	ErrorResponse(c, http.StatusBadRequest, CodeValidation, message, fields)
}

func UnauthorizedResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, CodeUnauthorized, translated(c, message, i18n.KeyAuthRequired), nil)
}

func ForbiddenResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusForbidden, CodeForbidden, translated(c, message, i18n.KeyAdminAccessDenied), nil)
}

// NotFoundResponse takes the resource name ("product", "order") and looks
// up "<resource>.not_found" in the catalog.
func NotFoundResponse(c *gin.Context, resource string) {
	ErrorResponse(c, http.StatusNotFound, CodeNotFound, translated(c, "", resource+".not_found"), nil)
}

func ConflictResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusConflict, CodeConflict, message, nil)
}

func TooManyRequestsResponse(c *gin.Context) {
	ErrorResponse(c, http.StatusTooManyRequests, CodeRateLimited, translated(c, "", i18n.KeyRateLimited), nil)
}

func InternalErrorResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, CodeInternal, translated(c, message, i18n.KeyInternalError), nil)
}
