package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the JSON error envelope
type ErrorBody struct {
	Detail string `json:"detail"`
}

// RateLimitedBody is the 429 envelope carrying a retry hint
type RateLimitedBody struct {
	Detail     string `json:"detail"`
	RetryAfter int    `json:"retry_after"` // seconds
}

// ListBody is the paginated list envelope
type ListBody struct {
	Items    interface{} `json:"items"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Pages    int         `json:"pages"`
}

// Error writes an error body with the given status
func Error(c *gin.Context, status int, detail string) {
	c.JSON(status, ErrorBody{Detail: detail})
}

// AbortError writes an error body and aborts the handler chain
func AbortError(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, ErrorBody{Detail: detail})
}

// BadRequest writes a 400 error
func BadRequest(c *gin.Context, detail string) {
	Error(c, http.StatusBadRequest, detail)
}

// Unauthorized writes a 401 error with a WWW-Authenticate hint
func Unauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", "Bearer")
	Error(c, http.StatusUnauthorized, detail)
}

// Forbidden writes a 403 error
func Forbidden(c *gin.Context, detail string) {
	Error(c, http.StatusForbidden, detail)
}

// NotFound writes a 404 error
func NotFound(c *gin.Context, detail string) {
	Error(c, http.StatusNotFound, detail)
}

// InternalError writes a generic 500 error. Details stay in the logs.
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

// TooManyRequests aborts with a 429 and a retry hint in seconds
func TooManyRequests(c *gin.Context, retryAfter int) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, RateLimitedBody{
		Detail:     "Too many requests. Please try again later.",
		RetryAfter: retryAfter,
	})
}

// List writes a paginated list body
func List(c *gin.Context, items interface{}, total, page, pageSize int) {
	pages := 0
	if pageSize > 0 {
		pages = (total + pageSize - 1) / pageSize
	}
	c.JSON(http.StatusOK, ListBody{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Pages:    pages,
	})
}
