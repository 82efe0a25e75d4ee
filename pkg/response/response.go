package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response represents a standard API response
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
	Stale   bool        `json:"stale,omitempty"`
}

// ErrorBody tells the client what kind of failure happened and whether
// trying again may help.
type ErrorBody struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// Success sends a successful response
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error sends an error response
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// Failure sends an error response with a typed error body. staleData, when
// non-nil, is the last still-valid result and is sent with stale set.
func Failure(c *gin.Context, code int, body ErrorBody, staleData interface{}) {
	c.JSON(code, Response{
		Code:    code,
		Message: body.Message,
		Data:    staleData,
		Error:   &body,
		Stale:   staleData != nil,
	})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// TooManyRequests sends a 429 response
func TooManyRequests(c *gin.Context, message string) {
	Error(c, http.StatusTooManyRequests, message)
}
