package utils

import (
	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

// JSONResponse is the envelope of every API response. RequestID echoes the
// X-Request-ID of the call so clients can quote it when reporting failures.
type JSONResponse struct {
	Status    bool        `json:"status"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

func newResponse(c *gin.Context, ok bool, message string, data interface{}) JSONResponse {
	return JSONResponse{
		Status:    ok,
		Message:   message,
		Data:      data,
		RequestID: c.GetString(RequestIDKey),
	}
}

// RespondJSON writes data in the envelope; status is true for 2xx codes.
func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, newResponse(c, code >= 200 && code < 300, message, data))
}

// RespondError writes err as the message of a failed envelope.
func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, newResponse(c, false, err.Error(), nil))
}
