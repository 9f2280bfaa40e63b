package http

import (
	"net/http"
	"strings"

	"github.com/fwojciec/postforge"
	"github.com/gin-gonic/gin"
)

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	postforge.EINVALID:    http.StatusBadRequest,
	postforge.EINVALIDOP:  http.StatusBadRequest,
	postforge.ENOTFOUND:   http.StatusNotFound,
	postforge.ECONFLICT:   http.StatusConflict,
	postforge.EEXTRACTION: http.StatusUnprocessableEntity,
	postforge.EFETCH:      http.StatusBadGateway,
	postforge.EGENERATION: http.StatusBadGateway,
	postforge.EVALIDATION: http.StatusBadGateway,
	postforge.ETIMEOUT:    http.StatusGatewayTimeout,
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// ErrorResponse is the JSON body of a failed API request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Stage   string `json:"stage,omitempty"`
}

// Error writes err to the response, as JSON for API routes and as an HTML
// page otherwise. Internal errors are logged and their details withheld.
func (s *Server) Error(c *gin.Context, err error) {
	code, message := postforge.ErrorCode(err), postforge.ErrorMessage(err)
	if code == postforge.EINTERNAL {
		s.Logger.Error("http error", "method", c.Request.Method, "path", c.Request.URL.Path, "err", err)
		message = "Internal error."
	}
	status := ErrorStatusCode(code)

	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.AbortWithStatusJSON(status, &ErrorResponse{
			Error:   code,
			Message: message,
			Stage:   postforge.ErrorStage(err).Phase(),
		})
		return
	}

	c.HTML(status, "error.html", gin.H{
		"Status":  status,
		"Message": message,
	})
	c.Abort()
}
