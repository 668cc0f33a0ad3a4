package response

import (
	stderrors "errors"
	"net/http"

	"notify-srv/pkg/errors"

	"github.com/gin-gonic/gin"
)

// NewOKResp returns a new OK response with the given data.
func NewOKResp(data any) Resp {
	return Resp{
		ErrorCode: 0,
		Message:   MessageSuccess,
		Data:      data,
	}
}

// OK sends 200 JSON with data.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, NewOKResp(data))
}

// Unauthorized sends a 401 response.
func Unauthorized(c *gin.Context) {
	HttpError(c, errors.NewUnauthorizedHTTPError())
}

// BadRequest sends a 400 response.
func BadRequest(c *gin.Context) {
	HttpError(c, errors.NewBadRequestHTTPError())
}

func parseError(err error) (int, Resp) {
	var httpErr *errors.HTTPError
	if stderrors.As(err, &httpErr) {
		statusCode := httpErr.StatusCode
		if statusCode == 0 {
			statusCode = http.StatusBadRequest
		}
		return statusCode, Resp{
			ErrorCode: httpErr.Code,
			Message:   httpErr.Message,
		}
	}
	return http.StatusInternalServerError, Resp{
		ErrorCode: InternalServerErrorCode,
		Message:   DefaultErrorMessage,
	}
}

// Error sends the HTTP representation of err. Errors that are not
// *errors.HTTPError become a 500 with a generic message.
func Error(c *gin.Context, err error) {
	c.JSON(parseError(err))
}

// HttpError sends the response for an *errors.HTTPError.
func HttpError(c *gin.Context, err *errors.HTTPError) {
	c.JSON(parseError(err))
}

// PanicError answers a recovered panic value with a 500.
func PanicError(c *gin.Context, _ any) {
	c.JSON(http.StatusInternalServerError, Resp{
		ErrorCode: InternalServerErrorCode,
		Message:   DefaultErrorMessage,
	})
}
