package controller

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"loctrack/logger"
	"loctrack/web/entity"
	"loctrack/web/middleware"

	"github.com/gin-gonic/gin"
)

const schemaErrorMsg = "No data provided or invalid json format"

// dateLayouts are the accepted formats for by-date query parameters.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// logWarning logs a handler failure tagged with the request id so log
// lines can be matched to the X-Request-Id a client saw.
func logWarning(c *gin.Context, msg string, err error) {
	logger.Warningf("%s: %v (request %s)", msg, err, middleware.GetRequestID(c))
}

// jsonError sends an {"error": ...} response with the given status.
func jsonError(c *gin.Context, statusCode int, msg string) {
	c.JSON(statusCode, entity.Error{Error: msg})
}

// jsonSchemaError sends the {"_schema": ...} response used when a request
// body is absent or not valid JSON.
func jsonSchemaError(c *gin.Context) {
	c.JSON(http.StatusBadRequest, entity.SchemaError{Schema: schemaErrorMsg})
}

// bindError answers a failed body bind: unparseable payloads get the
// schema response, field validation failures get fieldMsg.
func bindError(c *gin.Context, err error, fieldMsg string) {
	if isSchemaError(err) {
		jsonSchemaError(c)
		return
	}
	jsonError(c, http.StatusBadRequest, fieldMsg)
}

func isSchemaError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.As(err, &syntaxErr) ||
		errors.As(err, &typeErr)
}

func parseDate(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
