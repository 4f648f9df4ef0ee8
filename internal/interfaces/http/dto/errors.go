package dto

import (
	"net/http"

	"github.com/koifarm/backend/internal/domain/shared"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeNotFound:            http.StatusNotFound,
	shared.CodeUnauthorized:        http.StatusUnauthorized,
	shared.CodeValidation:          http.StatusBadRequest,
	shared.CodeConflict:            http.StatusConflict,
	shared.CodeConcurrencyConflict: http.StatusConflict,
	shared.CodePersistenceFailure:  http.StatusInternalServerError,
	shared.CodeNotificationFailure: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
