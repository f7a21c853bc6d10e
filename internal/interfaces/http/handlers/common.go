package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/turtacn/readiness-dashboard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/readiness-dashboard/pkg/errors"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// writeAppError maps an error to its status through the error code table.
// Internal and unclassified errors are masked.
func writeAppError(w http.ResponseWriter, r *http.Request, logger logging.Logger, err error) {
	code := errors.GetCode(err)
	if code == errors.CodeUnknown {
		code = errors.CodeInternal
	}
	status := errors.HTTPStatusForCode(code)

	resp := ErrorResponse{Code: string(code), Message: errors.DefaultMessageForCode(code)}
	var ae *errors.AppError
	if stderrors.As(err, &ae) && code != errors.CodeInternal {
		resp.Message = ae.Message
		resp.Detail = ae.Detail
	}

	switch {
	case status >= http.StatusInternalServerError:
		logger.WithContext(r.Context()).Error("request failed", logging.String("code", string(code)), logging.Err(err))
	case errors.IsValidation(err), errors.IsNotFound(err):
		logger.WithContext(r.Context()).Debug("request rejected", logging.String("code", string(code)), logging.Err(err))
	}
	writeJSON(w, status, resp)
}

// NotFound answers unmatched routes with the standard error body.
func NotFound(logger logging.Logger) http.HandlerFunc {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeAppError(w, r, logger, errors.NotFound("route not found").WithDetail(r.URL.Path))
	}
}

//Personal.AI order the ending
