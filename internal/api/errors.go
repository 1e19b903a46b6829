package api

import (
	"encoding/json"
	"net/http"

	mazeerrors "github.com/matzehuels/tiltmaze/pkg/errors"
)

type errorBody struct {
	Code    mazeerrors.Code `json:"code"`
	Message string          `json:"message"`
}

// writeError maps err to a status through its error code. Errors without
// a code are internal and get logged.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := mazeerrors.GetCode(err)
	if code == "" {
		code = mazeerrors.ErrCodeInternal
	}
	status := mazeerrors.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "code", code, "err", err)
	}
	writeJSON(w, status, errorBody{
		Code:    code,
		Message: mazeerrors.UserMessage(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(format string, args ...any) error {
	return mazeerrors.New(mazeerrors.ErrCodeInvalidInput, format, args...)
}

func notFound(format string, args ...any) error {
	return mazeerrors.New(mazeerrors.ErrCodeNotFound, format, args...)
}
