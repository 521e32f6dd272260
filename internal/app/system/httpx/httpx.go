// Package httpx holds the JSON request/response helpers used by every API
// handler.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/kairo/internal/app/system/apierr"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxBodyBytes bounds request bodies read by ReadJSON.
const MaxBodyBytes = 1 << 20

// ErrBadBody is returned by ReadJSON for a missing or malformed body.
var ErrBadBody = errors.New("invalid JSON body")

func NewRequestID() string { return "req_" + uuid.NewString() }

// WriteJSON writes v as the JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ReadJSON decodes the request body into dst. Unknown fields are ignored
// so older and newer clients can share an endpoint.
func ReadJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.Join(ErrBadBody, err)
	}
	return nil
}

type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId"`
}

// WriteError writes err as {"error": message, "requestId": id}. Only the
// user-safe message of an *apierr.Error reaches the client; anything else
// becomes a generic 500. Server-side failures are logged with their cause.
func WriteError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	ae := apierr.From(err)
	status := ae.Status()
	reqID := NewRequestID()

	if log != nil {
		fields := []zap.Field{
			zap.String("request_id", reqID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
		}
		if status >= http.StatusInternalServerError || ae.Kind == apierr.KindUpstream {
			log.Error(ae.Message, append(fields, zap.Error(ae.Err))...)
		} else {
			log.Debug(ae.Message, fields...)
		}
	}

	w.Header().Set("X-Request-ID", reqID)
	WriteJSON(w, status, errorBody{Error: ae.Message, RequestID: reqID})
}
