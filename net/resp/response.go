package resp

import (
	"encoding/json"
	"net/http"

	"github.com/laktaabhutan/LAK-Goods-Transport-Application/ecode"
)

// Exception represents a failure response.
type Exception struct {
	Status  int    `json:"-"`                // HTTP status
	Code    int    `json:"code,omitempty"`   // Business code
	Message string `json:"message"`          // Message
	Error   bool   `json:"error"`            // Always true on failures
	Errors  any    `json:"errors,omitempty"` // Validation errors
}

// Payload is the body of a success response; "message" is always present.
type Payload map[string]any

// newResponse creates a new failure response.
func newResponse(status, code int, message string, data ...any) *Exception {
	var errs any
	if len(data) > 0 {
		errs = data[0]
	}
	if message == "" {
		message = ecode.Text(code)
	}
	return &Exception{
		Status:  status,
		Code:    code,
		Message: message,
		Error:   true,
		Errors:  errs,
	}
}

// Success handles success responses.
func Success(w http.ResponseWriter, data ...any) {
	WithStatusCode(w, http.StatusOK, data...)
}

// WithStatusCode handles success responses with custom status code.
//
// A string argument becomes the message, a Payload or map is merged into
// the body, anything else is placed under "data".
func WithStatusCode(w http.ResponseWriter, statusCode int, data ...any) {
	if statusCode == http.StatusNoContent {
		w.WriteHeader(statusCode)
		return
	}
	writeJSON(w, statusCode, buildSuccessBody(data...))
}

// buildSuccessBody builds the success body.
func buildSuccessBody(data ...any) Payload {
	body := Payload{}
	for _, d := range data {
		switch v := d.(type) {
		case nil:
		case string:
			body["message"] = v
		case Payload:
			for k, val := range v {
				body[k] = val
			}
		case map[string]any:
			for k, val := range v {
				body[k] = val
			}
		default:
			body["data"] = v
		}
	}
	if _, ok := body["message"]; !ok {
		body["message"] = ecode.Text(ecode.OK)
	}
	return body
}

// Fail handles failure responses.
func Fail(w http.ResponseWriter, r *Exception) {
	if r == nil {
		r = InternalServer("")
	}
	status := r.Status
	if status == 0 {
		status = http.StatusBadRequest
	}
	r.Error = true
	writeJSON(w, status, r)
}

// writeJSON writes res as JSON with the given status code.
func writeJSON(w http.ResponseWriter, code int, res any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		http.Error(w, "Failed to encode JSON response", http.StatusInternalServerError)
	}
}
