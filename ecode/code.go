package ecode

import "sync"

// Business codes returned in the "code" field of failure responses.
const (
	OK = 0

	// Authentication / authorization
	Unauthorized = -101
	AccessDenied = -403

	// Request
	RequestErr       = -400
	ParamErr         = -401
	MethodNotAllowed = -405

	// Resource
	NothingFound = -404
	Conflict     = -409
	StateErr     = -410

	// Server
	ServerErr          = -500
	ServiceUnavailable = -503
	Deadline           = -504
)

var (
	textMu sync.RWMutex
	texts  = map[int]string{
		OK:                 "ok",
		Unauthorized:       "Account not logged in",
		AccessDenied:       "Access denied",
		RequestErr:         "Invalid request",
		ParamErr:           "Invalid parameters",
		MethodNotAllowed:   "Method not allowed",
		NothingFound:       "Resource not found",
		Conflict:           "Resource conflict",
		StateErr:           "Operation not allowed in current state",
		ServerErr:          "Internal server error",
		ServiceUnavailable: "Service unavailable",
		Deadline:           "Deadline exceeded",
	}
)

// Text returns the human readable text of a code.
func Text(code int) string {
	textMu.RLock()
	defer textMu.RUnlock()
	if t, ok := texts[code]; ok {
		return t
	}
	return texts[ServerErr]
}

// Register registers or overrides the text of a code.
func Register(code int, text string) {
	textMu.Lock()
	defer textMu.Unlock()
	texts[code] = text
}
