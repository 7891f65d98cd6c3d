package resp

import (
	"errors"
	"net/http"

	"github.com/laktaabhutan/LAK-Goods-Transport-Application/ecode"
)

// genericInternalMessage is the only message clients see for unclassified errors.
const genericInternalMessage = "internal server error"

// UnAuthorized indicates that the request is unauthorized.
func UnAuthorized(message string, data ...any) *Exception {
	return newResponse(http.StatusUnauthorized, ecode.Unauthorized, message, data...)
}

// BadRequest indicates a bad request.
func BadRequest(message string, data ...any) *Exception {
	return newResponse(http.StatusBadRequest, ecode.RequestErr, message, data...)
}

// NotFound indicates that the requested resource is not found.
func NotFound(message string, data ...any) *Exception {
	return newResponse(http.StatusNotFound, ecode.NothingFound, message, data...)
}

// Forbidden indicates access is forbidden.
func Forbidden(message string, data ...any) *Exception {
	return newResponse(http.StatusForbidden, ecode.AccessDenied, message, data...)
}

// Conflict indicates a conflict error.
func Conflict(message string, data ...any) *Exception {
	return newResponse(http.StatusConflict, ecode.Conflict, message, data...)
}

// InternalServer indicates a server error.
func InternalServer(message string, data ...any) *Exception {
	if message == "" {
		message = genericInternalMessage
	}
	return newResponse(http.StatusInternalServerError, ecode.ServerErr, message, data...)
}

// ServiceUnavailable indicates a storage or dependency outage.
func ServiceUnavailable(message string, data ...any) *Exception {
	return newResponse(http.StatusServiceUnavailable, ecode.ServiceUnavailable, message, data...)
}

// NotAllowed indicates a not allowed error.
func NotAllowed(message string, data ...any) *Exception {
	return newResponse(http.StatusMethodNotAllowed, ecode.MethodNotAllowed, message, data...)
}

// StatusOf returns the HTTP status for an error kind.
func StatusOf(kind ecode.Kind) int {
	switch kind {
	case ecode.KindValidation:
		return http.StatusBadRequest
	case ecode.KindUnauthorized:
		return http.StatusUnauthorized
	case ecode.KindForbidden:
		return http.StatusForbidden
	case ecode.KindNotFound:
		return http.StatusNotFound
	case ecode.KindConflict, ecode.KindState:
		return http.StatusConflict
	case ecode.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// FromError converts err into a failure response. Messages of internal
// errors are replaced by a generic one.
func FromError(err error) *Exception {
	if err == nil {
		return nil
	}
	kind := ecode.KindOf(err)
	if kind == ecode.KindInternal {
		return InternalServer(genericInternalMessage)
	}

	var e *ecode.Error
	message := ecode.Text(kind.Code())
	var fields any
	if errors.As(err, &e) {
		if e.Message != "" {
			message = e.Message
		}
		if len(e.Fields) > 0 {
			fields = e.Fields
		}
	}
	return newResponse(StatusOf(kind), kind.Code(), message, fields)
}
