package ecode

import (
	"fmt"
)

const (
	emptyMsg     = "empty"
	requiredMsg  = "required"
	invalidMsg   = "invalid"
	successMsg   = "success"
	failedMsg    = "failed"
	existMsg     = "already exists"
	notExistMsg  = "does not exist"
	forbiddenMsg = "not permitted"
)

func withSubject(msg string, k ...string) string {
	if len(k) > 0 && k[0] != "" {
		return fmt.Sprintf("%s %s", k[0], msg)
	}
	return msg
}

// FieldIsRequired returns field required message
func FieldIsRequired(k ...string) string { return withSubject(requiredMsg, k...) }

// FieldIsEmpty returns field empty message
func FieldIsEmpty(k ...string) string { return withSubject(emptyMsg, k...) }

// FieldIsInvalid returns field invalid message
func FieldIsInvalid(k ...string) string { return withSubject(invalidMsg, k...) }

// Success returns success message
func Success(k ...string) string { return withSubject(successMsg, k...) }

// Failed returns failed message
func Failed(k ...string) string { return withSubject(failedMsg, k...) }

// AlreadyExist returns already exist message
func AlreadyExist(k ...string) string { return withSubject(existMsg, k...) }

// NotExist returns not exist message
func NotExist(k ...string) string { return withSubject(notExistMsg, k...) }

// NotPermitted returns not permitted message
func NotPermitted(k ...string) string { return withSubject(forbiddenMsg, k...) }
