package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

// UpstreamError is a non-2xx reply from the remote CRM API.
type UpstreamError struct {
	Status int
	Method string
	Path   string
	Body   string
}

func (e *UpstreamError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	if body == "" {
		return fmt.Sprintf("upstream %s %s: status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("upstream %s %s: status %d: %s", e.Method, e.Path, e.Status, body)
}

// ClassifyUpstream wraps an upstream error in the matching domain error.
func ClassifyUpstream(resource string, err *UpstreamError) error {
	switch err.Status {
	case http.StatusNotFound:
		return NotFoundError{Resource: resource, Err: err}
	case http.StatusConflict:
		return ConflictError{Resource: resource, Msg: "already exists", Err: err}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ValidationError{Field: resource, Msg: "rejected by api", Err: err}
	default:
		return err
	}
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

func IsUpstream(err error) bool {
	var target *UpstreamError
	return errors.As(err, &target)
}

// UpstreamStatus returns the HTTP status carried by err, or 0.
func UpstreamStatus(err error) int {
	var target *UpstreamError
	if errors.As(err, &target) {
		return target.Status
	}
	return 0
}
