package query

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrParse        = errors.New("parse error")
	ErrUnknownTable = errors.New("unknown table")
	ErrIO           = errors.New("io failure")
	ErrLockConflict = errors.New("lock conflict")
)

// QueryError carries the message returned to the caller, the response status
// and the failure class (one of the Err* sentinels).
type QueryError struct {
	msg    string
	status int
	kind   error
	cause  error
}

func NewQueryError(status int, msg string) *QueryError {
	return &QueryError{msg: msg, status: status}
}

func (e QueryError) Error() string { return e.msg }
func (e QueryError) Status() int   { return e.status }

func (e QueryError) Unwrap() []error {
	errs := []error{}
	if e.kind != nil {
		errs = append(errs, e.kind)
	}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

func NewParseError(format string, args ...any) *QueryError {
	return &QueryError{
		msg:    fmt.Sprintf(format, args...),
		status: http.StatusBadRequest,
		kind:   ErrParse,
	}
}

func NewUnknownTableError(table string) *QueryError {
	return &QueryError{
		msg:    fmt.Sprintf("Table %s not found", table),
		status: http.StatusNotFound,
		kind:   ErrUnknownTable,
	}
}

func NewIOError(cause error, format string, args ...any) *QueryError {
	return &QueryError{
		msg:    fmt.Sprintf(format, args...) + ": " + cause.Error(),
		status: http.StatusInternalServerError,
		kind:   ErrIO,
		cause:  cause,
	}
}

func NewLockConflictError(table string, cause error) *QueryError {
	return &QueryError{
		msg:    fmt.Sprintf("Table %s is locked by another writer", table),
		status: http.StatusConflict,
		kind:   ErrLockConflict,
		cause:  cause,
	}
}

// AsQueryError converts any error into a QueryError; unknown errors become
// I/O failures since every other class is raised explicitly.
func AsQueryError(err error) *QueryError {
	var query_error *QueryError
	if errors.As(err, &query_error) {
		return query_error
	}
	return NewIOError(err, "internal error")
}
