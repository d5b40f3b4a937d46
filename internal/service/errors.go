package service

import (
	"context"
	"errors"
	"fmt"

	"booking-service/internal/ledger"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already in use")
	ErrNameUnchanged      = errors.New("name is unchanged")
)

// StoreError is an infrastructure failure while reading or writing the
// ledger. The operation it wraps was not applied and is never retried here.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

func storeError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// rejection aborts a ledger transaction with a typed reason.
type rejection struct {
	reason ledger.Reason
}

func (r rejection) Error() string {
	return "rejected: " + string(r.reason)
}

func reject(reason ledger.Reason) error {
	return rejection{reason: reason}
}

func asRejection(err error) (ledger.Reason, bool) {
	var r rejection
	if errors.As(err, &r) {
		return r.reason, true
	}
	return "", false
}
