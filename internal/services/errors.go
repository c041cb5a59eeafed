// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/stationeryhq/ledger/internal/database"
	"github.com/stationeryhq/ledger/internal/utils"
)

// ErrNotReady is returned while the storage client is still initializing.
var ErrNotReady = database.ErrNotReady

// ValidationError means the caller sent a malformed request.
type ValidationError struct {
	Fields []utils.ValidationError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func newValidationError(field, tag, message string) *ValidationError {
	return &ValidationError{Fields: []utils.ValidationError{{Field: field, Tag: tag, Message: message}}}
}

// NotFoundError means a referenced identifier does not exist.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// InsufficientStockError rejects a sale larger than the stock on hand.
type InsufficientStockError struct {
	ProductID uint
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// ConflictError means the request is valid but clashes with current state.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// StorageError wraps a persistence fault. The caller may retry.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// storageError wraps err unless it is already one of the domain errors.
func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		validationErr *ValidationError
		notFoundErr   *NotFoundError
		stockErr      *InsufficientStockError
		conflictErr   *ConflictError
		storageErr    *StorageError
	)
	switch {
	case errors.Is(err, ErrNotReady),
		errors.As(err, &validationErr),
		errors.As(err, &notFoundErr),
		errors.As(err, &stockErr),
		errors.As(err, &conflictErr),
		errors.As(err, &storageErr):
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// notFoundOr maps gorm.ErrRecordNotFound to a NotFoundError.
func notFoundOr(op, resource string, id uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Resource: resource, ID: id}
	}
	return storageError(op, err)
}

// IsRetriable reports whether err is a storage fault rather than a bad request.
func IsRetriable(err error) bool {
	var storageErr *StorageError
	return errors.As(err, &storageErr) || errors.Is(err, ErrNotReady)
}
