package service

import (
	"errors"
	"fmt"

	"github.com/javiator/tenant-management/internal/repository"
)

var (
	// ErrNotFound matches every *NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrConflict matches every *ConflictError.
	ErrConflict = errors.New("conflict")
)

// NotFoundError names the missing resource, which may be the one addressed
// by the request or one it references.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ConflictError is returned when a row cannot be deleted while transactions reference it.
type ConflictError struct {
	Resource   string
	ID         uint
	References int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %d is referenced by %d transaction(s)", e.Resource, e.ID, e.References)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// notFound converts repository.ErrNotFound into a *NotFoundError for the resource.
func notFound(err error, resource string, id uint) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Resource: resource, ID: id}
	}
	return err
}
