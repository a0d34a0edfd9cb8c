package model

import "fmt"

type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Param   string `json:"param"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// CapacityExceededError is returned when a batch would push an entity past its image limit.
type CapacityExceededError struct {
	Max       int
	Requested int
	Existing  int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("%d max, %d requested, %d existing", e.Max, e.Requested, e.Existing)
}

type ProcessingError struct {
	OriginalName string
	Err          error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("Failed to process image %s. File may be corrupted or not a valid image", e.OriginalName)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

type NotFoundError struct {
	Resource string
	Param    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

type ConflictError struct {
	Message string
	Param   string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// StorageError wraps a failed write or delete against the asset store.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
