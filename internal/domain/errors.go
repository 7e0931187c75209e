package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrItemNotFound signals a missing menu item.
	ErrItemNotFound = errors.New("item not found")
	// ErrInvalidItem signals a menu item that fails validation.
	ErrInvalidItem = errors.New("invalid menu item")
	// ErrEmptyQuery signals a blank chat message.
	ErrEmptyQuery = errors.New("empty query")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrPhraseProviderError signals a phrase extraction provider failure.
	ErrPhraseProviderError = errors.New("phrase provider error")
)

// ItemValidationError describes why a seeded item was rejected.
type ItemValidationError struct {
	Name   string
	Reason string
}

func (e *ItemValidationError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrInvalidItem.Error(), e.Name, e.Reason)
}

func (e *ItemValidationError) Unwrap() error { return ErrInvalidItem }

// NewItemValidation creates an item validation error.
func NewItemValidation(name, reason string) error {
	return &ItemValidationError{Name: name, Reason: reason}
}
