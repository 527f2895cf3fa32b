package core

import (
	"errors"
	"fmt"

	"github.com/git-pkgs/disttag/client"
)

var (
	// ErrNotFound is returned when a package, its dist-tags, or a tag does
	// not exist.
	ErrNotFound = client.ErrNotFound

	// ErrInvalidWrite is returned when a tag set cannot be persisted.
	ErrInvalidWrite = errors.New("invalid dist-tag write")
)

// UsageError reports missing or malformed arguments. Its message is the
// usage text.
type UsageError struct {
	Usage string
}

func (e *UsageError) Error() string {
	return e.Usage
}

// ValidationError reports input that is well formed but not acceptable.
type ValidationError struct {
	Msg string
	Err error
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NoTagsError is returned when a registry document carries no dist-tags.
type NoTagsError struct {
	Name string
}

func (e *NoTagsError) Error() string {
	return "No dist-tags found for " + e.Name
}

func (e *NoTagsError) Unwrap() error {
	return ErrNotFound
}

// NotATagError is returned when removing a tag the package does not have.
type NotATagError struct {
	Tag  string
	Name string
}

func (e *NotATagError) Error() string {
	return fmt.Sprintf("%s is not a dist-tag on %s", e.Tag, e.Name)
}

func (e *NotATagError) Unwrap() error {
	return ErrNotFound
}

// RegistryError is returned when the registry accepts a write at the HTTP
// level but reports an error in the response body.
type RegistryError struct {
	Body string
}

func (e *RegistryError) Error() string {
	return "Failed to update package metadata: " + e.Body
}
