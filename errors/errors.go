/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrInvalidArgument is returned when a required parameter is missing or empty
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStoreNotProvisioned is returned when the store health check does not report the subscription schema
	ErrStoreNotProvisioned = errors.New("subscription store not provisioned")

	// ErrStoreAccess is returned when the underlying store fails a persist or query operation
	ErrStoreAccess = errors.New("subscription store access failed")

	// ErrAlreadyBound is returned when Bind is called on a registry that is already bound
	ErrAlreadyBound = errors.New("registry already bound")

	// ErrUnknownQuery is returned when a store is asked to run a query name it does not know
	ErrUnknownQuery = errors.New("unknown query")
)

// InvalidArgumentError represents a missing or empty parameter at a public entry point
type InvalidArgumentError struct {
	Param   string
	Message string
}

func (e *InvalidArgumentError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("invalid argument %q: %s", e.Param, e.Message)
	}
	return fmt.Sprintf("invalid argument: %s", e.Message)
}

func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// StoreNotProvisionedError carries the value the health check actually returned
type StoreNotProvisionedError struct {
	Store string
	Got   int
}

func (e *StoreNotProvisionedError) Error() string {
	return fmt.Sprintf("%s store is not provisioned for subscriptions: exists check returned %d, want 1", e.Store, e.Got)
}

func (e *StoreNotProvisionedError) Is(target error) bool {
	return target == ErrStoreNotProvisioned
}

// StoreAccessError wraps a failure surfaced by the store during a named operation
type StoreAccessError struct {
	Op    string
	Query string
	Err   error
}

func (e *StoreAccessError) Error() string {
	if e.Query != "" {
		return fmt.Sprintf("%s failed running %s: %v", e.Op, e.Query, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *StoreAccessError) Is(target error) bool {
	return target == ErrStoreAccess
}

func (e *StoreAccessError) Unwrap() error {
	return e.Err
}

// Helper functions for creating errors

// NewInvalidArgumentError creates a new InvalidArgumentError
func NewInvalidArgumentError(param, message string) error {
	return &InvalidArgumentError{Param: param, Message: message}
}

// NewStoreNotProvisionedError creates a new StoreNotProvisionedError
func NewStoreNotProvisionedError(store string, got int) error {
	return &StoreNotProvisionedError{Store: store, Got: got}
}

// NewStoreAccessError creates a new StoreAccessError
func NewStoreAccessError(op, query string, err error) error {
	return &StoreAccessError{Op: op, Query: query, Err: err}
}

// IsInvalidArgument checks if an error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsStoreNotProvisioned checks if an error is a store not provisioned error
func IsStoreNotProvisioned(err error) bool {
	return errors.Is(err, ErrStoreNotProvisioned)
}

// IsStoreAccess checks if an error is a store access error
func IsStoreAccess(err error) bool {
	return errors.Is(err, ErrStoreAccess)
}

// IsAlreadyBound checks if an error is an already bound error
func IsAlreadyBound(err error) bool {
	return errors.Is(err, ErrAlreadyBound)
}

// IsUnknownQuery checks if an error is an unknown query error
func IsUnknownQuery(err error) bool {
	return errors.Is(err, ErrUnknownQuery)
}
