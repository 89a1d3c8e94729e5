/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"time"
)

// QueryOptions configures how a store pages through multi-row results
type QueryOptions struct {
	PageSize     int32         // Rows per store page (default: 100)
	MaxRetries   int           // Retry attempts for throttling errors (default: 3)
	RetryBackoff time.Duration // Backoff between retries, multiplied by attempt (default: 200ms)
}

// QueryOption is a functional option for configuring multi-row queries
type QueryOption func(*QueryOptions)

// DefaultQueryOptions returns default query options
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{
		PageSize:     100,
		MaxRetries:   3,
		RetryBackoff: 200 * time.Millisecond,
	}
}

// ApplyQueryOptions returns the defaults with opts applied in order
func ApplyQueryOptions(opts ...QueryOption) QueryOptions {
	options := DefaultQueryOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// WithPageSize sets the store page size; non-positive values are ignored
func WithPageSize(size int32) QueryOption {
	return func(opts *QueryOptions) {
		if size > 0 {
			opts.PageSize = size
		}
	}
}

// WithMaxRetries sets the maximum retry attempts
func WithMaxRetries(retries int) QueryOption {
	return func(opts *QueryOptions) {
		if retries >= 0 {
			opts.MaxRetries = retries
		}
	}
}

// WithRetryBackoff sets the retry backoff duration
func WithRetryBackoff(backoff time.Duration) QueryOption {
	return func(opts *QueryOptions) {
		if backoff > 0 {
			opts.RetryBackoff = backoff
		}
	}
}
