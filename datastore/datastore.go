/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/busregistry/storagemodels"
)

// DataStore is the narrow store contract the subscription registry consumes.
// Implementations resolve query names to their own native operations.
type DataStore interface {
	// ExecuteScalar runs a query that yields a single integer.
	ExecuteScalar(ctx context.Context, q Query) (int, error)

	// Execute runs a query that yields no rows.
	Execute(ctx context.Context, q Query) error

	// QueryRows runs a query and returns every result row in store order.
	QueryRows(ctx context.Context, q Query) ([]storagemodels.Row, error)
}

// Provisioner is implemented by stores that can create their own subscription schema.
type Provisioner interface {
	Provision(ctx context.Context) error
}
