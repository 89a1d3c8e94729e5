/*
Package datastore defines the store contract behind the subscription registry.

The registry only ever issues three named operations against a DataStore:

	type DataStore interface {
	    ExecuteScalar(ctx context.Context, q Query) (int, error)
	    Execute(ctx context.Context, q Query) error
	    QueryRows(ctx context.Context, q Query) ([]storagemodels.Row, error)
	}

	store.ExecuteScalar(ctx, ExistsQuery())                     // 1 when provisioned
	store.Execute(ctx, SubscribeQuery("Order.Created", addr))   // persist one pair
	store.QueryRows(ctx, AddressesByTypeQuery("Order.Created")) // subscribers

Implementations:
  - ddb: DynamoDB, one item per pair keyed by message type and endpoint address
  - sqlstore: SQLite through database/sql, query text supplied by a ScriptProvider
  - mock: In-memory store with call recording for tests

Persistence is upsert in every implementation, so registering the same pair twice
leaves a single row.
*/
package datastore
