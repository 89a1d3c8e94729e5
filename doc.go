/*
Package busregistry keeps track of which message bus endpoints subscribe to
which message types.

A SubscriptionRegistry starts out unbound. Registrations made in that state are
queued in memory. When the bus runtime supplies the local endpoint address via
Initialize or Bind, the registry checks that the subscription store is
provisioned, switches to the bound state and replays the queue in arrival order.
From then on every registration is written through to the store.

Lookups return the endpoint addresses subscribed to a message type. They are
answered from a read-through cache that queries the store at most once per
message type for the life of the process.

Storage backends implement datastore.DataStore; this module ships DynamoDB
(datastore/ddb), SQLite (datastore/sqlstore) and an in-memory mock
(datastore/mock).

Basic Usage:

	store, _ := sqlstore.Open("subscriptions.db")
	_ = store.Provision(ctx)

	reg, _ := busregistry.New(store, busregistry.WithLogger(logger))
	_ = reg.Register(ctx, "Orders.OrderPlaced")
	_ = reg.Bind(ctx, "queue://inbox/orders")

	addrs, _ := reg.Lookup(ctx, "Orders.OrderPlaced")
*/
package busregistry
