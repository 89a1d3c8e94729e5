/*
Package storagemodels defines the data structures shared by the registry and its stores.

Key Types:

SubscriptionRecord:
One (message type, endpoint address) pair as persisted by a store:

	rec := SubscriptionRecord{
	    MessageType:     "Order.Created",
	    EndpointAddress: "queue://inbox/A",
	}

Row:
A named query result row keyed by column. Lookups read ColumnEndpointAddress from each row.

QueryOptions:
Paging and retry behavior for multi-row queries:

	opts := []QueryOption{
	    WithPageSize(25),
	    WithMaxRetries(3),
	    WithRetryBackoff(500 * time.Millisecond),
	}
*/
package storagemodels
