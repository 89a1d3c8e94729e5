/*
Package ddb provides a DynamoDB implementation of the datastore.DataStore interface.

Each subscription is one item in a single table, keyed through the index map
registered for storagemodels.SubscriptionRecord:

	indexMap := map[string]string{
	    "PK": "SUBSCRIPTION#{MessageType}",     // one partition per message type
	    "SK": "ENDPOINT#{EndpointAddress}",     // one item per subscriber
	}

Named operations map onto DynamoDB calls:
  - SubscriptionManager.Exists: DescribeTable; 1 when the table is active with a PK/SK key schema
  - SubscriptionManager.Subscribe: UpdateItem upsert, SubscribedAt set only on first write
  - SubscriptionManager.AddressesByType: consistent Query on the partition, all pages

Throttling errors on queries are retried with linear backoff:

	store, err := ddb.Open(ctx, accessKey, secretKey, region, "", table,
	    ddb.WithQueryOptions(
	        storagemodels.WithPageSize(50),
	        storagemodels.WithMaxRetries(5),
	    ),
	)

Provision creates the table with on-demand billing and waits for it to become active.
*/
package ddb
