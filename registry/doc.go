/*
Package registry resolves message type names and record key layouts.

Type Names:
Message types are identified by the fully-qualified name of their Go type,
so a registration from one service matches lookups from another:

	registry.NameOf[orders.Created]()            // "example.com/shop/orders.Created"
	registry.NameOfValue(&orders.Created{})      // same; pointers resolve to the element
	registry.RegisterTypeName[orders.Created]("Order.Created")

A pinned name replaces the reflected one everywhere, which keeps names stable
across package moves.

Index Map Registry:
Associates record types with store key patterns:

	registry.RegisterIndexMap[storagemodels.SubscriptionRecord](map[string]string{
	    "PK": "SUBSCRIPTION#{MessageType}",
	    "SK": "ENDPOINT#{EndpointAddress}",
	})

Both registries are thread-safe and are normally populated during initialization.
*/
package registry
