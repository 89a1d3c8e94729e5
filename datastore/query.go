/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"fmt"

	"github.com/suparena/busregistry/storagemodels"
)

// QueryName identifies a named store operation.
type QueryName string

// Named operations consumed by the registry.
const (
	// QueryExists returns 1 when the subscription schema is provisioned.
	QueryExists QueryName = "SubscriptionManager.Exists"
	// QuerySubscribe persists one (MessageType, EndpointAddress) pair.
	QuerySubscribe QueryName = "SubscriptionManager.Subscribe"
	// QueryAddressesByType selects every EndpointAddress subscribed to MessageType.
	QueryAddressesByType QueryName = "SubscriptionManager.AddressesByType"
	// QueryCreate creates the subscription schema. Used by Provision only.
	QueryCreate QueryName = "SubscriptionManager.Create"
)

// Parameter names carried by Query.Params.
const (
	ParamMessageType     = storagemodels.ColumnMessageType
	ParamEndpointAddress = storagemodels.ColumnEndpointAddress
)

// Query is a named operation plus its parameters. The registry never builds query text.
type Query struct {
	Name   QueryName
	Params map[string]string
}

func (q Query) String() string {
	return string(q.Name)
}

// Param returns a required parameter or an error naming the missing one.
func (q Query) Param(name string) (string, error) {
	v, ok := q.Params[name]
	if !ok || v == "" {
		return "", fmt.Errorf("query %s: missing parameter %q", q.Name, name)
	}
	return v, nil
}

// ExistsQuery builds the health check query.
func ExistsQuery() Query {
	return Query{Name: QueryExists}
}

// SubscribeQuery builds the persist query for one pair.
func SubscribeQuery(messageType, endpointAddress string) Query {
	return Query{
		Name: QuerySubscribe,
		Params: map[string]string{
			ParamMessageType:     messageType,
			ParamEndpointAddress: endpointAddress,
		},
	}
}

// AddressesByTypeQuery builds the subscriber select for one message type.
func AddressesByTypeQuery(messageType string) Query {
	return Query{
		Name: QueryAddressesByType,
		Params: map[string]string{
			ParamMessageType: messageType,
		},
	}
}
