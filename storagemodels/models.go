/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

// SubscriptionRecord is one endpoint's interest in one message type.
// Records are created by the registry's write path and never updated by it.
type SubscriptionRecord struct {
	// MessageType is the fully-qualified message type name.
	MessageType string `json:"messageType" dynamodbav:"MessageType"`
	// EndpointAddress is the work queue address of the subscribed endpoint.
	EndpointAddress string `json:"endpointAddress" dynamodbav:"EndpointAddress"`
	// SubscribedAt is an RFC3339 timestamp set by the store when the row is first written.
	SubscribedAt string `json:"subscribedAt,omitempty" dynamodbav:"SubscribedAt,omitempty"`
}

// Row is one result row of a named query, keyed by column name.
type Row map[string]string

// Column names shared by every store implementation.
const (
	ColumnMessageType     = "MessageType"
	ColumnEndpointAddress = "EndpointAddress"
	ColumnSubscribedAt    = "SubscribedAt"
)
