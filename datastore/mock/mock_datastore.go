/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides an in-memory implementation of datastore.DataStore for testing
package mock

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/suparena/busregistry/datastore"
	"github.com/suparena/busregistry/errors"
	"github.com/suparena/busregistry/storagemodels"
)

// Call records one operation issued against the mock
type Call struct {
	Method string
	Query  datastore.Query
}

// DataStore is an in-memory datastore.DataStore that records every call
type DataStore struct {
	mu          sync.RWMutex
	records     []storagemodels.SubscriptionRecord
	calls       []Call
	existsValue int
	queryFunc   func(ctx context.Context, q datastore.Query) ([]storagemodels.Row, error)
	scalarError error
	execError   error
	queryError  error
}

// New creates a new mock DataStore whose exists check reports a provisioned schema
func New() *DataStore {
	return &DataStore{
		existsValue: 1,
	}
}

// WithExistsValue sets the value returned by the exists check
func (m *DataStore) WithExistsValue(v int) *DataStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.existsValue = v
	return m
}

// WithQueryFunc sets a custom QueryRows implementation for testing
func (m *DataStore) WithQueryFunc(f func(ctx context.Context, q datastore.Query) ([]storagemodels.Row, error)) *DataStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryFunc = f
	return m
}

// WithScalarError makes ExecuteScalar return an error
func (m *DataStore) WithScalarError(err error) *DataStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scalarError = err
	return m
}

// WithExecError makes Execute return an error
func (m *DataStore) WithExecError(err error) *DataStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.execError = err
	return m
}

// WithQueryError makes QueryRows return an error
func (m *DataStore) WithQueryError(err error) *DataStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryError = err
	return m
}

// ExecuteScalar answers the exists check
func (m *DataStore) ExecuteScalar(ctx context.Context, q datastore.Query) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Method: "ExecuteScalar", Query: q})

	if m.scalarError != nil {
		return 0, m.scalarError
	}
	if q.Name != datastore.QueryExists {
		return 0, fmt.Errorf("mock: %w: %s", errors.ErrUnknownQuery, q.Name)
	}
	return m.existsValue, nil
}

// Execute persists a subscription pair; persisting an existing pair is a no-op
func (m *DataStore) Execute(ctx context.Context, q datastore.Query) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Method: "Execute", Query: q})

	if m.execError != nil {
		return m.execError
	}
	if q.Name != datastore.QuerySubscribe {
		return fmt.Errorf("mock: %w: %s", errors.ErrUnknownQuery, q.Name)
	}

	messageType, err := q.Param(datastore.ParamMessageType)
	if err != nil {
		return err
	}
	address, err := q.Param(datastore.ParamEndpointAddress)
	if err != nil {
		return err
	}

	rec := storagemodels.SubscriptionRecord{MessageType: messageType, EndpointAddress: address}
	if !slices.Contains(m.records, rec) {
		m.records = append(m.records, rec)
	}
	return nil
}

// QueryRows returns the subscribers of a message type in insertion order
func (m *DataStore) QueryRows(ctx context.Context, q datastore.Query) ([]storagemodels.Row, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{Method: "QueryRows", Query: q})
	queryFunc := m.queryFunc
	queryError := m.queryError
	m.mu.Unlock()

	// Hooks run unlocked so tests can block inside them
	if queryFunc != nil {
		return queryFunc(ctx, q)
	}
	if queryError != nil {
		return nil, queryError
	}
	if q.Name != datastore.QueryAddressesByType {
		return nil, fmt.Errorf("mock: %w: %s", errors.ErrUnknownQuery, q.Name)
	}

	messageType, err := q.Param(datastore.ParamMessageType)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := make([]storagemodels.Row, 0)
	for _, rec := range m.records {
		if rec.MessageType == messageType {
			rows = append(rows, storagemodels.Row{
				storagemodels.ColumnMessageType:     rec.MessageType,
				storagemodels.ColumnEndpointAddress: rec.EndpointAddress,
			})
		}
	}
	return rows, nil
}

// Helper methods for testing

// SetRecords directly replaces the stored subscriptions (for testing)
func (m *DataStore) SetRecords(records ...storagemodels.SubscriptionRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = slices.Clone(records)
}

// Records returns a copy of the stored subscriptions
func (m *DataStore) Records() []storagemodels.SubscriptionRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.records)
}

// Calls returns a copy of every recorded call in order
func (m *DataStore) Calls() []Call {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.calls)
}

// CallCount returns how many calls were made to method
func (m *DataStore) CallCount(method string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, c := range m.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// ResetCalls clears the call log but keeps the stored data
func (m *DataStore) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

var _ datastore.DataStore = (*DataStore)(nil)

// Name identifies the backend
func (m *DataStore) Name() string {
	return "mock"
}
