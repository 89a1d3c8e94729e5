/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package busregistry

import (
	"context"
	"reflect"

	"github.com/suparena/busregistry/errors"
	"github.com/suparena/busregistry/registry"
)

// RegisterType registers the message type described by t.
func (r *SubscriptionRegistry) RegisterType(ctx context.Context, t reflect.Type) error {
	return r.RegisterTypes(ctx, t)
}

// RegisterTypes registers every message type in types, in order.
func (r *SubscriptionRegistry) RegisterTypes(ctx context.Context, types ...reflect.Type) error {
	names := make([]string, 0, len(types))
	for _, t := range types {
		if t == nil {
			return errors.NewInvalidArgumentError("messageType", "type descriptor must not be nil")
		}
		names = append(names, registry.TypeName(t))
	}
	return r.Register(ctx, names...)
}

// RegisterMessage registers the dynamic type of each message.
func (r *SubscriptionRegistry) RegisterMessage(ctx context.Context, messages ...any) error {
	types := make([]reflect.Type, 0, len(messages))
	for _, msg := range messages {
		types = append(types, reflect.TypeOf(msg))
	}
	return r.RegisterTypes(ctx, types...)
}

// RegisterFor registers message type T with r.
func RegisterFor[T any](ctx context.Context, r *SubscriptionRegistry) error {
	return r.Register(ctx, registry.NameOf[T]())
}

// LookupMessage returns the subscribers of msg's dynamic type.
func (r *SubscriptionRegistry) LookupMessage(ctx context.Context, msg any) ([]string, error) {
	if msg == nil {
		return nil, errors.NewInvalidArgumentError("message", "must not be nil")
	}
	return r.Lookup(ctx, registry.NameOfValue(msg))
}

// LookupFor returns the subscribers of message type T.
func LookupFor[T any](ctx context.Context, r *SubscriptionRegistry) ([]string, error) {
	return r.Lookup(ctx, registry.NameOf[T]())
}
