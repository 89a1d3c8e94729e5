/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package busregistry

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/suparena/busregistry/datastore"
	"github.com/suparena/busregistry/errors"
	"github.com/suparena/busregistry/storagemodels"
)

// TracerName is the instrumentation name used for registry spans.
const TracerName = "github.com/suparena/busregistry"

// Span attribute keys.
const (
	AttrMessageType     = "bus.message_type"
	AttrEndpointAddress = "bus.endpoint_address"
	AttrDeferredCount   = "bus.deferred_count"
)

// BusConfiguration is what the bus runtime hands the registry at startup.
type BusConfiguration interface {
	// EndpointAddress is the work queue address of the local endpoint.
	EndpointAddress() string
}

// SubscriptionRegistry records which endpoints want which message types and
// answers subscriber lookups from a read-through cache.
//
// Registrations made before Bind are queued and replayed, in order, once the
// registry is bound. Lookups work in either state.
type SubscriptionRegistry struct {
	store     datastore.DataStore
	lifecycle lifecycle
	bindMu    sync.Mutex
	cache     *SubscriberCache
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// Option configures a SubscriptionRegistry.
type Option func(*options)

type options struct {
	logger         zerolog.Logger
	tracerProvider trace.TracerProvider
	cache          *SubscriberCache
}

// WithLogger sets the registry logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTracerProvider sets the provider for registry spans. The default is the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// WithSubscriberCache shares a cache with the registry, mostly for tests.
func WithSubscriberCache(cache *SubscriberCache) Option {
	return func(o *options) {
		o.cache = cache
	}
}

// New creates an unbound registry over store.
func New(store datastore.DataStore, opts ...Option) (*SubscriptionRegistry, error) {
	if store == nil {
		return nil, errors.NewInvalidArgumentError("store", "subscription store is required")
	}

	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tracerProvider == nil {
		o.tracerProvider = otel.GetTracerProvider()
	}
	if o.cache == nil {
		o.cache = NewSubscriberCache()
	}

	return &SubscriptionRegistry{
		store:  store,
		cache:  o.cache,
		logger: o.logger.With().Str("component", "subscription-registry").Logger(),
		tracer: o.tracerProvider.Tracer(TracerName),
	}, nil
}

// Initialize is the bus runtime entry point: it reads the local endpoint address
// from cfg and binds the registry to it.
func (r *SubscriptionRegistry) Initialize(ctx context.Context, cfg BusConfiguration) error {
	if cfg == nil {
		return errors.NewInvalidArgumentError("configuration", "bus configuration is required")
	}
	return r.Bind(ctx, cfg.EndpointAddress())
}

// Bind checks that the store is provisioned, records endpointAddress and unlocks
// persistence. Deferred registrations are then replayed in the order they arrived.
//
// If the store check fails the registry stays unbound and keeps its queue.
// A second Bind returns ErrAlreadyBound. Replay failures are returned, but the
// registry remains bound and the queue is not replayed again.
func (r *SubscriptionRegistry) Bind(ctx context.Context, endpointAddress string) (err error) {
	if endpointAddress == "" {
		return errors.NewInvalidArgumentError("endpointAddress", "must not be empty")
	}

	r.bindMu.Lock()
	defer r.bindMu.Unlock()

	ctx, span := r.tracer.Start(ctx, "busregistry.bind",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String(AttrEndpointAddress, endpointAddress)),
	)
	defer func() { endSpan(span, err) }()

	if state, _, _ := r.lifecycle.snapshot(); state == StateBound {
		return errors.ErrAlreadyBound
	}

	n, err := r.store.ExecuteScalar(ctx, datastore.ExistsQuery())
	if err != nil {
		r.logger.Error().Err(err).Msg("subscription store health check failed")
		return errors.NewStoreAccessError("bind", string(datastore.QueryExists), err)
	}
	if n != 1 {
		r.logger.Error().Int("exists", n).Msg("subscription store not provisioned")
		return errors.NewStoreNotProvisionedError(storeName(r.store), n)
	}

	deferred, err := r.lifecycle.bind(endpointAddress)
	if err != nil {
		return err
	}
	span.SetAttributes(attribute.Int(AttrDeferredCount, len(deferred)))
	r.logger.Info().Str("endpoint", endpointAddress).Int("deferred", len(deferred)).Msg("registry bound")

	if len(deferred) == 0 {
		return nil
	}
	if err := r.persist(ctx, endpointAddress, deferred); err != nil {
		return fmt.Errorf("replaying deferred registrations: %w", err)
	}
	r.logger.Info().Int("count", len(deferred)).Msg("deferred registrations replayed")
	return nil
}

// Register subscribes the local endpoint to each message type. While unbound the
// names are queued; once bound each one is persisted. Every name is attempted and
// all failures are returned together. An empty call is a no-op.
func (r *SubscriptionRegistry) Register(ctx context.Context, messageTypes ...string) error {
	for _, mt := range messageTypes {
		if mt == "" {
			return errors.NewInvalidArgumentError("messageType", "must not be empty")
		}
	}
	if len(messageTypes) == 0 {
		return nil
	}

	address, bound := r.lifecycle.deferOrAddress(messageTypes)
	if !bound {
		r.logger.Debug().Strs("messageTypes", messageTypes).Msg("registration deferred until bind")
		return nil
	}
	return r.persist(ctx, address, messageTypes)
}

// persist issues one subscribe per message type. Failures do not stop later names.
func (r *SubscriptionRegistry) persist(ctx context.Context, address string, messageTypes []string) (err error) {
	ctx, span := r.tracer.Start(ctx, "busregistry.register",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String(AttrEndpointAddress, address),
			attribute.StringSlice(AttrMessageType, messageTypes),
		),
	)
	defer func() { endSpan(span, err) }()

	var errs []error
	for _, mt := range messageTypes {
		if execErr := r.store.Execute(ctx, datastore.SubscribeQuery(mt, address)); execErr != nil {
			r.logger.Error().Err(execErr).Str("messageType", mt).Msg("failed to persist subscription")
			errs = append(errs, errors.NewStoreAccessError("register "+mt, string(datastore.QuerySubscribe), execErr))
			continue
		}
		r.logger.Debug().Str("messageType", mt).Str("endpoint", address).Msg("subscription persisted")
	}
	return stderrors.Join(errs...)
}

// Lookup returns the endpoint addresses subscribed to messageType. The store is
// queried at most once per message type; after that the cached list is returned
// even if new subscriptions have been persisted since.
func (r *SubscriptionRegistry) Lookup(ctx context.Context, messageType string) ([]string, error) {
	if messageType == "" {
		return nil, errors.NewInvalidArgumentError("messageType", "must not be empty")
	}

	addrs, loaded, err := r.cache.GetOrLoad(ctx, messageType, r.loadSubscribers)
	if err != nil {
		return nil, err
	}
	if !loaded {
		r.logger.Debug().Str("messageType", messageType).Msg("subscriber cache hit")
	}
	return addrs, nil
}

func (r *SubscriptionRegistry) loadSubscribers(ctx context.Context, messageType string) (addrs []string, err error) {
	ctx, span := r.tracer.Start(ctx, "busregistry.lookup",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String(AttrMessageType, messageType)),
	)
	defer func() { endSpan(span, err) }()

	rows, err := r.store.QueryRows(ctx, datastore.AddressesByTypeQuery(messageType))
	if err != nil {
		r.logger.Error().Err(err).Str("messageType", messageType).Msg("failed to load subscribers")
		return nil, errors.NewStoreAccessError("lookup "+messageType, string(datastore.QueryAddressesByType), err)
	}

	addrs = make([]string, 0, len(rows))
	for _, row := range rows {
		addr, ok := row[storagemodels.ColumnEndpointAddress]
		if !ok || addr == "" {
			r.logger.Warn().Str("messageType", messageType).Msg("subscriber row without endpoint address")
			continue
		}
		addrs = append(addrs, addr)
	}

	r.logger.Debug().Str("messageType", messageType).Int("subscribers", len(addrs)).Msg("subscriber cache filled")
	return addrs, nil
}

// State reports whether the registry has been bound.
func (r *SubscriptionRegistry) State() State {
	state, _, _ := r.lifecycle.snapshot()
	return state
}

// EndpointAddress returns the bound address, or "" while unbound.
func (r *SubscriptionRegistry) EndpointAddress() string {
	_, address, _ := r.lifecycle.snapshot()
	return address
}

// Deferred returns a snapshot of the registrations waiting for Bind.
func (r *SubscriptionRegistry) Deferred() []string {
	_, _, deferred := r.lifecycle.snapshot()
	return deferred
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func storeName(store datastore.DataStore) string {
	if named, ok := store.(interface{ Name() string }); ok {
		return named.Name()
	}
	return fmt.Sprintf("%T", store)
}
