/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-openapi/strfmt"
	"github.com/rs/zerolog"

	"github.com/suparena/busregistry/datastore"
	storeerrors "github.com/suparena/busregistry/errors"
	"github.com/suparena/busregistry/registry"
	"github.com/suparena/busregistry/storagemodels"
)

// StoreName identifies this backend in errors and logs.
const StoreName = "dynamodb"

// Client is the subset of the DynamoDB API used by the store. *dynamodb.Client satisfies it.
type Client interface {
	DescribeTable(ctx context.Context, params *sdk.DescribeTableInput, optFns ...func(*sdk.Options)) (*sdk.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *sdk.CreateTableInput, optFns ...func(*sdk.Options)) (*sdk.CreateTableOutput, error)
	UpdateItem(ctx context.Context, params *sdk.UpdateItemInput, optFns ...func(*sdk.Options)) (*sdk.UpdateItemOutput, error)
	Query(ctx context.Context, params *sdk.QueryInput, optFns ...func(*sdk.Options)) (*sdk.QueryOutput, error)
}

// DefaultIndexMap is the key layout of a subscription item.
// All subscribers of one message type share a partition.
var DefaultIndexMap = map[string]string{
	"PK": "SUBSCRIPTION#{MessageType}",
	"SK": "ENDPOINT#{EndpointAddress}",
}

func init() {
	registry.RegisterIndexMap[storagemodels.SubscriptionRecord](DefaultIndexMap)
}

// DynamodbDataStore implements datastore.DataStore using a single DynamoDB table.
type DynamodbDataStore struct {
	client    Client
	tableName string
	options   storagemodels.QueryOptions
	logger    zerolog.Logger
	now       func() time.Time
}

// Option configures a DynamodbDataStore.
type Option func(*DynamodbDataStore)

// WithQueryOptions sets paging and retry behavior for subscriber queries.
func WithQueryOptions(opts ...storagemodels.QueryOption) Option {
	return func(d *DynamodbDataStore) {
		for _, opt := range opts {
			opt(&d.options)
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(d *DynamodbDataStore) {
		d.logger = logger
	}
}

// WithClock overrides the time source used for SubscribedAt.
func WithClock(now func() time.Time) Option {
	return func(d *DynamodbDataStore) {
		d.now = now
	}
}

var macroPattern = regexp.MustCompile(`{([^}]+)}`)

func expandMacros(indexMap map[string]string, keysInput any) (map[string]string, error) {
	// Convert keysInput to a map of attribute values
	av, err := attributevalue.MarshalMap(keysInput)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal keysInput: %w", err)
	}

	res := make(map[string]string, len(indexMap))

	for fieldName, template := range indexMap {
		var missing []string
		expanded := macroPattern.ReplaceAllStringFunc(template, func(macro string) string {
			key := strings.Trim(macro, "{}")

			val, ok := av[key]
			if !ok {
				missing = append(missing, key)
				return ""
			}

			switch tv := val.(type) {
			case *types.AttributeValueMemberS:
				return tv.Value
			case *types.AttributeValueMemberN:
				return tv.Value
			case *types.AttributeValueMemberBOOL:
				return fmt.Sprintf("%v", tv.Value)
			default:
				// sets, binaries and nulls cannot be part of a key
				missing = append(missing, key)
				return ""
			}
		})
		if len(missing) > 0 {
			return nil, fmt.Errorf("index map field %s: no value for %s", fieldName, strings.Join(missing, ", "))
		}
		res[fieldName] = expanded
	}

	return res, nil
}

// NewDynamoDBClient initializes a DynamoDB client. Static credentials are used when an
// access key is given, otherwise the default AWS credential chain. A non-empty endpoint
// points the client at DynamoDB Local or another compatible service.
func NewDynamoDBClient(ctx context.Context, awsAccessKey, awsSecretKey, awsRegion, endpoint string) (*sdk.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(awsRegion),
	}
	if awsAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(awsAccessKey, awsSecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return sdk.NewFromConfig(cfg, func(o *sdk.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

// NewDynamodbDataStore constructs a store over an existing client.
func NewDynamodbDataStore(client Client, tableName string, opts ...Option) (*DynamodbDataStore, error) {
	if client == nil {
		return nil, storeerrors.NewInvalidArgumentError("client", "DynamoDB client is required")
	}
	if tableName == "" {
		return nil, storeerrors.NewInvalidArgumentError("tableName", "table name is required")
	}

	d := &DynamodbDataStore{
		client:    client,
		tableName: tableName,
		options:   storagemodels.DefaultQueryOptions(),
		logger:    zerolog.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Open builds a client from credentials and wraps it in a store.
func Open(ctx context.Context, awsAccessKey, awsSecretKey, awsRegion, endpoint, tableName string, opts ...Option) (*DynamodbDataStore, error) {
	client, err := NewDynamoDBClient(ctx, awsAccessKey, awsSecretKey, awsRegion, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}

	d, err := NewDynamodbDataStore(client, tableName, opts...)
	if err != nil {
		return nil, err
	}
	d.logger.Debug().Str("table", tableName).Str("region", awsRegion).Msg("dynamodb store opened")
	return d, nil
}

// TableName returns the backing table.
func (d *DynamodbDataStore) TableName() string {
	return d.tableName
}

// ExecuteScalar answers the exists check: 1 when the table is usable with the expected key schema.
func (d *DynamodbDataStore) ExecuteScalar(ctx context.Context, q datastore.Query) (int, error) {
	if q.Name != datastore.QueryExists {
		return 0, fmt.Errorf("%s: %w: %s", StoreName, storeerrors.ErrUnknownQuery, q.Name)
	}

	out, err := d.client.DescribeTable(ctx, &sdk.DescribeTableInput{
		TableName: &d.tableName,
	})
	if err != nil {
		var nf *types.ResourceNotFoundException
		if errors.As(err, &nf) {
			return 0, nil
		}
		return 0, fmt.Errorf("DescribeTable error: %w", err)
	}
	if out.Table == nil || !hasSubscriptionKeySchema(out.Table.KeySchema) {
		return 0, nil
	}

	switch out.Table.TableStatus {
	case types.TableStatusActive, types.TableStatusUpdating:
		return 1, nil
	default:
		return 0, nil
	}
}

// Execute persists one subscription pair. The write is an upsert keyed on the pair,
// so SubscribedAt keeps the time of the first write.
func (d *DynamodbDataStore) Execute(ctx context.Context, q datastore.Query) error {
	if q.Name != datastore.QuerySubscribe {
		return fmt.Errorf("%s: %w: %s", StoreName, storeerrors.ErrUnknownQuery, q.Name)
	}

	messageType, err := q.Param(datastore.ParamMessageType)
	if err != nil {
		return err
	}
	address, err := q.Param(datastore.ParamEndpointAddress)
	if err != nil {
		return err
	}

	rec := storagemodels.SubscriptionRecord{
		MessageType:     messageType,
		EndpointAddress: address,
	}
	key, err := d.keyFor(rec)
	if err != nil {
		return err
	}

	updateExpr := "SET #mt = :mt, #ea = :ea, #sa = if_not_exists(#sa, :sa)"
	_, err = d.client.UpdateItem(ctx, &sdk.UpdateItemInput{
		TableName:        &d.tableName,
		Key:              key,
		UpdateExpression: &updateExpr,
		ExpressionAttributeNames: map[string]string{
			"#mt": storagemodels.ColumnMessageType,
			"#ea": storagemodels.ColumnEndpointAddress,
			"#sa": storagemodels.ColumnSubscribedAt,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":mt": &types.AttributeValueMemberS{Value: messageType},
			":ea": &types.AttributeValueMemberS{Value: address},
			":sa": &types.AttributeValueMemberS{Value: strfmt.DateTime(d.now().UTC()).String()},
		},
	})
	if err != nil {
		return fmt.Errorf("UpdateItem failed: %w", err)
	}

	d.logger.Debug().Str("messageType", messageType).Str("endpoint", address).Msg("subscription stored")
	return nil
}

// QueryRows returns every subscriber of a message type, following pagination.
func (d *DynamodbDataStore) QueryRows(ctx context.Context, q datastore.Query) ([]storagemodels.Row, error) {
	if q.Name != datastore.QueryAddressesByType {
		return nil, fmt.Errorf("%s: %w: %s", StoreName, storeerrors.ErrUnknownQuery, q.Name)
	}

	messageType, err := q.Param(datastore.ParamMessageType)
	if err != nil {
		return nil, err
	}

	// Only the partition key template matters for the query
	expanded, err := expandMacros(map[string]string{"PK": d.indexMap()["PK"]},
		storagemodels.SubscriptionRecord{MessageType: messageType})
	if err != nil {
		return nil, err
	}

	return d.queryPartition(ctx, expanded["PK"])
}

func (d *DynamodbDataStore) indexMap() map[string]string {
	indexMap, ok := registry.GetIndexMap[storagemodels.SubscriptionRecord]()
	if !ok {
		return DefaultIndexMap
	}
	return indexMap
}

// keyFor builds the primary key of a subscription item.
func (d *DynamodbDataStore) keyFor(rec storagemodels.SubscriptionRecord) (map[string]types.AttributeValue, error) {
	expanded, err := expandMacros(d.indexMap(), rec)
	if err != nil {
		return nil, err
	}
	return buildKeyFromExpanded(expanded)
}

// buildKeyFromExpanded builds a DynamoDB key from the expanded index map.
// It assumes that the expanded map has valid non-empty values for "PK" and "SK".
func buildKeyFromExpanded(expanded map[string]string) (map[string]types.AttributeValue, error) {
	pk, okPK := expanded["PK"]
	sk, okSK := expanded["SK"]

	if !okPK || !okSK || pk == "" || sk == "" {
		return nil, fmt.Errorf("expanded index map missing valid PK or SK")
	}

	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}, nil
}

func hasSubscriptionKeySchema(schema []types.KeySchemaElement) bool {
	var hash, rng bool
	for _, el := range schema {
		switch {
		case aws.ToString(el.AttributeName) == "PK" && el.KeyType == types.KeyTypeHash:
			hash = true
		case aws.ToString(el.AttributeName) == "SK" && el.KeyType == types.KeyTypeRange:
			rng = true
		}
	}
	return hash && rng
}

var _ datastore.DataStore = (*DynamodbDataStore)(nil)
var _ datastore.Provisioner = (*DynamodbDataStore)(nil)

// Name identifies the backend.
func (d *DynamodbDataStore) Name() string {
	return StoreName
}
