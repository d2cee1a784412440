// Package ddb provides a DynamoDB backed implementation of the core.Map
// backing-map contract. Sessions are marshalled with the attributevalue codec
// into a table keyed by the session id; Range walks the table with a paginated
// Scan. Suited to deployments that already keep agent state in DynamoDB and
// want sessions alongside it.
package ddb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/hupe1980/agentsession/core"
)

// AttrSessionID is the partition key attribute of the sessions table.
const AttrSessionID = "session_id"

// Map is a core.Map backed by a DynamoDB table whose partition key is the
// session id (string, no sort key). Concurrency safety is provided by
// DynamoDB; the value is cheap to share across stores.
type Map struct {
	client    Client
	tableName string
}

// New wraps the client and table name into a backing map.
func New(client Client, tableName string) *Map {
	return &Map{client: client, tableName: tableName}
}

// Get fetches and unmarshals the session for the id.
func (m *Map) Get(ctx context.Context, sessionID string) (*core.Session, bool, error) {
	out, err := m.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(m.tableName),
		Key: map[string]types.AttributeValue{
			AttrSessionID: &types.AttributeValueMemberS{Value: sessionID},
		},
	})
	if err != nil {
		return nil, false, fmt.Errorf("get session %q: %w", sessionID, err)
	}

	if out.Item == nil {
		return nil, false, nil
	}

	var sess core.Session
	if err := attributevalue.UnmarshalMap(out.Item, &sess); err != nil {
		return nil, false, fmt.Errorf("unmarshal session %q: %w", sessionID, err)
	}

	return &sess, true, nil
}

// Set marshals and writes the session.
func (m *Map) Set(ctx context.Context, s *core.Session) error {
	item, err := attributevalue.MarshalMap(s)
	if err != nil {
		return fmt.Errorf("marshal session %q: %w", s.ID, err)
	}

	_, err = m.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(m.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put session %q: %w", s.ID, err)
	}

	return nil
}

// Delete removes the item; missing items are a no-op.
func (m *Map) Delete(ctx context.Context, sessionID string) error {
	_, err := m.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(m.tableName),
		Key: map[string]types.AttributeValue{
			AttrSessionID: &types.AttributeValueMemberS{Value: sessionID},
		},
	})
	if err != nil {
		return fmt.Errorf("delete session %q: %w", sessionID, err)
	}
	return nil
}

// Range scans the whole table page by page, stopping early when fn returns
// false. Items written or deleted mid-scan may or may not be observed,
// matching DynamoDB Scan semantics.
func (m *Map) Range(ctx context.Context, fn func(*core.Session) bool) error {
	var startKey map[string]types.AttributeValue
	for {
		out, err := m.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(m.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return fmt.Errorf("scan sessions: %w", err)
		}

		for _, item := range out.Items {
			var sess core.Session
			if err := attributevalue.UnmarshalMap(item, &sess); err != nil {
				return fmt.Errorf("unmarshal scanned session: %w", err)
			}
			if !fn(&sess) {
				return nil
			}
		}

		if out.LastEvaluatedKey == nil {
			return nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// Len counts the items in the table using COUNT scans.
func (m *Map) Len(ctx context.Context) (int, error) {
	var n int
	var startKey map[string]types.AttributeValue
	for {
		out, err := m.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(m.tableName),
			Select:            types.SelectCount,
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return 0, fmt.Errorf("count sessions: %w", err)
		}

		n += int(out.Count)

		if out.LastEvaluatedKey == nil {
			return n, nil
		}
		startKey = out.LastEvaluatedKey
	}
}
