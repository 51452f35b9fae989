// Package cassandra implements the Guardian event store. Moderation events
// are appended to the event table, one row per decision, never updated.
package cassandra

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
	retry "github.com/sethvargo/go-retry"

	"github.com/SharedCode/guardian"
)

type eventStore struct{}

// NewEventStore manages ModerationEvents in the Cassandra event table.
// OpenConnection must have been called beforehand.
func NewEventStore() guardian.EventStore {
	return &eventStore{}
}

// Append writes one event row. CreatedAt is assigned here, server side, and
// the ID is assigned when the caller left it zero. Transient write failures
// are retried with backoff before giving up.
func (es *eventStore) Append(ctx context.Context, event *guardian.ModerationEvent) error {
	if connection == nil {
		return fmt.Errorf("Cassandra connection is not open")
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.CreatedAt = time.Now().UTC()

	insertStatement := fmt.Sprintf(
		"INSERT INTO %s.event (child_id, created_at, id, parent_id, url, decision, severity, score, category) VALUES(?,?,?,?,?,?,?,?,?);",
		connection.Config.Keyspace)

	return guardian.Retry(ctx, func(ctx context.Context) error {
		qry := connection.Session.Query(insertStatement, event.ChildID, event.CreatedAt, gocql.UUID(event.ID),
			event.ParentID, event.URL, event.Decision, event.Severity, event.Score, event.Category).WithContext(ctx)
		if connection.Config.ConsistencyBook.EventAdd > gocql.Any {
			qry.Consistency(connection.Config.ConsistencyBook.EventAdd)
		}
		if err := qry.Exec(); err != nil {
			if guardian.ShouldRetry(err) {
				return retry.RetryableError(guardian.Error{
					Code:     guardian.StorageFailure,
					Err:      err,
					UserData: event.ChildID,
				})
			}
			return err
		}
		return nil
	}, nil)
}

// ListByChild returns up to limit events of a monitored child, newest first.
func (es *eventStore) ListByChild(ctx context.Context, childID string, limit int) ([]guardian.ModerationEvent, error) {
	if connection == nil {
		return nil, fmt.Errorf("Cassandra connection is not open")
	}
	if limit <= 0 {
		limit = 50
	}

	selectStatement := fmt.Sprintf(
		"SELECT created_at, id, parent_id, url, decision, severity, score, category FROM %s.event WHERE child_id = ? LIMIT ?;",
		connection.Config.Keyspace)

	qry := connection.Session.Query(selectStatement, childID, limit).WithContext(ctx)
	if connection.Config.ConsistencyBook.EventGet > gocql.Any {
		qry.Consistency(connection.Config.ConsistencyBook.EventGet)
	}

	events := make([]guardian.ModerationEvent, 0, limit)
	iter := qry.Iter()
	var (
		createdAt time.Time
		id        gocql.UUID
		parentID  string
		url       string
		decision  string
		severity  string
		score     float64
		category  string
	)
	for iter.Scan(&createdAt, &id, &parentID, &url, &decision, &severity, &score, &category) {
		events = append(events, guardian.ModerationEvent{
			ID:        uuid.UUID(id),
			ChildID:   childID,
			ParentID:  parentID,
			URL:       url,
			Decision:  decision,
			Severity:  severity,
			Score:     score,
			Category:  category,
			CreatedAt: createdAt,
		})
	}
	if err := iter.Close(); err != nil {
		return nil, guardian.Error{Code: guardian.StorageFailure, Err: err, UserData: childID}
	}
	return events, nil
}
