package cassandra

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SharedCode/guardian"
)

type mockEventStore struct {
	mux    sync.Mutex
	events []guardian.ModerationEvent
}

// NewMockEventStore returns an in-memory guardian.EventStore for tests and
// for running without a Cassandra cluster.
func NewMockEventStore() guardian.EventStore {
	return &mockEventStore{}
}

func (m *mockEventStore) Append(ctx context.Context, event *guardian.ModerationEvent) error {
	m.mux.Lock()
	defer m.mux.Unlock()
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.CreatedAt = time.Now().UTC()
	m.events = append(m.events, *event)
	return nil
}

func (m *mockEventStore) ListByChild(ctx context.Context, childID string, limit int) ([]guardian.ModerationEvent, error) {
	m.mux.Lock()
	defer m.mux.Unlock()
	if limit <= 0 {
		limit = 50
	}
	var r []guardian.ModerationEvent
	// Newest first, same order the real store clusters by.
	for i := len(m.events) - 1; i >= 0 && len(r) < limit; i-- {
		if m.events[i].ChildID == childID {
			r = append(r, m.events[i])
		}
	}
	return r, nil
}
