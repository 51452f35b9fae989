package cassandra

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/SharedCode/guardian"
)

func TestMockAppendAssignsIDAndTimestamp(t *testing.T) {
	s := NewMockEventStore()
	ev := guardian.ModerationEvent{
		ChildID:  "child-1",
		ParentID: "parent-1",
		URL:      "unknown",
		Decision: guardian.DecisionAllow,
		Severity: guardian.SeverityLow,
		Score:    0.3,
		Category: guardian.CategoryAbuse,
	}
	if err := s.Append(context.Background(), &ev); err != nil {
		t.Error(err)
		t.FailNow()
	}
	if ev.ID == uuid.Nil {
		t.Errorf("expected an assigned event ID")
		t.FailNow()
	}
	if ev.CreatedAt.IsZero() {
		t.Errorf("expected a server-assigned timestamp")
		t.FailNow()
	}
}

func TestMockListByChildNewestFirst(t *testing.T) {
	s := NewMockEventStore()
	ctx := context.Background()
	for _, d := range []string{guardian.DecisionAllow, guardian.DecisionWarn, guardian.DecisionBlock} {
		ev := guardian.ModerationEvent{ChildID: "child-2", ParentID: "p", Decision: d}
		if err := s.Append(ctx, &ev); err != nil {
			t.Error(err)
			t.FailNow()
		}
	}
	other := guardian.ModerationEvent{ChildID: "child-3", ParentID: "p", Decision: guardian.DecisionAllow}
	if err := s.Append(ctx, &other); err != nil {
		t.Error(err)
		t.FailNow()
	}

	events, err := s.ListByChild(ctx, "child-2", 2)
	if err != nil {
		t.Error(err)
		t.FailNow()
	}
	if len(events) != 2 {
		t.Errorf("expected 2 events, got %d", len(events))
		t.FailNow()
	}
	if events[0].Decision != guardian.DecisionBlock {
		t.Errorf("expected newest event first, got %s", events[0].Decision)
		t.FailNow()
	}
}

func TestEventStoreRequiresConnection(t *testing.T) {
	s := NewEventStore()
	ev := guardian.ModerationEvent{ChildID: "child-1"}
	if err := s.Append(context.Background(), &ev); err == nil {
		t.Errorf("expected error when connection is not open")
		t.FailNow()
	}
	if _, err := s.ListByChild(context.Background(), "child-1", 10); err == nil {
		t.Errorf("expected error when connection is not open")
		t.FailNow()
	}
}
