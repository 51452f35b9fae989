package guardian

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	inner := fmt.Errorf("cluster down")
	err := Error{Code: StorageFailure, Err: inner, UserData: "child-1"}
	s := err.Error()
	if !strings.Contains(s, "cluster down") || !strings.Contains(s, "child-1") {
		t.Errorf("unexpected error text %q", s)
		t.FailNow()
	}
}

func TestShouldRetry(t *testing.T) {
	if ShouldRetry(nil) {
		t.Errorf("nil error must not be retryable")
		t.FailNow()
	}
	if ShouldRetry(context.Canceled) || ShouldRetry(context.DeadlineExceeded) {
		t.Errorf("context errors must not be retryable")
		t.FailNow()
	}
	if !ShouldRetry(errors.New("connection reset")) {
		t.Errorf("transient error should be retryable")
		t.FailNow()
	}
}

func TestLogNotifierIsNoOp(t *testing.T) {
	n := NewLogNotifier()
	if err := n.Notify(context.Background(), "parent-1", "High-risk sexual content blocked for your child"); err != nil {
		t.Error(err)
		t.FailNow()
	}
}
