// Package testutil provides shared helpers for store-backed tests.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/burnbox/burnbox/internal/model"
	"github.com/burnbox/burnbox/internal/store"
)

// NewTestStore opens an in-memory SQLiteStore with migrations applied
// and closes it when the test finishes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// SeedNotifications inserts n unread toast records, the shape the app
// writes when a toast is shown.
func SeedNotifications(t *testing.T, s *store.SQLiteStore, n int) {
	t.Helper()

	ctx := context.Background()
	for i := 0; i < n; i++ {
		err := s.CreateNotification(ctx, model.Notification{
			Key:     "newEmail",
			Message: fmt.Sprintf("%d new email received!", i+1),
		})
		if err != nil {
			t.Fatalf("seeding notification %d: %v", i, err)
		}
	}
}
