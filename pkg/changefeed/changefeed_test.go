package changefeed

import (
	"context"
	"testing"

	"github.com/monetapp/moneta/internal/event_bus"
	"github.com/monetapp/moneta/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ownerContext(id string) context.Context {
	return user.WithUser(context.Background(), user.User{Id: id})
}

func publishChange(t *testing.T, bus *event_bus.EventBus, eventType event_bus.EventType, ownerId string, collection string) {
	t.Helper()
	event := event_bus.NewEvent(ownerContext(ownerId), eventType, event_bus.CollectionChanged{
		OwnerID:    ownerId,
		Collection: collection,
	})
	require.NoError(t, bus.Publish(event))
}

func TestTracker(t *testing.T) {
	t.Run("starts at revision zero", func(t *testing.T) {
		tracker := NewTracker(event_bus.NewEventBus())

		revision, err := tracker.Revision(ownerContext("owner-1"))
		require.NoError(t, err)
		assert.Equal(t, uint64(0), revision)
	})

	t.Run("every collection change bumps the revision", func(t *testing.T) {
		bus := event_bus.NewEventBus()
		tracker := NewTracker(bus)

		publishChange(t, bus, event_bus.AccountsChanged, "owner-1", "accounts")
		publishChange(t, bus, event_bus.TransactionsChanged, "owner-1", "transactions")
		publishChange(t, bus, event_bus.ReceiptsChanged, "owner-1", "receipts")

		revision, err := tracker.Revision(ownerContext("owner-1"))
		require.NoError(t, err)
		assert.Equal(t, uint64(3), revision)
	})

	t.Run("revisions are scoped per owner", func(t *testing.T) {
		bus := event_bus.NewEventBus()
		tracker := NewTracker(bus)

		publishChange(t, bus, event_bus.BudgetsChanged, "owner-1", "budgets")
		publishChange(t, bus, event_bus.RecurringChanged, "owner-2", "recurring_transactions")

		first, err := tracker.Revision(ownerContext("owner-1"))
		require.NoError(t, err)
		second, err := tracker.Revision(ownerContext("owner-2"))
		require.NoError(t, err)
		assert.Equal(t, uint64(1), first)
		assert.Equal(t, uint64(1), second)
	})

	t.Run("requires a user in context", func(t *testing.T) {
		tracker := NewTracker(event_bus.NewEventBus())

		_, err := tracker.Revision(context.Background())
		assert.ErrorIs(t, err, user.ErrNoUser)
	})
}
