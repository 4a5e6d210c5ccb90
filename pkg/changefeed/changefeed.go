package changefeed

import (
	"context"
	"fmt"
	"sync"

	"github.com/monetapp/moneta/internal/event_bus"
	"github.com/monetapp/moneta/pkg/user"
	log "github.com/sirupsen/logrus"
)

// watchedEvents are the collection-change events that move the revision.
var watchedEvents = []event_bus.EventType{
	event_bus.AccountsChanged,
	event_bus.TransactionsChanged,
	event_bus.BudgetsChanged,
	event_bus.RecurringChanged,
	event_bus.ReceiptsChanged,
}

// Tracker keeps a per-owner revision counter. Clients poll the revision and
// refetch their collections whenever it moves, an invalidate-and-reload
// scheme with no incremental merging.
type Tracker struct {
	mu        sync.RWMutex
	revisions map[string]uint64
}

// NewTracker subscribes the tracker to every collection-change event on the
// bus. The bus is synchronous, so a revision bump is visible as soon as the
// mutating request returns.
func NewTracker(bus *event_bus.EventBus) *Tracker {
	tracker := &Tracker{revisions: make(map[string]uint64)}
	for _, eventType := range watchedEvents {
		bus.Subscribe(eventType, tracker.onCollectionChanged)
	}
	return tracker
}

func (t *Tracker) onCollectionChanged(event event_bus.Event) error {
	change, ok := event.Data.(event_bus.CollectionChanged)
	if !ok {
		return fmt.Errorf("unexpected payload for event %s: %T", event.Type, event.Data)
	}

	t.mu.Lock()
	t.revisions[change.OwnerID]++
	revision := t.revisions[change.OwnerID]
	t.mu.Unlock()

	log.Debugf("change feed: owner %s at revision %d after %s", change.OwnerID, revision, change.Collection)
	return nil
}

// Revision returns the current revision for the user in ctx. A user with no
// mutations yet is at revision 0.
func (t *Tracker) Revision(ctx context.Context) (uint64, error) {
	ownerId, err := user.CurrentId(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get current user: %w", err)
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.revisions[ownerId], nil
}
