package event_bus

// Collection change events published by the data services. The change feed
// subscribes to all of them and bumps the owner's revision so clients know
// when to reload a collection.
const (
	AccountsChanged     EventType = "accounts.changed"
	TransactionsChanged EventType = "transactions.changed"
	BudgetsChanged      EventType = "budgets.changed"
	RecurringChanged    EventType = "recurring.changed"
	ReceiptsChanged     EventType = "receipts.changed"
)

// CollectionChanged is the payload for all *.changed events.
type CollectionChanged struct {
	OwnerID    string
	Collection string
}
