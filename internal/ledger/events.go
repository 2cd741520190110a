package ledger

// Event is a notification emitted after a ledger operation has fully
// committed. Events are delivered to subscribers in operation order and are
// never emitted for failed operations.
type Event interface {
	// Kind returns the stable event name used in the persisted event log.
	Kind() string
}

// PurchaseAdded is emitted when a purchase record has been appended.
type PurchaseAdded struct {
	ID            uint64   `json:"id"`
	Amount        int64    `json:"amount"`
	Payer         string   `json:"payer,omitempty"`
	Contributors  []string `json:"contributors,omitempty"`
	Contributions []int64  `json:"contributions,omitempty"`
}

// PurchaseDeleted is emitted when the admin clears a record. Re-deleting an
// already-cleared ID emits it again.
type PurchaseDeleted struct {
	ID uint64 `json:"id"`
}

// FundsWithdrawn is emitted when the admin drains funds from the pool.
type FundsWithdrawn struct {
	Amount int64 `json:"amount"`
}

func (PurchaseAdded) Kind() string   { return "purchase_added" }
func (PurchaseDeleted) Kind() string { return "purchase_deleted" }
func (FundsWithdrawn) Kind() string  { return "funds_withdrawn" }

// Subscriber receives committed events. Notify is called synchronously while
// the ledger still holds its operation lock, so implementations must return
// quickly and must not call back into the ledger.
type Subscriber interface {
	Notify(ev Event)
}

// SubscriberFunc adapts a function to the Subscriber interface.
type SubscriberFunc func(ev Event)

// Notify implements Subscriber.
func (f SubscriberFunc) Notify(ev Event) { f(ev) }
