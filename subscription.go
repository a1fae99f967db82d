package mailship

import (
	"context"
	"time"
)

// Subscriber statuses. A subscriber is created pending_confirmation and only
// ever moves forward to confirmed.
const (
	StatusPendingConfirmation = "pending_confirmation"
	StatusConfirmed           = "confirmed"
)

// Subscriber is a persisted subscriber record.
type Subscriber struct {
	ID           SubscriberID
	Name         string
	Email        string
	SubscribedAt time.Time
	Status       string
}

// Tx is a store transaction handle. A handle belongs to exactly one request
// and must not outlive it.
type Tx interface {
	Commit() error
	Rollback() error
}

// SubscriptionService is the interface that wraps subscriber persistence.
//
// InsertSubscriber and StoreToken run against a caller-supplied transaction
// so that a subscriber and its confirmation token become visible atomically.
type SubscriptionService interface {
	BeginTx(ctx context.Context) (Tx, error)
	InsertSubscriber(ctx context.Context, tx Tx, ns NewSubscriber) (SubscriberID, error)
	StoreToken(ctx context.Context, tx Tx, id SubscriberID, token string) error
	SubscriberIDByToken(ctx context.Context, token string) (SubscriberID, error)
	MarkConfirmed(ctx context.Context, id SubscriberID) error
	SubscribersByStatus(ctx context.Context, status string) ([]Subscriber, error)
}
