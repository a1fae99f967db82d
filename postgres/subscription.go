package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vuqt/mailship"
)

type subscriptionService struct {
	db *DB
}

func NewSubscriptionService(db *DB) mailship.SubscriptionService {
	return &subscriptionService{
		db: db,
	}
}

// tx adapts *sql.Tx to mailship.Tx; Commit and Rollback are promoted.
type tx struct {
	*sql.Tx
}

// BeginTx starts a transaction on a pooled connection. The handle is owned
// by a single request.
func (ss *subscriptionService) BeginTx(ctx context.Context) (mailship.Tx, error) {
	sqlTx, err := ss.db.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &tx{sqlTx}, nil
}

func (ss *subscriptionService) sqlTx(t mailship.Tx) (*tx, error) {
	pgTx, ok := t.(*tx)
	if !ok {
		return nil, fmt.Errorf("transaction handle %T does not belong to this store", t)
	}
	return pgTx, nil
}

// InsertSubscriber inserts a pending subscriber and returns its generated id.
func (ss *subscriptionService) InsertSubscriber(ctx context.Context, t mailship.Tx, ns mailship.NewSubscriber) (mailship.SubscriberID, error) {
	pgTx, err := ss.sqlTx(t)
	if err != nil {
		return mailship.SubscriberID{}, err
	}

	id := mailship.NewSubscriberID()
	_, err = pgTx.ExecContext(ctx,
		`INSERT INTO subscriptions (id, name, email, subscribed_at, status) VALUES ($1, $2, $3, $4, $5)`,
		id, ns.Name.String(), ns.Email.String(), time.Now().UTC(), mailship.StatusPendingConfirmation)
	if err != nil {
		return mailship.SubscriberID{}, fmt.Errorf("failed to insert subscriber: %w", err)
	}

	return id, nil
}

// StoreToken inserts the confirmation token for a subscriber inside the same
// transaction as the subscriber row.
func (ss *subscriptionService) StoreToken(ctx context.Context, t mailship.Tx, id mailship.SubscriberID, token string) error {
	pgTx, err := ss.sqlTx(t)
	if err != nil {
		return err
	}

	_, err = pgTx.ExecContext(ctx,
		`INSERT INTO subscription_tokens (subscription_token, subscriber_id) VALUES ($1, $2)`,
		token, id)
	if err != nil {
		return fmt.Errorf("failed to store subscription token: %w", err)
	}

	return nil
}

// SubscriberIDByToken resolves a confirmation token to its subscriber.
func (ss *subscriptionService) SubscriberIDByToken(ctx context.Context, token string) (mailship.SubscriberID, error) {
	var id mailship.SubscriberID
	err := ss.db.sqlDB.QueryRowContext(ctx,
		`SELECT subscriber_id FROM subscription_tokens WHERE subscription_token = $1`, token).
		Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mailship.SubscriberID{}, &mailship.Error{Code: mailship.ErrNotFound, Message: "subscription token not found"}
		}
		return mailship.SubscriberID{}, fmt.Errorf("failed to find subscriber by token: %w", err)
	}
	return id, nil
}

// MarkConfirmed sets the subscriber status to confirmed. The update is
// unconditional: confirming an already-confirmed subscriber, or an id that
// matches no row, succeeds.
func (ss *subscriptionService) MarkConfirmed(ctx context.Context, id mailship.SubscriberID) error {
	_, err := ss.db.sqlDB.ExecContext(ctx,
		`UPDATE subscriptions SET status = $1 WHERE id = $2`, mailship.StatusConfirmed, id)
	if err != nil {
		return fmt.Errorf("failed to mark subscriber confirmed: %w", err)
	}
	return nil
}

// SubscribersByStatus lists subscribers in the given status.
func (ss *subscriptionService) SubscribersByStatus(ctx context.Context, status string) ([]mailship.Subscriber, error) {
	rows, err := ss.db.sqlDB.QueryContext(ctx,
		`SELECT id, name, email, subscribed_at, status FROM subscriptions WHERE status = $1`, status)
	if err != nil {
		return nil, fmt.Errorf("failed to find subscribers by status: %w", err)
	}
	defer rows.Close()

	var subscribers []mailship.Subscriber
	for rows.Next() {
		var s mailship.Subscriber
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.SubscribedAt, &s.Status); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		subscribers = append(subscribers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return subscribers, nil
}
