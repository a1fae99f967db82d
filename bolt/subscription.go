package bolt

import (
	"context"
	"time"

	"github.com/asdine/storm/v3"
	"github.com/go-errors/errors"

	"github.com/vuqt/mailship"
)

// subscriber is the stored subscriber shape.
type subscriber struct {
	ID           string `storm:"id"`
	Name         string
	Email        string `storm:"unique"`
	SubscribedAt time.Time
	Status       string `storm:"index"`
}

// subscriptionToken maps a confirmation token to its subscriber.
type subscriptionToken struct {
	Token        string `storm:"id"`
	SubscriberID string
}

type subscriptionService struct {
	db *DB
}

func NewSubscriptionService(db *DB) mailship.SubscriptionService {
	return &subscriptionService{
		db: db,
	}
}

// tx adapts a writable storm node to mailship.Tx.
type tx struct {
	storm.Node
}

func (ss *subscriptionService) BeginTx(ctx context.Context) (mailship.Tx, error) {
	node, err := ss.db.stormDB.Begin(true)
	if err != nil {
		return nil, errors.Errorf("failed to begin transaction: %v", err)
	}
	return &tx{node}, nil
}

func (ss *subscriptionService) node(t mailship.Tx) (storm.Node, error) {
	boltTx, ok := t.(*tx)
	if !ok {
		return nil, errors.Errorf("transaction handle %T does not belong to this store", t)
	}
	return boltTx.Node, nil
}

// InsertSubscriber saves a pending subscriber into stormDB
func (ss *subscriptionService) InsertSubscriber(ctx context.Context, t mailship.Tx, ns mailship.NewSubscriber) (mailship.SubscriberID, error) {
	node, err := ss.node(t)
	if err != nil {
		return mailship.SubscriberID{}, err
	}

	id := mailship.NewSubscriberID()
	s := &subscriber{
		ID:           id.String(),
		Name:         ns.Name.String(),
		Email:        ns.Email.String(),
		SubscribedAt: time.Now().UTC(),
		Status:       mailship.StatusPendingConfirmation,
	}
	if err := node.Save(s); err != nil {
		return mailship.SubscriberID{}, errors.Errorf("failed to save subscriber: %v", err)
	}

	return id, nil
}

// StoreToken saves the confirmation token in the same transaction as the
// subscriber it points at.
func (ss *subscriptionService) StoreToken(ctx context.Context, t mailship.Tx, id mailship.SubscriberID, token string) error {
	node, err := ss.node(t)
	if err != nil {
		return err
	}

	if err := node.Save(&subscriptionToken{Token: token, SubscriberID: id.String()}); err != nil {
		return errors.Errorf("failed to save subscription token: %v", err)
	}

	return nil
}

// SubscriberIDByToken finds the subscriber a token belongs to.
func (ss *subscriptionService) SubscriberIDByToken(ctx context.Context, token string) (mailship.SubscriberID, error) {
	var st subscriptionToken
	if err := ss.db.stormDB.One("Token", token, &st); err != nil {
		if errors.Is(err, storm.ErrNotFound) {
			return mailship.SubscriberID{}, &mailship.Error{Code: mailship.ErrNotFound, Message: "subscription token not found"}
		}
		return mailship.SubscriberID{}, errors.Errorf("failed to find subscriber by token: %v", err)
	}

	return mailship.ParseSubscriberID(st.SubscriberID)
}

// MarkConfirmed sets the subscriber status to confirmed. A missing record is
// not an error.
func (ss *subscriptionService) MarkConfirmed(ctx context.Context, id mailship.SubscriberID) error {
	err := ss.db.stormDB.UpdateField(&subscriber{ID: id.String()}, "Status", mailship.StatusConfirmed)
	if err != nil && !errors.Is(err, storm.ErrNotFound) {
		return errors.Errorf("failed to mark subscriber confirmed: %v", err)
	}
	return nil
}

// SubscribersByStatus finds subscribers by status
func (ss *subscriptionService) SubscribersByStatus(ctx context.Context, status string) ([]mailship.Subscriber, error) {
	var stored []subscriber
	if err := ss.db.stormDB.Find("Status", status, &stored); err != nil {
		if errors.Is(err, storm.ErrNotFound) {
			return nil, nil
		}
		return nil, errors.Errorf("failed to find subscribers by status: %v", err)
	}

	subscribers := make([]mailship.Subscriber, 0, len(stored))
	for _, s := range stored {
		id, err := mailship.ParseSubscriberID(s.ID)
		if err != nil {
			return nil, err
		}
		subscribers = append(subscribers, mailship.Subscriber{
			ID:           id,
			Name:         s.Name,
			Email:        s.Email,
			SubscribedAt: s.SubscribedAt,
			Status:       s.Status,
		})
	}

	return subscribers, nil
}
