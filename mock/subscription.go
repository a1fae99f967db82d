package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vuqt/mailship"
)

// SubscriptionService is a testify mock of mailship.SubscriptionService.
type SubscriptionService struct {
	mock.Mock
}

func (m *SubscriptionService) BeginTx(ctx context.Context) (mailship.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(mailship.Tx)
	return tx, args.Error(1)
}

func (m *SubscriptionService) InsertSubscriber(ctx context.Context, tx mailship.Tx, ns mailship.NewSubscriber) (mailship.SubscriberID, error) {
	args := m.Called(ctx, tx, ns)
	id, _ := args.Get(0).(mailship.SubscriberID)
	return id, args.Error(1)
}

func (m *SubscriptionService) StoreToken(ctx context.Context, tx mailship.Tx, id mailship.SubscriberID, token string) error {
	args := m.Called(ctx, tx, id, token)
	return args.Error(0)
}

func (m *SubscriptionService) SubscriberIDByToken(ctx context.Context, token string) (mailship.SubscriberID, error) {
	args := m.Called(ctx, token)
	id, _ := args.Get(0).(mailship.SubscriberID)
	return id, args.Error(1)
}

func (m *SubscriptionService) MarkConfirmed(ctx context.Context, id mailship.SubscriberID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *SubscriptionService) SubscribersByStatus(ctx context.Context, status string) ([]mailship.Subscriber, error) {
	args := m.Called(ctx, status)
	subscribers, _ := args.Get(0).([]mailship.Subscriber)
	return subscribers, args.Error(1)
}

// Tx is a testify mock of mailship.Tx.
type Tx struct {
	mock.Mock
}

func (m *Tx) Commit() error {
	return m.Called().Error(0)
}

func (m *Tx) Rollback() error {
	return m.Called().Error(0)
}
