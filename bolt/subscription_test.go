package bolt

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vuqt/mailship"
)

func newTestService(t *testing.T) mailship.SubscriptionService {
	t.Helper()

	db := NewDB(filepath.Join(t.TempDir(), "mailship.db"))
	require.NoError(t, db.Open())
	t.Cleanup(func() {
		_ = db.Close()
	})

	return NewSubscriptionService(db)
}

func subscribe(t *testing.T, svc mailship.SubscriptionService, name, email string) (mailship.SubscriberID, string) {
	t.Helper()

	ns, err := mailship.ParseNewSubscriber(name, email)
	require.NoError(t, err)

	ctx := context.Background()
	tx, err := svc.BeginTx(ctx)
	require.NoError(t, err)

	id, err := svc.InsertSubscriber(ctx, tx, ns)
	require.NoError(t, err)

	token := mailship.GenerateSubscriptionToken()
	require.NoError(t, svc.StoreToken(ctx, tx, id, token))
	require.NoError(t, tx.Commit())

	return id, token
}

func TestSubscribeAndConfirm(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, token := subscribe(t, svc, "le guin", "ursula_le_guin@gmail.com")

	pending, err := svc.SubscribersByStatus(ctx, mailship.StatusPendingConfirmation)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "le guin", pending[0].Name)
	assert.Equal(t, "ursula_le_guin@gmail.com", pending[0].Email)

	resolved, err := svc.SubscriberIDByToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, id, resolved)

	require.NoError(t, svc.MarkConfirmed(ctx, id))

	confirmed, err := svc.SubscribersByStatus(ctx, mailship.StatusConfirmed)
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	assert.Equal(t, mailship.StatusConfirmed, confirmed[0].Status)

	// confirming again is a no-op success
	require.NoError(t, svc.MarkConfirmed(ctx, id))
}

func TestRollbackLeavesNothingBehind(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	ns, err := mailship.ParseNewSubscriber("le guin", "ursula_le_guin@gmail.com")
	require.NoError(t, err)

	tx, err := svc.BeginTx(ctx)
	require.NoError(t, err)

	_, err = svc.InsertSubscriber(ctx, tx, ns)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	pending, err := svc.SubscribersByStatus(ctx, mailship.StatusPendingConfirmation)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestSubscriberIDByToken_Unknown(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.SubscriberIDByToken(context.Background(), "garbage")
	require.Error(t, err)
	assert.Equal(t, mailship.ErrNotFound, mailship.ErrorCode(err))
}

func TestMarkConfirmed_UnknownIDIsSuccess(t *testing.T) {
	svc := newTestService(t)

	assert.NoError(t, svc.MarkConfirmed(context.Background(), mailship.NewSubscriberID()))
}
