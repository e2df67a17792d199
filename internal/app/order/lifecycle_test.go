package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytebites/orders/internal/domain"
)

func seedOrder(t *testing.T, repo *fakeRepo, status domain.Status) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(42, 7, "Testaurant", "2 Side St", dec("20.00"),
		[]domain.OrderItem{{MenuItemID: 1, MenuItemName: "Margherita", Quantity: 1, Price: dec("17.01")}})
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), order))
	repo.orders[order.ID].Status = status
	return repo.orders[order.ID]
}

func TestUpdateStatusHappyPath(t *testing.T) {
	repo := newFakeRepo()
	seeded := seedOrder(t, repo, domain.StatusPending)
	publisher := &recordingPublisher{}
	svc := newTestService(repo, &fakeAuthority{}, publisher)

	updated, err := svc.UpdateStatus(context.Background(), seeded.ID, domain.StatusConfirmed, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, updated.Status)
	assert.Equal(t, domain.StatusConfirmed, repo.orders[seeded.ID].Status)

	require.Len(t, publisher.statusChanged, 1)
	event := publisher.statusChanged[0]
	assert.Equal(t, seeded.ID, event.OrderID)
	assert.Equal(t, domain.StatusPending, event.OldStatus)
	assert.Equal(t, domain.StatusConfirmed, event.NewStatus)
	assert.Equal(t, "restaurant", event.ChangedBy)
	assert.Equal(t, placeholderCustomerEmail, event.CustomerEmail)
}

func TestUpdateStatusRejectsInvalidTransitions(t *testing.T) {
	cases := []struct {
		from domain.Status
		to   domain.Status
	}{
		{domain.StatusPending, domain.StatusPreparing},
		{domain.StatusPending, domain.StatusDelivered},
		{domain.StatusConfirmed, domain.StatusDelivered},
		{domain.StatusPreparing, domain.StatusConfirmed},
		{domain.StatusPreparing, domain.StatusCancelled},
		{domain.StatusDelivered, domain.StatusCancelled},
		{domain.StatusCancelled, domain.StatusConfirmed},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			repo := newFakeRepo()
			seeded := seedOrder(t, repo, tc.from)
			publisher := &recordingPublisher{}
			svc := newTestService(repo, &fakeAuthority{}, publisher)

			_, err := svc.UpdateStatus(context.Background(), seeded.ID, tc.to, 7)

			var transitionErr *domain.InvalidTransitionError
			require.ErrorAs(t, err, &transitionErr)
			assert.Equal(t, tc.from, repo.orders[seeded.ID].Status, "stored status must not change")
			assert.Empty(t, publisher.statusChanged)
		})
	}
}

func TestUpdateStatusForbiddenForOtherRestaurant(t *testing.T) {
	repo := newFakeRepo()
	seeded := seedOrder(t, repo, domain.StatusPending)
	publisher := &recordingPublisher{}
	svc := newTestService(repo, &fakeAuthority{}, publisher)

	_, err := svc.UpdateStatus(context.Background(), seeded.ID, domain.StatusConfirmed, 99)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, domain.StatusPending, repo.orders[seeded.ID].Status)
	assert.Empty(t, publisher.statusChanged)
}

func TestUpdateStatusOrderNotFound(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeAuthority{}, &recordingPublisher{})

	_, err := svc.UpdateStatus(context.Background(), 12345, domain.StatusConfirmed, 7)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestCancelPendingAndConfirmed(t *testing.T) {
	for _, status := range []domain.Status{domain.StatusPending, domain.StatusConfirmed} {
		t.Run(string(status), func(t *testing.T) {
			repo := newFakeRepo()
			seeded := seedOrder(t, repo, status)
			publisher := &recordingPublisher{}
			svc := newTestService(repo, &fakeAuthority{}, publisher)

			cancelled, err := svc.Cancel(context.Background(), seeded.ID, 42)
			require.NoError(t, err)
			assert.Equal(t, domain.StatusCancelled, cancelled.Status)
			assert.Equal(t, domain.StatusCancelled, repo.orders[seeded.ID].Status)

			// Cancellation emits no event.
			assert.Empty(t, publisher.statusChanged)
			assert.Empty(t, publisher.placed)
		})
	}
}

func TestCancelRejectedPastConfirmation(t *testing.T) {
	for _, status := range []domain.Status{domain.StatusPreparing, domain.StatusDelivered, domain.StatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			repo := newFakeRepo()
			seeded := seedOrder(t, repo, status)
			svc := newTestService(repo, &fakeAuthority{}, &recordingPublisher{})

			_, err := svc.Cancel(context.Background(), seeded.ID, 42)
			assert.ErrorIs(t, err, domain.ErrNotCancellable)
			assert.Equal(t, status, repo.orders[seeded.ID].Status)
		})
	}
}

func TestCancelForbiddenForOtherCustomer(t *testing.T) {
	repo := newFakeRepo()
	seeded := seedOrder(t, repo, domain.StatusPending)
	svc := newTestService(repo, &fakeAuthority{}, &recordingPublisher{})

	_, err := svc.Cancel(context.Background(), seeded.ID, 99)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, domain.StatusPending, repo.orders[seeded.ID].Status)
}
