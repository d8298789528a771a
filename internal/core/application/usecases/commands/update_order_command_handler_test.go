package commands_test

import (
	"errors"
	"log/slog"
	"testing"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type updateFixture struct {
	store      *memoryStore
	order      *order.Order
	authorizer *MockAuthorizer
	notifier   *MockNotifier
	handler    commands.UpdateOrderCommandHandler
}

func newUpdateFixture(t *testing.T, status order.Status) *updateFixture {
	t.Helper()

	o := orderInStatus(t, status)
	f := &updateFixture{
		store:      newMemoryStore(o),
		order:      o,
		authorizer: new(MockAuthorizer),
		notifier:   new(MockNotifier),
	}
	f.authorizer.On("CanUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	f.handler = commands.NewUpdateOrderCommandHandler(
		f.store, f.authorizer, f.notifier, slog.New(slog.DiscardHandler),
	).WithClock(fixedClock)
	return f
}

func (f *updateFixture) update(
	t *testing.T, kind order.UpdateType, value order.UpdateValue, notify bool,
) (commands.UpdateOrderResult, error) {
	t.Helper()
	cmd, err := commands.NewUpdateOrderCommand(f.order.ID(), kind, value, "requested by buyer", notify, "u-7")
	require.NoError(t, err)
	return f.handler.Handle(t.Context(), cmd)
}

func TestUpdateOrderCommandHandler_Handle_StatusUpdate(t *testing.T) {
	// Given
	f := newUpdateFixture(t, order.Confirmed)

	// When
	result, err := f.update(t, order.UpdateStatus, order.UpdateValue{Text: "preparing"}, false)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "confirmed", result.PreviousValue)
	assert.Equal(t, "preparing", result.NewValue)
	assert.Equal(t, "preparing", result.Status)
	assert.Equal(t, 2, result.Version)
	assert.False(t, result.Notified)
	require.Len(t, result.ModificationHistory, 1)
	assert.Equal(t, order.Modification{
		Timestamp:  fixedNow,
		UpdateType: order.UpdateStatus,
		OldValue:   "confirmed",
		NewValue:   "preparing",
		Reason:     "requested by buyer",
		UserID:     "u-7",
	}, result.ModificationHistory[0])
	assert.Equal(t, order.Preparing, f.store.status(f.order.ID()))
	f.notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestUpdateOrderCommandHandler_Handle_HistoryAccumulates(t *testing.T) {
	f := newUpdateFixture(t, order.Pending)

	_, err := f.update(t, order.UpdatePayment, order.UpdateValue{Text: "paid"}, false)
	require.NoError(t, err)
	result, err := f.update(t, order.UpdateShipping, order.UpdateValue{Address: order.ShippingAddress{
		Street: "9 Elm St", City: "Shelbyville", State: "IL", PostalCode: "62565", Country: "US",
	}}, false)
	require.NoError(t, err)

	require.Len(t, result.ModificationHistory, 2)
	assert.Equal(t, order.UpdatePayment, result.ModificationHistory[0].UpdateType)
	assert.Equal(t, "9 Elm St, Shelbyville, IL 62565, US", result.ModificationHistory[1].NewValue)
	assert.Equal(t, 3, result.Version)
}

func TestUpdateOrderCommandHandler_Handle_CancelForcesCancelled(t *testing.T) {
	f := newUpdateFixture(t, order.Preparing)

	result, err := f.update(t, order.UpdateCancel, order.UpdateValue{Text: "delivered"}, false)

	require.NoError(t, err)
	assert.Equal(t, "cancelled", result.NewValue)
	assert.Equal(t, order.Cancelled, f.store.status(f.order.ID()))
}

func TestUpdateOrderCommandHandler_Handle_Conflicts(t *testing.T) {
	tests := []struct {
		name   string
		status order.Status
		kind   order.UpdateType
	}{
		{"delivered rejects shipping", order.Delivered, order.UpdateShipping},
		{"delivered rejects payment", order.Delivered, order.UpdatePayment},
		{"delivered rejects status", order.Delivered, order.UpdateStatus},
		{"cancelled rejects status", order.Cancelled, order.UpdateStatus},
		{"cancelled rejects cancel", order.Cancelled, order.UpdateCancel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newUpdateFixture(t, tt.status)

			_, err := f.update(t, tt.kind, order.UpdateValue{Text: "pending"}, true)

			var conflictErr *order.UpdateConflictError
			require.ErrorAs(t, err, &conflictErr)
			assert.NotEmpty(t, conflictErr.Reasons)
			assert.Equal(t, tt.status, f.store.status(f.order.ID()))
			assert.Empty(t, f.store.modifications)
			f.notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateOrderCommandHandler_Handle_DeliveredCanBeCancelled(t *testing.T) {
	f := newUpdateFixture(t, order.Delivered)

	result, err := f.update(t, order.UpdateCancel, order.UpdateValue{}, false)

	require.NoError(t, err)
	assert.Equal(t, "delivered", result.PreviousValue)
	assert.Equal(t, "cancelled", result.NewValue)
}

func TestUpdateOrderCommandHandler_Handle_NotificationIsBestEffort(t *testing.T) {
	f := newUpdateFixture(t, order.Pending)
	f.notifier.On("Send", mock.Anything, mock.MatchedBy(func(n ports.Notification) bool {
		return n.Event == ports.EventOrderUpdated && n.OrderID == f.order.ID().String()
	})).Return(errors.New("broker unreachable")).Once()

	result, err := f.update(t, order.UpdatePayment, order.UpdateValue{Text: "authorized"}, true)

	require.NoError(t, err)
	assert.False(t, result.Notified)
	assert.Equal(t, "broker unreachable", result.NotificationError)
	require.Len(t, result.ModificationHistory, 1)
	f.notifier.AssertExpectations(t)
}

func TestUpdateOrderCommandHandler_Handle_Notifies(t *testing.T) {
	f := newUpdateFixture(t, order.Pending)
	f.notifier.On("Send", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := f.update(t, order.UpdatePayment, order.UpdateValue{Text: "authorized"}, true)

	require.NoError(t, err)
	assert.True(t, result.Notified)
	assert.Empty(t, result.NotificationError)
}

func TestUpdateOrderCommandHandler_Handle_InvalidValue(t *testing.T) {
	f := newUpdateFixture(t, order.Pending)

	_, err := f.update(t, order.UpdatePayment, order.UpdateValue{Text: "bounced"}, false)

	require.ErrorIs(t, err, order.ErrValidation)
	assert.Empty(t, f.store.writes)
}

func TestUpdateOrderCommandHandler_Handle_OrderNotFound(t *testing.T) {
	f := newUpdateFixture(t, order.Pending)
	cmd, err := commands.NewUpdateOrderCommand(kernel.NewUUID(), order.UpdateCancel, order.UpdateValue{}, "", false, "")
	require.NoError(t, err)

	_, err = f.handler.Handle(t.Context(), cmd)

	var notFound *order.OrderNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestUpdateOrderCommandHandler_Handle_PermissionDenied(t *testing.T) {
	ctx := t.Context()
	authorizer := new(MockAuthorizer)
	id := kernel.NewUUID()
	authorizer.On("CanUpdate", ctx, "u-9", id, order.UpdateStatus).
		Return(order.NewPermissionDeniedError("u-9", "update order")).Once()
	factory := new(MockOrderUoWFactory)

	h := commands.NewUpdateOrderCommandHandler(factory, authorizer, new(MockNotifier), slog.New(slog.DiscardHandler))
	cmd, err := commands.NewUpdateOrderCommand(id, order.UpdateStatus, order.UpdateValue{Text: "confirmed"}, "", false, "u-9")
	require.NoError(t, err)

	_, err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrPermissionDenied)
	factory.AssertNotCalled(t, "Create")
}

func TestUpdateOrderCommandHandler_Handle_StaleVersion(t *testing.T) {
	// Given a repository that lost the compare-and-swap
	ctx := t.Context()
	o := orderInStatus(t, order.Pending)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		repo.On("Update", ctx, o).Return(errs.NewVersionIsInvalidError("version")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	authorizer := new(MockAuthorizer)
	authorizer.On("CanUpdate", ctx, commands.SystemUser, o.ID(), order.UpdatePayment).Return(nil).Once()

	h := commands.NewUpdateOrderCommandHandler(factory, authorizer, new(MockNotifier), slog.New(slog.DiscardHandler))
	cmd, err := commands.NewUpdateOrderCommand(o.ID(), order.UpdatePayment, order.UpdateValue{Text: "paid"}, "", false, "")
	require.NoError(t, err)

	// When
	_, err = h.Handle(ctx, cmd)

	// Then
	var conflictErr *order.UpdateConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, []string{commands.ConcurrentModificationReason}, conflictErr.Reasons)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestNewUpdateOrderCommand(t *testing.T) {
	cmd, err := commands.NewUpdateOrderCommand(kernel.NewUUID(), order.UpdateCancel, order.UpdateValue{}, "", true, " ")
	require.NoError(t, err)
	assert.Equal(t, commands.SystemUser, cmd.UserID())
	assert.True(t, cmd.NotifyCustomer())

	_, err = commands.NewUpdateOrderCommand(kernel.UUID{}, "refund", order.UpdateValue{}, "", false, "")
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
