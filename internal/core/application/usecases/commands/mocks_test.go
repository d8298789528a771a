package commands_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) CountForBuyer(ctx context.Context, buyerID string) (int64, error) {
	args := m.Called(ctx, buyerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) ListDueForFulfillment(ctx context.Context, now time.Time, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, now, limit)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockOrderRepository) DeferFulfillment(ctx context.Context, id kernel.UUID, retryAt time.Time) (int, error) {
	args := m.Called(ctx, id, retryAt)
	return args.Int(0), args.Error(1)
}

func (m *MockOrderRepository) AppendModification(ctx context.Context, id kernel.UUID, mod order.Modification) error {
	args := m.Called(ctx, id, mod)
	return args.Error(0)
}

func (m *MockOrderRepository) ListModifications(ctx context.Context, id kernel.UUID) ([]order.Modification, error) {
	args := m.Called(ctx, id)
	mods, _ := args.Get(0).([]order.Modification)
	return mods, args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockProductCatalog struct{ mock.Mock }

func (m *MockProductCatalog) GetProductsByIDs(ctx context.Context, ids []string) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	products, _ := args.Get(0).([]catalog.Product)
	return products, args.Error(1)
}

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) VerifyPayment(ctx context.Context, o *order.Order) (string, error) {
	args := m.Called(ctx, o)
	return args.String(0), args.Error(1)
}

type MockWarehouse struct{ mock.Mock }

func (m *MockWarehouse) Pack(ctx context.Context, orderID kernel.UUID, items []order.Item) (string, error) {
	args := m.Called(ctx, orderID, items)
	return args.String(0), args.Error(1)
}

type MockShippingCarrier struct{ mock.Mock }

func (m *MockShippingCarrier) CreateLabel(ctx context.Context, o *order.Order) (string, error) {
	args := m.Called(ctx, o)
	return args.String(0), args.Error(1)
}

func (m *MockShippingCarrier) StartTracking(ctx context.Context, orderID kernel.UUID, trackingNumber string) error {
	args := m.Called(ctx, orderID, trackingNumber)
	return args.Error(0)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Send(ctx context.Context, n ports.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type MockStepLedger struct{ mock.Mock }

func (m *MockStepLedger) Completed(ctx context.Context, orderID kernel.UUID) (map[int]string, error) {
	args := m.Called(ctx, orderID)
	done, _ := args.Get(0).(map[int]string)
	return done, args.Error(1)
}

func (m *MockStepLedger) MarkCompleted(ctx context.Context, orderID kernel.UUID, step int, details string) error {
	args := m.Called(ctx, orderID, step, details)
	return args.Error(0)
}

type MockAuthorizer struct{ mock.Mock }

func (m *MockAuthorizer) CanUpdate(ctx context.Context, actor string, orderID kernel.UUID, kind order.UpdateType) error {
	args := m.Called(ctx, actor, orderID, kind)
	return args.Error(0)
}

// memoryStore is an in-memory order store honoring the optimistic version
// check. Orders are kept as snapshots so unpersisted changes never leak.
type memoryStore struct {
	mu            sync.Mutex
	orders        map[string]order.Snapshot
	modifications map[string][]order.Modification
	writes        []order.Status
	failOn        map[order.Status]error
	attempts      map[string]int
	retryAt       map[string]time.Time
}

func newMemoryStore(orders ...*order.Order) *memoryStore {
	s := &memoryStore{
		orders:        make(map[string]order.Snapshot),
		modifications: make(map[string][]order.Modification),
		failOn:        make(map[order.Status]error),
		attempts:      make(map[string]int),
		retryAt:       make(map[string]time.Time),
	}
	for _, o := range orders {
		s.orders[o.ID().String()] = snapshotOf(o)
	}
	return s
}

func (s *memoryStore) status(id kernel.UUID) order.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[id.String()].Status
}

func (s *memoryStore) Create() commands.OrderUoW {
	return &memoryUoW{repo: &memoryOrderRepo{store: s}}
}

type memoryUoW struct {
	repo *memoryOrderRepo
}

func (u *memoryUoW) Begin(context.Context) error            { return nil }
func (u *memoryUoW) Commit(context.Context) error           { return nil }
func (u *memoryUoW) Rollback(context.Context) error         { return nil }
func (u *memoryUoW) OrderRepository() ports.OrderRepository { return u.repo }

type memoryOrderRepo struct {
	store *memoryStore
}

func (r *memoryOrderRepo) Add(_ context.Context, o *order.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.orders[o.ID().String()] = snapshotOf(o)
	return nil
}

func (r *memoryOrderRepo) Update(_ context.Context, o *order.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.orders[o.ID().String()]
	if !ok {
		return errs.NewObjectNotFoundError("order", o.ID().String())
	}
	if err := r.store.failOn[o.Status()]; err != nil {
		return err
	}
	if current.Version != o.Version() {
		return errs.NewVersionIsInvalidError("version")
	}

	o.SetVersion(o.Version() + 1)
	r.store.orders[o.ID().String()] = snapshotOf(o)
	r.store.writes = append(r.store.writes, o.Status())
	return nil
}

func (r *memoryOrderRepo) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	s, ok := r.store.orders[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return order.RestoreOrder(s)
}

func (r *memoryOrderRepo) CountForBuyer(_ context.Context, buyerID string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var n int64
	for _, s := range r.store.orders {
		if s.BuyerID == buyerID {
			n++
		}
	}
	return n, nil
}

func (r *memoryOrderRepo) ListDueForFulfillment(_ context.Context, now time.Time, limit int) ([]*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	dueAt := func(s order.Snapshot) time.Time {
		if at, ok := r.store.retryAt[s.ID.String()]; ok {
			return at
		}
		return s.CreatedAt
	}

	matching := make([]order.Snapshot, 0)
	for _, s := range r.store.orders {
		if s.Status.AwaitsFulfillment() && !dueAt(s).After(now) {
			matching = append(matching, s)
		}
	}
	sort.Slice(matching, func(i, j int) bool {
		return dueAt(matching[i]).Before(dueAt(matching[j]))
	})
	if len(matching) > limit {
		matching = matching[:limit]
	}

	orders := make([]*order.Order, 0, len(matching))
	for _, s := range matching {
		o, err := order.RestoreOrder(s)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *memoryOrderRepo) DeferFulfillment(_ context.Context, id kernel.UUID, retryAt time.Time) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.orders[id.String()]; !ok {
		return 0, errs.NewObjectNotFoundError("order", id.String())
	}
	r.store.attempts[id.String()]++
	r.store.retryAt[id.String()] = retryAt
	return r.store.attempts[id.String()], nil
}

func (r *memoryOrderRepo) AppendModification(_ context.Context, id kernel.UUID, mod order.Modification) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.modifications[id.String()] = append(r.store.modifications[id.String()], mod)
	return nil
}

func (r *memoryOrderRepo) ListModifications(_ context.Context, id kernel.UUID) ([]order.Modification, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return append([]order.Modification(nil), r.store.modifications[id.String()]...), nil
}

func snapshotOf(o *order.Order) order.Snapshot {
	return order.Snapshot{
		ID:                  o.ID(),
		BuyerID:             o.BuyerID(),
		SupplierID:          o.SupplierID(),
		Items:               o.Items(),
		Status:              o.Status(),
		TotalAmount:         o.TotalAmount(),
		DeliveryAddress:     o.DeliveryAddress(),
		PaymentMethod:       o.PaymentMethod(),
		PaymentStatus:       o.PaymentStatus(),
		Currency:            o.Currency(),
		SpecialInstructions: o.SpecialInstructions(),
		TrackingNumber:      o.TrackingNumber(),
		Version:             o.Version(),
		CreatedAt:           o.CreatedAt(),
		UpdatedAt:           o.UpdatedAt(),
	}
}
