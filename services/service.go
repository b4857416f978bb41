package services

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/yeremiapane/tuber-treats/dispatch"
	"github.com/yeremiapane/tuber-treats/models"
	"github.com/yeremiapane/tuber-treats/store"
)

// Notifier receives order lifecycle events after a successful write.
type Notifier interface {
	Publish(event string, data interface{})
}

type nopNotifier struct{}

func (nopNotifier) Publish(string, interface{}) {}

type Options struct {
	// ValidateReferences makes AssignDriver and AddToppingToOrder reject ids of
	// drivers, orders and toppings that do not exist.
	ValidateReferences bool
	Notifier           Notifier
	// Now defaults to time.Now.
	Now func() time.Time
}

type base struct {
	store        store.Store
	notifier     Notifier
	now          func() time.Time
	validateRefs bool
}

func newBase(st store.Store, opts Options) base {
	b := base{
		store:        st,
		notifier:     opts.Notifier,
		now:          opts.Now,
		validateRefs: opts.ValidateReferences,
	}
	if b.notifier == nil {
		b.notifier = nopNotifier{}
	}
	if b.now == nil {
		b.now = time.Now
	}
	return b
}

var _ Notifier = (*dispatch.Hub)(nil)

// Services bundles every application service over one store.
type Services struct {
	Orders    *OrderService
	Links     *LinkService
	Customers *CustomerService
	Drivers   *DriverService
	Toppings  *ToppingService
}

func New(st store.Store, opts Options) *Services {
	return &Services{
		Orders:    NewOrderService(st, opts),
		Links:     NewLinkService(st, opts),
		Customers: NewCustomerService(st, opts),
		Drivers:   NewDriverService(st, opts),
		Toppings:  NewToppingService(st, opts),
	}
}

// snapshot loads only the rows the given orders refer to: their links, and
// the customers, drivers and toppings those reference.
func (b *base) snapshot(ctx context.Context, orders []models.Order) (models.Snapshot, error) {
	var snap models.Snapshot

	orderIDs := make([]uint, 0, len(orders))
	customerIDs := make([]uint, 0, len(orders))
	driverIDs := make([]uint, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
		customerIDs = append(customerIDs, o.CustomerID)
		if o.DriverID != nil {
			driverIDs = append(driverIDs, *o.DriverID)
		}
	}

	var err error
	if snap.Links, err = b.store.ListToppingLinksByOrders(ctx, orderIDs); err != nil {
		return snap, errors.Wrap(err, "load topping links")
	}
	toppingIDs := make([]uint, 0, len(snap.Links))
	for _, l := range snap.Links {
		toppingIDs = append(toppingIDs, l.ToppingID)
	}

	if snap.Toppings, err = b.store.ListToppingsByIDs(ctx, toppingIDs); err != nil {
		return snap, errors.Wrap(err, "load toppings")
	}
	if snap.Customers, err = b.store.ListCustomersByIDs(ctx, customerIDs); err != nil {
		return snap, errors.Wrap(err, "load customers")
	}
	if snap.Drivers, err = b.store.ListDriversByIDs(ctx, driverIDs); err != nil {
		return snap, errors.Wrap(err, "load drivers")
	}
	return snap, nil
}

func (b *base) orderView(ctx context.Context, order models.Order) (*models.OrderView, error) {
	snap, err := b.snapshot(ctx, []models.Order{order})
	if err != nil {
		return nil, errors.Wrapf(err, "resolve order %d", order.ID)
	}
	view := models.NewOrderView(order, snap)
	return &view, nil
}

func (b *base) getOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := b.store.GetOrder(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "order %d", id)
	}
	return order, nil
}
