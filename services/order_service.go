package services

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/tuber-treats/dispatch"
	"github.com/yeremiapane/tuber-treats/models"
	"github.com/yeremiapane/tuber-treats/store"
	"github.com/yeremiapane/tuber-treats/utils"
)

type OrderService struct {
	base
}

func NewOrderService(st store.Store, opts Options) *OrderService {
	return &OrderService{base: newBase(st, opts)}
}

// ListOrders returns every order oldest first.
func (s *OrderService) ListOrders(ctx context.Context) ([]models.OrderView, error) {
	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	snap, err := s.snapshot(ctx, orders)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return models.NewOrderViews(orders, snap), nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.OrderView, error) {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.orderView(ctx, *order)
}

// CreateOrder places a new order for an existing customer. The order starts
// without a driver, delivery time or toppings.
func (s *OrderService) CreateOrder(ctx context.Context, customerID uint) (*models.OrderView, error) {
	if _, err := s.store.GetCustomer(ctx, customerID); err != nil {
		return nil, notFoundOr(err, "customer %d", customerID)
	}

	order := models.Order{
		PlacedAt:   s.now(),
		CustomerID: customerID,
	}
	if err := s.store.CreateOrder(ctx, &order); err != nil {
		if errors.Is(err, store.ErrReferenceViolated) {
			return nil, errors.Wrapf(ErrNotFound, "customer %d", customerID)
		}
		return nil, errors.Wrapf(err, "create order for customer %d", customerID)
	}

	view, err := s.orderView(ctx, order)
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id":    order.ID,
		"customer_id": customerID,
	}).Info("Order created")
	s.notifier.Publish(dispatch.EventOrderCreated, view)
	return view, nil
}

// AssignDriver sets the order's driver. Re-assigning the same driver leaves
// the order unchanged.
func (s *OrderService) AssignDriver(ctx context.Context, orderID, driverID uint) (*models.OrderView, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if s.validateRefs {
		if _, err := s.store.GetDriver(ctx, driverID); err != nil {
			return nil, notFoundOr(err, "driver %d", driverID)
		}
	}

	if order.DriverID == nil || *order.DriverID != driverID {
		if err := s.store.SetOrderDriver(ctx, orderID, driverID); err != nil {
			if errors.Is(err, store.ErrReferenceViolated) {
				return nil, errors.Wrapf(ErrNotFound, "driver %d", driverID)
			}
			return nil, notFoundOr(err, "assign driver %d to order %d", driverID, orderID)
		}
		order.DriverID = &driverID
	}

	view, err := s.orderView(ctx, *order)
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id":  orderID,
		"driver_id": driverID,
	}).Info("Driver assigned")
	s.notifier.Publish(dispatch.EventDriverAssigned, view)
	return view, nil
}

// completionBlocker explains why order cannot be completed, or returns nil.
func completionBlocker(order *models.Order) error {
	switch {
	case !order.HasDriver():
		return errors.Wrapf(ErrInvalidState, "order %d: must assign driver before completing", order.ID)
	case order.IsDelivered():
		return errors.Wrapf(ErrInvalidState, "order %d: already completed", order.ID)
	}
	return nil
}

// CompleteOrder stamps the delivery time. The write is conditional on the
// order still being driven and undelivered, so of two racing completions only
// one succeeds.
func (s *OrderService) CompleteOrder(ctx context.Context, orderID uint) (*models.OrderView, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := completionBlocker(order); err != nil {
		return nil, err
	}

	at := s.now()
	updated, err := s.store.MarkDelivered(ctx, orderID, at)
	if err != nil {
		return nil, errors.Wrapf(err, "complete order %d", orderID)
	}
	if !updated {
		current, err := s.getOrder(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if err := completionBlocker(current); err != nil {
			return nil, err
		}
		return nil, errors.Wrapf(ErrInvalidState, "order %d: changed while completing", orderID)
	}
	order.DeliveredAt = &at

	view, err := s.orderView(ctx, *order)
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id":     orderID,
		"driver_id":    *order.DriverID,
		"delivered_at": at,
	}).Info("Order completed")
	s.notifier.Publish(dispatch.EventOrderCompleted, view)
	return view, nil
}
