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

// LinkService manages the OrderTopping rows that put toppings on orders.
type LinkService struct {
	base
}

func NewLinkService(st store.Store, opts Options) *LinkService {
	return &LinkService{base: newBase(st, opts)}
}

func (s *LinkService) ListToppingLinks(ctx context.Context) ([]models.ToppingLinkView, error) {
	links, err := s.store.ListToppingLinks(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list topping links")
	}
	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list topping links")
	}
	toppings, err := s.store.ListToppings(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list topping links")
	}

	ordersByID := make(map[uint]models.Order, len(orders))
	for _, o := range orders {
		ordersByID[o.ID] = o
	}
	toppingsByID := make(map[uint]models.Topping, len(toppings))
	for _, t := range toppings {
		toppingsByID[t.ID] = t
	}

	views := make([]models.ToppingLinkView, 0, len(links))
	for _, l := range links {
		var order *models.Order
		if o, ok := ordersByID[l.OrderID]; ok {
			order = &o
		}
		var topping *models.Topping
		if t, ok := toppingsByID[l.ToppingID]; ok {
			topping = &t
		}
		views = append(views, models.NewToppingLinkView(l, order, topping))
	}
	return views, nil
}

func (s *LinkService) GetToppingLink(ctx context.Context, id uint) (*models.ToppingLinkView, error) {
	link, err := s.store.GetToppingLink(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "topping link %d", id)
	}
	return s.linkView(ctx, *link)
}

// linkView resolves the link's order and topping; either may be missing.
func (s *LinkService) linkView(ctx context.Context, link models.OrderTopping) (*models.ToppingLinkView, error) {
	order, err := s.store.GetOrder(ctx, link.OrderID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, errors.Wrapf(err, "resolve topping link %d", link.ID)
	}
	topping, err := s.store.GetTopping(ctx, link.ToppingID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, errors.Wrapf(err, "resolve topping link %d", link.ID)
	}
	view := models.NewToppingLinkView(link, order, topping)
	return &view, nil
}

// AddToppingToOrder always creates a new link, even when the same topping is
// already on the order.
func (s *LinkService) AddToppingToOrder(ctx context.Context, orderID, toppingID uint) (*models.ToppingLinkView, error) {
	if s.validateRefs {
		if _, err := s.store.GetOrder(ctx, orderID); err != nil {
			return nil, notFoundOr(err, "order %d", orderID)
		}
		if _, err := s.store.GetTopping(ctx, toppingID); err != nil {
			return nil, notFoundOr(err, "topping %d", toppingID)
		}
	}

	link := models.OrderTopping{OrderID: orderID, ToppingID: toppingID}
	if err := s.store.CreateToppingLink(ctx, &link); err != nil {
		if errors.Is(err, store.ErrReferenceViolated) {
			return nil, errors.Wrapf(ErrNotFound, "order %d or topping %d", orderID, toppingID)
		}
		return nil, errors.Wrapf(err, "add topping %d to order %d", toppingID, orderID)
	}

	view, err := s.linkView(ctx, link)
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"link_id":    link.ID,
		"order_id":   orderID,
		"topping_id": toppingID,
	}).Info("Topping added to order")
	s.notifier.Publish(dispatch.EventToppingAdded, view)
	return view, nil
}

func (s *LinkService) RemoveToppingLink(ctx context.Context, id uint) error {
	link, err := s.store.GetToppingLink(ctx, id)
	if err != nil {
		return notFoundOr(err, "topping link %d", id)
	}
	if err := s.store.DeleteToppingLink(ctx, id); err != nil {
		return notFoundOr(err, "topping link %d", id)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"link_id":  id,
		"order_id": link.OrderID,
	}).Info("Topping removed from order")
	s.notifier.Publish(dispatch.EventToppingRemoved, map[string]interface{}{
		"id":         link.ID,
		"order_id":   link.OrderID,
		"topping_id": link.ToppingID,
	})
	return nil
}
