package services

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/tuber-treats/models"
	"github.com/yeremiapane/tuber-treats/store"
	"github.com/yeremiapane/tuber-treats/utils"
)

type CustomerInput struct {
	Name    string `json:"name" validate:"required,max=100"`
	Address string `json:"address" validate:"required,max=255"`
}

type CustomerService struct {
	base
}

func NewCustomerService(st store.Store, opts Options) *CustomerService {
	return &CustomerService{base: newBase(st, opts)}
}

// ListCustomers returns customers by name, each with its orders.
func (s *CustomerService) ListCustomers(ctx context.Context) ([]models.CustomerView, error) {
	customers, err := s.store.ListCustomers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list customers")
	}
	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list customers")
	}
	snap, err := s.snapshot(ctx, orders)
	if err != nil {
		return nil, errors.Wrap(err, "list customers")
	}
	return models.NewCustomerViews(customers, orders, snap), nil
}

// GetCustomer returns the customer with its orders newest first.
func (s *CustomerService) GetCustomer(ctx context.Context, id uint) (*models.CustomerView, error) {
	customer, err := s.store.GetCustomer(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "customer %d", id)
	}
	orders, err := s.store.ListOrdersByCustomer(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "list orders of customer %d", id)
	}
	snap, err := s.snapshot(ctx, orders)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve customer %d", id)
	}
	view := models.NewCustomerView(*customer, orders, snap)
	return &view, nil
}

// CreateCustomer rejects blank fields and names already taken, ignoring case.
func (s *CustomerService) CreateCustomer(ctx context.Context, input CustomerInput) (*models.Customer, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Address = strings.TrimSpace(input.Address)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	existing, err := s.store.FindCustomerByName(ctx, input.Name)
	switch {
	case err == nil:
		return nil, errors.Wrapf(ErrConflict, "customer named %q already exists (id %d)", input.Name, existing.ID)
	case !errors.Is(err, store.ErrNotFound):
		return nil, errors.Wrapf(err, "look up customer %q", input.Name)
	}

	customer := models.Customer{Name: input.Name, Address: input.Address}
	if err := s.store.CreateCustomer(ctx, &customer); err != nil {
		return nil, errors.Wrapf(err, "create customer %q", input.Name)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"customer_id": customer.ID,
		"name":        customer.Name,
	}).Info("Customer created")
	return &customer, nil
}

// DeleteCustomer refuses while the customer owns any order, delivered or not.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uint) error {
	if _, err := s.store.GetCustomer(ctx, id); err != nil {
		return notFoundOr(err, "customer %d", id)
	}

	count, err := s.store.CountOrdersByCustomer(ctx, id)
	if err != nil {
		return errors.Wrapf(err, "count orders of customer %d", id)
	}
	if count > 0 {
		return errors.Wrapf(ErrInvalidState, "customer %d: cannot delete customer with existing orders", id)
	}

	if err := s.store.DeleteCustomer(ctx, id); err != nil {
		if errors.Is(err, store.ErrReferenceViolated) {
			return errors.Wrapf(ErrInvalidState, "customer %d: cannot delete customer with existing orders", id)
		}
		return notFoundOr(err, "customer %d", id)
	}

	utils.InfoLogger.WithField("customer_id", id).Info("Customer deleted")
	return nil
}
