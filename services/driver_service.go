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

type DriverInput struct {
	Name string `json:"name" validate:"required,max=100"`
}

type DriverService struct {
	base
}

func NewDriverService(st store.Store, opts Options) *DriverService {
	return &DriverService{base: newBase(st, opts)}
}

// ListDrivers returns drivers by name, each with its deliveries.
func (s *DriverService) ListDrivers(ctx context.Context) ([]models.DriverView, error) {
	drivers, err := s.store.ListDrivers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list drivers")
	}
	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list drivers")
	}
	snap, err := s.snapshot(ctx, orders)
	if err != nil {
		return nil, errors.Wrap(err, "list drivers")
	}
	return models.NewDriverViews(drivers, orders, snap), nil
}

// GetDriver returns the driver with deliveries newest first.
func (s *DriverService) GetDriver(ctx context.Context, id uint) (*models.DriverView, error) {
	driver, err := s.store.GetDriver(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "driver %d", id)
	}
	orders, err := s.store.ListOrdersByDriver(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "list deliveries of driver %d", id)
	}
	snap, err := s.snapshot(ctx, orders)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve driver %d", id)
	}
	view := models.NewDriverView(*driver, orders, snap)
	return &view, nil
}

func (s *DriverService) CreateDriver(ctx context.Context, input DriverInput) (*models.Driver, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	driver := models.Driver{Name: input.Name}
	if err := s.store.CreateDriver(ctx, &driver); err != nil {
		return nil, errors.Wrapf(err, "create driver %q", input.Name)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"driver_id": driver.ID,
		"name":      driver.Name,
	}).Info("Driver created")
	return &driver, nil
}

// DeleteDriver removes the driver; its orders stay and lose their driver.
func (s *DriverService) DeleteDriver(ctx context.Context, id uint) error {
	if err := s.store.DeleteDriver(ctx, id); err != nil {
		return notFoundOr(err, "driver %d", id)
	}
	utils.InfoLogger.WithField("driver_id", id).Info("Driver deleted")
	return nil
}
