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

type ToppingInput struct {
	Name string `json:"name" validate:"required,max=50"`
}

type ToppingService struct {
	base
}

func NewToppingService(st store.Store, opts Options) *ToppingService {
	return &ToppingService{base: newBase(st, opts)}
}

func (s *ToppingService) ListToppings(ctx context.Context) ([]models.Topping, error) {
	toppings, err := s.store.ListToppings(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list toppings")
	}
	return toppings, nil
}

func (s *ToppingService) GetTopping(ctx context.Context, id uint) (*models.Topping, error) {
	topping, err := s.store.GetTopping(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "topping %d", id)
	}
	return topping, nil
}

func (s *ToppingService) CreateTopping(ctx context.Context, input ToppingInput) (*models.Topping, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	topping := models.Topping{Name: input.Name}
	if err := s.store.CreateTopping(ctx, &topping); err != nil {
		return nil, errors.Wrapf(err, "create topping %q", input.Name)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"topping_id": topping.ID,
		"name":       topping.Name,
	}).Info("Topping created")
	return &topping, nil
}

// DeleteTopping removes the topping together with every link to it.
func (s *ToppingService) DeleteTopping(ctx context.Context, id uint) error {
	if err := s.store.DeleteTopping(ctx, id); err != nil {
		return notFoundOr(err, "topping %d", id)
	}
	utils.InfoLogger.WithField("topping_id", id).Info("Topping deleted")
	return nil
}
