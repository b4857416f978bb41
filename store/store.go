// Package store persists the five delivery entities. Implementations own the
// storage-level referential rules: deleting a topping or an order removes its
// links, deleting a driver clears driver_id on its orders.
package store

import (
	"context"
	"time"

	"github.com/yeremiapane/tuber-treats/models"
)

type Store interface {
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	GetCustomer(ctx context.Context, id uint) (*models.Customer, error)
	// ListCustomers returns customers ordered by name.
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	// FindCustomerByName matches case-insensitively.
	FindCustomerByName(ctx context.Context, name string) (*models.Customer, error)
	// ListCustomersByIDs returns the customers among ids that exist, by id.
	ListCustomersByIDs(ctx context.Context, ids []uint) ([]models.Customer, error)
	DeleteCustomer(ctx context.Context, id uint) error

	CreateDriver(ctx context.Context, driver *models.Driver) error
	GetDriver(ctx context.Context, id uint) (*models.Driver, error)
	// ListDrivers returns drivers ordered by name.
	ListDrivers(ctx context.Context) ([]models.Driver, error)
	ListDriversByIDs(ctx context.Context, ids []uint) ([]models.Driver, error)
	DeleteDriver(ctx context.Context, id uint) error

	CreateTopping(ctx context.Context, topping *models.Topping) error
	GetTopping(ctx context.Context, id uint) (*models.Topping, error)
	// ListToppings returns toppings ordered by id.
	ListToppings(ctx context.Context) ([]models.Topping, error)
	ListToppingsByIDs(ctx context.Context, ids []uint) ([]models.Topping, error)
	DeleteTopping(ctx context.Context, id uint) error

	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
	// ListOrders returns orders by placed_at ascending, ties by id.
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID uint) ([]models.Order, error)
	ListOrdersByDriver(ctx context.Context, driverID uint) ([]models.Order, error)
	CountOrdersByCustomer(ctx context.Context, customerID uint) (int64, error)
	SetOrderDriver(ctx context.Context, orderID, driverID uint) error
	// MarkDelivered sets delivered_at only if the order has a driver and is not
	// delivered yet. It reports whether the row was changed.
	MarkDelivered(ctx context.Context, orderID uint, at time.Time) (bool, error)

	CreateToppingLink(ctx context.Context, link *models.OrderTopping) error
	GetToppingLink(ctx context.Context, id uint) (*models.OrderTopping, error)
	// ListToppingLinks returns links ordered by id.
	ListToppingLinks(ctx context.Context) ([]models.OrderTopping, error)
	ListToppingLinksByOrders(ctx context.Context, orderIDs []uint) ([]models.OrderTopping, error)
	DeleteToppingLink(ctx context.Context, id uint) error
}
