package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/yeremiapane/tuber-treats/models"
)

// GormStore is the relational Store. It works with any GORM dialector; the
// *gorm.DB should be opened with TranslateError so foreign key failures can be
// recognised.
type GormStore struct {
	DB *gorm.DB
}

var _ Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return errors.Wrap(ErrReferenceViolated, op)
	default:
		return errors.Wrap(err, op)
	}
}

func (s *GormStore) db(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx)
}

// deleteByID removes a row of the given model and reports ErrNotFound when no
// row matched.
func deleteByID(tx *gorm.DB, model interface{}, id uint, op string) error {
	res := tx.Delete(model, id)
	if res.Error != nil {
		return translate(res.Error, op)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ----------------------------------------------------------------
//                      CUSTOMERS
// ----------------------------------------------------------------

func (s *GormStore) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	return translate(s.db(ctx).Create(customer).Error, "create customer")
}

func (s *GormStore) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db(ctx).First(&customer, id).Error; err != nil {
		return nil, translate(err, "get customer")
	}
	return &customer, nil
}

func (s *GormStore) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	if err := s.db(ctx).Order("name asc").Order("id asc").Find(&customers).Error; err != nil {
		return nil, translate(err, "list customers")
	}
	return customers, nil
}

func (s *GormStore) FindCustomerByName(ctx context.Context, name string) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db(ctx).Where("name_key = ?", models.CustomerNameKey(name)).First(&customer).Error; err != nil {
		return nil, translate(err, "find customer by name")
	}
	return &customer, nil
}

func (s *GormStore) ListCustomersByIDs(ctx context.Context, ids []uint) ([]models.Customer, error) {
	customers := make([]models.Customer, 0)
	if len(ids) == 0 {
		return customers, nil
	}
	if err := s.db(ctx).Where("id IN ?", ids).Order("id asc").Find(&customers).Error; err != nil {
		return nil, translate(err, "list customers by id")
	}
	return customers, nil
}

func (s *GormStore) DeleteCustomer(ctx context.Context, id uint) error {
	return deleteByID(s.db(ctx), &models.Customer{}, id, "delete customer")
}

// ----------------------------------------------------------------
//                      DRIVERS
// ----------------------------------------------------------------

func (s *GormStore) CreateDriver(ctx context.Context, driver *models.Driver) error {
	return translate(s.db(ctx).Create(driver).Error, "create driver")
}

func (s *GormStore) GetDriver(ctx context.Context, id uint) (*models.Driver, error) {
	var driver models.Driver
	if err := s.db(ctx).First(&driver, id).Error; err != nil {
		return nil, translate(err, "get driver")
	}
	return &driver, nil
}

func (s *GormStore) ListDrivers(ctx context.Context) ([]models.Driver, error) {
	var drivers []models.Driver
	if err := s.db(ctx).Order("name asc").Order("id asc").Find(&drivers).Error; err != nil {
		return nil, translate(err, "list drivers")
	}
	return drivers, nil
}

func (s *GormStore) ListDriversByIDs(ctx context.Context, ids []uint) ([]models.Driver, error) {
	drivers := make([]models.Driver, 0)
	if len(ids) == 0 {
		return drivers, nil
	}
	if err := s.db(ctx).Where("id IN ?", ids).Order("id asc").Find(&drivers).Error; err != nil {
		return nil, translate(err, "list drivers by id")
	}
	return drivers, nil
}

// DeleteDriver clears driver_id on the driver's orders before removing it.
func (s *GormStore) DeleteDriver(ctx context.Context, id uint) error {
	return s.db(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Order{}).
			Where("driver_id = ?", id).
			Update("driver_id", nil).Error; err != nil {
			return translate(err, "release driver orders")
		}
		return deleteByID(tx, &models.Driver{}, id, "delete driver")
	})
}

// ----------------------------------------------------------------
//                      TOPPINGS
// ----------------------------------------------------------------

func (s *GormStore) CreateTopping(ctx context.Context, topping *models.Topping) error {
	return translate(s.db(ctx).Create(topping).Error, "create topping")
}

func (s *GormStore) GetTopping(ctx context.Context, id uint) (*models.Topping, error) {
	var topping models.Topping
	if err := s.db(ctx).First(&topping, id).Error; err != nil {
		return nil, translate(err, "get topping")
	}
	return &topping, nil
}

func (s *GormStore) ListToppings(ctx context.Context) ([]models.Topping, error) {
	var toppings []models.Topping
	if err := s.db(ctx).Order("id asc").Find(&toppings).Error; err != nil {
		return nil, translate(err, "list toppings")
	}
	return toppings, nil
}

func (s *GormStore) ListToppingsByIDs(ctx context.Context, ids []uint) ([]models.Topping, error) {
	toppings := make([]models.Topping, 0)
	if len(ids) == 0 {
		return toppings, nil
	}
	if err := s.db(ctx).Where("id IN ?", ids).Order("id asc").Find(&toppings).Error; err != nil {
		return nil, translate(err, "list toppings by id")
	}
	return toppings, nil
}

// DeleteTopping removes the topping and every link that references it.
func (s *GormStore) DeleteTopping(ctx context.Context, id uint) error {
	return s.db(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("topping_id = ?", id).Delete(&models.OrderTopping{}).Error; err != nil {
			return translate(err, "delete topping links")
		}
		return deleteByID(tx, &models.Topping{}, id, "delete topping")
	})
}

// ----------------------------------------------------------------
//                      ORDERS
// ----------------------------------------------------------------

func (s *GormStore) CreateOrder(ctx context.Context, order *models.Order) error {
	return translate(s.db(ctx).Create(order).Error, "create order")
}

func (s *GormStore) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := s.db(ctx).First(&order, id).Error; err != nil {
		return nil, translate(err, "get order")
	}
	return &order, nil
}

func (s *GormStore) listOrders(ctx context.Context, op string, query interface{}, args ...interface{}) ([]models.Order, error) {
	var orders []models.Order
	tx := s.db(ctx)
	if query != nil {
		tx = tx.Where(query, args...)
	}
	if err := tx.Order("placed_at asc").Order("id asc").Find(&orders).Error; err != nil {
		return nil, translate(err, op)
	}
	return orders, nil
}

func (s *GormStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.listOrders(ctx, "list orders", nil)
}

func (s *GormStore) ListOrdersByCustomer(ctx context.Context, customerID uint) ([]models.Order, error) {
	return s.listOrders(ctx, "list customer orders", "customer_id = ?", customerID)
}

func (s *GormStore) ListOrdersByDriver(ctx context.Context, driverID uint) ([]models.Order, error) {
	return s.listOrders(ctx, "list driver orders", "driver_id = ?", driverID)
}

func (s *GormStore) CountOrdersByCustomer(ctx context.Context, customerID uint) (int64, error) {
	var count int64
	if err := s.db(ctx).Model(&models.Order{}).Where("customer_id = ?", customerID).Count(&count).Error; err != nil {
		return 0, translate(err, "count customer orders")
	}
	return count, nil
}

func (s *GormStore) SetOrderDriver(ctx context.Context, orderID, driverID uint) error {
	err := s.db(ctx).Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("driver_id", driverID).Error
	return translate(err, "assign driver")
}

func (s *GormStore) MarkDelivered(ctx context.Context, orderID uint, at time.Time) (bool, error) {
	res := s.db(ctx).Model(&models.Order{}).
		Where("id = ? AND driver_id IS NOT NULL AND delivered_at IS NULL", orderID).
		Update("delivered_at", at)
	if res.Error != nil {
		return false, translate(res.Error, "mark delivered")
	}
	return res.RowsAffected == 1, nil
}

// ----------------------------------------------------------------
//                      TOPPING LINKS
// ----------------------------------------------------------------

func (s *GormStore) CreateToppingLink(ctx context.Context, link *models.OrderTopping) error {
	return translate(s.db(ctx).Create(link).Error, "create topping link")
}

func (s *GormStore) GetToppingLink(ctx context.Context, id uint) (*models.OrderTopping, error) {
	var link models.OrderTopping
	if err := s.db(ctx).First(&link, id).Error; err != nil {
		return nil, translate(err, "get topping link")
	}
	return &link, nil
}

func (s *GormStore) ListToppingLinks(ctx context.Context) ([]models.OrderTopping, error) {
	var links []models.OrderTopping
	if err := s.db(ctx).Order("id asc").Find(&links).Error; err != nil {
		return nil, translate(err, "list topping links")
	}
	return links, nil
}

func (s *GormStore) ListToppingLinksByOrders(ctx context.Context, orderIDs []uint) ([]models.OrderTopping, error) {
	links := make([]models.OrderTopping, 0)
	if len(orderIDs) == 0 {
		return links, nil
	}
	if err := s.db(ctx).Where("order_id IN ?", orderIDs).Order("id asc").Find(&links).Error; err != nil {
		return nil, translate(err, "list order topping links")
	}
	return links, nil
}

func (s *GormStore) DeleteToppingLink(ctx context.Context, id uint) error {
	return deleteByID(s.db(ctx), &models.OrderTopping{}, id, "delete topping link")
}
