package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yeremiapane/tuber-treats/models"
)

// MemoryStore keeps everything in maps guarded by one lock. Ids come from
// per-entity counters and are never handed out twice.
type MemoryStore struct {
	mu sync.RWMutex

	customers map[uint]models.Customer
	drivers   map[uint]models.Driver
	toppings  map[uint]models.Topping
	orders    map[uint]models.Order
	links     map[uint]models.OrderTopping

	lastCustomerID uint
	lastDriverID   uint
	lastToppingID  uint
	lastOrderID    uint
	lastLinkID     uint
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		customers: make(map[uint]models.Customer),
		drivers:   make(map[uint]models.Driver),
		toppings:  make(map[uint]models.Topping),
		orders:    make(map[uint]models.Order),
		links:     make(map[uint]models.OrderTopping),
	}
}

func copyOrder(o models.Order) models.Order {
	if o.DriverID != nil {
		id := *o.DriverID
		o.DriverID = &id
	}
	if o.DeliveredAt != nil {
		at := *o.DeliveredAt
		o.DeliveredAt = &at
	}
	o.Customer = nil
	o.Driver = nil
	return o
}

// uniqueIDs returns ids sorted ascending without duplicates.
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ----------------------------------------------------------------
//                      CUSTOMERS
// ----------------------------------------------------------------

func (m *MemoryStore) CreateCustomer(_ context.Context, customer *models.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastCustomerID++
	now := time.Now()
	customer.ID = m.lastCustomerID
	customer.NameKey = models.CustomerNameKey(customer.Name)
	customer.CreatedAt = now
	customer.UpdatedAt = now
	m.customers[customer.ID] = *customer
	return nil
}

func (m *MemoryStore) GetCustomer(_ context.Context, id uint) (*models.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.customers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (m *MemoryStore) ListCustomers(_ context.Context) ([]models.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	customers := make([]models.Customer, 0, len(m.customers))
	for _, c := range m.customers {
		customers = append(customers, c)
	}
	sort.Slice(customers, func(i, j int) bool {
		if customers[i].Name == customers[j].Name {
			return customers[i].ID < customers[j].ID
		}
		return customers[i].Name < customers[j].Name
	})
	return customers, nil
}

func (m *MemoryStore) FindCustomerByName(_ context.Context, name string) (*models.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	key := models.CustomerNameKey(name)
	var found *models.Customer
	for _, c := range m.customers {
		if c.NameKey != key {
			continue
		}
		if found == nil || c.ID < found.ID {
			c := c
			found = &c
		}
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

func (m *MemoryStore) ListCustomersByIDs(_ context.Context, ids []uint) ([]models.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	customers := make([]models.Customer, 0, len(ids))
	for _, id := range uniqueIDs(ids) {
		if c, ok := m.customers[id]; ok {
			customers = append(customers, c)
		}
	}
	return customers, nil
}

func (m *MemoryStore) DeleteCustomer(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.customers[id]; !ok {
		return ErrNotFound
	}
	for _, o := range m.orders {
		if o.CustomerID == id {
			return ErrReferenceViolated
		}
	}
	delete(m.customers, id)
	return nil
}

// ----------------------------------------------------------------
//                      DRIVERS
// ----------------------------------------------------------------

func (m *MemoryStore) CreateDriver(_ context.Context, driver *models.Driver) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastDriverID++
	now := time.Now()
	driver.ID = m.lastDriverID
	driver.CreatedAt = now
	driver.UpdatedAt = now
	m.drivers[driver.ID] = *driver
	return nil
}

func (m *MemoryStore) GetDriver(_ context.Context, id uint) (*models.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.drivers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &d, nil
}

func (m *MemoryStore) ListDrivers(_ context.Context) ([]models.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	drivers := make([]models.Driver, 0, len(m.drivers))
	for _, d := range m.drivers {
		drivers = append(drivers, d)
	}
	sort.Slice(drivers, func(i, j int) bool {
		if drivers[i].Name == drivers[j].Name {
			return drivers[i].ID < drivers[j].ID
		}
		return drivers[i].Name < drivers[j].Name
	})
	return drivers, nil
}

func (m *MemoryStore) ListDriversByIDs(_ context.Context, ids []uint) ([]models.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	drivers := make([]models.Driver, 0, len(ids))
	for _, id := range uniqueIDs(ids) {
		if d, ok := m.drivers[id]; ok {
			drivers = append(drivers, d)
		}
	}
	return drivers, nil
}

func (m *MemoryStore) DeleteDriver(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.drivers[id]; !ok {
		return ErrNotFound
	}
	for oid, o := range m.orders {
		if o.DriverID != nil && *o.DriverID == id {
			o.DriverID = nil
			m.orders[oid] = o
		}
	}
	delete(m.drivers, id)
	return nil
}

// ----------------------------------------------------------------
//                      TOPPINGS
// ----------------------------------------------------------------

func (m *MemoryStore) CreateTopping(_ context.Context, topping *models.Topping) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastToppingID++
	topping.ID = m.lastToppingID
	m.toppings[topping.ID] = *topping
	return nil
}

func (m *MemoryStore) GetTopping(_ context.Context, id uint) (*models.Topping, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.toppings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (m *MemoryStore) ListToppings(_ context.Context) ([]models.Topping, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	toppings := make([]models.Topping, 0, len(m.toppings))
	for _, t := range m.toppings {
		toppings = append(toppings, t)
	}
	sort.Slice(toppings, func(i, j int) bool { return toppings[i].ID < toppings[j].ID })
	return toppings, nil
}

func (m *MemoryStore) ListToppingsByIDs(_ context.Context, ids []uint) ([]models.Topping, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	toppings := make([]models.Topping, 0, len(ids))
	for _, id := range uniqueIDs(ids) {
		if t, ok := m.toppings[id]; ok {
			toppings = append(toppings, t)
		}
	}
	return toppings, nil
}

func (m *MemoryStore) DeleteTopping(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.toppings[id]; !ok {
		return ErrNotFound
	}
	for lid, l := range m.links {
		if l.ToppingID == id {
			delete(m.links, lid)
		}
	}
	delete(m.toppings, id)
	return nil
}

// ----------------------------------------------------------------
//                      ORDERS
// ----------------------------------------------------------------

func (m *MemoryStore) CreateOrder(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.customers[order.CustomerID]; !ok {
		return ErrReferenceViolated
	}
	m.lastOrderID++
	order.ID = m.lastOrderID
	m.orders[order.ID] = copyOrder(*order)
	return nil
}

func (m *MemoryStore) GetOrder(_ context.Context, id uint) (*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	o = copyOrder(o)
	return &o, nil
}

func (m *MemoryStore) listOrders(keep func(models.Order) bool) []models.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()

	orders := make([]models.Order, 0)
	for _, o := range m.orders {
		if keep(o) {
			orders = append(orders, copyOrder(o))
		}
	}
	models.SortOrdersOldestFirst(orders)
	return orders
}

func (m *MemoryStore) ListOrders(_ context.Context) ([]models.Order, error) {
	return m.listOrders(func(models.Order) bool { return true }), nil
}

func (m *MemoryStore) ListOrdersByCustomer(_ context.Context, customerID uint) ([]models.Order, error) {
	return m.listOrders(func(o models.Order) bool { return o.CustomerID == customerID }), nil
}

func (m *MemoryStore) ListOrdersByDriver(_ context.Context, driverID uint) ([]models.Order, error) {
	return m.listOrders(func(o models.Order) bool {
		return o.DriverID != nil && *o.DriverID == driverID
	}), nil
}

func (m *MemoryStore) CountOrdersByCustomer(ctx context.Context, customerID uint) (int64, error) {
	orders, _ := m.ListOrdersByCustomer(ctx, customerID)
	return int64(len(orders)), nil
}

func (m *MemoryStore) SetOrderDriver(_ context.Context, orderID, driverID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[orderID]
	if !ok {
		return ErrNotFound
	}
	o.DriverID = &driverID
	m.orders[orderID] = o
	return nil
}

func (m *MemoryStore) MarkDelivered(_ context.Context, orderID uint, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[orderID]
	if !ok || o.DriverID == nil || o.DeliveredAt != nil {
		return false, nil
	}
	o.DeliveredAt = &at
	m.orders[orderID] = o
	return true, nil
}

// ----------------------------------------------------------------
//                      TOPPING LINKS
// ----------------------------------------------------------------

func (m *MemoryStore) CreateToppingLink(_ context.Context, link *models.OrderTopping) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastLinkID++
	link.ID = m.lastLinkID
	stored := *link
	stored.Order = nil
	stored.Topping = nil
	m.links[link.ID] = stored
	return nil
}

func (m *MemoryStore) GetToppingLink(_ context.Context, id uint) (*models.OrderTopping, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.links[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &l, nil
}

func (m *MemoryStore) listLinks(keep func(models.OrderTopping) bool) []models.OrderTopping {
	m.mu.RLock()
	defer m.mu.RUnlock()

	links := make([]models.OrderTopping, 0)
	for _, l := range m.links {
		if keep(l) {
			links = append(links, l)
		}
	}
	sort.Slice(links, func(i, j int) bool { return links[i].ID < links[j].ID })
	return links
}

func (m *MemoryStore) ListToppingLinks(_ context.Context) ([]models.OrderTopping, error) {
	return m.listLinks(func(models.OrderTopping) bool { return true }), nil
}

func (m *MemoryStore) ListToppingLinksByOrders(_ context.Context, orderIDs []uint) ([]models.OrderTopping, error) {
	wanted := make(map[uint]bool, len(orderIDs))
	for _, id := range orderIDs {
		wanted[id] = true
	}
	return m.listLinks(func(l models.OrderTopping) bool { return wanted[l.OrderID] }), nil
}

func (m *MemoryStore) DeleteToppingLink(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.links[id]; !ok {
		return ErrNotFound
	}
	delete(m.links, id)
	return nil
}
