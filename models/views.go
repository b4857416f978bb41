package models

import (
	"sort"
	"time"
)

// The types below are read models. Each embeds its parent as a flat summary
// and omits the parent's back-collection, so no view can contain a cycle.

type CustomerSummary struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

type DriverSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// OrderSummary is an order without any nested relations.
type OrderSummary struct {
	ID          uint       `json:"id"`
	PlacedAt    time.Time  `json:"placed_at"`
	CustomerID  uint       `json:"customer_id"`
	DriverID    *uint      `json:"driver_id"`
	DeliveredAt *time.Time `json:"delivered_at"`
}

type OrderView struct {
	ID          uint             `json:"id"`
	PlacedAt    time.Time        `json:"placed_at"`
	CustomerID  uint             `json:"customer_id"`
	Customer    *CustomerSummary `json:"customer"`
	DriverID    *uint            `json:"driver_id"`
	Driver      *DriverSummary   `json:"driver"`
	DeliveredAt *time.Time       `json:"delivered_at"`
	Toppings    []Topping        `json:"toppings"`
}

// CustomerOrderView is an order as listed under its customer.
type CustomerOrderView struct {
	ID          uint           `json:"id"`
	PlacedAt    time.Time      `json:"placed_at"`
	DriverID    *uint          `json:"driver_id"`
	Driver      *DriverSummary `json:"driver"`
	DeliveredAt *time.Time     `json:"delivered_at"`
	Toppings    []Topping      `json:"toppings"`
}

type CustomerView struct {
	ID      uint                `json:"id"`
	Name    string              `json:"name"`
	Address string              `json:"address"`
	Orders  []CustomerOrderView `json:"orders"`
}

// DeliveryView is an order as listed under its driver.
type DeliveryView struct {
	ID          uint             `json:"id"`
	PlacedAt    time.Time        `json:"placed_at"`
	CustomerID  uint             `json:"customer_id"`
	Customer    *CustomerSummary `json:"customer"`
	DeliveredAt *time.Time       `json:"delivered_at"`
	Toppings    []Topping        `json:"toppings"`
}

type DriverView struct {
	ID         uint           `json:"id"`
	Name       string         `json:"name"`
	Deliveries []DeliveryView `json:"deliveries"`
}

type ToppingLinkView struct {
	ID        uint          `json:"id"`
	OrderID   uint          `json:"order_id"`
	Order     *OrderSummary `json:"order"`
	ToppingID uint          `json:"topping_id"`
	Topping   *Topping      `json:"topping"`
}

// Snapshot holds the rows a view is projected from. Views are always built
// from a fresh Snapshot; nothing derived is kept on the entities.
type Snapshot struct {
	Customers []Customer
	Drivers   []Driver
	Toppings  []Topping
	Links     []OrderTopping
}

// ResolveToppings returns the distinct toppings linked to order, in link id
// order. Links whose topping no longer exists are skipped. The result is never
// nil.
func ResolveToppings(order Order, links []OrderTopping, toppings []Topping) []Topping {
	byID := make(map[uint]Topping, len(toppings))
	for _, t := range toppings {
		byID[t.ID] = t
	}
	return resolveToppings(order.ID, links, byID)
}

func resolveToppings(orderID uint, links []OrderTopping, toppings map[uint]Topping) []Topping {
	own := make([]OrderTopping, 0)
	for _, l := range links {
		if l.OrderID == orderID {
			own = append(own, l)
		}
	}
	sort.Slice(own, func(i, j int) bool { return own[i].ID < own[j].ID })

	result := make([]Topping, 0, len(own))
	seen := make(map[uint]bool, len(own))
	for _, l := range own {
		t, ok := toppings[l.ToppingID]
		if !ok || seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		result = append(result, t)
	}
	return result
}

type snapshotIndex struct {
	customers map[uint]Customer
	drivers   map[uint]Driver
	toppings  map[uint]Topping
	links     []OrderTopping
}

func (s Snapshot) index() snapshotIndex {
	idx := snapshotIndex{
		customers: make(map[uint]Customer, len(s.Customers)),
		drivers:   make(map[uint]Driver, len(s.Drivers)),
		toppings:  make(map[uint]Topping, len(s.Toppings)),
		links:     s.Links,
	}
	for _, c := range s.Customers {
		idx.customers[c.ID] = c
	}
	for _, d := range s.Drivers {
		idx.drivers[d.ID] = d
	}
	for _, t := range s.Toppings {
		idx.toppings[t.ID] = t
	}
	return idx
}

func (idx snapshotIndex) customer(id uint) *CustomerSummary {
	c, ok := idx.customers[id]
	if !ok {
		return nil
	}
	return &CustomerSummary{ID: c.ID, Name: c.Name, Address: c.Address}
}

func (idx snapshotIndex) driver(id *uint) *DriverSummary {
	if id == nil {
		return nil
	}
	d, ok := idx.drivers[*id]
	if !ok {
		return nil
	}
	return &DriverSummary{ID: d.ID, Name: d.Name}
}

func (idx snapshotIndex) orderView(o Order) OrderView {
	return OrderView{
		ID:          o.ID,
		PlacedAt:    o.PlacedAt,
		CustomerID:  o.CustomerID,
		Customer:    idx.customer(o.CustomerID),
		DriverID:    o.DriverID,
		Driver:      idx.driver(o.DriverID),
		DeliveredAt: o.DeliveredAt,
		Toppings:    resolveToppings(o.ID, idx.links, idx.toppings),
	}
}

// NewOrderView resolves customer, driver and toppings for a single order.
func NewOrderView(o Order, s Snapshot) OrderView {
	return s.index().orderView(o)
}

// NewOrderViews resolves a list of orders, keeping their order.
func NewOrderViews(orders []Order, s Snapshot) []OrderView {
	idx := s.index()
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, idx.orderView(o))
	}
	return views
}

func (idx snapshotIndex) customerView(c Customer, orders []Order) CustomerView {
	own := make([]Order, 0)
	for _, o := range orders {
		if o.CustomerID == c.ID {
			own = append(own, o)
		}
	}
	SortOrdersNewestFirst(own)

	view := CustomerView{ID: c.ID, Name: c.Name, Address: c.Address, Orders: make([]CustomerOrderView, 0, len(own))}
	for _, o := range own {
		view.Orders = append(view.Orders, CustomerOrderView{
			ID:          o.ID,
			PlacedAt:    o.PlacedAt,
			DriverID:    o.DriverID,
			Driver:      idx.driver(o.DriverID),
			DeliveredAt: o.DeliveredAt,
			Toppings:    resolveToppings(o.ID, idx.links, idx.toppings),
		})
	}
	return view
}

// NewCustomerView lists the customer's orders newest first. orders may contain
// orders of other customers; they are ignored.
func NewCustomerView(c Customer, orders []Order, s Snapshot) CustomerView {
	return s.index().customerView(c, orders)
}

func NewCustomerViews(customers []Customer, orders []Order, s Snapshot) []CustomerView {
	idx := s.index()
	views := make([]CustomerView, 0, len(customers))
	for _, c := range customers {
		views = append(views, idx.customerView(c, orders))
	}
	return views
}

func (idx snapshotIndex) driverView(d Driver, orders []Order) DriverView {
	own := make([]Order, 0)
	for _, o := range orders {
		if o.DriverID != nil && *o.DriverID == d.ID {
			own = append(own, o)
		}
	}
	SortOrdersNewestFirst(own)

	view := DriverView{ID: d.ID, Name: d.Name, Deliveries: make([]DeliveryView, 0, len(own))}
	for _, o := range own {
		view.Deliveries = append(view.Deliveries, DeliveryView{
			ID:          o.ID,
			PlacedAt:    o.PlacedAt,
			CustomerID:  o.CustomerID,
			Customer:    idx.customer(o.CustomerID),
			DeliveredAt: o.DeliveredAt,
			Toppings:    resolveToppings(o.ID, idx.links, idx.toppings),
		})
	}
	return view
}

// NewDriverView lists the driver's deliveries newest first.
func NewDriverView(d Driver, orders []Order, s Snapshot) DriverView {
	return s.index().driverView(d, orders)
}

func NewDriverViews(drivers []Driver, orders []Order, s Snapshot) []DriverView {
	idx := s.index()
	views := make([]DriverView, 0, len(drivers))
	for _, d := range drivers {
		views = append(views, idx.driverView(d, orders))
	}
	return views
}

// NewToppingLinkView embeds the linked order and topping when they exist.
func NewToppingLinkView(link OrderTopping, order *Order, topping *Topping) ToppingLinkView {
	view := ToppingLinkView{
		ID:        link.ID,
		OrderID:   link.OrderID,
		ToppingID: link.ToppingID,
	}
	if order != nil {
		view.Order = &OrderSummary{
			ID:          order.ID,
			PlacedAt:    order.PlacedAt,
			CustomerID:  order.CustomerID,
			DriverID:    order.DriverID,
			DeliveredAt: order.DeliveredAt,
		}
	}
	if topping != nil {
		t := *topping
		view.Topping = &t
	}
	return view
}

// SortOrdersOldestFirst orders by PlacedAt ascending, ties by id.
func SortOrdersOldestFirst(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].PlacedAt.Equal(orders[j].PlacedAt) {
			return orders[i].ID < orders[j].ID
		}
		return orders[i].PlacedAt.Before(orders[j].PlacedAt)
	})
}

// SortOrdersNewestFirst orders by PlacedAt descending, ties by id descending.
func SortOrdersNewestFirst(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].PlacedAt.Equal(orders[j].PlacedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].PlacedAt.After(orders[j].PlacedAt)
	})
}
