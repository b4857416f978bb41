package database

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/yeremiapane/tuber-treats/models"
	"github.com/yeremiapane/tuber-treats/store"
	"github.com/yeremiapane/tuber-treats/utils"
)

// Seed inserts the demo customers, drivers, toppings, orders and topping
// links. It does nothing when any customer already exists and reports whether
// it wrote anything.
func Seed(ctx context.Context, st store.Store, now time.Time) (bool, error) {
	existing, err := st.ListCustomers(ctx)
	if err != nil {
		return false, errors.Wrap(err, "check existing customers")
	}
	if len(existing) > 0 {
		utils.InfoLogger.Printf("Seed skipped, %d customers already present", len(existing))
		return false, nil
	}

	customers := []models.Customer{
		{Name: "Alice Johnson", Address: "123 Main St, Anytown, USA"},
		{Name: "Bob Smith", Address: "456 Oak Ave, Somewhere, USA"},
		{Name: "Carol Davis", Address: "789 Pine Rd, Elsewhere, USA"},
		{Name: "Dave Wilson", Address: "321 Elm St, Nowhere, USA"},
		{Name: "Eve Brown", Address: "654 Maple Dr, Anywhere, USA"},
	}
	for i := range customers {
		if err := st.CreateCustomer(ctx, &customers[i]); err != nil {
			return false, errors.Wrapf(err, "seed customer %q", customers[i].Name)
		}
	}

	drivers := []models.Driver{
		{Name: "Frank Miller"},
		{Name: "Grace Lee"},
		{Name: "Henry Adams"},
	}
	for i := range drivers {
		if err := st.CreateDriver(ctx, &drivers[i]); err != nil {
			return false, errors.Wrapf(err, "seed driver %q", drivers[i].Name)
		}
	}

	toppings := []models.Topping{
		{Name: "Butter"},
		{Name: "Sour Cream"},
		{Name: "Chives"},
		{Name: "Bacon Bits"},
		{Name: "Cheese"},
	}
	for i := range toppings {
		if err := st.CreateTopping(ctx, &toppings[i]); err != nil {
			return false, errors.Wrapf(err, "seed topping %q", toppings[i].Name)
		}
	}

	delivered := now.Add(-2 * time.Hour)
	orders := []models.Order{
		{PlacedAt: now.AddDate(0, 0, -2), CustomerID: customers[0].ID, DriverID: &drivers[0].ID},
		{PlacedAt: now.AddDate(0, 0, -1), CustomerID: customers[1].ID, DriverID: &drivers[1].ID, DeliveredAt: &delivered},
		{PlacedAt: now.Add(-3 * time.Hour), CustomerID: customers[2].ID},
	}
	for i := range orders {
		if err := st.CreateOrder(ctx, &orders[i]); err != nil {
			return false, errors.Wrapf(err, "seed order %d", i+1)
		}
	}

	links := []models.OrderTopping{
		{OrderID: orders[0].ID, ToppingID: toppings[0].ID},
		{OrderID: orders[0].ID, ToppingID: toppings[1].ID},
		{OrderID: orders[1].ID, ToppingID: toppings[2].ID},
		{OrderID: orders[1].ID, ToppingID: toppings[3].ID},
		{OrderID: orders[2].ID, ToppingID: toppings[4].ID},
	}
	for i := range links {
		if err := st.CreateToppingLink(ctx, &links[i]); err != nil {
			return false, errors.Wrapf(err, "seed topping link %d", i+1)
		}
	}

	utils.InfoLogger.Printf("Seeded %d customers, %d drivers, %d toppings, %d orders, %d topping links",
		len(customers), len(drivers), len(toppings), len(orders), len(links))
	return true, nil
}
