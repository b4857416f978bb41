package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/tuber-treats/config"
	"github.com/yeremiapane/tuber-treats/database"
	"github.com/yeremiapane/tuber-treats/models"
	"github.com/yeremiapane/tuber-treats/store"
)

type storeFactory func(t *testing.T) store.Store

func newGormStore(t *testing.T) store.Store {
	db, err := gorm.Open(sqlite.Open(":memory:"), config.GormConfig(false))
	require.NoError(t, err)

	// satu koneksi saja, setiap koneksi :memory: punya database sendiri
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return store.NewGormStore(db)
}

func newMemoryStore(*testing.T) store.Store {
	return store.NewMemoryStore()
}

var factories = map[string]storeFactory{
	"gorm":   newGormStore,
	"memory": newMemoryStore,
}

func forEachStore(t *testing.T, fn func(t *testing.T, st store.Store)) {
	for name, factory := range factories {
		factory := factory
		t.Run(name, func(t *testing.T) {
			fn(t, factory(t))
		})
	}
}

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func mustCustomer(t *testing.T, st store.Store, name string) models.Customer {
	c := models.Customer{Name: name, Address: name + " street"}
	require.NoError(t, st.CreateCustomer(context.Background(), &c))
	return c
}

func mustDriver(t *testing.T, st store.Store, name string) models.Driver {
	d := models.Driver{Name: name}
	require.NoError(t, st.CreateDriver(context.Background(), &d))
	return d
}

func mustTopping(t *testing.T, st store.Store, name string) models.Topping {
	tp := models.Topping{Name: name}
	require.NoError(t, st.CreateTopping(context.Background(), &tp))
	return tp
}

func mustOrder(t *testing.T, st store.Store, customerID uint, placed time.Time) models.Order {
	o := models.Order{CustomerID: customerID, PlacedAt: placed}
	require.NoError(t, st.CreateOrder(context.Background(), &o))
	return o
}

func mustLink(t *testing.T, st store.Store, orderID, toppingID uint) models.OrderTopping {
	l := models.OrderTopping{OrderID: orderID, ToppingID: toppingID}
	require.NoError(t, st.CreateToppingLink(context.Background(), &l))
	return l
}

func TestStore_MissingRowsAreNotFound(t *testing.T) {
	forEachStore(t, func(t *testing.T, st store.Store) {
		ctx := context.Background()

		_, err := st.GetCustomer(ctx, 1)
		assert.ErrorIs(t, err, store.ErrNotFound)
		_, err = st.GetDriver(ctx, 1)
		assert.ErrorIs(t, err, store.ErrNotFound)
		_, err = st.GetTopping(ctx, 1)
		assert.ErrorIs(t, err, store.ErrNotFound)
		_, err = st.GetOrder(ctx, 1)
		assert.ErrorIs(t, err, store.ErrNotFound)
		_, err = st.GetToppingLink(ctx, 1)
		assert.ErrorIs(t, err, store.ErrNotFound)

		assert.ErrorIs(t, st.DeleteCustomer(ctx, 1), store.ErrNotFound)
		assert.ErrorIs(t, st.DeleteDriver(ctx, 1), store.ErrNotFound)
		assert.ErrorIs(t, st.DeleteTopping(ctx, 1), store.ErrNotFound)
		assert.ErrorIs(t, st.DeleteToppingLink(ctx, 1), store.ErrNotFound)
	})
}

func TestStore_IDsAreNotReused(t *testing.T) {
	forEachStore(t, func(t *testing.T, st store.Store) {
		ctx := context.Background()

		mustTopping(t, st, "Butter")
		second := mustTopping(t, st, "Chives")
		require.NoError(t, st.DeleteTopping(ctx, second.ID))

		third := mustTopping(t, st, "Cheese")
		assert.Greater(t, third.ID, second.ID)
	})
}

func TestStore_CustomersByNameAndCaseInsensitiveLookup(t *testing.T) {
	forEachStore(t, func(t *testing.T, st store.Store) {
		ctx := context.Background()

		mustCustomer(t, st, "Carol")
		alice := mustCustomer(t, st, "Alice")
		mustCustomer(t, st, "Bob")

		customers, err := st.ListCustomers(ctx)
		require.NoError(t, err)
		require.Len(t, customers, 3)
		assert.Equal(t, "Alice", customers[0].Name)
		assert.Equal(t, "Bob", customers[1].Name)
		assert.Equal(t, "Carol", customers[2].Name)

		found, err := st.FindCustomerByName(ctx, "aLiCe")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, found.ID)

		_, err = st.FindCustomerByName(ctx, "Zed")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestStore_FindCustomerByNameFoldsNonASCII(t *testing.T) {
	forEachStore(t, func(t *testing.T, st store.Store) {
		ctx := context.Background()
		emile := mustCustomer(t, st, "Émile Zola")
		mustCustomer(t, st, "Ölaf")

		for _, query := range []string{"émile zola", "ÉMILE ZOLA", "  Émile Zola "} {
			found, err := st.FindCustomerByName(ctx, query)
			require.NoError(t, err, query)
			assert.Equal(t, emile.ID, found.ID, query)
		}

		_, err := st.FindCustomerByName(ctx, "emile zola")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestStore_ListByIDs(t *testing.T) {
	forEachStore(t, func(t *testing.T, st store.Store) {
		ctx := context.Background()
		alice := mustCustomer(t, st, "Alice")
		mustCustomer(t, st, "Bob")
		carol := mustCustomer(t, st, "Carol")
		frank := mustDriver(t, st, "Frank")
		mustDriver(t, st, "Grace")
		butter := mustTopping(t, st, "Butter")

		customers, err := st.ListCustomersByIDs(ctx, []uint{carol.ID, alice.ID, carol.ID, 999})
		require.NoError(t, err)
		require.Len(t, customers, 2)
		assert.Equal(t, alice.ID, customers[0].ID)
		assert.Equal(t, carol.ID, customers[1].ID)

		drivers, err := st.ListDriversByIDs(ctx, []uint{frank.ID})
		require.NoError(t, err)
		require.Len(t, drivers, 1)
		assert.Equal(t, "Frank", drivers[0].Name)

		toppings, err := st.ListToppingsByIDs(ctx, []uint{butter.ID, 999})
		require.NoError(t, err)
		require.Len(t, toppings, 1)

		none, err := st.ListDriversByIDs(ctx, nil)
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})
}

func TestStore_OrdersOldestFirst(t *testing.T) {
	forEachStore(t, func(t *testing.T, st store.Store) {
		ctx := context.Background()
		c := mustCustomer(t, st, "Alice")
		other := mustCustomer(t, st, "Bob")

		late := mustOrder(t, st, c.ID, t0.Add(time.Hour))
		early := mustOrder(t, st, c.ID, t0)
		mustOrder(t, st, other.ID, t0.Add(30*time.Minute))

		orders, err := st.ListOrders(ctx)
		require.NoError(t, err)
		require.Len(t, orders, 3)
		assert.Equal(t, early.ID, orders[0].ID)
		assert.Equal(t, late.ID, orders[2].ID)

		own, err := st.ListOrdersByCustomer(ctx, c.ID)
		require.NoError(t, err)
		require.Len(t, own, 2)
		assert.Equal(t, early.ID, own[0].ID)

		count, err := st.CountOrdersByCustomer(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})
}

func TestStore_DeleteDriverReleasesOrders(t *testing.T) {
	forEachStore(t, func(t *testing.T, st store.Store) {
		ctx := context.Background()
		c := mustCustomer(t, st, "Alice")
		d := mustDriver(t, st, "Frank")
		o := mustOrder(t, st, c.ID, t0)
		require.NoError(t, st.SetOrderDriver(ctx, o.ID, d.ID))

		deliveries, err := st.ListOrdersByDriver(ctx, d.ID)
		require.NoError(t, err)
		require.Len(t, deliveries, 1)

		require.NoError(t, st.DeleteDriver(ctx, d.ID))

		got, err := st.GetOrder(ctx, o.ID)
		require.NoError(t, err)
		assert.Nil(t, got.DriverID)
		_, err = st.GetDriver(ctx, d.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestStore_DeleteToppingRemovesItsLinks(t *testing.T) {
	forEachStore(t, func(t *testing.T, st store.Store) {
		ctx := context.Background()
		c := mustCustomer(t, st, "Alice")
		o := mustOrder(t, st, c.ID, t0)
		butter := mustTopping(t, st, "Butter")
		chives := mustTopping(t, st, "Chives")
		gone := mustLink(t, st, o.ID, butter.ID)
		kept := mustLink(t, st, o.ID, chives.ID)

		require.NoError(t, st.DeleteTopping(ctx, butter.ID))

		_, err := st.GetToppingLink(ctx, gone.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)
		links, err := st.ListToppingLinks(ctx)
		require.NoError(t, err)
		require.Len(t, links, 1)
		assert.Equal(t, kept.ID, links[0].ID)
	})
}

func TestStore_MarkDeliveredOnlyOnce(t *testing.T) {
	forEachStore(t, func(t *testing.T, st store.Store) {
		ctx := context.Background()
		c := mustCustomer(t, st, "Alice")
		d := mustDriver(t, st, "Frank")
		o := mustOrder(t, st, c.ID, t0)

		ok, err := st.MarkDelivered(ctx, o.ID, t0.Add(time.Hour))
		require.NoError(t, err)
		assert.False(t, ok, "order without driver must not be delivered")

		require.NoError(t, st.SetOrderDriver(ctx, o.ID, d.ID))

		ok, err = st.MarkDelivered(ctx, o.ID, t0.Add(time.Hour))
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = st.MarkDelivered(ctx, o.ID, t0.Add(2*time.Hour))
		require.NoError(t, err)
		assert.False(t, ok)

		got, err := st.GetOrder(ctx, o.ID)
		require.NoError(t, err)
		require.NotNil(t, got.DeliveredAt)
		assert.True(t, got.DeliveredAt.Equal(t0.Add(time.Hour)))
	})
}

func TestStore_LinksByOrders(t *testing.T) {
	forEachStore(t, func(t *testing.T, st store.Store) {
		ctx := context.Background()
		c := mustCustomer(t, st, "Alice")
		o1 := mustOrder(t, st, c.ID, t0)
		o2 := mustOrder(t, st, c.ID, t0.Add(time.Minute))
		tp := mustTopping(t, st, "Butter")
		mustLink(t, st, o1.ID, tp.ID)
		mustLink(t, st, o2.ID, tp.ID)
		mustLink(t, st, o1.ID, tp.ID)

		links, err := st.ListToppingLinksByOrders(ctx, []uint{o1.ID})
		require.NoError(t, err)
		assert.Len(t, links, 2)

		none, err := st.ListToppingLinksByOrders(ctx, nil)
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})
}

func TestMemoryStore_RejectsOrphans(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	err := st.CreateOrder(ctx, &models.Order{CustomerID: 7, PlacedAt: t0})
	assert.ErrorIs(t, err, store.ErrReferenceViolated)

	c := mustCustomer(t, st, "Alice")
	mustOrder(t, st, c.ID, t0)
	assert.ErrorIs(t, st.DeleteCustomer(ctx, c.ID), store.ErrReferenceViolated)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	c := mustCustomer(t, st, "Alice")
	d := mustDriver(t, st, "Frank")
	o := mustOrder(t, st, c.ID, t0)
	require.NoError(t, st.SetOrderDriver(ctx, o.ID, d.ID))

	got, err := st.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	*got.DriverID = 99

	again, err := st.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, d.ID, *again.DriverID)
}
