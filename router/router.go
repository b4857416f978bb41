package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/tuber-treats/controllers"
	"github.com/yeremiapane/tuber-treats/dispatch"
	"github.com/yeremiapane/tuber-treats/middlewares"
	"github.com/yeremiapane/tuber-treats/services"
)

// SetupRouter wires every route. limiter may be nil to disable rate limiting.
func SetupRouter(svc *services.Services, hub *dispatch.Hub, limiter *middlewares.RateLimiter) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders(gin.Mode() == gin.ReleaseMode))
	r.Use(middlewares.CORSMiddlewares())
	if limiter != nil {
		r.Use(limiter.RateLimit())
	}

	// Inisialisasi controller
	orderCtrl := controllers.NewOrderController(svc.Orders)
	linkCtrl := controllers.NewToppingLinkController(svc.Links)
	customerCtrl := controllers.NewCustomerController(svc.Customers)
	driverCtrl := controllers.NewDriverController(svc.Drivers)
	toppingCtrl := controllers.NewToppingController(svc.Toppings)
	dispatchCtrl := controllers.NewDispatchController(hub)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// ORDERS
	orders := r.Group("/tuberorders")
	{
		orders.GET("", orderCtrl.GetAllOrders)
		orders.GET("/:id", orderCtrl.GetOrderByID)
		orders.POST("", orderCtrl.CreateOrder)
		orders.PUT("/:id", orderCtrl.AssignDriver)
		orders.POST("/:id/complete", orderCtrl.CompleteOrder)
	}

	// TOPPINGS ON ORDERS
	links := r.Group("/tubertoppings")
	{
		links.GET("", linkCtrl.GetAllLinks)
		links.GET("/:id", linkCtrl.GetLinkByID)
		links.POST("", linkCtrl.AddToppingToOrder)
		links.DELETE("/:id", linkCtrl.RemoveToppingLink)
	}

	// TOPPING CATALOG
	toppings := r.Group("/toppings")
	{
		toppings.GET("", toppingCtrl.GetAllToppings)
		toppings.GET("/:id", toppingCtrl.GetToppingByID)
		toppings.POST("", toppingCtrl.CreateTopping)
		toppings.DELETE("/:id", toppingCtrl.DeleteTopping)
	}

	// CUSTOMERS
	customers := r.Group("/customers")
	{
		customers.GET("", customerCtrl.GetAllCustomers)
		customers.GET("/:id", customerCtrl.GetCustomerByID)
		customers.POST("", customerCtrl.CreateCustomer)
		customers.DELETE("/:id", customerCtrl.DeleteCustomer)
	}

	// DRIVERS
	drivers := r.Group("/tuberdrivers")
	{
		drivers.GET("", driverCtrl.GetAllDrivers)
		drivers.GET("/:id", driverCtrl.GetDriverByID)
		drivers.POST("", driverCtrl.CreateDriver)
		drivers.DELETE("/:id", driverCtrl.DeleteDriver)
	}

	// Dispatch screens (WebSocket)
	r.GET("/dispatch/ws", dispatchCtrl.Connect)

	return r
}
