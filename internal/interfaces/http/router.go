package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/cart"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/inventory"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/order"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/application/sale"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/internal/domain/entity"
	"github.com/tonnyBryan/m1p13mean-Tonny-Axel-sub000/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName          string
	CartUC           *cart.UseCase
	OrderUC          *order.UseCase
	SaleUC           *sale.UseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	JWTSecret        string
	// MetricsHandler se monta en /metrics; nil lo desactiva.
	MetricsHandler nethttp.Handler
	Log            *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	staff := []fiber.Handler{RequireRole(entity.RoleStaff, entity.RoleAdmin), RequireStore()}

	// Carrito (cliente)
	cartHandler := NewCartHandler(deps.CartUC, deps.Log)
	cartGroup := api.Group("/cart", RequireRole(entity.RoleCustomer))
	cartGroup.Get("/", cartHandler.Get)
	cartGroup.Post("/lines", cartHandler.AddLine)
	cartGroup.Put("/lines/:productId", cartHandler.SetQuantity)
	cartGroup.Delete("/lines/:productId", cartHandler.RemoveLine)
	cartGroup.Post("/checkout", cartHandler.Checkout)

	// Pedidos: el detalle lo ve también el cliente dueño; el resto es del personal.
	orderHandler := NewOrderHandler(deps.OrderUC, deps.Log)
	orders := api.Group("/orders")
	orders.Get("/:id", RequireRole(entity.RoleCustomer, entity.RoleStaff, entity.RoleAdmin), orderHandler.GetByID)
	orders.Get("/", append(staff, orderHandler.List)...)
	orders.Post("/:id/accept", append(staff, orderHandler.Accept)...)
	orders.Post("/:id/cancel", append(staff, orderHandler.Cancel)...)
	orders.Post("/:id/deliver", append(staff, orderHandler.StartDelivery)...)
	orders.Post("/:id/complete", append(staff, orderHandler.Complete)...)

	// Ventas (personal)
	saleHandler := NewSaleHandler(deps.SaleUC, deps.Log)
	sales := api.Group("/sales", staff...)
	sales.Post("/", saleHandler.Create)
	sales.Get("/", saleHandler.List)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Get("/:id/receipt", saleHandler.Receipt)
	sales.Post("/:id/pay", saleHandler.Pay)
	sales.Post("/:id/cancel", saleHandler.Cancel)

	// Libro de stock (personal)
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.Log)
	invGroup := api.Group("/inventory", staff...)
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)
	invGroup.Post("/reconcile", inventoryHandler.Reconcile)
	invGroup.Get("/stock", inventoryHandler.ListStock)
	invGroup.Get("/stock/:productId", inventoryHandler.GetStock)
	invGroup.Get("/products/:productId/movements", inventoryHandler.ListMovements)
}
