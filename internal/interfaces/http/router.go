package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/application/usecase"
	"github.com/jhoicas/inventario-stock/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC  *usecase.ProductUseCase
	MovementUC *inventory.MovementUseCase
	// JWTSecret vacío deshabilita la autenticación de /api.
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Con secreto configurado todas las rutas requieren Bearer Token y se aplica RBAC.
	authEnabled := deps.JWTSecret != ""
	if authEnabled {
		api.Use(AuthMiddleware(deps.JWTSecret))
	}
	role := func(roles ...string) fiber.Handler {
		if !authEnabled {
			return func(c *fiber.Ctx) error { return c.Next() }
		}
		return RequireRole(roles...)
	}
	admin := role(jwt.RoleAdmin)
	writer := role(jwt.RoleAdmin, jwt.RoleBodeguero)

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", admin, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", admin, productHandler.Update)
	products.Delete("/:id", admin, productHandler.Delete)
	products.Post("/:id/turnover", writer, productHandler.Turnover)
	products.Get("/:id/low-stock", productHandler.LowStock)
	products.Get("/:id/stock-logs", productHandler.StockLogs)
	products.Get("/:id/kardex.pdf", productHandler.Kardex)

	// Movements
	movements := api.Group("/movements")
	movementHandler := NewMovementHandler(deps.MovementUC)
	movements.Post("/", writer, movementHandler.Create)
	movements.Get("/", movementHandler.List)
	movements.Get("/:id", movementHandler.GetByID)
	movements.Put("/:id", writer, movementHandler.Update)
	movements.Delete("/:id", writer, movementHandler.Delete)
}
