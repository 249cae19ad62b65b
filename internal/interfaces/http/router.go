package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-api/internal/application/auth"
	"github.com/jhoicas/erp-api/internal/application/usecase"
	"github.com/jhoicas/erp-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	CategoryUC *usecase.CategoryUseCase
	ProductUC  *usecase.ProductUseCase
	UnitUC     *usecase.UnitUseCase
	RoleUC     *usecase.RoleUseCase
	UserUC     *usecase.UserUseCase
	Validator  *Validator
	JWTSecret  string

	// Revoked blacklist de access tokens; nil la desactiva.
	Revoked RevocationChecker
}

// Router registra las rutas de la API. Las rutas estáticas van antes de /:id.
func Router(app *fiber.App, deps RouterDeps) {
	val := deps.Validator
	if val == nil {
		val = NewValidator()
	}
	requireAuth := AuthMiddleware(deps.JWTSecret, deps.Revoked)
	adminOnly := RequireRole(entity.RoleAdmin)

	api := app.Group("/api")

	// Auth (login y refresh públicos)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, val)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh-token", authHandler.Refresh)
	authGroup.Post("/logout", requireAuth, authHandler.Logout)
	authGroup.Get("/me", requireAuth, authHandler.Me)
	authGroup.Get("/validate-token", requireAuth, authHandler.ValidateToken)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", requireAuth)

	// Categories: lectura para cualquier usuario, escritura solo admin
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC, val)
	categories.Get("/", categoryHandler.GetAll)
	categories.Get("/paged", categoryHandler.GetPaged)
	categories.Get("/root", categoryHandler.GetRoots)
	categories.Get("/tree", categoryHandler.GetTree)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Get("/:id/children", categoryHandler.GetChildren)
	categories.Get("/:id/path", categoryHandler.GetPath)
	categories.Get("/:id/fullpath", categoryHandler.GetFullPath)
	categories.Get("/:id/can-delete", categoryHandler.CanDelete)
	categories.Get("/:id/statistics", categoryHandler.Statistics)
	categories.Post("/", adminOnly, categoryHandler.Create)
	categories.Put("/:id", adminOnly, categoryHandler.Update)
	categories.Delete("/:id", adminOnly, categoryHandler.Delete)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, val)
	products.Get("/paged", productHandler.GetPaged)
	products.Get("/active", productHandler.GetActive)
	products.Get("/search", productHandler.Search)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/stock-info", productHandler.StockInfo)
	products.Get("/generate-code", productHandler.GenerateCode)
	products.Get("/generate-barcode", productHandler.GenerateBarcode)
	products.Get("/validate-code", productHandler.ValidateCode)
	products.Get("/validate-barcode", productHandler.ValidateBarcode)
	products.Get("/report/stock.pdf", productHandler.StockReport)
	products.Get("/category/:id", productHandler.GetByCategory)
	products.Post("/upload-base64-image", adminOnly, productHandler.UploadImage)
	products.Get("/:id", productHandler.GetByID)
	products.Get("/:id/movements", productHandler.Movements)
	products.Post("/", adminOnly, productHandler.Create)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Put("/:id/stock", adminOnly, productHandler.UpdateStock)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Units
	units := protected.Group("/units")
	unitHandler := NewUnitHandler(deps.UnitUC, val)
	units.Get("/paged", unitHandler.GetPaged)
	units.Get("/select", unitHandler.GetForSelect)
	units.Get("/:id", unitHandler.GetByID)
	units.Get("/:id/usage", unitHandler.Usage)
	units.Post("/", adminOnly, unitHandler.Create)
	units.Put("/:id", adminOnly, unitHandler.Update)
	units.Delete("/:id", adminOnly, unitHandler.Delete)

	// Roles (solo admin)
	roles := protected.Group("/roles", adminOnly)
	roleHandler := NewRoleHandler(deps.RoleUC, val)
	roles.Get("/", roleHandler.GetPaged)
	roles.Get("/dropdown", roleHandler.GetDropdown)
	roles.Post("/assign", roleHandler.AssignRole)
	roles.Get("/:id", roleHandler.GetByID)
	roles.Get("/:id/with-users", roleHandler.GetWithUsers)
	roles.Post("/", roleHandler.Create)
	roles.Put("/:id", roleHandler.Update)
	roles.Delete("/:id", roleHandler.Delete)

	// Users: administración solo admin; el cambio de contraseña lo hace cada usuario
	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC, val)
	users.Put("/:id/password", userHandler.ChangePassword)
	users.Get("/", adminOnly, userHandler.GetAll)
	users.Get("/paged", adminOnly, userHandler.GetPaged)
	users.Get("/:id", adminOnly, userHandler.GetByID)
	users.Post("/", adminOnly, userHandler.Create)
	users.Put("/:id", adminOnly, userHandler.Update)
	users.Delete("/:id", adminOnly, userHandler.Delete)
}
