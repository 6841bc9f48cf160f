package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/sitetrack-api/internal/application/analytics"
	"github.com/jhoicas/sitetrack-api/internal/application/auth"
	"github.com/jhoicas/sitetrack-api/internal/application/inventory"
	"github.com/jhoicas/sitetrack-api/internal/application/project"
	"github.com/jhoicas/sitetrack-api/internal/application/task"
	"github.com/jhoicas/sitetrack-api/internal/application/upload"
	"github.com/jhoicas/sitetrack-api/internal/application/usecase"
	"github.com/jhoicas/sitetrack-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	UserUC         *usecase.UserUseCase
	ProductUC      *usecase.ProductUseCase
	WarehouseUC    *usecase.WarehouseUseCase
	Ledger         *inventory.LedgerUseCase
	ImportUC       *inventory.ImportUseCase
	ProjectUC      *project.ProjectUseCase
	TaskUC         *task.TaskUseCase
	DashboardUC    *appanalytics.DashboardUseCase
	PerformanceUC  *appanalytics.PerformanceUseCase
	UploadUC       *upload.UploadUseCase
	UploadMaxBytes int64
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	adminOnly := RequireRole(entity.RoleAdmin)
	managers := RequireRole(entity.RoleAdmin, entity.RoleTeamLeader)

	// Auth (público salvo /me)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	// Catálogo e inventario
	productHandler := NewProductHandler(deps.ProductUC, deps.ImportUC)
	products := protected.Group("/inventory/products")
	products.Get("/", productHandler.List)
	products.Post("/import", adminOnly, productHandler.Import)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", adminOnly, productHandler.Create)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses := protected.Group("/inventory/warehouses")
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Post("/", adminOnly, warehouseHandler.Create)
	warehouses.Put("/:id", adminOnly, warehouseHandler.Update)
	warehouses.Delete("/:id", adminOnly, warehouseHandler.Delete)

	inventoryHandler := NewInventoryHandler(deps.Ledger)
	stock := protected.Group("/inventory/stock", managers)
	stock.Post("/add", inventoryHandler.AddStock)
	stock.Post("/remove", inventoryHandler.RemoveStock)
	stock.Post("/transfer", inventoryHandler.TransferStock)
	protected.Get("/inventory/logs", inventoryHandler.ListLogs)

	// Proyectos
	projectHandler := NewProjectHandler(deps.ProjectUC)
	projects := protected.Group("/projects")
	projects.Get("/", projectHandler.List)
	projects.Post("/", adminOnly, projectHandler.Create)
	projects.Post("/stock-check", managers, projectHandler.CheckStock)
	projects.Get("/:id", projectHandler.GetByID)
	projects.Get("/:id/report", projectHandler.Report)
	projects.Put("/:id", adminOnly, projectHandler.Update)
	projects.Post("/:id/completion-letter", managers, projectHandler.AttachCompletionLetter)
	projects.Delete("/:id", adminOnly, projectHandler.Delete)

	// Tareas: el caso de uso decide asignado / líder / admin
	taskHandler := NewTaskHandler(deps.TaskUC)
	tasks := protected.Group("/tasks")
	tasks.Get("/", taskHandler.List)
	tasks.Get("/verification-queue", adminOnly, taskHandler.VerificationQueue)
	tasks.Get("/:id", taskHandler.GetByID)
	tasks.Put("/:id", taskHandler.Update)
	tasks.Post("/:id/start", taskHandler.Start)
	tasks.Post("/:id/photos", taskHandler.AttachPhotos)
	tasks.Post("/:id/submit", taskHandler.Submit)
	tasks.Post("/:id/complete", taskHandler.Complete)
	tasks.Post("/:id/verify", adminOnly, taskHandler.Verify)
	tasks.Post("/:id/reject", adminOnly, taskHandler.Reject)
	tasks.Post("/:id/assign", managers, taskHandler.Assign)

	// Usuarios (solo admin)
	userHandler := NewUserHandler(deps.UserUC)
	users := protected.Group("/users", adminOnly)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Reportes
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.PerformanceUC)
	dashboard := protected.Group("/dashboard", managers)
	dashboard.Get("/stats", dashboardHandler.GetStats)
	dashboard.Get("/employee-performance", dashboardHandler.EmployeePerformance)
	dashboard.Get("/employee-performance/export", dashboardHandler.ExportPerformance)

	uploadHandler := NewUploadHandler(deps.UploadUC, deps.UploadMaxBytes)
	protected.Post("/upload", uploadHandler.Upload)
}
