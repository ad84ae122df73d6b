package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"arsip/internal/http/middleware"
	"arsip/internal/service"
)

// Services bundles the use cases exposed over HTTP.
type Services struct {
	Auth        service.AuthService
	Documents   service.DocumentService
	SPD         service.SPDService
	Employees   service.EmployeeService
	Categories  service.CategoryService
	Dashboard   service.DashboardService
	Maintenance service.MaintenanceService
	// Now drives the default report month. Nil means time.Now.
	Now func() time.Time
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Everything
// under /api except login needs a bearer token; writes need staff.
func RegisterRoutes(app *fiber.App, db Pinger, s Services) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/api/auth/login", Login(s.Auth))
	// Every signed-in user, readers included, manages their own session.
	app.Post("/api/auth/logout", middleware.RequireAuth(s.Auth), Logout(s.Auth))
	app.Post("/api/auth/password", middleware.RequireAuth(s.Auth), ChangePassword(s.Auth))

	api := app.Group("/api", middleware.RequireAuth(s.Auth), middleware.StaffOrReadOnly())

	api.Get("/auth/me", Me())

	users := api.Group("/users", middleware.RequireSuperuser())
	users.Get("/", ListUsers(s.Auth))
	users.Post("/", CreateUser(s.Auth))
	users.Get("/:id", GetUser(s.Auth))
	users.Put("/:id", UpdateUser(s.Auth))
	users.Patch("/:id", UpdateUser(s.Auth))
	users.Post("/:id/activate", SetUserActive(s.Auth, true))
	users.Post("/:id/deactivate", SetUserActive(s.Auth, false))
	users.Post("/:id/password", ResetPassword(s.Auth))

	api.Get("/dashboard/stats", DashboardStats(s.Dashboard))
	api.Get("/reports/monthly", MonthlyReport(s.Dashboard, s.Now))

	api.Get("/categories", ListCategories(s.Categories))
	api.Get("/categories/:id", GetCategory(s.Categories))
	api.Get("/categories/:id/documents", CategoryDocuments(s.Categories))

	docs := api.Group("/documents")
	docs.Get("/", ListDocuments(s.Documents))
	docs.Post("/", UploadDocument(s.Documents))
	docs.Get("/:id", GetDocument(s.Documents))
	docs.Put("/:id", UpdateDocument(s.Documents))
	docs.Patch("/:id", UpdateDocument(s.Documents))
	docs.Delete("/:id", DeleteDocument(s.Documents))
	docs.Post("/:id/restore", RestoreDocument(s.Documents))
	docs.Get("/:id/download", DownloadDocument(s.Documents))
	docs.Get("/:id/preview", PreviewDocument(s.Documents))
	docs.Get("/:id/activities", DocumentActivities(s.Documents))

	spd := api.Group("/spd")
	spd.Get("/", ListSPD(s.SPD))
	spd.Post("/", CreateSPD(s.SPD))
	spd.Get("/destinations", ListDestinations())
	spd.Get("/:id", GetSPD(s.SPD))
	spd.Put("/:id", UpdateSPD(s.SPD))
	spd.Patch("/:id", UpdateSPD(s.SPD))
	spd.Delete("/:id", DeleteSPD(s.SPD))

	emp := api.Group("/employees")
	emp.Get("/", ListEmployees(s.Employees))
	emp.Post("/", CreateEmployee(s.Employees))
	emp.Get("/stats", EmployeeStats(s.Employees))
	emp.Get("/:id", GetEmployee(s.Employees))
	emp.Put("/:id", UpdateEmployee(s.Employees))
	emp.Patch("/:id", UpdateEmployee(s.Employees))
	emp.Delete("/:id", DeactivateEmployee(s.Employees))

	api.Post("/maintenance/purge", PurgeDeleted(s.Maintenance))
}
