package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"applicantreview/internal/http/middleware"
	"applicantreview/internal/notify"
	"applicantreview/internal/service"
)

// Pinger reports whether the database is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	DB         Pinger
	Applicants service.ApplicantService
	Notifier   notify.Dispatcher
	Gatherer   prometheus.Gatherer
	AdminToken string
	// PublicHost is the API host advertised in the Swagger document when a
	// request carries no Host header.
	PublicHost string
	Logger     *slog.Logger
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/swagger/*", SwaggerDocs(d.PublicHost))
	app.Get("/docs", func(c *fiber.Ctx) error {
		return c.Redirect("/swagger/index.html")
	})

	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())
	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	app.Get("/projects", ListProjects())

	api := app.Group("/api")
	api.Get("/projects", ListProjects())

	applicants := api.Group("/applicants")
	applicants.Get("/", ListApplicants(d.Applicants, d.Logger))
	applicants.Post("/", SubmitApplicant(d.Applicants, d.Logger))
	applicants.Get("/search", SearchApplicants(d.Applicants, d.Logger))
	applicants.Get("/project/:project", ListApplicantsByProject(d.Applicants, d.Logger))
	applicants.Get("/:id", GetApplicant(d.Applicants, d.Logger))
	applicants.Put("/:id", UpdateApplicant(d.Applicants, d.Logger))
	applicants.Delete("/:id", DeleteApplicant(d.Applicants, d.Logger))
	applicants.Put("/:id/resume", UploadResume(d.Applicants, d.Logger))
	applicants.Get("/:id/resume", DownloadResume(d.Applicants, d.Logger))
	applicants.Put("/:id/status", UpdateStatus(d.Applicants, d.Logger))
	applicants.Put("/:id/approve", ApproveApplicant(d.Applicants, d.Logger))
	applicants.Put("/:id/decline", DeclineApplicant(d.Applicants, d.Logger))

	admin := api.Group("/admin", middleware.AdminToken(d.AdminToken))
	admin.Post("/mail/test", SendTestMail(d.Notifier, d.Logger))
}

// HealthCheck checks DB connectivity only.
//
//	@Summary	Database health check
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Failure	503	{object}	errorPayload
//	@Router		/health [get]
func HealthCheck(db Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if db == nil || db.PingContext(ctx) != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200 while the process serves requests.
//
//	@Summary	Liveness probe
//	@Tags		health
//	@Success	200
//	@Router		/healthz [get]
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
