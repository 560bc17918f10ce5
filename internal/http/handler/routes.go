package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"auditapi/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin; orchestration lives in the service layer. The guard
// middleware protects auditor-facing routes and may be nil in tests.
func RegisterRoutes(
	app *fiber.App,
	db *sql.DB,
	tmplSvc service.TemplateService,
	auditSvc service.AuditService,
	authSvc service.AuthService,
	guard fiber.Handler,
) {
	if guard == nil {
		guard = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})
	// Ops
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())
	app.Get("/ping", Ping())

	// Auth
	app.Post("/register", Register(authSvc))
	app.Post("/login", Login(authSvc))
	app.Get("/user-details/:userId", guard, GetUserDetails(authSvc))

	// Admin template management
	app.Post("/audit-template", CreateTemplate(tmplSvc))
	app.Get("/audit-templates", ListTemplates(tmplSvc))
	app.Get("/audit-template/:id", GetTemplate(tmplSvc))
	app.Put("/audit-template/:id", UpdateTemplate(tmplSvc))
	app.Delete("/audit-template/:id", DeleteTemplate(tmplSvc))

	// Audit form pipeline
	app.Post("/audit-form", guard, FillForm(auditSvc))
	app.Post("/audit-form/:id", guard, FillForm(auditSvc))
	app.Put("/audit-forms/:id", guard, UpdateForm(auditSvc))
	app.Get("/audit-form/:id/version/:version", guard, GetFormVersion(auditSvc))
	app.Get("/user-audit-forms/:userId", guard, ListUserForms(auditSvc))
	app.Delete("/audit-form/:id", guard, DeleteForm(auditSvc))
	// Latest rendered artifact for a form lineage
	app.Get("/audit-form/:formId", guard, GetLatestArtifact(auditSvc))
}
