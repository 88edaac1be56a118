package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"auditapi/internal/repository"
	"auditapi/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Everything under the workflow surface requires the actor middleware; the
// probe and documentation endpoints stay open.
func RegisterRoutes(
	app *fiber.App,
	db *sql.DB,
	actorMW fiber.Handler,
	actors repository.ActorRepository,
	reqSvc service.RequestService,
	contentSvc service.ContentService,
) {
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

	// Health endpoints: readiness checks DB connectivity, liveness is static
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	// Identity
	app.Get("/me", actorMW, Me())
	app.Get("/actors", actorMW, ListActors(actors))

	// Explanation request lifecycle, scoped to a plan
	app.Get("/plans/:planId/explanation-request", actorMW, LoadRequest(reqSvc))
	app.Post("/plans/:planId/explanation-request", actorMW, CreateRequest(reqSvc))
	app.Patch("/explanation-requests/:id", actorMW, UpdateRequest(reqSvc))
	app.Post("/explanation-requests/:id/complete", actorMW, CompleteRequest(reqSvc))
	app.Delete("/explanation-requests/:id", actorMW, DeleteRequest(reqSvc))

	// Request attachments
	app.Post("/explanation-requests/:id/files", actorMW, AddRequestFile(reqSvc))
	app.Get("/request-files/:id/download", actorMW, DownloadRequestFile(reqSvc))
	app.Delete("/request-files/:id", actorMW, RemoveRequestFile(reqSvc))

	// Content entries under a request
	app.Get("/explanation-requests/:id/contents", actorMW, ListContents(contentSvc))
	app.Post("/explanation-requests/:id/contents", actorMW, CreateContent(contentSvc))
	app.Patch("/contents/:id", actorMW, EditContent(contentSvc))
	app.Post("/contents/:id/evaluate", actorMW, EvaluateContent(contentSvc))
	app.Delete("/contents/:id", actorMW, DeleteContent(contentSvc))
}
