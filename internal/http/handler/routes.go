package handler

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"assetreg/internal/http/middleware"
	"assetreg/internal/model"
	"assetreg/internal/service"
)

// Services bundles the application services the routes dispatch to.
type Services struct {
	Assets    service.AssetService
	Lifecycle service.LifecycleService
	Materials service.MaterialService
	Audit     service.AuditService
	Stats     service.StatsService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers
// stay thin: parse, resolve the actor, dispatch, map the error.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc Services) {
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

	// Health checks DB connectivity only
	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	})

	// Simple liveness probe
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	registerAssetRoutes(app, svc)
	registerStageRoutes(app, svc)
	registerMaterialRoutes(app, svc)
	registerStatsRoutes(app, svc)
	registerAuditRoutes(app, svc)
}

// requireActor resolves the caller for endpoints that need an identity. The
// gateway always injects identity for authenticated traffic, so an empty
// actor id means the request skipped the gateway.
func requireActor(c *fiber.Ctx) (model.Actor, bool) {
	actor := middleware.ActorFromCtx(c)
	return actor, actor.ID != ""
}

func registerAssetRoutes(app *fiber.App, svc Services) {
	app.Post("/assets", func(c *fiber.Ctx) error {
		actor, ok := requireActor(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "actor identity is required")
		}

		var in service.CreateAssetInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}

		a, err := svc.Assets.Create(c.UserContext(), in, actor)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(a)
	})

	app.Get("/assets", func(c *fiber.Ctx) error {
		out, err := svc.Assets.List(c.UserContext(), c.Query("stage"), middleware.ActorFromCtx(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(out)
	})

	app.Put("/assets/:id/valuation", func(c *fiber.Ctx) error {
		actor, ok := requireActor(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "actor identity is required")
		}

		var in service.SetValuationInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}

		a, err := svc.Assets.SetValuation(c.UserContext(), c.Params("id"), in, actor)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(a)
	})

	app.Get("/assets/:id", func(c *fiber.Ctx) error {
		a, err := svc.Assets.Get(c.UserContext(), c.Params("id"), middleware.ActorFromCtx(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(a)
	})
}

func registerStageRoutes(app *fiber.App, svc Services) {
	// Static /stages/records routes are registered before the /stages/:assetId
	// wildcard so "records" never binds as an asset id.
	app.Get("/stages/records", func(c *fiber.Ctx) error {
		if status := c.Query("status", string(model.StatusSubmitted)); status != string(model.StatusSubmitted) {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "only status=submitted is supported")
		}
		out, err := svc.Lifecycle.ListOpenSubmissions(c.UserContext(), middleware.ActorFromCtx(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(out)
	})

	app.Get("/stages/records/:recordId", func(c *fiber.Ctx) error {
		rec, err := svc.Lifecycle.GetRecord(c.UserContext(), c.Params("recordId"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rec)
	})

	app.Post("/stages/records/:recordId/approve", func(c *fiber.Ctx) error {
		actor, ok := requireActor(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "actor identity is required")
		}
		rec, err := svc.Lifecycle.Approve(c.UserContext(), c.Params("recordId"), actor)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rec)
	})

	app.Post("/stages/records/:recordId/reject", func(c *fiber.Ctx) error {
		actor, ok := requireActor(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "actor identity is required")
		}

		var in struct {
			Reason string `json:"reason"`
		}
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}

		rec, err := svc.Lifecycle.Reject(c.UserContext(), c.Params("recordId"), actor, in.Reason)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rec)
	})

	app.Post("/stages/:assetId/submit", func(c *fiber.Ctx) error {
		actor, ok := requireActor(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "actor identity is required")
		}
		rec, err := svc.Lifecycle.Submit(c.UserContext(), c.Params("assetId"), actor)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(rec)
	})

	app.Get("/stages/:assetId", func(c *fiber.Ctx) error {
		out, err := svc.Lifecycle.ListByAsset(c.UserContext(), c.Params("assetId"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(out)
	})
}

func registerMaterialRoutes(app *fiber.App, svc Services) {
	// Upload material (multipart/form-data, field name: file)
	app.Post("/materials/upload/:stageRecordId", func(c *fiber.Ctx) error {
		actor, ok := requireActor(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "actor identity is required")
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		m, err := svc.Materials.Upload(c.UserContext(), c.Params("stageRecordId"), fh.Filename, f, ct, actor)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(m)
	})

	app.Get("/materials/:stageRecordId", func(c *fiber.Ctx) error {
		out, err := svc.Materials.List(c.UserContext(), c.Params("stageRecordId"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(out)
	})

	app.Get("/materials/:stageRecordId/download/:materialId", func(c *fiber.Ctx) error {
		url, err := svc.Materials.DownloadURL(c.UserContext(), c.Params("stageRecordId"), c.Params("materialId"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"url": url})
	})
}

func registerStatsRoutes(app *fiber.App, svc Services) {
	app.Get("/statistics/city", func(c *fiber.Ctx) error {
		out, err := svc.Stats.CityRollup(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(out)
	})

	// Holders get their own organization's rollup; reviewer roles pick one
	// via ?org_id=.
	app.Get("/statistics/holder", func(c *fiber.Ctx) error {
		actor := middleware.ActorFromCtx(c)

		orgID := c.Query("org_id")
		if actor.Role == model.RoleDataHolder {
			orgID = actor.OrgID
		}
		if orgID == "" {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "org_id is required")
		}

		out, err := svc.Stats.HolderRollup(c.UserContext(), orgID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(out)
	})
}

func registerAuditRoutes(app *fiber.App, svc Services) {
	app.Get("/audit", func(c *fiber.Ctx) error {
		actor, ok := requireActor(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "actor identity is required")
		}
		switch actor.Role {
		case model.RoleAdmin, model.RoleRegistryCenter, model.RoleRegulator:
		default:
			return writeError(c, fiber.StatusForbidden, "FORBIDDEN", "audit log access is restricted to oversight roles")
		}

		var limit *int
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid limit")
			}
			limit = &n
		}

		out, err := svc.Audit.List(c.UserContext(), service.AuditListInput{
			Action:       c.Query("action"),
			ResourceType: c.Query("resource_type"),
			Limit:        limit,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(out)
	})
}
