package middleware

import (
	"github.com/gofiber/fiber/v2"

	"assetreg/internal/model"
)

// Identity headers asserted by the API gateway. Token verification and the
// user directory live in front of this service; these headers are trusted.
const (
	ActorIDHeader   = "X-Actor-ID"
	ActorRoleHeader = "X-Actor-Role"
	ActorOrgHeader  = "X-Actor-Org"
	ActorNameHeader = "X-Actor-Name"

	// ActorLocalKey stores the resolved model.Actor in context locals.
	ActorLocalKey = "actor"
)

// Actor resolves the caller identity from the gateway headers and stores it
// in locals. Requests without identity headers still pass; handlers that
// mutate state reject anonymous callers themselves.
func Actor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(ActorLocalKey, model.Actor{
			ID:       c.Get(ActorIDHeader),
			Username: c.Get(ActorNameHeader),
			Role:     model.Role(c.Get(ActorRoleHeader)),
			OrgID:    c.Get(ActorOrgHeader),
			IP:       c.IP(),
		})
		return c.Next()
	}
}

// ActorFromCtx returns the actor stored by Actor, or a zero actor when the
// middleware did not run.
func ActorFromCtx(c *fiber.Ctx) model.Actor {
	if v := c.Locals(ActorLocalKey); v != nil {
		if a, ok := v.(model.Actor); ok {
			return a
		}
	}
	return model.Actor{}
}
