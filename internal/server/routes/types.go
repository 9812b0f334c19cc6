package routes

import (
	"github.com/osa911/contactrelay/internal/api/handlers"
)

// Handlers contains all the route handlers
type Handlers struct {
	Contact *handlers.ContactHandler
	Health  *handlers.HealthHandler
}
