package handler

import (
	"cartshare/backend/internal/apperr"
	"cartshare/backend/internal/friendship"
	"cartshare/backend/internal/hub"
	"cartshare/backend/internal/session"

	"github.com/gin-gonic/gin"
)

// Shared dependencies for all handlers, wired once at startup.
var (
	friends  *friendship.Service
	sessions *session.Store
	notifier *hub.Hub
)

// Init wires the handler package's dependencies.
func Init(f *friendship.Service, s *session.Store, h *hub.Hub) {
	friends = f
	sessions = s
	notifier = h
}

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// fail translates a service error into the HTTP response for it.
func fail(c *gin.Context, err error, msg string) {
	c.JSON(apperr.HTTPStatus(err), gin.H{"error": msg})
}
