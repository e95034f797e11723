// Package v1 provides the HTTP handlers for the session and chat API.
package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/patternworks/tess/internal/domain"
	"github.com/patternworks/tess/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers the API routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Session routes
	e.GET("/api/sessions", h.ListSessions)
	e.GET("/api/sessions/:sessionId", h.GetSession)
	e.POST("/api/sessions/:sessionId/rename", h.RenameSession)
	e.DELETE("/api/sessions/:sessionId", h.DeleteSession)
	e.DELETE("/api/sessions", h.ClearSessions)
	e.GET("/api/sessions/:sessionId/export", h.ExportSession)
	e.POST("/api/sessions/import", h.ImportSession)

	// Chat routes
	e.POST("/api/init", h.InitChat)
	e.POST("/api/chat", h.SendMessage)
	e.POST("/api/mode", h.ChangeMode)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "1.0.0",
	})
}

// writeError maps domain errors to HTTP responses. Anything outside
// the taxonomy becomes a generic 500 with the operation's message.
func writeError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Session not found"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid session data"})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": fallback})
	}
}
