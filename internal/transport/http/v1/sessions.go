package v1

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/patternworks/tess/internal/domain"
)

// ListSessions returns summaries of all sessions, most recent first.
// GET /api/sessions
func (h *Handler) ListSessions(c echo.Context) error {
	summaries, err := h.service.ListSessions(c.Request().Context())
	if err != nil {
		return writeError(c, err, "Failed to list sessions")
	}
	if summaries == nil {
		summaries = []domain.SessionSummary{}
	}
	return c.JSON(http.StatusOK, summaries)
}

// GetSession returns the full session record.
// GET /api/sessions/:sessionId
func (h *Handler) GetSession(c echo.Context) error {
	session, err := h.service.GetSession(c.Request().Context(), c.Param("sessionId"))
	if err != nil {
		return writeError(c, err, "Failed to get session")
	}
	return c.JSON(http.StatusOK, session)
}

// RenameSession sets the session title.
// POST /api/sessions/:sessionId/rename
func (h *Handler) RenameSession(c echo.Context) error {
	var req struct {
		Title string `json:"title"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	if err := h.service.RenameSession(c.Request().Context(), c.Param("sessionId"), req.Title); err != nil {
		return writeError(c, err, "Failed to rename session")
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// DeleteSession removes a session.
// DELETE /api/sessions/:sessionId
func (h *Handler) DeleteSession(c echo.Context) error {
	if err := h.service.DeleteSession(c.Request().Context(), c.Param("sessionId")); err != nil {
		return writeError(c, err, "Failed to delete session")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Session deleted successfully"})
}

// ClearSessions deletes every session.
// DELETE /api/sessions
func (h *Handler) ClearSessions(c echo.Context) error {
	n, err := h.service.ClearAll(c.Request().Context())
	if err != nil {
		return writeError(c, err, "Failed to clear sessions")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Successfully deleted %d sessions", n),
	})
}

// ExportSession returns the full record as a JSON attachment.
// GET /api/sessions/:sessionId/export
func (h *Handler) ExportSession(c echo.Context) error {
	id := c.Param("sessionId")
	session, err := h.service.ExportSession(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err, "Failed to export session")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="tess-conversation-%s.json"`, id))
	return c.JSON(http.StatusOK, session)
}

// ImportSession stores a previously exported record under a fresh id.
// POST /api/sessions/import
func (h *Handler) ImportSession(c echo.Context) error {
	var record domain.Session
	if err := c.Bind(&record); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid session data"})
	}

	id, err := h.service.ImportSession(c.Request().Context(), &record)
	if err != nil {
		return writeError(c, err, "Failed to import session")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message":   "Session imported successfully",
		"sessionId": id,
	})
}
