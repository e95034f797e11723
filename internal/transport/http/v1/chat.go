package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// InitChat creates a new session and returns the model's introduction.
// POST /api/init
func (h *Handler) InitChat(c echo.Context) error {
	var req struct {
		Mode string `json:"mode"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	session, err := h.service.CreateSession(c.Request().Context(), req.Mode)
	if err != nil {
		return writeError(c, err, "Failed to initialize session")
	}

	intro := session.Messages[len(session.Messages)-1].Content
	return c.JSON(http.StatusOK, map[string]string{
		"sessionId": session.ID,
		"message":   intro,
		"mode":      session.Mode,
	})
}

// SendMessage sends a chat turn and returns the reply.
// POST /api/chat
func (h *Handler) SendMessage(c echo.Context) error {
	var req struct {
		SessionID string `json:"sessionId"`
		Message   string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	reply, err := h.service.SendTurn(c.Request().Context(), req.SessionID, req.Message)
	if err != nil {
		return writeError(c, err, "Failed to process message")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": reply})
}

// ChangeMode switches a session's operating mode.
// POST /api/mode
func (h *Handler) ChangeMode(c echo.Context) error {
	var req struct {
		SessionID string `json:"sessionId"`
		Mode      string `json:"mode"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	reply, err := h.service.SwitchMode(c.Request().Context(), req.SessionID, req.Mode)
	if err != nil {
		return writeError(c, err, "Failed to change mode")
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": reply,
		"mode":    req.Mode,
	})
}
