package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"wavesprint/intake-api/internal/domain/intake"
	"wavesprint/intake-api/internal/utils/platformerrors"
)

// IntakeHandler exposes the conversational intake endpoint.
type IntakeHandler struct {
	service *intake.Service
	log     zerolog.Logger
}

func NewIntakeHandler(service *intake.Service, log zerolog.Logger) *IntakeHandler {
	return &IntakeHandler{
		service: service,
		log:     log.With().Str("component", "intake-handler").Logger(),
	}
}

type intakeRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" binding:"required"`
}

type intakeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type intakeResponse struct {
	SessionID  string          `json:"session_id"`
	Messages   []intakeMessage `json:"messages"`
	MVPPrompt  *string         `json:"mvp_prompt"`
	IsComplete bool            `json:"is_complete"`
}

// Turn godoc
// @Summary      Process one intake conversation turn
// @Description  Accepts a user message, advances the conversation and returns the assistant reply. Omitting session_id starts a new conversation.
// @Tags         intake
// @Accept       json
// @Produce      json
// @Param        request  body      intakeRequest  true  "User message"
// @Success      200      {object}  intakeResponse
// @Failure      400      {object}  platformerrors.HTTPErrorResponse
// @Failure      404      {object}  platformerrors.HTTPErrorResponse
// @Router       /v1/intake [post]
func (h *IntakeHandler) Turn(c *gin.Context) {
	var req intakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		perr := platformerrors.NewError(c.Request.Context(), platformerrors.LayerHandler, platformerrors.ErrorTypeValidation, "message is required", err, "c4e6a8b0-2d3f-4e5a-9b0c-1d2e3f4a5b6d")
		platformerrors.WriteHTTPError(c, perr, h.log)
		return
	}

	outcome, err := h.service.HandleTurn(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	messages := make([]intakeMessage, 0, len(outcome.AssistantMessages))
	for _, content := range outcome.AssistantMessages {
		messages = append(messages, intakeMessage{Role: string(intake.RoleAssistant), Content: content})
	}
	var prompt *string
	if outcome.MVPPrompt != "" {
		prompt = &outcome.MVPPrompt
	}

	c.JSON(http.StatusOK, intakeResponse{
		SessionID:  outcome.SessionPublicID,
		Messages:   messages,
		MVPPrompt:  prompt,
		IsComplete: outcome.IsComplete,
	})
}
