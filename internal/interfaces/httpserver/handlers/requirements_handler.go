package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"wavesprint/intake-api/internal/domain/requirements"
	"wavesprint/intake-api/internal/utils/platformerrors"
)

// RequirementsHandler exposes the stateless requirements chat endpoint.
type RequirementsHandler struct {
	service *requirements.Service
	log     zerolog.Logger
}

func NewRequirementsHandler(service *requirements.Service, log zerolog.Logger) *RequirementsHandler {
	return &RequirementsHandler{
		service: service,
		log:     log.With().Str("component", "requirements-handler").Logger(),
	}
}

type requirementsRequest struct {
	LeadName            string              `json:"leadName" binding:"required"`
	Industry            string              `json:"industry"`
	InitialIdea         string              `json:"initialIdea" binding:"required"`
	Timeline            string              `json:"timeline"`
	Budget              string              `json:"budget"`
	ConversationHistory []requirements.Turn `json:"conversationHistory"`
	UserMessage         string              `json:"userMessage"`
}

type requirementsResponse struct {
	Question   string `json:"question"`
	IsComplete bool   `json:"isComplete"`
}

// Chat godoc
// @Summary      Generate the next requirements question
// @Description  Carries the whole conversation in the request and returns the next question plus a completion verdict.
// @Tags         requirements
// @Accept       json
// @Produce      json
// @Param        request  body      requirementsRequest  true  "Conversation context"
// @Success      200      {object}  requirementsResponse
// @Failure      400      {object}  platformerrors.HTTPErrorResponse
// @Router       /v1/chat/requirements [post]
func (h *RequirementsHandler) Chat(c *gin.Context) {
	var req requirementsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		perr := platformerrors.NewError(c.Request.Context(), platformerrors.LayerHandler, platformerrors.ErrorTypeValidation, "leadName and initialIdea are required", err, "d5f7b9c1-3e4a-4f6b-0c1d-2e3f4a5b6c7e")
		platformerrors.WriteHTTPError(c, perr, h.log)
		return
	}

	history := req.ConversationHistory
	if req.UserMessage != "" {
		history = append(history, requirements.Turn{Role: "user", Content: req.UserMessage})
	}

	questionsAsked := 0
	for _, turn := range history {
		if turn.Role == "assistant" {
			questionsAsked++
		}
	}

	rc := requirements.Context{
		LeadName:       req.LeadName,
		Industry:       valueOr(req.Industry, "general"),
		InitialIdea:    req.InitialIdea,
		Timeline:       valueOr(req.Timeline, "ASAP"),
		Budget:         valueOr(req.Budget, "Flexible"),
		History:        history,
		QuestionsAsked: questionsAsked,
	}

	reply, err := h.service.NextQuestion(c.Request.Context(), rc)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, requirementsResponse{
		Question:   reply.Question,
		IsComplete: reply.IsComplete,
	})
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
