package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"wavesprint/intake-api/internal/domain/lead"
	"wavesprint/intake-api/internal/infrastructure/metrics"
	"wavesprint/intake-api/internal/utils/platformerrors"
)

// ContactHandler accepts contact form submissions.
type ContactHandler struct {
	service *lead.Service
	log     zerolog.Logger
}

func NewContactHandler(service *lead.Service, log zerolog.Logger) *ContactHandler {
	return &ContactHandler{
		service: service,
		log:     log.With().Str("component", "contact-handler").Logger(),
	}
}

type contactRequest struct {
	Name               string  `json:"name" binding:"required"`
	Email              string  `json:"email" binding:"required"`
	Company            *string `json:"company"`
	Industry           *string `json:"industry"`
	ProblemDescription *string `json:"problemDescription"`
	Phone              *string `json:"phone"`
}

type contactResponse struct {
	Success bool   `json:"success"`
	LeadID  string `json:"leadId"`
}

// Submit godoc
// @Summary      Submit the contact form
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        request  body      contactRequest  true  "Contact details"
// @Success      200      {object}  contactResponse
// @Failure      400      {object}  platformerrors.HTTPErrorResponse
// @Router       /v1/contact [post]
func (h *ContactHandler) Submit(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		perr := platformerrors.NewError(c.Request.Context(), platformerrors.LayerHandler, platformerrors.ErrorTypeValidation, "name and email are required", err, "e6a8c0d2-4f5b-4a7c-1d2e-3f4a5b6c7d8f")
		platformerrors.WriteHTTPError(c, perr, h.log)
		return
	}

	source := "contact_form"
	l, err := h.service.CreateLead(c.Request.Context(), lead.CreateLeadParams{
		Name:               req.Name,
		Email:              req.Email,
		Company:            req.Company,
		Industry:           req.Industry,
		ProblemDescription: req.ProblemDescription,
		Phone:              req.Phone,
		Source:             &source,
	})
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	metrics.RecordLeadCreated()

	c.JSON(http.StatusOK, contactResponse{Success: true, LeadID: l.PublicID})
}
