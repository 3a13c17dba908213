package handlers

import (
	"github.com/rs/zerolog"

	"wavesprint/intake-api/internal/domain/intake"
	"wavesprint/intake-api/internal/domain/lead"
	"wavesprint/intake-api/internal/domain/requirements"
)

// Provider wires HTTP handlers.
type Provider struct {
	Intake       *IntakeHandler
	Requirements *RequirementsHandler
	Contact      *ContactHandler
	Admin        *AdminHandler
}

func NewProvider(
	intakeService *intake.Service,
	requirementsService *requirements.Service,
	leadService *lead.Service,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Intake:       NewIntakeHandler(intakeService, log),
		Requirements: NewRequirementsHandler(requirementsService, log),
		Contact:      NewContactHandler(leadService, log),
		Admin:        NewAdminHandler(leadService, intakeService, log),
	}
}
