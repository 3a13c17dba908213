package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"wavesprint/intake-api/internal/domain/intake"
	"wavesprint/intake-api/internal/domain/lead"
	"wavesprint/intake-api/internal/utils/platformerrors"
)

// AdminHandler exposes the admin CRM surface: leads, the pipeline board,
// intake session inspection and dashboard stats.
type AdminHandler struct {
	leads  *lead.Service
	intake *intake.Service
	log    zerolog.Logger
}

func NewAdminHandler(leads *lead.Service, intakeService *intake.Service, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		leads:  leads,
		intake: intakeService,
		log:    log.With().Str("component", "admin-handler").Logger(),
	}
}

// ===============================================
// DTOs
// ===============================================

type stageDTO struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	OrderIndex int     `json:"order_index"`
	Color      *string `json:"color"`
	IsFinal    bool    `json:"is_final"`
}

type leadDTO struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	Company            *string    `json:"company"`
	Industry           *string    `json:"industry"`
	ProblemDescription *string    `json:"problem_description"`
	Phone              *string    `json:"phone"`
	Source             *string    `json:"source"`
	LeadScore          int        `json:"lead_score"`
	LastContactedAt    *time.Time `json:"last_contacted_at"`
	NextFollowupAt     *time.Time `json:"next_followup_at"`
	Notes              *string    `json:"notes"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	PipelineStage      *stageDTO  `json:"pipeline_stage,omitempty"`
}

type activityDTO struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Title     *string        `json:"title"`
	Content   *string        `json:"content"`
	Metadata  map[string]any `json:"metadata"`
	CreatedBy string         `json:"created_by"`
	CreatedAt time.Time      `json:"created_at"`
}

type sessionDTO struct {
	ID        string          `json:"id"`
	Status    string          `json:"status"`
	StateJSON json.RawMessage `json:"state_json"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Lead      *leadDTO        `json:"lead,omitempty"`
}

type messageDTO struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type paginationDTO struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

func stageToDTO(s *lead.PipelineStage) *stageDTO {
	if s == nil {
		return nil
	}
	return &stageDTO{
		ID:         s.PublicID,
		Name:       s.Name,
		OrderIndex: s.OrderIndex,
		Color:      s.Color,
		IsFinal:    s.IsFinal,
	}
}

func leadToDTO(l *lead.Lead) *leadDTO {
	if l == nil {
		return nil
	}
	return &leadDTO{
		ID:                 l.PublicID,
		Name:               l.Name,
		Email:              l.Email,
		Company:            l.Company,
		Industry:           l.Industry,
		ProblemDescription: l.ProblemDescription,
		Phone:              l.Phone,
		Source:             l.Source,
		LeadScore:          l.LeadScore,
		LastContactedAt:    l.LastContactedAt,
		NextFollowupAt:     l.NextFollowupAt,
		Notes:              l.Notes,
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
		PipelineStage:      stageToDTO(l.Stage),
	}
}

func activityToDTO(a *lead.Activity) activityDTO {
	return activityDTO{
		ID:        a.PublicID,
		Type:      string(a.Type),
		Title:     a.Title,
		Content:   a.Content,
		Metadata:  a.Metadata,
		CreatedBy: a.CreatedBy,
		CreatedAt: a.CreatedAt,
	}
}

func sessionToDTO(s *intake.Session) sessionDTO {
	state := json.RawMessage(s.RawState)
	if len(state) == 0 {
		state = json.RawMessage("{}")
	}
	return sessionDTO{
		ID:        s.PublicID,
		Status:    string(s.Status),
		StateJSON: state,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Lead:      leadToDTO(s.Lead),
	}
}

func paging(c *gin.Context) (limit, offset int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 200 {
		limit = 50
	}
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

// ===============================================
// Leads
// ===============================================

// ListLeads godoc
// @Summary      List leads
// @Tags         admin
// @Produce      json
// @Param        limit   query  int  false  "Page size"
// @Param        offset  query  int  false  "Page offset"
// @Security     AdminKeyAuth
// @Router       /v1/admin/leads [get]
func (h *AdminHandler) ListLeads(c *gin.Context) {
	limit, offset := paging(c)
	leads, err := h.leads.ListLeads(c.Request.Context(), limit, offset)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	dtos := make([]*leadDTO, 0, len(leads))
	for _, l := range leads {
		dtos = append(dtos, leadToDTO(l))
	}
	c.JSON(http.StatusOK, gin.H{
		"leads":      dtos,
		"pagination": paginationDTO{Limit: limit, Offset: offset, Total: len(dtos)},
	})
}

// GetLead godoc
// @Summary      Get a lead with its activity timeline
// @Tags         admin
// @Produce      json
// @Param        id  path  string  true  "Lead ID"
// @Security     AdminKeyAuth
// @Router       /v1/admin/leads/{id} [get]
func (h *AdminHandler) GetLead(c *gin.Context) {
	l, activities, err := h.leads.GetLead(c.Request.Context(), c.Param("id"))
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	dtos := make([]activityDTO, 0, len(activities))
	for _, a := range activities {
		dtos = append(dtos, activityToDTO(a))
	}
	c.JSON(http.StatusOK, gin.H{"lead": leadToDTO(l), "activities": dtos})
}

type updateLeadRequest struct {
	Name            *string    `json:"name"`
	Email           *string    `json:"email"`
	Company         *string    `json:"company"`
	Industry        *string    `json:"industry"`
	Phone           *string    `json:"phone"`
	Notes           *string    `json:"notes"`
	LeadScore       *int       `json:"lead_score"`
	PipelineStageID *string    `json:"pipeline_stage_id"`
	NextFollowupAt  *time.Time `json:"next_followup_at"`
	LastContactedAt *time.Time `json:"last_contacted_at"`
}

// UpdateLead godoc
// @Summary      Partially update a lead
// @Description  Moving the lead to another stage records a stage_change activity.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id       path  string             true  "Lead ID"
// @Param        request  body  updateLeadRequest  true  "Fields to update"
// @Security     AdminKeyAuth
// @Router       /v1/admin/leads/{id} [patch]
func (h *AdminHandler) UpdateLead(c *gin.Context) {
	var req updateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		perr := platformerrors.NewError(c.Request.Context(), platformerrors.LayerHandler, platformerrors.ErrorTypeValidation, "invalid update payload", err, "f7b9d1e3-5a6c-4b8d-2e3f-4a5b6c7d8e90")
		platformerrors.WriteHTTPError(c, perr, h.log)
		return
	}

	l, err := h.leads.UpdateLead(c.Request.Context(), c.Param("id"), lead.UpdateLeadParams{
		Name:            req.Name,
		Email:           req.Email,
		Company:         req.Company,
		Industry:        req.Industry,
		Phone:           req.Phone,
		Notes:           req.Notes,
		LeadScore:       req.LeadScore,
		StagePublicID:   req.PipelineStageID,
		NextFollowupAt:  req.NextFollowupAt,
		LastContactedAt: req.LastContactedAt,
	})
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lead": leadToDTO(l)})
}

// ===============================================
// Activities
// ===============================================

// ListActivities godoc
// @Summary      List a lead's activity timeline
// @Tags         admin
// @Produce      json
// @Param        id  path  string  true  "Lead ID"
// @Security     AdminKeyAuth
// @Router       /v1/admin/leads/{id}/activities [get]
func (h *AdminHandler) ListActivities(c *gin.Context) {
	activities, err := h.leads.ListActivities(c.Request.Context(), c.Param("id"))
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	dtos := make([]activityDTO, 0, len(activities))
	for _, a := range activities {
		dtos = append(dtos, activityToDTO(a))
	}
	c.JSON(http.StatusOK, gin.H{"activities": dtos})
}

type createActivityRequest struct {
	Type     string         `json:"type" binding:"required"`
	Title    *string        `json:"title"`
	Content  *string        `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

// CreateActivity godoc
// @Summary      Append an activity to a lead's timeline
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id       path  string                 true  "Lead ID"
// @Param        request  body  createActivityRequest  true  "Activity"
// @Security     AdminKeyAuth
// @Router       /v1/admin/leads/{id}/activities [post]
func (h *AdminHandler) CreateActivity(c *gin.Context) {
	var req createActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		perr := platformerrors.NewError(c.Request.Context(), platformerrors.LayerHandler, platformerrors.ErrorTypeValidation, "activity type is required", err, "08c0e2f4-6b7d-4c9e-3f4a-5b6c7d8e9f01")
		platformerrors.WriteHTTPError(c, perr, h.log)
		return
	}

	a, err := h.leads.AddActivityByLeadID(c.Request.Context(), c.Param("id"), lead.AddActivityParams{
		Type:      lead.ActivityType(req.Type),
		Title:     req.Title,
		Content:   req.Content,
		Metadata:  req.Metadata,
		CreatedBy: "user",
	})
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": activityToDTO(a)})
}

// ===============================================
// Sessions
// ===============================================

// ListSessions godoc
// @Summary      List intake sessions with their leads
// @Tags         admin
// @Produce      json
// @Param        limit   query  int  false  "Page size"
// @Param        offset  query  int  false  "Page offset"
// @Security     AdminKeyAuth
// @Router       /v1/admin/sessions [get]
func (h *AdminHandler) ListSessions(c *gin.Context) {
	limit, offset := paging(c)
	sessions, err := h.intake.ListSessions(c.Request.Context(), limit, offset)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	dtos := make([]sessionDTO, 0, len(sessions))
	for _, s := range sessions {
		dtos = append(dtos, sessionToDTO(s))
	}
	c.JSON(http.StatusOK, gin.H{
		"sessions":   dtos,
		"pagination": paginationDTO{Limit: limit, Offset: offset, Total: len(dtos)},
	})
}

// GetSession godoc
// @Summary      Get a session with its message log and synthesized document
// @Tags         admin
// @Produce      json
// @Param        id  path  string  true  "Session ID"
// @Security     AdminKeyAuth
// @Router       /v1/admin/sessions/{id} [get]
func (h *AdminHandler) GetSession(c *gin.Context) {
	detail, err := h.intake.GetSessionDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	messages := make([]messageDTO, 0, len(detail.Messages))
	for _, m := range detail.Messages {
		messages = append(messages, messageDTO{
			ID:        m.PublicID,
			Role:      string(m.Role),
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	var prompt *string
	if detail.Prompt != nil {
		prompt = &detail.Prompt.PromptText
	}
	c.JSON(http.StatusOK, gin.H{
		"session":    sessionToDTO(detail.Session),
		"messages":   messages,
		"mvp_prompt": prompt,
	})
}

// ===============================================
// Dashboard
// ===============================================

// Stats godoc
// @Summary      Dashboard stats
// @Tags         admin
// @Produce      json
// @Security     AdminKeyAuth
// @Router       /v1/admin/stats [get]
func (h *AdminHandler) Stats(c *gin.Context) {
	leadStats, err := h.leads.DashboardStats(c.Request.Context())
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	sessionStats, err := h.intake.Stats(c.Request.Context())
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	stages, err := h.leads.Stages(c.Request.Context())
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	stageDTOs := make([]*stageDTO, 0, len(stages))
	for _, s := range stages {
		stageDTOs = append(stageDTOs, stageToDTO(s))
	}
	c.JSON(http.StatusOK, gin.H{
		"total_leads":        leadStats.TotalLeads,
		"leads_last_7_days":  leadStats.LeadsLast7Days,
		"leads_by_stage":     leadStats.LeadsByStageName,
		"total_sessions":     sessionStats.TotalSessions,
		"completed_sessions": sessionStats.CompletedSessions,
		"stages":             stageDTOs,
	})
}

// Pipeline godoc
// @Summary      Pipeline board data
// @Tags         admin
// @Produce      json
// @Security     AdminKeyAuth
// @Router       /v1/admin/pipeline [get]
func (h *AdminHandler) Pipeline(c *gin.Context) {
	stages, leads, err := h.leads.Pipeline(c.Request.Context())
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	stageDTOs := make([]*stageDTO, 0, len(stages))
	for _, s := range stages {
		stageDTOs = append(stageDTOs, stageToDTO(s))
	}
	leadDTOs := make([]*leadDTO, 0, len(leads))
	for _, l := range leads {
		leadDTOs = append(leadDTOs, leadToDTO(l))
	}
	c.JSON(http.StatusOK, gin.H{"stages": stageDTOs, "leads": leadDTOs})
}
