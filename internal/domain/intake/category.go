package intake

import (
	"encoding/json"
	"fmt"
)

// ===============================================
// Confidence
// ===============================================

// Confidence is an ordinal indicator of how well a category's information has
// been captured. It only ever moves upward within a session.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

func confidenceRank(c Confidence) int {
	switch c {
	case ConfidenceLow:
		return 0
	case ConfidenceMedium:
		return 1
	case ConfidenceHigh:
		return 2
	default:
		return -1
	}
}

// Valid reports whether c is one of the three defined levels.
func (c Confidence) Valid() bool {
	return confidenceRank(c) >= 0
}

// AtLeast reports whether c meets or exceeds the given level.
func (c Confidence) AtLeast(level Confidence) bool {
	return confidenceRank(c) >= confidenceRank(level)
}

// ===============================================
// Category
// ===============================================

// Category is one discrete topic of project requirements. The set is closed:
// state always contains exactly these keys, nothing else.
type Category string

const (
	CategoryProblemDefinition         Category = "problem_definition"
	CategoryPrimaryUsers              Category = "primary_users"
	CategoryCoreFeatures              Category = "core_features"
	CategoryBusinessWorkflow          Category = "business_workflow"
	CategoryDataRequirements          Category = "data_requirements"
	CategoryIntegrations              Category = "integrations"
	CategoryMobileNeeds               Category = "mobile_needs"
	CategoryUIDesignPreferences       Category = "ui_design_preferences"
	CategoryAdminReporting            Category = "admin_reporting_requirements"
	CategoryAutomationNotifications   Category = "automation_notifications"
	CategoryOutputNeeds               Category = "output_needs"
	CategorySecurityCompliance        Category = "security_compliance"
	CategoryPerformanceRequirements   Category = "performance_requirements"
	CategoryIndustryContext           Category = "industry_context"
	CategorySuccessMetrics            Category = "success_metrics"
	CategoryNiceToHaveFeatures        Category = "nice_to_have_features"
	CategoryTechnicalConstraints      Category = "technical_constraints"
	CategoryTimeline                  Category = "timeline"
	CategoryBudgetNotes               Category = "budget_notes"
	CategoryScaleSaaSPotential        Category = "scale_saas_potential"
)

// categoryPriority is the order in which the planner probes categories:
// the problem itself first, commercial details last.
var categoryPriority = []Category{
	CategoryProblemDefinition,
	CategoryPrimaryUsers,
	CategoryCoreFeatures,
	CategoryBusinessWorkflow,
	CategoryDataRequirements,
	CategoryIntegrations,
	CategoryMobileNeeds,
	CategoryUIDesignPreferences,
	CategoryAdminReporting,
	CategoryAutomationNotifications,
	CategoryOutputNeeds,
	CategorySecurityCompliance,
	CategoryPerformanceRequirements,
	CategoryIndustryContext,
	CategorySuccessMetrics,
	CategoryNiceToHaveFeatures,
	CategoryTechnicalConstraints,
	CategoryTimeline,
	CategoryBudgetNotes,
	CategoryScaleSaaSPotential,
}

// AllCategories returns the fixed category set in planner priority order.
func AllCategories() []Category {
	out := make([]Category, len(categoryPriority))
	copy(out, categoryPriority)
	return out
}

// IsKnownCategory reports whether the key belongs to the fixed set.
func IsKnownCategory(c Category) bool {
	for _, known := range categoryPriority {
		if known == c {
			return true
		}
	}
	return false
}

// Label renders the category key as human-readable text ("budget notes").
func (c Category) Label() string {
	out := make([]byte, len(c))
	for i := 0; i < len(c); i++ {
		if c[i] == '_' {
			out[i] = ' '
		} else {
			out[i] = c[i]
		}
	}
	return string(out)
}

// ===============================================
// Session state
// ===============================================

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// CategoryState tracks one category's confidence and any captured data.
// Data, once set, is never cleared; later, more specific matches may overwrite it.
type CategoryState struct {
	Confidence Confidence `json:"confidence"`
	Data       *string    `json:"data"`
}

// HistoryTurn is one utterance in the intake conversation.
type HistoryTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// State is the aggregate intake state for a session: every category with its
// confidence, the conversation history mirror, and the completion flag.
type State struct {
	Categories map[Category]CategoryState `json:"categories"`
	History    []HistoryTurn              `json:"conversation_history"`
	IsComplete bool                       `json:"is_complete"`
}

// NewState returns a state with every category present at low confidence.
func NewState() *State {
	categories := make(map[Category]CategoryState, len(categoryPriority))
	for _, c := range categoryPriority {
		categories[c] = CategoryState{Confidence: ConfidenceLow}
	}
	return &State{
		Categories: categories,
		History:    []HistoryTurn{},
	}
}

// Promote raises a category's confidence and records captured data. Confidence
// never regresses: a lower or equal level leaves the current one in place, and
// nil data never erases previously captured data.
func (s *State) Promote(category Category, confidence Confidence, data *string) {
	if !IsKnownCategory(category) || !confidence.Valid() {
		return
	}
	current := s.Categories[category]
	next := current
	if confidence.AtLeast(current.Confidence) && confidence != current.Confidence {
		next.Confidence = confidence
	}
	if data != nil {
		next.Data = data
	}
	s.Categories[category] = next
}

// CountAtOrAbove returns how many categories meet or exceed the given level.
func (s *State) CountAtOrAbove(level Confidence) int {
	count := 0
	for _, cs := range s.Categories {
		if cs.Confidence.AtLeast(level) {
			count++
		}
	}
	return count
}

// LastUserMessage returns the content of the most recent user turn, or "".
func (s *State) LastUserMessage() string {
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].Role == RoleUser {
			return s.History[i].Content
		}
	}
	return ""
}

// AppendTurn adds an utterance to the in-memory history mirror.
func (s *State) AppendTurn(role Role, content string) {
	s.History = append(s.History, HistoryTurn{Role: role, Content: content})
}

// QuestionsAsked counts assistant turns, which is how the LLM strategy measures
// conversation progress.
func (s *State) QuestionsAsked() int {
	count := 0
	for _, turn := range s.History {
		if turn.Role == RoleAssistant {
			count++
		}
	}
	return count
}

// ===============================================
// Serialization
// ===============================================

// Marshal serializes the state for persistence as the session's state blob.
func (s *State) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// ParseState decodes a persisted state blob and normalizes it against the fixed
// category set: unknown keys are dropped, missing keys are backfilled with
// low/none defaults. An undecodable blob or an invalid confidence value is an
// error so callers can fall back to a fresh state.
func ParseState(raw []byte) (*State, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty state blob")
	}

	var decoded State
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}

	state := NewState()
	state.IsComplete = decoded.IsComplete
	if decoded.History != nil {
		state.History = decoded.History
	}
	for key, cs := range decoded.Categories {
		if !IsKnownCategory(key) {
			continue
		}
		if !cs.Confidence.Valid() {
			return nil, fmt.Errorf("category %q has invalid confidence %q", key, cs.Confidence)
		}
		state.Categories[key] = cs
	}
	return state, nil
}
