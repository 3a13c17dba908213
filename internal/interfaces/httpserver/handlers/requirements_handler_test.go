package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wavesprint/intake-api/internal/domain/requirements"
)

func requirementsTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	// No completion backend, so the handler serves the canned question ladder.
	handler := NewRequirementsHandler(requirements.NewService(nil, zerolog.Nop()), zerolog.Nop())
	router := gin.New()
	router.POST("/v1/chat/requirements", handler.Chat)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequirementsChatValidation(t *testing.T) {
	router := requirementsTestRouter()

	rec := postJSON(t, router, "/v1/chat/requirements", `{"leadName":"Dana"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, router, "/v1/chat/requirements", `{"initialIdea":"an app"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequirementsChatFirstQuestion(t *testing.T) {
	router := requirementsTestRouter()

	rec := postJSON(t, router, "/v1/chat/requirements", `{"leadName":"Dana","initialIdea":"A booking app for my salon"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Question   string `json:"question"`
		IsComplete bool   `json:"isComplete"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, requirements.FallbackQuestion(0), resp.Question)
	assert.False(t, resp.IsComplete)
}

func TestRequirementsChatCountsAssistantTurns(t *testing.T) {
	router := requirementsTestRouter()

	body := `{
		"leadName":"Dana",
		"initialIdea":"A booking app",
		"conversationHistory":[
			{"role":"assistant","content":"q1"},
			{"role":"user","content":"a1"},
			{"role":"assistant","content":"q2"},
			{"role":"user","content":"a2"}
		],
		"userMessage":"one more detail"
	}`
	rec := postJSON(t, router, "/v1/chat/requirements", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Question string `json:"question"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, requirements.FallbackQuestion(2), resp.Question)
}

func TestRequirementsChatCompletesWhenLadderExhausted(t *testing.T) {
	router := requirementsTestRouter()

	var history []string
	for i := 0; i < 7; i++ {
		history = append(history, `{"role":"assistant","content":"q"}`)
	}
	body := `{"leadName":"Dana","initialIdea":"A booking app","conversationHistory":[` + strings.Join(history, ",") + `]}`

	rec := postJSON(t, router, "/v1/chat/requirements", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Question   string `json:"question"`
		IsComplete bool   `json:"isComplete"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.IsComplete)
	assert.Contains(t, resp.Question, "I have everything I need to start your sprint")
}
