package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionsForCategoryCoversFullSet(t *testing.T) {
	for _, c := range AllCategories() {
		questions := QuestionsForCategory(c, nil)
		require.NotEmpty(t, questions, "category %s has no question", c)
		for _, q := range questions {
			assert.NotEmpty(t, q)
		}
	}
}

func TestQuestionsForCategoryCoreFeaturesBranches(t *testing.T) {
	plain := QuestionsForCategory(CategoryCoreFeatures, []HistoryTurn{
		{Role: RoleUser, Content: "I want an app for my bakery"},
	})
	require.Len(t, plain, 1)
	assert.Equal(t, "What are the core features this app must have? What should users be able to do with it?", plain[0])

	tracking := QuestionsForCategory(CategoryCoreFeatures, []HistoryTurn{
		{Role: RoleUser, Content: "I need to TRACK orders across stores"},
	})
	require.Len(t, tracking, 1)
	assert.Equal(t, "What are the 3-5 most important features that must be in the MVP? What should users be able to do?", tracking[0])

	managing := QuestionsForCategory(CategoryCoreFeatures, []HistoryTurn{
		{Role: RoleUser, Content: "Something to manage inventory"},
	})
	assert.Equal(t, tracking, managing)
}

func TestQuestionsForCategoryIgnoresAssistantTurns(t *testing.T) {
	questions := QuestionsForCategory(CategoryCoreFeatures, []HistoryTurn{
		{Role: RoleAssistant, Content: "Would you like to track inventory?"},
		{Role: RoleUser, Content: "I want a simple booking page"},
	})
	require.Len(t, questions, 1)
	assert.Equal(t, "What are the core features this app must have? What should users be able to do with it?", questions[0])
}

func TestQuestionsForCategoryUnknownFallback(t *testing.T) {
	questions := QuestionsForCategory(Category("secret_sauce"), nil)
	require.Len(t, questions, 1)
	assert.Equal(t, "Tell me more about secret sauce.", questions[0])
}
