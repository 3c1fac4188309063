package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeepsOrder(t *testing.T) {
	items, err := Parse(`{"questions":[
		{"question":"q1","options":["a","b","c","d"],"correctAnswer":"a","explanation":"e1"},
		{"question":"q2","options":["w","x","y","z"],"correctAnswer":"z","explanation":"e2"},
		{"question":"q3","options":["1","2"],"correctAnswer":"2","explanation":"e3"}
	]}`)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "q1", items[0].Question)
	assert.Equal(t, "q2", items[1].Question)
	assert.Equal(t, "q3", items[2].Question)
	assert.Equal(t, []string{"w", "x", "y", "z"}, items[1].Options)
	assert.Equal(t, "z", items[1].CorrectAnswer)
	assert.Equal(t, "e3", items[2].Explanation)
}

func TestParseMalformedJSON(t *testing.T) {
	items, err := Parse("Sorry, I can't generate a quiz about that.")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedQuiz)
	assert.Empty(t, items)
}

func TestParseMissingQuestionsKey(t *testing.T) {
	items, err := Parse(`{"something":"else"}`)
	require.NoError(t, err)
	require.NotNil(t, items)
	assert.Empty(t, items)
}

func TestBuildRequest(t *testing.T) {
	req := BuildRequest("Science", "Physics", "Advanced", 5)

	require.Len(t, req.Contents, 1)
	require.Len(t, req.Contents[0].Parts, 1)
	prompt := req.Contents[0].Parts[0].Text
	assert.Contains(t, prompt, "5 multiple-choice questions")
	assert.Contains(t, prompt, "Science")
	assert.Contains(t, prompt, "Physics")
	assert.Contains(t, prompt, "Advanced level")

	cfg := req.GenerationConfig
	require.NotNil(t, cfg)
	assert.Equal(t, 1.0, cfg.Temperature)
	assert.Equal(t, 8192, cfg.MaxOutputTokens)
	assert.Equal(t, 0.95, cfg.TopP)
	assert.Equal(t, "application/json", cfg.ResponseMIMEType)
	require.NotNil(t, cfg.ResponseSchema)
	assert.Equal(t, "OBJECT", cfg.ResponseSchema.Type)
	require.Contains(t, cfg.ResponseSchema.Properties, "questions")
	assert.Equal(t, "ARRAY", cfg.ResponseSchema.Properties["questions"].Type)
}
