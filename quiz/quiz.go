package quiz

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"text/template"

	"github.com/studyware/tutor-gemini/gemini"
)

// ErrMalformedQuiz is returned when the model response isn't the JSON
// the response schema asked for. Callers degrade to an empty quiz.
var ErrMalformedQuiz = errors.New("can't parse quiz from model response")

type Item struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

var promptTemplate = template.Must(template.New("quiz").Parse(
	`Generate a quiz with {{.Count}} multiple-choice questions on {{.Subject}}, ` +
		`focusing on {{.Topic}} at {{.Difficulty}} level. ` +
		`Include options, the correct answer, and an explanation.`))

// responseSchema constrains the model to {"questions": [...]} so the
// answer is machine-parseable instead of prose.
var responseSchema = &gemini.Schema{
	Type: "OBJECT",
	Properties: map[string]*gemini.Schema{
		"questions": {
			Type: "ARRAY",
			Items: &gemini.Schema{
				Type: "OBJECT",
				Properties: map[string]*gemini.Schema{
					"question":      {Type: "STRING"},
					"options":       {Type: "ARRAY", Items: &gemini.Schema{Type: "STRING"}},
					"correctAnswer": {Type: "STRING"},
					"explanation":   {Type: "STRING"},
				},
			},
		},
	},
}

// BuildRequest templates the quiz prompt and pins the generation
// config the quiz flow depends on (JSON output against the schema).
func BuildRequest(subject, topic, difficulty string, count int) *gemini.Request {
	out := bytes.NewBuffer(nil)
	promptTemplate.Execute(out, struct {
		Subject    string
		Topic      string
		Difficulty string
		Count      int
	}{
		Subject:    subject,
		Topic:      topic,
		Difficulty: difficulty,
		Count:      count,
	})
	req := gemini.NewTextRequest(out.String())
	req.GenerationConfig = &gemini.GenerationConfig{
		Temperature:      1,
		MaxOutputTokens:  8192,
		TopP:             0.95,
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema,
	}
	return req
}

// Parse reads the model's answer as {"questions": [...]} and keeps the
// items in their original order. A response without a questions key is
// an empty quiz, not an error.
func Parse(text string) ([]Item, error) {
	var payload struct {
		Questions []Item `json:"questions"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedQuiz, err)
	}
	if payload.Questions == nil {
		return []Item{}, nil
	}
	return payload.Questions, nil
}
