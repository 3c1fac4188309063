package tutor

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/studyware/tutor-gemini/quiz"
)

type AskReq struct {
	Question string `json:"question"`
}

func (r *AskReq) Bind(*http.Request) error {
	r.Question = strings.TrimSpace(r.Question)
	if r.Question == "" {
		return fmt.Errorf("empty question")
	}
	return nil
}

type AskResp struct {
	Answer string `json:"answer"`
}

type QuizReq struct {
	Subject    string `json:"subject"`
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
	Count      int    `json:"count"`
}

func (r *QuizReq) Bind(*http.Request) error {
	r.Subject = strings.TrimSpace(r.Subject)
	r.Topic = strings.TrimSpace(r.Topic)
	r.Difficulty = strings.TrimSpace(r.Difficulty)
	if r.Subject == "" || r.Topic == "" || r.Difficulty == "" {
		return fmt.Errorf("subject, topic and difficulty are required")
	}
	if r.Count <= 0 {
		r.Count = 5
	}
	return nil
}

type QuizResp struct {
	Questions []quiz.Item `json:"questions"`
	Error     string      `json:"error,omitempty"`
}

type AnalyzeResp struct {
	Answer  string `json:"answer"`
	FileURI string `json:"fileUri"`
}
