package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// APIKeyClient is the fallback backend for deployments without a
// service account, going through the AI Studio SDK instead of the
// Vertex REST endpoint. The response schema can't be enforced by this
// path, only the response MIME type, so schema-constrained callers
// rely on the prompt for shape.
type APIKeyClient struct {
	apiKey string
}

func NewAPIKeyClient(apiKey string) *APIKeyClient {
	return &APIKeyClient{apiKey: apiKey}
}

func (c *APIKeyClient) GenerateContent(ctx context.Context, modelID string, req *Request) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return "", fmt.Errorf("create genai client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(modelID)
	if cfg := req.GenerationConfig; cfg != nil {
		if cfg.Temperature != 0 {
			model.GenerationConfig.SetTemperature(float32(cfg.Temperature))
		}
		if cfg.TopP != 0 {
			model.GenerationConfig.SetTopP(float32(cfg.TopP))
		}
		if cfg.MaxOutputTokens != 0 {
			model.GenerationConfig.SetMaxOutputTokens(int32(cfg.MaxOutputTokens))
		}
		model.GenerationConfig.ResponseMIMEType = cfg.ResponseMIMEType
	}

	var parts []genai.Part
	for _, content := range req.Contents {
		for _, p := range content.Parts {
			if p.FileData != nil {
				parts = append(parts, genai.FileData{
					MIMEType: p.FileData.MIMEType,
					URI:      p.FileData.FileURI,
				})
			} else {
				parts = append(parts, genai.Text(p.Text))
			}
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("request has no parts")
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return NoResponseFallback, nil
	}
	result := ""
	found := false
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			result += string(text)
			found = true
		}
	}
	if !found {
		return NoResponseFallback, nil
	}
	return result, nil
}
