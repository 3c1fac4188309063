package gemini

import (
	"context"
	"fmt"
)

// NewGenerator picks the backend for the configured credentials: the
// Vertex REST client when a service account descriptor is present, the
// AI Studio SDK client when only an API key is.
func NewGenerator(ctx context.Context, projectID, locationID, serviceAccountJSON, apiKey string) (Generator, error) {
	if serviceAccountJSON != "" {
		return NewVertexClient(ctx, projectID, locationID, []byte(serviceAccountJSON))
	}
	if apiKey != "" {
		return NewAPIKeyClient(apiKey), nil
	}
	return nil, fmt.Errorf("no credentials configured, set SERVICE_ACCOUNT_JSON (or SERVICE_ACCOUNT_FILE) or GEMINI_API_KEY")
}
