package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/studyware/tutor-gemini/util/httpclient"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// NoResponseFallback is returned when a 200 response doesn't carry the
// candidates[0].content.parts[0].text path. A missing key anywhere
// along the path is not an error.
const NoResponseFallback = "No response generated"

// APIError is a non-200 answer from the generateContent endpoint. The
// body is kept verbatim so the caller can show it as-is.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}

// VertexClient talks to the Vertex AI generateContent REST endpoint
// using service account credentials.
type VertexClient struct {
	projectID   string
	locationID  string
	endpoint    string
	tokenSource oauth2.TokenSource
	httpClient  *http.Client
}

// NewVertexClient parses the service account JSON into a refreshing
// token source. A malformed descriptor fails here, before any request
// is made.
func NewVertexClient(ctx context.Context, projectID, locationID string, serviceAccountJSON []byte) (*VertexClient, error) {
	creds, err := google.CredentialsFromJSON(ctx, serviceAccountJSON, cloudPlatformScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account credentials: %w", err)
	}
	return &VertexClient{
		projectID:   projectID,
		locationID:  locationID,
		endpoint:    fmt.Sprintf("https://%s-aiplatform.googleapis.com", locationID),
		tokenSource: creds.TokenSource,
		httpClient:  httpclient.New(30 * time.Second),
	}, nil
}

// GenerateContent makes one authenticated call, no retries. Non-200
// statuses fail with the status and body; a 200 that isn't valid JSON
// is returned raw.
func (c *VertexClient) GenerateContent(ctx context.Context, modelID string, req *Request) (string, error) {
	url := fmt.Sprintf("%s/v1/projects/%s/locations/%s/publishers/google/models/%s:generateContent",
		c.endpoint, c.projectID, c.locationID, modelID)

	token, err := c.tokenSource.Token()
	if err != nil {
		return "", fmt.Errorf("refresh credentials: %w", err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	var gr Response
	if err := json.Unmarshal(data, &gr); err != nil {
		log.Errorf("can't parse generateContent response: %s", err)
		return string(data), nil
	}
	return firstCandidateText(&gr), nil
}

// firstCandidateText extracts candidates[0].content.parts[0].text,
// substituting NoResponseFallback at whichever level is absent. A text
// key that is present but empty is the answer, not a fallback.
func firstCandidateText(resp *Response) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return NoResponseFallback
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return NoResponseFallback
	}
	part := candidate.Content.Parts[0]
	if part == nil || part.Text == nil {
		return NoResponseFallback
	}
	return *part.Text
}
