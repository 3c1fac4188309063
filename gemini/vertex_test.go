package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestClient(endpoint string) *VertexClient {
	return &VertexClient{
		projectID:   "test-project",
		locationID:  "us-central1",
		endpoint:    endpoint,
		tokenSource: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"}),
		httpClient:  http.DefaultClient,
	}
}

func TestGenerateContentSuccess(t *testing.T) {
	var gotPath, gotAuth, gotContentType string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"42"}]}}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	answer, err := client.GenerateContent(context.Background(), "gemini-1.5-flash-002", NewTextRequest("what is 6*7?"))
	require.NoError(t, err)
	assert.Equal(t, "42", answer)

	assert.Equal(t,
		"/v1/projects/test-project/locations/us-central1/publishers/google/models/gemini-1.5-flash-002:generateContent",
		gotPath)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "application/json", gotContentType)

	var sent Request
	require.NoError(t, json.Unmarshal(gotBody, &sent))
	require.Len(t, sent.Contents, 1)
	assert.Equal(t, "user", sent.Contents[0].Role)
	require.Len(t, sent.Contents[0].Parts, 1)
	assert.Equal(t, "what is 6*7?", sent.Contents[0].Parts[0].Text)
}

func TestGenerateContentMissingKeysFallsBack(t *testing.T) {
	for name, body := range map[string]string{
		"empty object":      `{}`,
		"no candidates":     `{"candidates":[]}`,
		"no content":        `{"candidates":[{}]}`,
		"no parts":          `{"candidates":[{"content":{}}]}`,
		"empty parts":       `{"candidates":[{"content":{"parts":[]}}]}`,
		"part with no text": `{"candidates":[{"content":{"parts":[{}]}}]}`,
	} {
		body := body
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer server.Close()

			client := newTestClient(server.URL)
			answer, err := client.GenerateContent(context.Background(), "m", NewTextRequest("q"))
			require.NoError(t, err)
			assert.Equal(t, NoResponseFallback, answer)
		})
	}
}

func TestGenerateContentEmptyTextIsNotAFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":""}]}}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	answer, err := client.GenerateContent(context.Background(), "m", NewTextRequest("q"))
	require.NoError(t, err)
	assert.Equal(t, "", answer)
}

func TestGenerateContentNonJSONBodyReturnedRaw(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("plain text answer"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	answer, err := client.GenerateContent(context.Background(), "m", NewTextRequest("q"))
	require.NoError(t, err)
	assert.Equal(t, "plain text answer", answer)
}

func TestGenerateContentNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GenerateContent(context.Background(), "m", NewTextRequest("q"))
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, `{"error":{"message":"quota exceeded"}}`, apiErr.Body)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestNewVertexClientBadCredentials(t *testing.T) {
	_, err := NewVertexClient(context.Background(), "p", "us-central1", []byte("not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse service account credentials")
}

func TestFirstCandidateText(t *testing.T) {
	text := func(s string) *CandidatePart { return &CandidatePart{Text: &s} }

	assert.Equal(t, NoResponseFallback, firstCandidateText(nil))
	assert.Equal(t, NoResponseFallback, firstCandidateText(&Response{}))
	assert.Equal(t, NoResponseFallback, firstCandidateText(&Response{
		Candidates: []*Candidate{
			{Content: &CandidateContent{Parts: []*CandidatePart{{}}}},
		},
	}))
	assert.Equal(t, "hello", firstCandidateText(&Response{
		Candidates: []*Candidate{
			{Content: &CandidateContent{Parts: []*CandidatePart{text("hello"), text("ignored")}}},
		},
	}))
	assert.Equal(t, "", firstCandidateText(&Response{
		Candidates: []*Candidate{
			{Content: &CandidateContent{Parts: []*CandidatePart{text("")}}},
		},
	}))
}

func TestNewFileRequestShape(t *testing.T) {
	req := NewFileRequest("what is in this image?", "image/png", "gs://bucket/pic.png")
	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"contents": [{
			"role": "user",
			"parts": [
				{"text": "what is in this image?"},
				{"fileData": {"mimeType": "image/png", "fileUri": "gs://bucket/pic.png"}}
			]
		}]
	}`, string(data))
}
