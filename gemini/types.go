package gemini

import "context"

// Generator is the surface the rest of the service talks to. Both the
// Vertex REST client and the API-key client implement it.
type Generator interface {
	GenerateContent(ctx context.Context, modelID string, req *Request) (string, error)
}

type Request struct {
	Contents         []*Content        `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

type Content struct {
	Role  string  `json:"role"`
	Parts []*Part `json:"parts"`
}

// Part carries either inline text or a reference to an uploaded file,
// never both.
type Part struct {
	Text     string    `json:"text,omitempty"`
	FileData *FileData `json:"fileData,omitempty"`
}

type FileData struct {
	MIMEType string `json:"mimeType"`
	FileURI  string `json:"fileUri"`
}

type GenerationConfig struct {
	Temperature      float64 `json:"temperature,omitempty"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	TopP             float64 `json:"topP,omitempty"`
	ResponseMIMEType string  `json:"responseMimeType,omitempty"`
	ResponseSchema   *Schema `json:"responseSchema,omitempty"`
}

// Schema is the subset of the Vertex response schema language needed to
// constrain quiz output. Type values are uppercase ("OBJECT", "ARRAY",
// "STRING") as the API expects.
type Schema struct {
	Type       string             `json:"type"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
}

// Response carries its own part shape: text is a pointer so a
// present-but-empty answer is distinguishable from a missing key.
type Response struct {
	Candidates []*Candidate `json:"candidates"`
}

type Candidate struct {
	Content *CandidateContent `json:"content"`
}

type CandidateContent struct {
	Parts []*CandidatePart `json:"parts"`
}

type CandidatePart struct {
	Text *string `json:"text"`
}

// NewTextRequest builds a single-turn request with one user text part.
func NewTextRequest(text string) *Request {
	return &Request{
		Contents: []*Content{
			{
				Role:  "user",
				Parts: []*Part{{Text: text}},
			},
		},
	}
}

// NewFileRequest builds a single-turn request pairing a question with a
// reference to an already uploaded file.
func NewFileRequest(text string, mimeType string, fileURI string) *Request {
	return &Request{
		Contents: []*Content{
			{
				Role: "user",
				Parts: []*Part{
					{Text: text},
					{FileData: &FileData{MIMEType: mimeType, FileURI: fileURI}},
				},
			},
		},
	}
}
