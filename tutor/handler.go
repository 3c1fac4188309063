package tutor

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
	log "github.com/sirupsen/logrus"

	"github.com/studyware/tutor-gemini/gemini"
	"github.com/studyware/tutor-gemini/quiz"
	"github.com/studyware/tutor-gemini/util/ratelimit"
)

const maxUploadBytes = 20 << 20

// Uploader is the slice of gcs.Uploader the analyze flow needs.
type Uploader interface {
	Upload(ctx context.Context, bucket, objectName, contentType string, r io.Reader) (string, error)
}

// Handler serves the three tutor operations over one injected
// generation backend.
type Handler struct {
	gen     gemini.Generator
	uploads Uploader
	modelID string
	bucket  string
	limiter *ratelimit.Bucket
}

func NewHandler(gen gemini.Generator, uploads Uploader, modelID, bucket string) *Handler {
	return &Handler{
		gen:     gen,
		uploads: uploads,
		modelID: modelID,
		bucket:  bucket,
		limiter: ratelimit.New(60, 60, 60, time.Minute),
	}
}

// Ask handles POST /api/ask: one free-form question, one answer.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	req := &AskReq{}
	if err := render.Bind(r, req); err != nil {
		log.Debugf("bad request: %s", err)
		render.Status(r, http.StatusBadRequest)
		render.PlainText(w, r, err.Error())
		return
	}
	result := h.generate(w, r, gemini.NewTextRequest(req.Question))
	if result == nil {
		return
	}
	render.JSON(w, r, &AskResp{Answer: result.Answer})
}

// Quiz handles POST /api/quiz. A model answer that isn't the requested
// JSON degrades to an empty quiz with the parse error reported.
func (h *Handler) Quiz(w http.ResponseWriter, r *http.Request) {
	req := &QuizReq{}
	if err := render.Bind(r, req); err != nil {
		log.Debugf("bad request: %s", err)
		render.Status(r, http.StatusBadRequest)
		render.PlainText(w, r, err.Error())
		return
	}
	result := h.generate(w, r, quiz.BuildRequest(req.Subject, req.Topic, req.Difficulty, req.Count))
	if result == nil {
		return
	}
	items, err := quiz.Parse(result.Answer)
	if err != nil {
		log.Errorf("quiz parse error: %s, answer: %q", err, result.Answer)
		render.JSON(w, r, &QuizResp{Questions: []quiz.Item{}, Error: err.Error()})
		return
	}
	render.JSON(w, r, &QuizResp{Questions: items})
}

// Analyze handles POST /api/analyze: multipart form with a "question"
// field and an "image" file. The image goes to the bucket first, then
// the generation request references it by URI.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		log.Debugf("bad multipart request: %s", err)
		render.Status(r, http.StatusBadRequest)
		render.PlainText(w, r, err.Error())
		return
	}
	question := strings.TrimSpace(r.FormValue("question"))
	if question == "" {
		render.Status(r, http.StatusBadRequest)
		render.PlainText(w, r, "empty question")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.PlainText(w, r, "missing image file")
		return
	}
	defer file.Close()
	contentType := header.Header.Get("Content-Type")

	fileURI, err := h.uploads.Upload(r.Context(), h.bucket, header.Filename, contentType, file)
	if err != nil {
		log.Errorf("upload error: %s", err)
		render.Status(r, http.StatusInternalServerError)
		render.PlainText(w, r, err.Error())
		return
	}
	log.Debugf("uploaded %s as %s", header.Filename, fileURI)

	result := h.generate(w, r, gemini.NewFileRequest(question, contentType, fileURI))
	if result == nil {
		return
	}
	render.JSON(w, r, &AnalyzeResp{Answer: result.Answer, FileURI: fileURI})
}

// generate runs one rate-limited session for the request and waits for
// its result or the client going away. A nil return means the error
// response has already been written.
func (h *Handler) generate(w http.ResponseWriter, r *http.Request, req *gemini.Request) *Result {
	if err := h.limiter.Acquire(r.Context()); err != nil {
		log.Errorf("rate limiter error: %s", err)
		render.Status(r, http.StatusInternalServerError)
		render.PlainText(w, r, err.Error())
		return nil
	}
	ch := make(chan *Result, 1)
	dispatch(h.gen, h.modelID, req, ch)
	select {
	case <-r.Context().Done():
		log.Errorf("context break, reason: %s", r.Context().Err())
		render.Status(r, http.StatusInternalServerError)
		render.PlainText(w, r, r.Context().Err().Error())
		return nil
	case result := <-ch:
		if result.Err != nil {
			render.Status(r, http.StatusInternalServerError)
			render.PlainText(w, r, result.Err.Error())
			return nil
		}
		return result
	}
}
