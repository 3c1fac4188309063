package api

import (
	"context"
	"net/http"
	"os"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/studyware/tutor-gemini/config"
	"github.com/studyware/tutor-gemini/gcs"
	"github.com/studyware/tutor-gemini/gemini"
	"github.com/studyware/tutor-gemini/tutor"
)

var (
	once    sync.Once
	mux     *http.ServeMux
	initErr error
)

func setup() {
	config.Init()
	cfg := config.ReadConfig()
	ctx := context.Background()

	gen, err := gemini.NewGenerator(ctx, cfg.ProjectID, cfg.LocationID, cfg.ServiceAccountJSON, cfg.GeminiAPIKey)
	if err != nil {
		initErr = err
		return
	}
	var uploads tutor.Uploader
	if cfg.BucketName != "" {
		uploader, err := gcs.NewUploader(ctx, []byte(cfg.ServiceAccountJSON))
		if err != nil {
			initErr = err
			return
		}
		uploads = uploader
	}
	handler := tutor.NewHandler(gen, uploads, cfg.ModelID, cfg.BucketName)

	mux = http.NewServeMux()
	mux.Handle("/api/ask", http.HandlerFunc(handler.Ask))
	mux.Handle("/api/quiz", http.HandlerFunc(handler.Quiz))
	if uploads != nil {
		mux.Handle("/api/analyze", http.HandlerFunc(handler.Analyze))
	}
}

// Handler is the entrypoint for serverless deployments, where there is
// no main loop to build the router.
func Handler(w http.ResponseWriter, r *http.Request) {
	if token := os.Getenv("PASSWORD"); token != "" {
		if r.URL.Query().Get("pass") != token {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte("bad password"))
			return
		}
	}
	once.Do(setup)
	if initErr != nil {
		log.Errorf("setup failed: %s", initErr)
		http.Error(w, initErr.Error(), http.StatusInternalServerError)
		return
	}
	mux.ServeHTTP(w, r)
}
