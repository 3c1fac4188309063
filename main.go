package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"runtime"

	"github.com/studyware/tutor-gemini/config"
	"github.com/studyware/tutor-gemini/gcs"
	"github.com/studyware/tutor-gemini/gemini"
	"github.com/studyware/tutor-gemini/tutor"
	"github.com/studyware/tutor-gemini/util/middleware"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

func init() {
	log.SetLevel(config.GetLogLevel())
	log.SetOutput(os.Stdout)
	log.SetFormatter(&log.TextFormatter{
		DisableColors:   runtime.GOOS == "windows",
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	config.AddConfigChangeCallback(func() {
		log.SetLevel(config.GetLogLevel())
	})
}

func main() {
	config.Init()
	cfg := config.ReadConfig()
	ctx := context.Background()

	gen, err := gemini.NewGenerator(ctx, cfg.ProjectID, cfg.LocationID, cfg.ServiceAccountJSON, cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalln(err)
	}

	var uploads tutor.Uploader
	if cfg.BucketName != "" {
		uploader, err := gcs.NewUploader(ctx, []byte(cfg.ServiceAccountJSON))
		if err != nil {
			log.Fatalln(err)
		}
		defer uploader.Close()
		uploads = uploader
	} else {
		log.Warnln("BUCKET_NAME is not set, /api/analyze is disabled")
	}

	handler := tutor.NewHandler(gen, uploads, cfg.ModelID, cfg.BucketName)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)

	r.Post("/api/ask", handler.Ask)
	r.Post("/api/quiz", handler.Quiz)
	if uploads != nil {
		r.Post("/api/analyze", handler.Analyze)
	}

	l, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		log.Fatalln(err)
	}
	log.Infof("Server listening at %s", l.Addr())
	if err = http.Serve(l, r); err != nil {
		log.Fatalln(err)
	}
}
