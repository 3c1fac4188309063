package config

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	log "github.com/sirupsen/logrus"
)

type Config struct {
	ProjectID          string
	LocationID         string
	ModelID            string
	ServiceAccountJSON string
	BucketName         string
	GeminiAPIKey       string
	Listen             string
}

var (
	mu        sync.RWMutex
	current   Config
	callbacks []func()
	initOnce  sync.Once
)

// Init loads the config from the environment and installs a SIGHUP
// handler for reloading it in place.
func Init() {
	initOnce.Do(func() {
		load()
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGHUP)
		go func() {
			for range ch {
				log.Infoln("SIGHUP received, reloading config")
				load()
				mu.RLock()
				cbs := append([]func(){}, callbacks...)
				mu.RUnlock()
				for _, cb := range cbs {
					cb()
				}
			}
		}()
	})
}

func load() {
	cfg := Config{
		ProjectID:          os.Getenv("PROJECT_ID"),
		LocationID:         envOr("LOCATION_ID", "us-central1"),
		ModelID:            envOr("MODEL_ID", "gemini-1.5-flash-002"),
		ServiceAccountJSON: os.Getenv("SERVICE_ACCOUNT_JSON"),
		BucketName:         os.Getenv("BUCKET_NAME"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		Listen:             envOr("LISTEN", ":7458"),
	}
	if cfg.ServiceAccountJSON == "" {
		if path := os.Getenv("SERVICE_ACCOUNT_FILE"); path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				log.Errorf("can't read service account file %q: %s", path, err)
			} else {
				cfg.ServiceAccountJSON = string(data)
			}
		}
	}
	mu.Lock()
	current = cfg
	mu.Unlock()
}

func envOr(key string, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func ReadConfig() Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

func AddConfigChangeCallback(cb func()) {
	mu.Lock()
	defer mu.Unlock()
	callbacks = append(callbacks, cb)
}

func GetLogLevel() log.Level {
	level, err := log.ParseLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		return log.InfoLevel
	}
	return level
}

func GetIsDebug() bool {
	return os.Getenv("DEBUG") != "" || GetLogLevel() >= log.DebugLevel
}
