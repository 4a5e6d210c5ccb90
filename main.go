package main

import (
	"errors"
	"net/http"
	"os"

	"github.com/monetapp/moneta/internal/app"
	log "github.com/sirupsen/logrus"
)

func init() {
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			log.Fatalf("invalid LOG_LEVEL %q: %v", level, err)
		}
		log.SetLevel(parsed)
	}
	if os.Getenv("LOG_FORMAT") == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}
}

func main() {
	application, err := app.NewApplication()
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	if err := application.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
