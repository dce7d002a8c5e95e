// cafed runs the cafe-directory JSON API.
package main

import (
	"log"
	"os"

	"github.com/abarak/dailygrind/cafe"
	"github.com/abarak/dailygrind/views"
)

func main() {
	cfg := cafe.Config{
		Addr:         envOr("ADDR", ":5000"),
		DatabasePath: envOr("DATABASE_PATH", "data/cafes.db"),
		APIKey:       envOr("API_KEY", ""),
	}

	app := cafe.New(cfg, views.Cafe())
	defer app.Close()

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
