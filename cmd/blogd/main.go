// blogd runs the blog site. All configuration comes from environment
// variables; SESSION_SECRET is required.
package main

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/abarak/dailygrind/blog"
	"github.com/abarak/dailygrind/views"
)

func main() {
	cfg := blog.Config{
		Name:           envOr("SITE_NAME", "Daily Grind"),
		URL:            strings.TrimSuffix(envOr("SITE_URL", "http://localhost:3000"), "/"),
		Addr:           envOr("ADDR", ":3000"),
		DatabasePath:   envOr("DATABASE_PATH", "data/blog.db"),
		SessionSecret:  mustEnv("SESSION_SECRET"),
		CookieSecure:   strings.EqualFold(os.Getenv("COOKIE_SECURE"), "true"),
		HashIterations: envInt("HASH_ITERATIONS"),
	}

	app := blog.New(cfg, views.Blog(cfg.Name), blog.WithStaticDir(envOr("STATIC_DIR", "public")))
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

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("required environment variable %s is not set", key)
	}
	return v
}

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("environment variable %s must be an integer, got %q", key, v)
	}
	return n
}
