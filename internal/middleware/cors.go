package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/rs/cors"
)

// Cors builds the CORS policy for the level API. CORS_ALLOWED_ORIGINS
// is a comma-separated origin list; unset, every origin is allowed,
// which suits a self-hosted instance played from arbitrary frontends.
// Credentials stay enabled either way because auth rides on cookies.
func Cors() func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		options.AllowedOrigins = strings.Split(origins, ",")
	} else {
		options.AllowOriginFunc = func(origin string) bool {
			return true
		}
	}

	return cors.New(options).Handler
}
