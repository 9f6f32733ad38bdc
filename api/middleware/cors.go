package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS lets the dashboard front-end call the API from the configured origins.
// The API is read-mostly and carries no credentials.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader, "Content-Disposition"},
		MaxAge:         300,
	}).Handler
}
