package middleware

import (
	"net/http"
)

// CORS permits cross-origin requests from any origin on every route and
// answers OPTIONS preflight requests directly, before authorization or
// storage are touched.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")

		if r.Method == http.MethodOptions {
			h.Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"message":"Preflight request accepted"}`)) //nolint:errcheck
			return
		}

		next.ServeHTTP(w, r)
	})
}
