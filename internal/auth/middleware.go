package auth

import (
	"encoding/json"
	"net/http"
)

// Middleware gates requests on a valid bearer credential. It rejects before
// any pipeline runs and never passes identity content downstream; the
// handlers only ever see requests that already carried a valid token.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := FromHeader(r.Header.Get("Authorization"))
		if err == nil {
			err = v.Verify(token)
		}
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid Token"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
