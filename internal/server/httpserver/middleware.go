package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/weynak/weynak/internal/common"
	"github.com/weynak/weynak/internal/server/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// requireAuth lets the request through only with a verifiable token.
// A missing header is 401, anything unverifiable is 403.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromHeader(r.Header.Get(common.AuthorizationHeaderName))
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "Access Denied!"})
			return
		}

		claims, err := s.tokens.Verify(token)
		if err != nil {
			if !errors.Is(err, common.ErrTokenExpired) && !errors.Is(err, common.ErrInvalidToken) {
				s.logger.Error(r.Context(), "token verification failed", "error", err)
			}
			writeJSON(w, http.StatusForbidden, messageResponse{Message: "Invalid Token"})
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next(w, r.WithContext(ctx))
	}
}

func claimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}

// tokenFromHeader accepts both a bare token and "Bearer <token>".
func tokenFromHeader(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > len(common.BearerPrefix) && strings.EqualFold(header[:len(common.BearerPrefix)], common.BearerPrefix) {
		return strings.TrimSpace(header[len(common.BearerPrefix):])
	}
	return header
}

// cors allows any origin and answers preflight requests directly.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument is a mux middleware recording request count and latency per
// route template.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		s.metrics.recordRequest(r.Method, route, rec.status, time.Since(start))
	})
}
