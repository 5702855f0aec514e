package cors

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type Middleware struct {
	logger  *zap.Logger
	origins map[string]struct{}
}

func NewMiddleware(logger *zap.Logger, allowOrigins []string) *Middleware {
	origins := make(map[string]struct{}, len(allowOrigins))
	for _, origin := range allowOrigins {
		origins[strings.TrimRight(origin, "/")] = struct{}{}
	}

	logger.Info("CORS middleware initialized", zap.Strings("allow_origins", allowOrigins))

	return &Middleware{
		logger:  logger,
		origins: origins,
	}
}

func (m *Middleware) HandlerFunc(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && m.allowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			w.Header().Set("Access-Control-Max-Age", "86400")
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next(w, r)
	}
}

func (m *Middleware) allowed(origin string) bool {
	if _, ok := m.origins["*"]; ok {
		return true
	}
	_, ok := m.origins[strings.TrimRight(origin, "/")]
	return ok
}
