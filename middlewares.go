package ideaboard

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
)

// middleware is a convenient type for declaring middlewares.
type middleware func(httprouter.Handle) httprouter.Handle

// contextKey is a type for storing values in each request context.
type contextKey string

// String returns a stringified context key.
func (k contextKey) String() string { return string(k) }

// ctxKeyRequestID is the context key for the id assigned to each request.
var ctxKeyRequestID = contextKey("request_id")

// ctxRequestID is a helper func to fetch the request id from the context.
func ctxRequestID(ctx context.Context) string {
	v := ctx.Value(ctxKeyRequestID)
	if v != nil {
		return v.(string)
	}
	return ""
}

// withMiddlewares is a helper function to declare routes with middlewares more easily.
// The caller declares its routes in the body on the f function, calling f's argument on its
// httprouter.Handle to wrap them.
func withMiddlewares(f func(middleware), middlewares ...middleware) {
	wrapper := func(handle httprouter.Handle) httprouter.Handle {
		h := handle
		for i := len(middlewares) - 1; i >= 0; i-- {
			m := middlewares[i]
			h = m(h)
		}
		return h
	}

	f(wrapper)
}

// requestIDMiddleware assigns a unique id to each request, exposes it in the
// X-Request-ID response header and stores it in the request context so log
// lines can be correlated.
func (s *Server) requestIDMiddleware() middleware {
	return func(next httprouter.Handle) httprouter.Handle {
		return httprouter.Handle(func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
			id := uuid.New().String()
			w.Header().Set("X-Request-ID", id)

			ctx := context.WithValue(r.Context(), ctxKeyRequestID, id)
			next(w, r.WithContext(ctx), p)
		})
	}
}

// corsMiddleware sets the cross-origin headers. The policy is permissive: the
// request's own origin is echoed back whatever it is, so every origin ends up
// accepted. The configured origin only serves as the fallback value when the
// request carries no Origin header.
func (s *Server) corsMiddleware() middleware {
	return func(next httprouter.Handle) httprouter.Handle {
		return httprouter.Handle(func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
			s.writeCORSHeaders(w, r)
			next(w, r, p)
		})
	}
}

func (s *Server) writeCORSHeaders(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin == "" {
		origin = s.config.AllowedOrigin
	}
	if origin == "" {
		origin = "*"
	}

	w.Header().Set("Access-Control-Allow-Origin", origin)
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// logRequestMiddleware logs each request with its duration. Health checks are
// kept out of the logs.
func (s *Server) logRequestMiddleware() middleware {
	return func(next httprouter.Handle) httprouter.Handle {
		return httprouter.Handle(func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
			start := time.Now()
			next(w, r, p)

			if r.URL.Path == "/health" {
				return
			}

			s.Logger.Info().
				Str("request_id", ctxRequestID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Dur("duration", time.Since(start)).
				Msg("Request served")
		})
	}
}
