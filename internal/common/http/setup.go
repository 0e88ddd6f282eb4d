package http

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AlibekovAA/taskflow/backend/internal/common/constants"
	"github.com/AlibekovAA/taskflow/backend/internal/common/httpmetrics"
	"github.com/AlibekovAA/taskflow/backend/internal/common/logger"
)

type BaseOptions struct {
	AllowedOrigin  string
	RequestTimeout time.Duration
	RateLimiter    *StrictRateLimiter
}

// NewBaseRouter returns a chi router carrying the shared middleware chain.
// Routes registered on it see, from the outside in: security headers, CORS,
// recovery, trace id, body size limit, request metrics, rate limit and timeout.
func NewBaseRouter(log *logger.Logger, opts BaseOptions) *chi.Mux {
	r := chi.NewRouter()

	r.NotFound(NotFoundHandler)
	r.MethodNotAllowed(MethodNotAllowedHandler)

	r.Use(SecurityHeadersMiddleware)
	r.Use(ContentSecurityPolicyMiddleware(""))
	r.Use(CORSMiddleware(opts.AllowedOrigin))
	r.Use(RecoveryMiddleware(log))
	r.Use(TraceIDMiddleware)
	r.Use(MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize))
	r.Use(httpmetrics.New().Wrap)
	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter.Middleware)
	}
	r.Use(WithTimeout(opts.RequestTimeout))

	return r
}
