// Package kernel assembles the storefront's HTTP handler: the global
// middleware stack followed by every route in app/routes.
package kernel

import (
	"net/http"
	"time"

	gql "github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/electrostore/app/routes"
	"github.com/shashiranjanraj/electrostore/app/services"
	"github.com/shashiranjanraj/electrostore/pkg/metrics"
	"github.com/shashiranjanraj/electrostore/pkg/middleware"
	"github.com/shashiranjanraj/electrostore/pkg/reqid"
	"github.com/shashiranjanraj/electrostore/pkg/router"
	"github.com/shashiranjanraj/electrostore/pkg/session"
)

// Options tune the kernel. A zero RateLimit disables per-IP limiting; a zero
// Session falls back to session.DefaultOptions.
type Options struct {
	RateLimit int
	Session   session.Options
}

type HTTPKernel struct {
	router  *router.Router
	limiter *middleware.Limiter
}

func NewHTTPKernel(svc *services.Services, schema gql.Schema, opts Options) *HTTPKernel {
	if opts.Session.CookieName == "" {
		opts.Session = session.DefaultOptions()
	}

	k := &HTTPKernel{router: router.New()}
	r := k.router

	// Outermost first.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(session.Middleware(opts.Session))
	r.Use(middleware.Authenticate)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	if opts.RateLimit > 0 {
		k.limiter = middleware.NewLimiter(opts.RateLimit, time.Minute)
		r.Use(k.limiter.Middleware)
	}

	routes.Register(r, svc, schema)
	return k
}

func (k *HTTPKernel) Handler() http.Handler { return k.router.Handler() }

func (k *HTTPKernel) Router() *router.Router { return k.router }

// Limiter is nil when rate limiting is off.
func (k *HTTPKernel) Limiter() *middleware.Limiter { return k.limiter }
