package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/merchkit/checkout/internal/checkout/service"
	"github.com/merchkit/checkout/internal/checkout/store"
	"github.com/merchkit/checkout/pkg/httpx"
	"github.com/merchkit/checkout/pkg/jwtx"
	"github.com/merchkit/checkout/pkg/slogx"

	_ "github.com/merchkit/checkout/api/checkout" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	CaptureService *service.CaptureService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerCapture()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			MerchKit Checkout Service API
//	@version		0.1.0
//	@description	Checkout capture service bridging carts, payment authorization and
//	@description	order creation, including the 3D Secure challenge round-trip backed
//	@description	by short-lived single-use authentication sessions.
//
//	@contact.name				MerchKit Team
//	@contact.url				https://github.com/merchkit/checkout
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Shopper JWT from the identity provider. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerCapture() {
	h := &CaptureHandler{Capture: r.CaptureService}

	// Both capture endpoints sit behind identity resolution and the strict
	// per-IP limit: they drive payment authorizations, which makes them the
	// card-testing surface of the service.
	initial := httpx.Chain(http.HandlerFunc(h.HandleInitial),
		httpx.IdentityMiddleware(r.verifier),
		httpx.RateLimitByIP(httpx.StrictLimit),
	)
	validate := httpx.Chain(http.HandlerFunc(h.HandleValidate),
		httpx.IdentityMiddleware(r.verifier),
		httpx.RateLimitByIP(httpx.StrictLimit),
	)

	r.Mux.Handle("POST /v1/checkout/capture", initial)
	r.Mux.Handle("POST /v1/checkout/capture/validate", validate)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
