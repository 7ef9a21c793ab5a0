package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/identity/internal/auth/metrics"
	"github.com/aussiebroadwan/identity/internal/auth/service"
	"github.com/aussiebroadwan/identity/internal/auth/store"
	"github.com/aussiebroadwan/identity/pkg/httpx"
	"github.com/aussiebroadwan/identity/pkg/jwtx"
	"github.com/aussiebroadwan/identity/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/aussiebroadwan/identity/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux     *http.ServeMux
	handler http.Handler

	keys         *jwtx.KeyManager
	issuer       string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	// CookieSecure marks the session cookie Secure.
	CookieSecure bool

	// MetricsEnabled exposes /metrics.
	MetricsEnabled bool
	Metrics        metrics.Recorder

	SessionService   *service.SessionService
	ClientService    *service.ClientService
	AuthorizeService *service.AuthorizeService
	TokenService     *service.TokenService
	UserInfoService  *service.UserInfoService
}

func NewRouter(
	keys *jwtx.KeyManager,
	issuer, buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	return &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		issuer:       issuer,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		Metrics:      metrics.NewNoopMetrics(),
	}
}

// ApplyRoutes registers every endpoint and builds the middleware chain. It
// must be called once, after the services are set.
func (r *Router) ApplyRoutes() {
	r.registerWellKnown()
	r.registerSession()
	r.registerOAuth2()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())

	r.handler = httpx.Chain(r.Mux,
		otelhttp.NewMiddleware("identity",
			otelhttp.WithSpanNameFormatter(func(_ string, req *http.Request) string {
				if _, pattern := r.Mux.Handler(req); pattern != "" {
					return pattern
				}
				return req.Method + " " + req.URL.Path
			}),
		),
		slogx.HTTPMiddleware(r.logger),
		metrics.HTTPMiddleware(r.Metrics, r.Mux),
	)
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Identity Service API
//	@version		0.1.0
//	@description	Single-tenant OpenID Connect provider implementing the authorization code grant.
//	@description
//	@description	Session and identity tokens are signed using RS256 and can be verified using the JWKS endpoint.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/identity
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Opaque access token. Format: "Bearer {token}".
//
//	@securityDefinitions.apikey	SessionCookie
//	@in							cookie
//	@name						token
//	@description				Session token set by /api/login and /api/register.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

func (r *Router) registerWellKnown() {
	r.Mux.Handle("GET /.well-known/openid-configuration", DiscoveryHandler(r.issuer))
	r.Mux.Handle("GET /.well-known/jwks.json", JWKSHandler(r.keys))
}

func (r *Router) registerSession() {
	h := &SessionHandler{
		SessionService: r.SessionService,
		CookieSecure:   r.CookieSecure,
	}

	r.Mux.HandleFunc("POST /api/register", h.HandleRegister)
	r.Mux.HandleFunc("POST /api/login", h.HandleLogin)
}

func (r *Router) registerOAuth2() {
	r.Mux.Handle("GET /api/client/{client_id}/info", &ClientInfoHandler{ClientService: r.ClientService})
	r.Mux.Handle("POST /api/approve_authorize", &ApproveHandler{AuthorizeService: r.AuthorizeService})
	r.Mux.Handle("POST /api/token", &TokenHandler{TokenService: r.TokenService})
	r.Mux.Handle("GET /api/userinfo", &UserInfoHandler{UserInfoService: r.UserInfoService})
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys))

	if r.MetricsEnabled {
		r.Mux.Handle("GET /metrics", promhttp.Handler())
	}
}
