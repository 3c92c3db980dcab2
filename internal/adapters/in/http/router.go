// internal/adapters/in/http/router.go
package httpin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"storefront/internal/adapters/in/http/handler"
	"storefront/internal/adapters/in/http/middleware"
	"storefront/internal/adapters/in/http/response"
	"storefront/internal/application/usecase"
)

// RouterDeps collects the usecases and middleware inputs injected from the container.
type RouterDeps struct {
	CartUC    *usecase.CartUsecase
	ProductUC *usecase.ProductUsecase

	Verifier       middleware.TokenVerifier
	AllowedOrigins []string
	Logger         zerolog.Logger
}

// NewRouter builds the full API handler.
//
// Chain order: request logger (outermost, so every response is logged) -> CORS
// (so even a recovered panic carries CORS headers) -> recover -> routes.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.CORS(deps.AllowedOrigins))
	r.Use(middleware.Recover)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", Healthz)

	r.Route("/api", func(api chi.Router) {
		if deps.ProductUC != nil {
			api.Route("/products", handler.NewProductHandler(deps.ProductUC).Routes)
		} else {
			deps.Logger.Warn().Str("component", "router").Msg("nil ProductUC: /api/products not mounted")
		}

		if deps.CartUC != nil {
			auth := &middleware.UserAuthMiddleware{Verifier: deps.Verifier}
			api.Route("/cart", func(cr chi.Router) {
				cr.Use(auth.Handler)
				handler.NewCartHandler(deps.CartUC).Routes(cr)
			})
		} else {
			deps.Logger.Warn().Str("component", "router").Msg("nil CartUC: /api/cart not mounted")
		}
	})

	return r
}

// Healthz answers liveness probes; it is also served before the container is ready.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
