// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	httpin "storefront/internal/adapters/in/http"
	"storefront/internal/adapters/in/http/middleware"
	appcfg "storefront/internal/infra/config"
	"storefront/internal/infra/logging"
	"storefront/internal/platform/di"
	shared "storefront/internal/platform/di/shared"
)

// atomicHandler allows swapping the underlying handler at runtime safely.
type atomicHandler struct {
	v atomic.Value // stores http.Handler
}

func newAtomicHandler(initial http.Handler) *atomicHandler {
	ah := &atomicHandler{}
	if initial == nil {
		initial = http.NotFoundHandler()
	}
	ah.v.Store(initial)
	return ah
}

func (h *atomicHandler) Store(next http.Handler) {
	if next == nil {
		return
	}
	h.v.Store(next)
}

func (h *atomicHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.v.Load().(http.Handler).ServeHTTP(w, r)
}

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		logging.Setup("info", "json", os.Stderr)
		log.Fatal().Err(err).Str("component", "boot").Msg("invalid configuration")
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	boot := logging.Component("boot")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start listening ASAP with a healthz-only mux.
	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/healthz", httpin.Healthz)
	switcher := newAtomicHandler(middleware.CORS(cfg.CORSAllowedOrigins)(healthMux))

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           switcher,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var infraHolder atomic.Pointer[shared.Infra]

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		boot.Info().Str("addr", srv.Addr).Str("env", cfg.AppEnv).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Heavy DI init in background; then swap in the full router.
	g.Go(func() error {
		initCtx, cancel := context.WithTimeout(gctx, 2*time.Minute)
		defer cancel()

		infra, err := shared.NewInfra(initCtx, cfg)
		if err != nil {
			boot.Error().Err(err).Msg("shared infra init failed (serving /healthz only)")
			return nil
		}
		infraHolder.Store(infra)

		cont, err := di.NewContainer(initCtx, infra)
		if err != nil {
			boot.Error().Err(err).Msg("di init failed (serving /healthz only)")
			return nil
		}

		if gctx.Err() != nil {
			return nil
		}
		switcher.Store(cont.Router(logger))
		boot.Info().
			Str("store", cfg.StoreBackend).
			Str("catalog", cfg.CatalogBackend).
			Bool("auth", cont.Verifier != nil).
			Msg("handler switched to api router")
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		boot.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	runErr := g.Wait()

	if infra := infraHolder.Load(); infra != nil {
		boot.Info().Msg("closing infra resources")
		if err := infra.Close(); err != nil {
			boot.Error().Err(err).Msg("infra close error")
		}
	}

	if runErr != nil {
		boot.Fatal().Err(runErr).Msg("server stopped with error")
	}
	boot.Info().Msg("server stopped")
}
