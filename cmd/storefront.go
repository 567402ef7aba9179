package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	cartController "github.com/Alturino/storefront/cart/controller"
	cartRepository "github.com/Alturino/storefront/cart/repository"
	cartService "github.com/Alturino/storefront/cart/service"
	catalogCache "github.com/Alturino/storefront/catalog/cache"
	catalogClient "github.com/Alturino/storefront/catalog/client"
	catalogController "github.com/Alturino/storefront/catalog/controller"
	catalogService "github.com/Alturino/storefront/catalog/service"
	checkoutController "github.com/Alturino/storefront/checkout/controller"
	checkoutService "github.com/Alturino/storefront/checkout/service"
	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/infra"
	"github.com/Alturino/storefront/internal/log"
	"github.com/Alturino/storefront/internal/middleware"
	"github.com/Alturino/storefront/internal/otel"
	notificationController "github.com/Alturino/storefront/notification/controller"
	notificationService "github.com/Alturino/storefront/notification/service"
	preferenceController "github.com/Alturino/storefront/preference/controller"
	preferenceService "github.com/Alturino/storefront/preference/service"
)

const shutdownTimeout = 15 * time.Second

func runStorefrontServer(c context.Context, configName string) {
	cfg := config.Get(c, configName)

	logger := log.Get(cfg.Application.LogPath, cfg.Application).
		With().
		Str(constants.KEY_APP_NAME, constants.APP_STOREFRONT_SERVER).
		Str(constants.KEY_TAG, "main runStorefrontServer").
		Logger()
	logger.Info().Any(constants.KEY_CONFIG, cfg).Msg("initialized config")

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	shutdownFuncs, err := otel.InitOtelSdk(c, constants.APP_STOREFRONT_SERVER, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing redis").Logger()
	logger.Info().Msg("initializing redis")
	cache, err := infra.NewCacheClient(c, cfg.Cache)
	if err != nil {
		err = fmt.Errorf("failed initializing redis with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		shutdownOtel(c, shutdownFuncs)
		return
	}
	logger.Info().Msg("initialized redis")

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing services").Logger()
	logger.Info().Msg("initializing services")
	c = logger.WithContext(c)
	catalog := catalogService.NewCatalogService(
		catalogClient.NewClient(cfg.Catalog),
		catalogCache.NewRedisQueryCache(cache),
		cfg.Catalog,
	)
	cart := cartService.NewCartService(
		c,
		cartRepository.NewRedisCartRepository(cache, cfg.Cart.StorageKey),
	)
	notifications := notificationService.NewNotificationService(cfg.Notification.TTL)
	checkout := checkoutService.NewCheckoutService(cart, notifications, cfg.Checkout.ProcessingDelay)
	theme := preferenceService.NewThemeService(cache)
	logger.Info().Msg("initialized services")

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	router := mux.NewRouter()
	middlewares := []mux.MiddlewareFunc{
		otelmux.Middleware(constants.APP_STOREFRONT_SERVER),
		middleware.Logging,
		middleware.RecoverPanic,
	}
	router.Use(middlewares...)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	catalogController.AttachCatalogController(router, catalog, cart)
	cartController.AttachCartController(router, cart, catalog, notifications)
	checkoutController.AttachCheckoutController(router, checkout, cart)
	notificationController.AttachNotificationController(router, notifications)
	preferenceController.AttachThemeController(router, theme)
	router.NotFoundHandler = middleware.Chain(inHttp.NotFound(), middlewares...)
	router.MethodNotAllowedHandler = middleware.Chain(inHttp.MethodNotAllowed(), middlewares...)
	logger.Info().Msg("initialized router")

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing server").Logger()
	logger.Info().Msg("initializing server")
	server := http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.Port),
		BaseContext:  func(net.Listener) context.Context { return c },
		Handler:      router,
		ReadTimeout:  45 * time.Second,
		WriteTimeout: 45 * time.Second,
	}
	logger.Info().Msg("initialized server")

	go func() {
		logger := logger.With().Str(constants.KEY_PROCESS, "start server").Logger()
		logger.Info().Msgf("start listening request at %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("error=%w occured while server is running", err)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown server")
	}()

	<-c.Done()
	logger = logger.With().Str(constants.KEY_PROCESS, "shutdown server").Logger()
	logger.Info().Msg("received interuption signal shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(c), shutdownTimeout)
	defer cancel()

	logger.Info().Msg("shutting down http server")
	if err = server.Shutdown(shutdownCtx); err != nil {
		err = fmt.Errorf("failed shutting down server with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
	}
	logger.Info().Msg("shutdown http server")

	logger.Info().Msg("stopping notification timers")
	notifications.Close()
	logger.Info().Msg("stopped notification timers")

	logger.Info().Msg("closing redis")
	if err = cache.Close(); err != nil {
		err = fmt.Errorf("failed closing redis with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
	}
	logger.Info().Msg("closed redis")

	shutdownOtel(shutdownCtx, shutdownFuncs)
	logger.Info().Msg("server completely shutdown")
}

func shutdownOtel(c context.Context, shutdownFuncs []otel.ShutdownFunc) {
	logger := zerolog.Ctx(c).With().Str(constants.KEY_PROCESS, "shutting down otel").Logger()
	logger.Info().Msg("shutting down otel")
	if err := otel.ShutdownOtel(c, shutdownFuncs); err != nil {
		err = fmt.Errorf("failed shutting down otel with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("shutdown otel")
}
