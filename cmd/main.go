package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"

	"logs-dashboard/config"
	_ "logs-dashboard/docs"
	"logs-dashboard/internal/chart"
	"logs-dashboard/internal/controller"
	"logs-dashboard/internal/credential"
	"logs-dashboard/internal/elasticsearch"
	"logs-dashboard/internal/gateway"
	"logs-dashboard/internal/kafka"
	"logs-dashboard/internal/metrics"
	"logs-dashboard/internal/parser"
	"logs-dashboard/internal/repository"
	"logs-dashboard/internal/scheduler"
	"logs-dashboard/internal/service"
)

// @title           Logs Dashboard API
// @version         1.0
// @description     Dashboard over the API gateway's request logs: KPIs, chart facets, recent logs, auto-refresh, session and task forwarding.

// @host      localhost:8080
// @BasePath  /
// @schemes   http https

// @tag.name         dashboard
// @tag.description  Dashboard state, refresh and auto-refresh

// @tag.name         charts
// @tag.description  Chart facets and their images

// @tag.name         session
// @tag.description  Gateway sign-in state

// @tag.name         tasks
// @tag.description  Task API forwarding

// @tag.name         health
// @tag.description  Log source health check

func main() {
	app := fx.New(
		// Core Dependencies
		fx.Provide(
			NewConfig,
			NewDashboardMetrics,
		),
		// Infrastructure Dependencies
		fx.Provide(
			NewGinEngine,
			NewCredentialStore,
			NewGatewayClient,
			NewLogBackend,
			func(b repository.LogBackend) repository.LogSource { return b },
			func(b repository.LogBackend) repository.HealthChecker { return b },
			NewImageSurfaces,
			NewChartRenderer,
			scheduler.NewRefreshScheduler,
			kafka.NewSnapshotPublisher,
		),
		// Services and controllers
		fx.Provide(
			service.NewDashboardService,
			func(c *gateway.Client) service.AuthGateway { return c },
			func(c *gateway.Client) service.TaskGateway { return c },
			func(c *gateway.Client) controller.ExportLinker { return c },
			service.NewSessionService,
			service.NewTaskService,
			controller.NewDashboardController,
			controller.NewSessionController,
			controller.NewTaskController,
			controller.NewHealthController,
		),
		fx.Invoke(RegisterAPIRoutes, RegisterDashboardLifecycle),
	)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelStart()
	if err := app.Start(startCtx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}
	<-app.Done()

	stopCtx, cancelStop := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStop()
	log.Info().Msg("Shutting down application...")
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown due to error or timeout")
	}
	log.Info().Msg("Dashboard stopped. Exiting.")
}

func NewConfig() (*config.Config, error) {
	return config.NewConfig()
}

func NewDashboardMetrics() *metrics.DashboardMetrics {
	return metrics.NewDashboardMetrics(prometheus.DefaultRegisterer)
}

func NewGinEngine(m *metrics.DashboardMetrics) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(m.GinMiddleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// --- Factory Functions ---

func NewCredentialStore(cfg *config.Config) credential.Store {
	return credential.NewStore(cfg.Credential.FilePath)
}

func NewGatewayClient(cfg *config.Config, store credential.Store) (*gateway.Client, error) {
	return gateway.New(cfg.Gateway.BaseURL, store,
		gateway.WithTaskBaseURL(cfg.Gateway.TaskAPIBaseURL),
		gateway.WithTimeout(cfg.Gateway.Timeout),
	)
}

// NewLogBackend picks where stats and recent logs come from.
func NewLogBackend(cfg *config.Config, gw *gateway.Client) (repository.LogBackend, error) {
	switch cfg.LogSource.Kind {
	case config.LogSourceGateway, "":
		log.Info().Str("base_url", gw.BaseURL()).Msg("Reading logs from the API gateway")
		return gw, nil
	case config.LogSourceElasticsearch:
		client, err := elasticsearch.NewTypedClient(context.Background(), cfg.Elasticsearch, elasticsearch.DefaultConnectPolicy)
		if err != nil {
			return nil, err
		}
		log.Info().Str("index", cfg.Elasticsearch.LogIndex).Msg("Reading logs from Elasticsearch")
		return elasticsearch.NewLogSource(client, cfg.Elasticsearch.LogIndex, cfg.Elasticsearch.MaxRecords), nil
	case config.LogSourceFile:
		log.Info().Str("file", cfg.LogSource.FilePath).Msg("Reading logs from an export file")
		return parser.NewFileSource(cfg.LogSource.FilePath, parser.NewExportLineParser()), nil
	default:
		return nil, fmt.Errorf("unknown log source %q", cfg.LogSource.Kind)
	}
}

func NewImageSurfaces(cfg *config.Config) chart.ImageSurfaces {
	return chart.NewImageSurfaces(chart.Format(cfg.Chart.Format), cfg.Chart.Width, cfg.Chart.Height)
}

func NewChartRenderer(surfaces chart.ImageSurfaces, m *metrics.DashboardMetrics) *chart.Renderer {
	return chart.NewRenderer(chart.Mounts(surfaces), chart.WithFailureHook(func(facet chart.Facet, op string, err error) {
		m.RenderFailed(string(facet), op)
	}))
}

// --- Invoker Functions ---

func RegisterAPIRoutes(
	lifecycle fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	dashboardController *controller.DashboardController,
	sessionController *controller.SessionController,
	taskController *controller.TaskController,
	healthController *controller.HealthController,
) {
	controller.RegisterDashboardRoutes(router, dashboardController)
	controller.RegisterSessionRoutes(router, sessionController)
	controller.RegisterTaskRoutes(router, taskController)
	controller.RegisterHealthRoutes(router, healthController)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Starting HTTP server on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error().Err(err).Msg("HTTP server ListenAndServe error")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Shutting down HTTP server...")
			return server.Shutdown(ctx)
		},
	})
}

// RegisterDashboardLifecycle runs the initial load cycle, arms auto-refresh
// and tears the dashboard down on stop.
func RegisterDashboardLifecycle(lc fx.Lifecycle, cfg *config.Config, dashboardService service.DashboardService) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if cfg.Dashboard.LoadOnStart {
				go func() {
					ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
					defer cancel()
					if err := dashboardService.LoadCycle(ctx); err != nil {
						log.Warn().Err(err).Msg("Initial dashboard load failed")
					}
				}()
			}
			if cfg.Dashboard.AutoRefreshInterval > 0 {
				return dashboardService.SetAutoRefresh(cfg.Dashboard.AutoRefreshInterval)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Tearing down dashboard...")
			return dashboardService.Teardown(ctx)
		},
	})
}
