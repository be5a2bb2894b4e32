package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/target/mmk-backoffice/config"
	"github.com/target/mmk-backoffice/internal/adapters/backendapi"
	"github.com/target/mmk-backoffice/internal/observability/metrics"
	"github.com/target/mmk-backoffice/internal/observability/statsd"
	"github.com/target/mmk-backoffice/internal/ports"
	"github.com/target/mmk-backoffice/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Sessions      *service.SessionStore
	Backend       *backendapi.Client
	Auth          *service.AuthService
	Dashboard     *service.DashboardService
	Organizations *service.OrganizationService
	Users         *service.UserService
	Admins        *service.AdminService
	Settings      *service.SettingsService
	AuditLog      *service.AuditLogService
	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	Metrics       *metrics.Recorder
	MetricsSink   *statsd.Client
	MetricsConfig config.ObservabilityMetricsConfig
	// MetricsHandler serves the Prometheus registry; nil when Prometheus is disabled.
	MetricsHandler http.Handler
}

// Close flushes and releases observability resources.
func (o ObservabilityContainer) Close() error {
	if o.MetricsSink == nil {
		return nil
	}
	return o.MetricsSink.Close()
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config *config.AppConfig
	// Storage persists the session. Nil runs the session store non-interactive.
	Storage ports.SessionStorage
	// Navigator applies forced navigations after the backend rejects the credential.
	Navigator ports.Navigator
	// Transport is the base transport under the Authorizer. Defaults to http.DefaultTransport.
	Transport http.RoundTripper
	Logger    *slog.Logger
}

// buildObservability configures the StatsD sink and the Prometheus registry.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	obs := ObservabilityContainer{MetricsConfig: cfg.Metrics}

	var sink statsd.Sink
	if cfg.Metrics.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled: true,
			Address: cfg.Metrics.StatsdAddress,
			Prefix:  cfg.Metrics.Prefix,
			Logger:  logger,
		})
		if err != nil {
			logger.Error("failed to initialise statsd client", "error", err)
		} else {
			obs.MetricsSink = client
			sink = client
		}
	}

	var registry *prometheus.Registry
	if cfg.Metrics.PrometheusEnabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		obs.MetricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	}

	recorderOpts := metrics.Options{Sink: sink, Namespace: cfg.Metrics.Prefix}
	if registry != nil {
		recorderOpts.Registry = registry
	}
	obs.Metrics = metrics.NewRecorder(recorderOpts)
	return obs
}

// newBackendClient builds the REST client whose transport is the Authorizer.
func newBackendClient(deps *ServiceDeps, sessions *service.SessionStore, recorder *metrics.Recorder, logger *slog.Logger) (*backendapi.Client, error) {
	authorizer := backendapi.NewAuthorizer(backendapi.AuthorizerOptions{
		Base:        deps.Transport,
		Credentials: sessions,
		Sessions:    sessions,
		Navigator:   deps.Navigator,
		Metrics:     recorder,
		Logger:      logger,
	})
	return backendapi.NewClient(backendapi.ClientOptions{
		BaseURL: deps.Config.Backend.BaseURL,
		HTTPClient: &http.Client{
			Transport: authorizer,
			Timeout:   deps.Config.Backend.Timeout,
		},
		Logger: logger,
	})
}

// NewServices wires the session store, the backend client and the page services.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps require a config")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	obs := buildObservability(logger, deps.Config.Observability)

	sessions := service.NewSessionStore(service.SessionStoreOptions{
		Storage: deps.Storage,
		Logger:  logger,
	})
	sessions.Subscribe(obs.Metrics.ObserveSession)

	client, err := newBackendClient(deps, sessions, obs.Metrics, logger)
	if err != nil {
		if closeErr := obs.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close metrics sink: %w", closeErr))
		}
		return ServiceContainer{}, fmt.Errorf("create backend client: %w", err)
	}

	auditLog := service.NewAuditLogService(client)

	return ServiceContainer{
		Sessions: sessions,
		Backend:  client,
		Auth: service.NewAuthService(service.AuthServiceOptions{
			API:      client,
			Sessions: sessions,
			Logger:   logger,
		}),
		Dashboard: service.NewDashboardService(service.DashboardServiceOptions{
			Stats:    client,
			AuditLog: auditLog,
			Logger:   logger,
		}),
		Organizations: service.NewOrganizationService(service.OrganizationServiceOptions{API: client}),
		Users: service.NewUserService(service.UserServiceOptions{
			API:       client,
			AppDomain: deps.Config.Backend.AppDomain,
		}),
		Admins: service.NewAdminService(service.AdminServiceOptions{
			API:     client,
			Session: sessions,
		}),
		Settings:      service.NewSettingsService(client),
		AuditLog:      auditLog,
		Observability: obs,
	}, nil
}
