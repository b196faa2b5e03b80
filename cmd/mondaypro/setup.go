package main

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robby/mondaypro/internal/auth"
	"github.com/robby/mondaypro/internal/config"
	"github.com/robby/mondaypro/internal/logging"
	"github.com/robby/mondaypro/internal/monday"
	"github.com/robby/mondaypro/internal/transport"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// runtime is the wired dependency graph shared by every subcommand.
type runtime struct {
	cfg      *config.Config
	log      *logrus.Logger
	registry *prometheus.Registry
	client   *monday.Client

	metricsServer *http.Server
}

// setup loads configuration and builds logger, transport and client.
func setup(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if metricsAddr != "" {
		cfg.MetricsAddr = metricsAddr
	}

	log := newLogger(cfg)

	var oauthSource oauth2.TokenSource
	if cfg.Mode() == auth.ModeOAuth2 {
		oauthSource, err = cfg.OAuth2Settings().TokenSource(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to configure OAuth2")
		}
	}
	tokens := auth.ChainProvider{&auth.KeyringProvider{}, &auth.EnvProvider{}}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	retry := transport.DefaultRetryConfig()
	retry.Attempts = cfg.Retry.Attempts
	retry.Delay = cfg.Retry.Delay

	requester := transport.NewHTTPRequester(transport.Config{
		HTTPClient:  &http.Client{Timeout: cfg.Timeout},
		Credentials: transport.NewCredentials(tokens, oauthSource),
		RateLimit:   rate.Limit(cfg.RateLimit.PerSecond),
		Burst:       cfg.RateLimit.Burst,
		Retry:       retry,
		Metrics:     transport.NewMetrics(registry),
		Logger:      log,
	})

	credential := auth.CredentialFor(cfg.Mode())
	httpClient, err := requester.HTTPClient(credential)
	if err != nil {
		return nil, errors.Wrapf(err, "credential %s is not configured", credential)
	}

	client := monday.New(requester,
		monday.WithMode(cfg.Mode()),
		monday.WithTransportOptions(cfg.TransportOptions()...),
		monday.WithHTTPClient(cfg.APIURL, httpClient),
		monday.WithMaxPages(cfg.MaxPages),
		monday.WithLogger(log),
	)

	rt := &runtime{
		cfg:      cfg,
		log:      log,
		registry: registry,
		client:   client,
	}

	if cfg.MetricsAddr != "" {
		if err := rt.serveMetrics(cfg.MetricsAddr); err != nil {
			return nil, err
		}
	}

	log.WithFields(logrus.Fields{
		"auth_mode":           cfg.Mode(),
		logging.CredentialKey: credential,
		"api_url":             cfg.APIURL,
	}).Debug("Client configured")

	return rt, nil
}

// newLogger applies the config file's log section on top of the environment.
func newLogger(cfg *config.Config) *logrus.Logger {
	logCfg := logging.FromEnv()
	if cfg.Log.Level != "" {
		logCfg.Level = cfg.Log.Level
	}
	if cfg.Log.Format != "" {
		logCfg.Format = logging.Format(cfg.Log.Format)
	}
	if verbose {
		logCfg.Level = "debug"
	}
	return logging.New(logCfg)
}

func (rt *runtime) serveMetrics(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", addr)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(rt.registry, promhttp.HandlerOpts{}))

	rt.metricsServer = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := rt.metricsServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			rt.log.WithError(err).Error("Metrics server stopped")
		}
	}()

	rt.log.WithField("addr", listener.Addr().String()).Info("Serving metrics")
	return nil
}

// Close stops the metrics server, if any.
func (rt *runtime) Close() {
	if rt.metricsServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rt.metricsServer.Shutdown(ctx); err != nil {
		rt.log.WithError(err).Warn("Failed to stop metrics server")
	}
}
