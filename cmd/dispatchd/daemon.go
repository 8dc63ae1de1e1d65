package main

import (
	"context"
	"maps"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/fjordsim/dispatch/internal/config"
	"github.com/fjordsim/dispatch/internal/driver"
	"github.com/fjordsim/dispatch/internal/queue"
)

// stopTimeout bounds how long shutdown waits for outstanding jobs before
// abandoning their tracking. Without --kill-on-exit, remote jobs keep
// running under their scheduler either way.
const stopTimeout = 10 * time.Second

func runServer(ctx context.Context, cfg config.Config, flags *serverFlags) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, os.Interrupt)
	defer stop()

	drv, err := buildDriver(cfg)
	if err != nil {
		return err
	}

	manager := queue.NewManager(drv, queue.Config{
		MaxRunning:   cfg.MaxRunning,
		PollInterval: cfg.PollInterval,
		MaxRuntime:   cfg.MaxRuntime,
	})

	listener, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", cfg.ListenAddr)
	}

	srv := newServer(manager, &cfg)

	metricsServer := serveMetrics(cfg.MetricsAddr)

	serveErrs := make(chan error, 1)
	go func() {
		serveErrs <- srv.start(listener)
	}()

	log.WithFields(log.Fields{
		"addr":    listener.Addr().String(),
		"backend": drv.Name(),
	}).Info("Dispatch server listening")

	var serveErr error
	select {
	case serveErr = <-serveErrs:
	case <-ctx.Done():
		log.Info("Shutting down")
		srv.shutdown()
		<-serveErrs
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	if err := manager.Stop(stopCtx, flags.killOnExit); err != nil {
		log.Warnf("Leaving outstanding jobs to the backend because %s", err)
	}

	if err := drv.Close(); err != nil && !errors.Is(err, driver.ErrDriverBusy) {
		log.Errorf("Failed to close driver because %s", err)
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(), time.Second,
		)
		defer cancel()

		_ = metricsServer.Shutdown(shutdownCtx)
	}

	return serveErr
}

// buildDriver constructs the configured backend and hands it the option
// table.
func buildDriver(cfg config.Config) (driver.Driver, error) {
	switch cfg.Backend {
	case config.BackendLSF:
		options := maps.Clone(cfg.Options)
		if options == nil {
			options = map[string]string{}
		}

		// The queue's poll interval doubles as the driver's bjobs rate
		// limit unless the option table pins its own.
		if _, ok := options[driver.OptionPollInterval]; !ok {
			options[driver.OptionPollInterval] = cfg.PollInterval.String()
		}

		return driver.NewLSFDriver(driver.LSFConfig{Options: options})

	case config.BackendLocal:
		options := maps.Clone(cfg.Options)
		// POLL_INTERVAL is consumed by the queue; the local backend
		// declares no options of its own.
		delete(options, driver.OptionPollInterval)

		if len(options) > 0 {
			return nil, &driver.ConfigurationError{
				Reason: "the local backend takes no options",
			}
		}

		return driver.NewLocalDriver(), nil

	default:
		return nil, &driver.ConfigurationError{
			Option: "backend",
			Value:  cfg.Backend,
			Reason: "unknown backend",
		}
	}
}

// serveMetrics exposes the prometheus registry over HTTP. An empty addr
// disables the endpoint.
func serveMetrics(addr string) *http.Server {
	if addr == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("Failed to serve metrics because %s", err)
		}
	}()

	return srv
}
