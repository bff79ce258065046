// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const metricsShutdownTimeout = 5 * time.Second

// metricsServer serves the default Prometheus registry on /metrics.
type metricsServer struct {
	srv  *http.Server
	done chan struct{}
}

// startMetricsServer listens on addr and reports the bound address to out,
// which matters when addr asks for port 0.
func startMetricsServer(addr string, out io.Writer, logger zerolog.Logger) (*metricsServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listen: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	m := &metricsServer{
		srv: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		done: make(chan struct{}),
	}
	fmt.Fprintf(out, "metrics on http://%s/metrics\n", ln.Addr())
	logger.Info().Str("addr", ln.Addr().String()).Msg("metrics server listening")

	go func() {
		defer close(m.done)
		if err := m.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().
				Err(err).
				Str("event", "metrics.server.failed").
				Msg("metrics server failed")
		}
	}()
	return m, nil
}

// Shutdown stops the server and waits for it to exit.
func (m *metricsServer) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
	defer cancel()
	_ = m.srv.Shutdown(ctx)
	<-m.done
}

// writeMetricsFile dumps the default registry in the text exposition format,
// for node_exporter's textfile collector.
func writeMetricsFile(path string, logger zerolog.Logger) {
	if path == "" {
		return
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("failed to write metrics file")
	}
}
