// Package app wires together the castle-rush server's components: the unit
// catalog, the structured-logging router, the room manager, the websocket
// transport, and the discovery HTTP surface. It mirrors the shape of the
// teacher's internal/app.Run — read config from the environment, build a
// logging.Router, start the simulation, serve HTTP — generalized from one
// hub to many independently-goroutined rooms.
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"castlerush/internal/catalog"
	"castlerush/internal/net/ws"
	"castlerush/internal/registry"
	"castlerush/internal/room"
	"castlerush/internal/sink"
	"castlerush/internal/telemetry"
	"castlerush/logging"
	loggingSinks "castlerush/logging/sinks"

	"go.uber.org/zap"
)

// Config carries the dependencies a caller (main, or a test) may want to
// override. Every field is optional; Run fills in defaults the way the
// teacher's app.Run does.
type Config struct {
	Logger telemetry.Logger
}

// Run builds the full server and blocks serving HTTP until ctx is
// cancelled.
func Run(ctx context.Context, cfg Config) error {
	telemetryLogger := cfg.Logger
	if telemetryLogger == nil {
		telemetryLogger = telemetry.WrapLogger(log.Default())
	}

	fallbackLogger := log.Default()
	if provider, ok := telemetryLogger.(interface{ StandardLogger() *log.Logger }); ok {
		if candidate := provider.StandardLogger(); candidate != nil {
			fallbackLogger = candidate
		}
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		zapLogger = zap.NewNop()
	}
	defer zapLogger.Sync()

	logConfig := logging.DefaultConfig()
	logConfig.EnabledSinks = []string{logging.SinkConsole, logging.SinkZap}
	namedSinks := []logging.NamedSink{
		{Name: logging.SinkConsole, Sink: loggingSinks.NewConsoleSink(os.Stdout, logConfig.Console)},
		{Name: logging.SinkZap, Sink: loggingSinks.NewZapSink(zapLogger)},
	}

	var auditFile *os.File
	if path := os.Getenv("AUDIT_LOG_PATH"); path != "" {
		logConfig.JSON.FilePath = path
		auditFile, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open audit log %q: %w", path, err)
		}
		logConfig.EnabledSinks = append(logConfig.EnabledSinks, logging.SinkJSON)
		namedSinks = append(namedSinks, logging.NamedSink{
			Name: logging.SinkJSON,
			Sink: loggingSinks.NewJSON(auditFile, logConfig.JSON.MaxBatch, logConfig.JSON.FlushInterval),
		})
		defer auditFile.Close()
	}

	router, err := logging.NewRouter(nil, logConfig, namedSinks)
	if err != nil {
		return fmt.Errorf("failed to construct logging router: %w", err)
	}
	defer func() {
		if cerr := router.Close(ctx); cerr != nil {
			telemetryLogger.Printf("failed to close logging router: %v", cerr)
		}
	}()

	var publisher logging.Publisher = router

	catalogRef := catalog.Load()
	reg := registry.New()
	resultSink := sink.NewLoggingSink(publisher)
	manager := room.NewManager(ctx, catalogRef, resultSink, reg, publisher)
	manager.SetMetrics(telemetry.WrapMetrics(router.Metrics()))

	wsHandler := ws.NewHandler(manager, fallbackLogger, publisher)
	discoveryRouter := newDiscoveryRouter(reg, wsHandler)

	port := 2567
	if raw := os.Getenv("PORT"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			port = value
		} else {
			telemetryLogger.Printf("invalid PORT=%q: %v", raw, err)
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", port),
		Handler:           discoveryRouter,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		telemetryLogger.Printf("server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	}
}
